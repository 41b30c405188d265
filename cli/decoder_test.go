package cli

import (
	"io"
	"strings"
	"testing"

	"github.com/whatmeme/whatmeme-webapp/types"
)

func TestDecoderCarriesPartialRecords(t *testing.T) {
	d := NewDecoder(nil)

	got := d.Feed([]byte(`data: {"type":"delta","content":"안"}` + "\n\n" + `data: {"type":"del`))
	if len(got) != 1 || got[0].Content != "안" {
		t.Fatalf("first feed = %+v", got)
	}
	got = d.Feed([]byte(`ta","content":"녕"}` + "\n\n" + `data: {"type":"done"}` + "\n\n"))
	if len(got) != 2 || got[0].Content != "녕" || got[1].Type != types.EventType_Done {
		t.Fatalf("second feed = %+v", got)
	}
}

func TestDecoderSkipsNoise(t *testing.T) {
	d := NewDecoder(nil)
	got := d.Feed([]byte(": keepalive\n\nevent: ping\n\ndata: not json\n\ndata: {\"type\":\"done\"}\n\n"))
	if len(got) != 1 || got[0].Type != types.EventType_Done {
		t.Fatalf("events = %+v", got)
	}
}

// oneByteReader returns at most one byte per Read
type oneByteReader struct{ r io.Reader }

func (o oneByteReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return o.r.Read(p[:1])
}

func TestDecoderNext(t *testing.T) {
	body := "data: {\"type\":\"delta\",\"content\":\"ㅋ\"}\n\n" +
		"data: {\"type\":\"meta\",\"metadata\":{\"toolCall\":{\"name\":\"get_random_meme\",\"arguments\":{}},\"mcpResponse\":\"밈\"}}\n\n" +
		"data: {\"type\":\"done\"}\n\n" +
		"data: {\"type\":\"delta\""
	d := NewDecoder(oneByteReader{strings.NewReader(body)})

	var got []types.StreamEvent
	for {
		ev, err := d.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, ev)
	}
	if len(got) != 3 {
		t.Fatalf("got %d events: %+v", len(got), got)
	}
	if got[1].Metadata == nil || got[1].Metadata.ToolCall.Name != "get_random_meme" {
		t.Errorf("meta = %+v", got[1])
	}
}

package mcpbridge

import (
	"testing"
)

func TestParseSSE(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		framed  bool
		records int
	}{
		{
			name:    "single record",
			body:    "event: message\ndata: {\"a\":1}\n\n",
			framed:  true,
			records: 1,
		},
		{
			name:    "crlf and comment",
			body:    ": keep-alive\r\nevent: message\r\ndata: {}\r\n\r\n",
			framed:  true,
			records: 1,
		},
		{
			name:    "two records without trailing blank line",
			body:    "data: one\n\nid: 7\ndata: two",
			framed:  true,
			records: 2,
		},
		{
			name:   "prose mentioning fields",
			body:   "이 밈은 event: 와 data: 라는 단어를 포함합니다\ndata: 1",
			framed: false,
		},
		{
			name:   "no data field",
			body:   "event: ping\n\n",
			framed: false,
		},
		{
			name:   "plain json",
			body:   `{"jsonrpc":"2.0"}`,
			framed: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, ok := ParseSSE(tt.body)
			if ok != tt.framed {
				t.Fatalf("ParseSSE framed = %v, want %v", ok, tt.framed)
			}
			if ok && len(records) != tt.records {
				t.Errorf("got %d records, want %d: %+v", len(records), tt.records, records)
			}
		})
	}
}

func TestFirstJSONData(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		ok   bool
	}{
		{
			name: "first data line",
			body: "event: message\ndata: {\"id\":1}\n\n",
			want: `{"id":1}`,
			ok:   true,
		},
		{
			name: "skips unparsable data",
			body: "data: not json\n\ndata: {\"id\":2}\n\ndata: {\"id\":3}\n\n",
			want: `{"id":2}`,
			ok:   true,
		},
		{
			name: "multi-line payload",
			body: "data: {\"id\":\ndata: 4}\n\n",
			want: "{\"id\":\n4}",
			ok:   true,
		},
		{
			name: "nothing parses",
			body: "data: hello\n\n",
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstJSONData(tt.body)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

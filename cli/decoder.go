package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/whatmeme/whatmeme-webapp/types"
)

const dataPrefix = "data: "

var recordSep = []byte("\n\n")

// Decoder turns an event-stream body into stream events.
// Bytes after the last complete record are kept for the next read.
type Decoder struct {
	r       io.Reader
	buf     []byte
	pending []types.StreamEvent
	readBuf []byte
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, readBuf: make([]byte, 4096)}
}

// Feed appends raw bytes and returns the events of every record completed by them.
// Records without a data line and data lines that are not valid JSON are skipped.
func (d *Decoder) Feed(chunk []byte) []types.StreamEvent {
	d.buf = append(d.buf, chunk...)
	var events []types.StreamEvent
	for {
		idx := bytes.Index(d.buf, recordSep)
		if idx < 0 {
			break
		}
		record := d.buf[:idx]
		d.buf = d.buf[idx+len(recordSep):]
		events = append(events, parseRecord(record)...)
	}
	if len(d.buf) == 0 {
		d.buf = nil
	}
	return events
}

func parseRecord(record []byte) []types.StreamEvent {
	var events []types.StreamEvent
	for _, line := range bytes.Split(record, []byte("\n")) {
		line = bytes.TrimSuffix(line, []byte("\r"))
		payload, ok := bytes.CutPrefix(line, []byte(dataPrefix))
		if !ok {
			continue
		}
		var ev types.StreamEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events
}

// Next returns the next event, or io.EOF once the body ends.
// An incomplete trailing record is dropped.
func (d *Decoder) Next() (types.StreamEvent, error) {
	for len(d.pending) == 0 {
		n, err := d.r.Read(d.readBuf)
		if n > 0 {
			d.pending = append(d.pending, d.Feed(d.readBuf[:n])...)
		}
		if err != nil {
			if len(d.pending) > 0 {
				break
			}
			if errors.Is(err, io.EOF) {
				return types.StreamEvent{}, io.EOF
			}
			return types.StreamEvent{}, fmt.Errorf("read stream: %w", err)
		}
	}
	ev := d.pending[0]
	d.pending = d.pending[1:]
	return ev, nil
}

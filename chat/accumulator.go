package chat

import (
	"sort"
	"strings"

	"github.com/whatmeme/whatmeme-webapp/internal/jsondecode"
	"github.com/whatmeme/whatmeme-webapp/llm"
	"github.com/whatmeme/whatmeme-webapp/types"
)

type pendingToolCall struct {
	id   string
	name strings.Builder
	args strings.Builder
}

// toolCallAccumulator assembles streamed tool-call fragments keyed by stream index.
// Name and argument fragments are only ever appended.
type toolCallAccumulator struct {
	calls map[int]*pendingToolCall
}

func newToolCallAccumulator() *toolCallAccumulator {
	return &toolCallAccumulator{calls: make(map[int]*pendingToolCall)}
}

func (a *toolCallAccumulator) Add(d llm.ToolCallDelta) {
	call, ok := a.calls[d.Index]
	if !ok {
		call = &pendingToolCall{}
		a.calls[d.Index] = call
	}
	if call.id == "" {
		call.id = d.ID
	}
	call.name.WriteString(d.Name)
	call.args.WriteString(d.Arguments)
}

func (a *toolCallAccumulator) Len() int {
	return len(a.calls)
}

// First returns the call with the lowest index. Arguments that do not parse
// as a JSON object are replaced by an empty object; RawArgs keeps the text.
func (a *toolCallAccumulator) First() (types.ToolCall, bool) {
	if len(a.calls) == 0 {
		return types.ToolCall{}, false
	}
	indexes := make([]int, 0, len(a.calls))
	for idx := range a.calls {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	call := a.calls[indexes[0]]
	raw := call.args.String()
	return types.ToolCall{
		ID:        call.id,
		Name:      call.name.String(),
		Arguments: jsondecode.ObjectOrEmpty(raw),
		RawArgs:   raw,
	}, true
}

package mcpbridge

import (
	"fmt"
	"testing"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name   string
		result string
		want   string
	}{
		{
			name:   "first text element",
			result: `{"content":[{"type":"image","data":"x"},{"type":"text","text":"hello"}]}`,
			want:   "hello",
		},
		{
			name:   "empty text element still wins",
			result: `{"content":[{"type":"image","data":"x"},{"type":"text","text":""},{"type":"text","text":"later"}]}`,
			want:   "",
		},
		{
			name:   "first element text",
			result: `{"content":[{"type":"markdown","text":"**hi**"}]}`,
			want:   "**hi**",
		},
		{
			name:   "first element json",
			result: `{"content":[{"type":"image","data":"x"}]}`,
			want:   `{"type":"image","data":"x"}`,
		},
		{
			name:   "string content",
			result: `{"content":"바로 텍스트"}`,
			want:   "바로 텍스트",
		},
		{
			name:   "object content with text",
			result: `{"content":{"text":"obj"}}`,
			want:   "obj",
		},
		{
			name:   "object content without text",
			result: `{"content":{"score":5}}`,
			want:   `{"score":5}`,
		},
		{
			name:   "no content",
			result: `{"status":"ok"}`,
			want:   `{"status":"ok"}`,
		},
		{
			name:   "empty",
			result: ``,
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractText([]byte(tt.result)); got != tt.want {
				t.Errorf("ExtractText(%s) = %q, want %q", tt.result, got, tt.want)
			}
		})
	}
}

func ExampleExtractText() {
	fmt.Println(ExtractText([]byte(`{"content":[{"type":"text","text":"무야호: 2010년 예능에서 유래"}]}`)))
	// Output: 무야호: 2010년 예능에서 유래
}

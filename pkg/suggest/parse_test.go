package suggest

import (
	"reflect"
	"testing"
)

func TestParseSuggestionList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "json list",
			raw:  `["你好吗", "你好呀", "你好的"]`,
			want: []string{"你好吗", "你好呀", "你好的"},
		},
		{
			name: "json list with surrounding whitespace",
			raw:  "\n  [\"早上好\", \"早安\"]  \n",
			want: []string{"早上好", "早安"},
		},
		{
			name: "bracketed list inside prose",
			raw:  `Sure! Here are some options: ["你好吗", "你好呀"] hope that helps.`,
			want: []string{"你好吗", "你好呀"},
		},
		{
			name: "bracketed non-json falls back to comma split",
			raw:  `[你好吗, 你好呀, 你好的]`,
			want: []string{"你好吗", "你好呀", "你好的"},
		},
		{
			name: "bulleted lines",
			raw:  "- 你好吗\n- 你好呀\n- 你好的",
			want: []string{"你好吗", "你好呀", "你好的"},
		},
		{
			name: "numbered lines",
			raw:  "1. 你好吗\n2) 你好呀\n3、你好的",
			want: []string{"你好吗", "你好呀", "你好的"},
		},
		{
			name: "plain lines with quotes",
			raw:  "\"你好吗\"\n\"你好呀\"",
			want: []string{"你好吗", "你好呀"},
		},
		{
			name: "quoted substrings in one prose line",
			raw:  `Try "你好吗" or maybe "你好呀" next.`,
			want: []string{"你好吗", "你好呀"},
		},
		{
			name: "cjk quotes",
			raw:  `可以说“你好吗”或者“你好呀”。`,
			want: []string{"你好吗", "你好呀"},
		},
		{
			name: "bare single line",
			raw:  "你好吗",
			want: []string{"你好吗"},
		},
		{
			name: "single bulleted line",
			raw:  "- 你好吗",
			want: []string{"你好吗"},
		},
		{
			name: "single numbered line",
			raw:  "1. 你好吗",
			want: []string{"你好吗"},
		},
		{
			name: "duplicates are dropped",
			raw:  `["你好", "你好", "您好"]`,
			want: []string{"你好", "您好"},
		},
		{
			name: "empty entries are dropped",
			raw:  `["", "  ", "你好"]`,
			want: []string{"你好"},
		},
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
		{
			name: "whitespace only",
			raw:  "   \n  ",
			want: nil,
		},
		{
			name: "empty json list",
			raw:  "[]",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSuggestionList(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSuggestionList(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseSuggestionListNeverErrors(t *testing.T) {
	// Garbled model output degrades to an empty list, not a failure.
	for _, raw := range []string{"{", "]][[", "{\"a\": 1}"} {
		got := ParseSuggestionList(raw)
		if len(got) > 1 {
			t.Errorf("ParseSuggestionList(%q) = %v", raw, got)
		}
	}
}

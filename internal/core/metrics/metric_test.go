package metrics

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		n        int
		expected string
	}{
		{name: "short", input: "card", n: 10, expected: "card"},
		{name: "ascii", input: "model card", n: 5, expected: "model"},
		{name: "inside a rune", input: "naïve", n: 3, expected: "na"},
		{name: "rune boundary", input: "naïve", n: 4, expected: "naï"},
		{name: "wide runes", input: "模型卡片", n: 7, expected: "模型"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.n)
			assert.Equal(t, tt.expected, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

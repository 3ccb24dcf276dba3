package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain json",
			input:    `{"description":"call mom","time":"2024-06-01 15:00"}`,
			expected: `{"description":"call mom","time":"2024-06-01 15:00"}`,
		},
		{
			name:     "json fence",
			input:    "```json\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "bare fence",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "single line fence",
			input:    "```json {\"a\": 1}```",
			expected: `{"a": 1}`,
		},
		{
			name:     "opening fence only",
			input:    "```json\n{\"a\": 1}",
			expected: `{"a": 1}`,
		},
		{
			name:     "closing fence only",
			input:    "{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n```json\n  {\"a\": 1}  \n```\n ",
			expected: `{"a": 1}`,
		},
		{
			name:     "prose before fence",
			input:    "Here is the task:\n```json\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSON(tt.input))
		})
	}
}

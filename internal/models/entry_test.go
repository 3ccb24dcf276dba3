package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTaskTime(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2024-06-01 17:00", true},
		{"2024-06-01 05:00", true},
		{"2024-06-01 5:00", false},
		{"2024-6-01 17:00", false},
		{"2024-06-01 17:00:00", false},
		{"2024-06-31 17:00", false},
		{"2024-06-01 24:00", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidTaskTime(tt.in), tt.in)
	}
}

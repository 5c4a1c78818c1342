package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
		ok       bool
	}{
		{
			name:     "Trim lowercase and dedupe",
			input:    []string{" Dog Care ", "dog care", "Pets"},
			expected: []string{"dog care", "pets"},
			ok:       true,
		},
		{
			name:     "Blank entries dropped",
			input:    []string{"", "  ", "cleaning"},
			expected: []string{"cleaning"},
			ok:       true,
		},
		{
			name:     "Order preserved",
			input:    []string{"b", "a", "b", "c"},
			expected: []string{"b", "a", "c"},
			ok:       true,
		},
		{
			name:  "Punctuation rejected",
			input: []string{"dogs!"},
			ok:    false,
		},
		{
			name:  "Unicode rejected",
			input: []string{"café"},
			ok:    false,
		},
		{
			name:     "Empty input",
			input:    nil,
			expected: []string{},
			ok:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeTags(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

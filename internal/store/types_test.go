package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityRank(t *testing.T) {
	assert.Less(t, PriorityLow.rank(), PriorityMedium.rank())
	assert.Less(t, PriorityMedium.rank(), PriorityHigh.rank())
	assert.Equal(t, -1, Priority("bogus").rank())
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil input",
			input:    nil,
			expected: nil,
		},
		{
			name:     "duplicates collapse",
			input:    []string{"work", "work", "home"},
			expected: []string{"home", "work"},
		},
		{
			name:     "whitespace trimmed and empties dropped",
			input:    []string{" work ", "", "  "},
			expected: []string{"work"},
		},
		{
			name:     "result is sorted",
			input:    []string{"zeta", "alpha", "mid"},
			expected: []string{"alpha", "mid", "zeta"},
		},
		{
			name:     "all empty collapses to nil",
			input:    []string{"", "  "},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTags(tt.input))
		})
	}
}

func TestTaskPatchIsEmpty(t *testing.T) {
	assert.True(t, TaskPatch{}.IsEmpty())

	title := "renamed"
	assert.False(t, TaskPatch{Title: &title}.IsEmpty())
	assert.False(t, TaskPatch{Tags: []string{}}.IsEmpty())
}

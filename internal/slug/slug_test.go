package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vsrunapp/vsrun-server/internal/slug"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice Runs", "alice-runs"},
		{"Émile", "emile"},
		{"fast/5k PRs", "fast-5k-prs"},
		{"  spaced  out  ", "spaced-out"},
		{"already-a-slug", "already-a-slug"},
		{"UPPER", "upper"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slug.Normalize(tt.in), "input %q", tt.in)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, slug.Valid("alice-runs"))
	assert.True(t, slug.Valid("a1"))
	assert.False(t, slug.Valid(""))
	assert.False(t, slug.Valid("Alice"))
	assert.False(t, slug.Valid("has space"))
	assert.False(t, slug.Valid("-leading"))
}

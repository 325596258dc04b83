package utils_test

import (
	"testing"

	"github.com/gokubot/goku/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"goku", "", 4},
		{"", "goku", 4},
		{"goku", "GOKU", 0},
		{"goku", "gokuu", 1},
		{"gukou", "gokou", 1},
		{"kitten", "sitting", 3},
		{"قوكو", "غوكو", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.LevenshteinDistance(tt.a, tt.b))
		})
	}
}

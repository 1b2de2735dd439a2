package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"Dark  Merlin", "dark merlin"},
		{"dark-merlin", "dark merlin"},
		{"  Atlas II \n", "atlas ii"},
		{"kinetic-ii-ti", "kinetic ii ti"},
		{"", ""},
	}
	for _, c := range cases {
		require.Equal(t, c.expected, NormalizeName(c.input))
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"atlas-ii", "Atlas Ii"},
		{"overlord-special-edition", "Overlord Special Edition"},
		{"marauder", "Marauder"},
		{"", ""},
	}
	for _, c := range cases {
		require.Equal(t, c.expected, DisplayName(c.input))
	}
}

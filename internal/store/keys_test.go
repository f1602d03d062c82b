package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"  Go Developer  ", "go developer"},
		{"Go   \t Developer", "go developer"},
		{"Développeur Sénior", "developpeur senior"},
		{"ACME Corp.", "acme corp."},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeKey(tt.in), "input %q", tt.in)
	}
}

func TestKeyFor_AccentInsensitive(t *testing.T) {
	a := KeyFor("Développeur Go", "Société Générale", "Paris, Île-de-France")
	b := KeyFor("developpeur go", "societe generale", "paris, ile-de-france")

	assert.Equal(t, a, b)
}

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShellQuote(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "snapshot_1681231231.json", "'snapshot_1681231231.json'"},
		{"with space", "a b", "'a b'"},
		{"with single quote", "it's", "'it'\\''s'"},
		{"empty", "", "''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShellQuote(tt.input))
		})
	}
}

func TestShellQuotePreserveTilde(t *testing.T) {
	assert.Equal(t, "~/'data/adva'", ShellQuotePreserveTilde("~/data/adva"))
	assert.Equal(t, "~", ShellQuotePreserveTilde("~"))
	assert.Equal(t, "'/data/adva'", ShellQuotePreserveTilde("/data/adva"))
}

func TestJoinOrNone(t *testing.T) {
	assert.Equal(t, "(none)", JoinOrNone(nil))
	assert.Equal(t, "lab1, lab2", JoinOrNone([]string{"lab1", "lab2"}))
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "file", Pluralize(1, "file", "files"))
	assert.Equal(t, "files", Pluralize(0, "file", "files"))
	assert.Equal(t, "files", Pluralize(5, "file", "files"))
}

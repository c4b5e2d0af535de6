package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"Blank", "   ", nil},
		{"Press", "press 8", []string{"{8,1}"}},
		{"Press alias", "p 8", []string{"{8,1}"}},
		{"Release", "release 8", []string{"{8,0}"}},
		{"Between", "between 9", []string{"{9,2}"}},
		{"Upper case", "PRESS 3", []string{"{3,1}"}},
		{"Zero-padded index", "press 09", []string{"{9,1}"}},
		{"Tap", "tap 4", []string{"{4,1}", "{4,0}"}},
		{"Max index", "press 255", []string{"{255,1}"}},
		{"Frame passthrough", "{09,02}", []string{"{09,02}"}},
		{"Malformed frame passthrough", "{x,y}", []string{"{x,y}"}},
		{"Raw", "raw Welcome back", []string{"Welcome back"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := translateInput(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateInputErrors(t *testing.T) {
	for _, input := range []string{
		"press",
		"press 256",
		"press -1",
		"press x",
		"tap",
		"raw",
		"jump 3",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := translateInput(input)
			assert.Error(t, err)
		})
	}
}

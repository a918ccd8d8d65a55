package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags() {
	verbose = false
	useCache = false
	configPath = ""
	format = ""
}

func TestParseArgsPositionalOrigin(t *testing.T) {
	resetFlags()
	origin, err := parseArgs([]string{"https://example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", origin)
	assert.False(t, verbose)
	assert.False(t, useCache)
}

func TestParseArgsFlags(t *testing.T) {
	resetFlags()
	origin, err := parseArgs([]string{"https://example.com/", "--cache", "-v", "--format", "json"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", origin)
	assert.True(t, useCache)
	assert.True(t, verbose)
	assert.Equal(t, "json", format)
}

func TestParseArgsConfigRequiresPath(t *testing.T) {
	resetFlags()
	_, err := parseArgs([]string{"--config"})
	assert.Error(t, err)
}

func TestParseArgsRejectsSecondPositional(t *testing.T) {
	resetFlags()
	_, err := parseArgs([]string{"https://example.com/", "https://other.com/"})
	assert.Error(t, err)
}

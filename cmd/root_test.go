package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"parse", "save", "history", "serve", "model"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "realtor-intake", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestParseCommand_Flags(t *testing.T) {
	f := parseCmd.Flags().Lookup("format")
	require.NotNil(t, f)
	assert.Equal(t, "json", f.DefValue)

	f = parseCmd.Flags().Lookup("concurrency")
	require.NotNil(t, f)
	assert.Equal(t, "4", f.DefValue)

	assert.NotNil(t, parseCmd.Flags().Lookup("dir"))
}

func TestServeCommand_Flags(t *testing.T) {
	f := serveCmd.Flags().Lookup("port")
	require.NotNil(t, f)
	assert.Equal(t, "0", f.DefValue)
}

func TestHistoryCommand_Flags(t *testing.T) {
	f := historyCmd.Flags().Lookup("limit")
	require.NotNil(t, f)
	assert.Equal(t, "0", f.DefValue)
}

func TestModelCommand_HasFetch(t *testing.T) {
	var names []string
	for _, c := range modelCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "fetch")
}

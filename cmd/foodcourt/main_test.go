package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodcourt/internal/kernel"
)

func TestPrintRoutes(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printRoutes(&out, kernel.New(kernel.Options{})))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Greater(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[0], "METHOD"))
	assert.Contains(t, out.String(), "orders.status")
	assert.Contains(t, out.String(), "/api/restaurants/{id}/approve")
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"serve", "route:list", "migrate", "migrate:rollback", "migrate:status", "seed", "create-admin"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

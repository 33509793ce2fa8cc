package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(append([]string{"alumnictl"}, args...))
	return out.String(), err
}

func TestSetupLogger(t *testing.T) {
	t.Run("invalid level is rejected", func(t *testing.T) {
		_, err := run(t, "--log-level", "loud", "suggest", "-q", "design")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("levels are case insensitive", func(t *testing.T) {
		_, err := run(t, "-l", "DEBUG", "suggest")
		require.NoError(t, err)
	})
}

func TestQueryIsRequired(t *testing.T) {
	for _, cmd := range []string{"search", "process"} {
		t.Run(cmd, func(t *testing.T) {
			_, err := run(t, cmd)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "query")
		})
	}
}

func TestSuggestCommand(t *testing.T) {
	out, err := run(t, "suggest", "-q", "need help with design")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "do you know any people who are really good with graphic design?", lines[0])

	out, err = run(t, "suggest", "-q", "   ")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestProcessCommand(t *testing.T) {
	out, err := run(t, "process", "-q", "Anyone in Boston rn?")
	require.NoError(t, err)
	assert.Contains(t, out, `"intent": "find_person"`)
	assert.Contains(t, out, `"boston"`)

	out, err = run(t, "process", "--legacy-catch-all", "-q", "hello there")
	require.NoError(t, err)
	assert.Contains(t, out, `"intent": "find_project"`)
}

func TestMigrateThenSearch(t *testing.T) {
	t.Setenv("ALUMNI_REDIS_ADDR", "")
	dbPath := filepath.Join(t.TempDir(), "alumni.db")

	out, err := run(t, "--db", dbPath, "migrate", "--seed")
	require.NoError(t, err)
	assert.Contains(t, out, "0001_init")
	assert.Contains(t, out, "seed/0001_demo_network")

	out, err = run(t, "--db", dbPath, "search", "-q", "Anyone in Boston rn?")
	require.NoError(t, err)
	assert.Contains(t, out, `"first_name": "Sarah"`)
	assert.Contains(t, out, `"intent": "find_person"`)

	_, err = run(t, "--db", dbPath, "search", "-q", "boston", "--intent", "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

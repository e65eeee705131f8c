package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/skillradar/pkg/aggregate"
)

// run executes the CLI with a state file in dir and returns stdout.
func run(t *testing.T, dir, backend string, args ...string) (string, error) {
	t.Helper()
	state := filepath.Join(dir, "state.db")
	if backend == "file" {
		state = filepath.Join(dir, "state.json")
	}
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "missing.yaml"),
		"--backend", backend,
		"--state", state,
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func forEachBackend(t *testing.T, fn func(t *testing.T, dir, backend string)) {
	for _, backend := range []string{"sqlite", "file"} {
		t.Run(backend, func(t *testing.T) {
			fn(t, t.TempDir(), backend)
		})
	}
}

func TestDemoThenLevels(t *testing.T) {
	forEachBackend(t, func(t *testing.T, dir, backend string) {
		_, err := run(t, dir, backend, "demo")
		require.NoError(t, err)

		out, err := run(t, dir, backend, "levels", "--json")
		require.NoError(t, err)

		var levels []aggregate.Level
		require.NoError(t, json.Unmarshal([]byte(out), &levels))
		require.Len(t, levels, 4)
		assert.Equal(t, "Reception", levels[0].Name)
		assert.Equal(t, 5.8, levels[0].Level)

		table, err := run(t, dir, backend, "levels")
		require.NoError(t, err)
		assert.Contains(t, table, "COMPETENCY")
		assert.Contains(t, table, "5.8")
	})
}

func TestEditCommandsPersist(t *testing.T) {
	forEachBackend(t, func(t *testing.T, dir, backend string) {
		out, err := run(t, dir, backend, "add-competency", "Listening")
		require.NoError(t, err)
		assert.Contains(t, out, "Added competency 1")

		out, err = run(t, dir, backend, "add-task", "Podcast", "-d", "30 minutes")
		require.NoError(t, err)
		assert.Contains(t, out, "Added task 1")

		_, err = run(t, dir, backend, "score", "1", "1", "14")
		require.NoError(t, err)

		out, err = run(t, dir, backend, "levels", "--json")
		require.NoError(t, err)
		var levels []aggregate.Level
		require.NoError(t, json.Unmarshal([]byte(out), &levels))
		require.Len(t, levels, 1)
		assert.Equal(t, 10.0, levels[0].Level)

		out, err = run(t, dir, backend, "score", "1", "1", "nope")
		require.NoError(t, err)
		assert.Contains(t, out, "Removed score")
	})
}

func TestEmptyNameIsNoop(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, dir, "sqlite", "add-task", "   ")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestScoreUnknownTaskFails(t *testing.T) {
	_, err := run(t, t.TempDir(), "file", "score", "7", "1", "5")
	assert.Error(t, err)
}

func TestLinkDecodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "file", "demo")
	require.NoError(t, err)

	link, err := run(t, dir, "file", "link", "--base", "https://example.org/radar#old")
	require.NoError(t, err)
	link = strings.TrimSpace(link)
	assert.True(t, strings.HasPrefix(link, "https://example.org/radar#d="), link)

	out, err := run(t, dir, "file", "decode", link)
	require.NoError(t, err)

	var decoded struct {
		Levels []aggregate.Level `json:"levels"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Levels, 4)
	assert.Equal(t, 5.6, decoded.Levels[1].Level)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := run(t, t.TempDir(), "file", "decode", "#d=!!!not-a-token")
	assert.Error(t, err)
}

func TestTokenFrom(t *testing.T) {
	assert.Equal(t, "abc", tokenFrom("abc"))
	assert.Equal(t, "abc", tokenFrom("#d=abc"))
	assert.Equal(t, "abc", tokenFrom(" https://x.org/p?q=1#d=abc "))
}

func TestRenderAndExportToFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "sqlite", "demo")
	require.NoError(t, err)

	svgPath := filepath.Join(dir, "chart.svg")
	_, err = run(t, dir, "sqlite", "render", "-o", svgPath, "--width", "300", "--height", "200")
	require.NoError(t, err)
	svg, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
	assert.Contains(t, string(svg), "Reception")

	out, err := run(t, dir, "sqlite", "export", "--print", "--title", "Quarterly")
	require.NoError(t, err)
	assert.Contains(t, out, "<title>Quarterly")
	assert.Contains(t, out, "window.print()")
}

func TestSimilarCommand(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "file", "demo")
	require.NoError(t, err)

	out, err := run(t, dir, "file", "similar", "1", "-k", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2)
}

func TestUnknownBackendFlag(t *testing.T) {
	_, err := run(t, t.TempDir(), "redis", "levels")
	assert.ErrorContains(t, err, "unknown backend")
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assignment-workers/internal/common/errors"
)

const testConfig = `
matching:
  strategy: lapjv
  max_val: 2147483647
  scale_factor: 100
logging:
  level: error
  format: console
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeWithConfig(t, testConfig, args...)
}

func executeWithConfig(t *testing.T, cfgBody string, args ...string) (string, string, error) {
	t.Helper()
	cfgPath := writeFile(t, "config.yaml", cfgBody)

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRoot_ScoresEachLine(t *testing.T) {
	input := writeFile(t, "input.txt",
		"abe,bob;cod,tim\r\n"+
			"\n"+
			"Jack Abraham,John Evans,Ted Dziuba;iPad 2 - 4-pack,Girl Scouts Thin Mints,Nerf Crossbow\n"+
			"a;b\n")

	for _, strategy := range []string{"lapjv", "munkres", "MUNKRES"} {
		t.Run(strategy, func(t *testing.T) {
			stdout, _, err := execute(t, input, strategy)
			require.NoError(t, err)
			assert.Equal(t, "4.50\n21.00\n0.00\n", stdout)
		})
	}
}

func TestRoot_StrategyFlagWinsOverPositional(t *testing.T) {
	input := writeFile(t, "input.txt", "abe,bob;cod,tim\n")

	_, _, err := execute(t, input, "greedy")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnknownStrategy, errors.CodeOf(err))

	stdout, _, err := execute(t, "--strategy", "munkres", input, "greedy")
	require.NoError(t, err)
	assert.Equal(t, "4.50\n", stdout)
}

func TestRoot_OverrideBeatsInvalidConfiguredStrategy(t *testing.T) {
	input := writeFile(t, "input.txt", "abe,bob;cod,tim\n")
	badConfig := "matching:\n  strategy: greedy\nlogging:\n  level: error\n"

	_, _, err := executeWithConfig(t, badConfig, input)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnknownStrategy, errors.CodeOf(err))

	stdout, _, err := executeWithConfig(t, badConfig, "--strategy", "munkres", input)
	require.NoError(t, err)
	assert.Equal(t, "4.50\n", stdout)

	stdout, _, err = executeWithConfig(t, badConfig, input, "lapjv")
	require.NoError(t, err)
	assert.Equal(t, "4.50\n", stdout)
}

func TestRoot_MissingInputFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.txt")

	stdout, stderr, err := execute(t, missing)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInputFileNotFound, errors.CodeOf(err))
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "nope.txt")
}

func TestRoot_StopsAtMalformedLine(t *testing.T) {
	input := writeFile(t, "input.txt", "abe,bob;cod,tim\nno separator here\nabe;cod\n")

	stdout, _, err := execute(t, input)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeMalformedLine, errors.CodeOf(err))
	assert.Equal(t, "4.50\n", stdout, "lines before the bad one are still printed")
}

func TestRoot_ArgumentCount(t *testing.T) {
	_, _, err := execute(t)
	assert.Error(t, err)

	_, _, err = execute(t, "a", "lapjv", "extra")
	assert.Error(t, err)
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInspectCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.csv")
	require.NoError(t, os.WriteFile(path, []byte("Company;Email\nAcme Co;ops@acme.co\nGlobex;\n"), 0o644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"inspect", path})
	require.NoError(t, cmd.Execute())

	var got inspectSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, "csv", got.Format)
	require.Equal(t, []string{"Company", "Email"}, got.Headers)
	require.Equal(t, 2, got.Rows)
}

func TestInspectCmd_MissingFile(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"inspect", filepath.Join(t.TempDir(), "nope.csv")})

	err := cmd.Execute()
	require.Error(t, err)
	require.Equal(t, exitValidation, exitCode(err))
}

func TestInspectCmd_RequiresOneArg(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"inspect"})
	require.Error(t, cmd.Execute())
}

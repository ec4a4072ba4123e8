package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestConsoleLogger_Level(t *testing.T) {
	logger := ConsoleLogger(logrus.WarnLevel)
	require.Equal(t, logrus.WarnLevel, logger.GetLevel())
	require.Equal(t, os.Stderr, logger.Out)
}

func TestFileLogger_WritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "migrate.log")

	f, logger, err := FileLogger(logrus.InfoLevel, path)
	require.NoError(t, err)
	logger.WithField("entity", "accounts").Info("done")
	logger.Debug("hidden")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"entity":"accounts"`)
	require.Contains(t, string(data), `"msg":"done"`)
	require.NotContains(t, string(data), "hidden")
}

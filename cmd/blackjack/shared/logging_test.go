package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, log.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, log.InfoLevel, ParseLevel("nonsense"))
}

func TestSetupLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown", "round", "r1")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "round=r1")
}

func TestSetupFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blackjack.log")
	logger, closer := SetupFileLogger(path, "info")
	logger.Info("Round settled", "outcome", "PUSH")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Round settled")
	assert.Contains(t, string(data), "outcome=PUSH")
}

package logutils

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/tickdown/internal/core/logging"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "tickdown.log")

	logger, closer, err := New("info", file)
	require.NoError(t, err)

	ctx := logging.WithOwner(context.Background(), "alice")
	logger.Info().Ctx(ctx).Msg("hello")
	logger.Debug().Msg("filtered")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "alice", entry["owner"])
	assert.Contains(t, entry, "time")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New("loud", "")
	assert.Error(t, err)
}

func TestNew_AppendsAcrossRuns(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tickdown.log")

	for _, msg := range []string{"first", "second"} {
		logger, closer, err := New("info", file)
		require.NoError(t, err)
		logger.Info().Msg(msg)
		closer()
	}

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"first"`)
	assert.Contains(t, string(data), `"message":"second"`)
}

func TestNew_ConsoleWithoutFile(t *testing.T) {
	logger, closer, err := New("warn", "")
	require.NoError(t, err)
	defer closer()

	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

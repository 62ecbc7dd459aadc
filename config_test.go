package swarmcore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigLoadMissingFileYieldsDefaults(t *testing.T) {
	dir, err := os.MkdirTemp("", "swarmcore-config-")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	c, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, DefaultConfig.PieceLength, c.PieceLength)
	assert.Equal(t, DefaultConfig.EndGameThreshold, c.EndGameThreshold)
}

func TestConfigSaveAndReload(t *testing.T) {
	dir, err := os.MkdirTemp("", "swarmcore-config-")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "config.yaml")
	c, err := LoadConfig(filename)
	assert.NoError(t, err)
	c.EndGameThreshold = 99
	assert.NoError(t, c.Save())

	reloaded, err := LoadConfig(filename)
	assert.NoError(t, err)
	assert.EqualValues(t, 99, reloaded.EndGameThreshold)
}

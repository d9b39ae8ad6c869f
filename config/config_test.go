package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 50, cfg.Grid.BatchSize)
	assert.Equal(t, 10*time.Millisecond, cfg.Grid.BatchPause())
	assert.Equal(t, 20*time.Millisecond, cfg.Grid.RowPause())
	assert.Equal(t, 5*time.Second, cfg.Memory.BuildInterval())
	assert.Equal(t, 10*time.Second, cfg.Memory.LoopInterval())
	assert.Equal(t, 50, cfg.Classifier.LabelCapacity)
}

func TestLoadConfigFrom_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "config.json")

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path())

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestLoadConfigFrom_YAMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "display:\n  width: 320\n  height: 240\n  frame_ms: 20\nclassifier:\n  mode: remote\n  remote_url: http://127.0.0.1:9000/classify\n  label_capacity: 32\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 320, cfg.Display.Width)
	assert.Equal(t, ClassifierRemote, cfg.Classifier.Mode)
	assert.Equal(t, 32, cfg.Classifier.LabelCapacity)
	// 未写的字段保持默认
	assert.Equal(t, 50, cfg.Grid.BatchSize)
	assert.Equal(t, 18080, cfg.Server.Port)
}

func TestSave_RoundTripYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := DefaultConfig()
	cfg.path = path
	cfg.Display.Brightness = 40
	require.NoError(t, cfg.Save())

	loaded, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 40, loaded.Display.Brightness)
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(c *Config){
		"unknown mode":        func(c *Config) { c.Classifier.Mode = "svm" },
		"dense without model": func(c *Config) { c.Classifier.Mode = ClassifierDense },
		"remote without url":  func(c *Config) { c.Classifier.Mode = ClassifierRemote },
		"zero batch":          func(c *Config) { c.Grid.BatchSize = 0 },
		"tiny display":        func(c *Config) { c.Display.Width = 10 },
		"bad port":            func(c *Config) { c.Server.Port = 70000 },
		"brightness":          func(c *Config) { c.Display.Brightness = 101 },
		"label capacity":      func(c *Config) { c.Classifier.LabelCapacity = 1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfigFrom_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"grid":{"batch_size":-1}}`), 0o644))

	_, err := LoadConfigFrom(path)
	assert.Error(t, err)
}

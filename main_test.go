package main

import (
	"context"
	"testing"
	"time"

	"cam-screen/config"

	"github.com/stretchr/testify/assert"
)

func TestSurfaceOptions_FromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Grid.BatchSize = 28
	cfg.Classifier.LabelCapacity = 20

	opts := surfaceOptions(cfg)
	assert.Equal(t, cfg.Display.Title, opts.Title)
	assert.Equal(t, 28, opts.BatchSize)
	assert.Equal(t, 10*time.Millisecond, opts.BatchPause)
	assert.Equal(t, 20*time.Millisecond, opts.RowPause)
	assert.Equal(t, 10, opts.WarmupFrames)
	assert.Equal(t, 20, opts.LabelCapacity)
	assert.Equal(t, 1024, opts.MaxObjects)
}

func TestNewApp_Flags(t *testing.T) {
	app := newApp(false)
	names := map[string]bool{}
	for _, f := range app.Flags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	assert.True(t, names["config"])
	assert.True(t, names["display"])
	assert.True(t, names["api"])
	assert.NotNil(t, app.Command("token"))
}

func TestIssueToken_RequiresSecret(t *testing.T) {
	path := t.TempDir() + "/config.json"
	app := newApp(false)
	err := app.Run(context.Background(), []string{"cam-screen", "--config", path, "token"})
	assert.Error(t, err)
}

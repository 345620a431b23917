package hook

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/dpkhook/internal/config"
	"github.com/Norgate-AV/dpkhook/internal/packager"
)

type recordingRegistrar struct {
	targets []string
	actions []Action
}

func (r *recordingRegistrar) AddPostAction(target string, action Action) {
	r.targets = append(r.targets, target)
	r.actions = append(r.actions, action)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	buildDir := t.TempDir()
	return &config.Config{
		BuildDir:       buildDir,
		Environment:    "esp32dev",
		ProgramName:    "firmware",
		FilesystemType: "spiffs",
		ToolPath:       filepath.Join(buildDir, "missing-mkdevpkg"),
		OutputPath:     filepath.Join(buildDir, "esp32dev.dpk"),
	}
}

func TestRegister(t *testing.T) {
	cfg := testConfig(t)
	r := &recordingRegistrar{}

	Register(r, packager.New(cfg))

	assert.Equal(t, []string{cfg.FirmwarePath(), cfg.FilesystemPath()}, r.targets)
	require.Len(t, r.actions, 2)

	// Nothing built yet, so both callbacks are no-ops
	for _, action := range r.actions {
		assert.NoError(t, action(context.Background()))
	}
}

func TestRegister_FailureAbortsTrigger(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.FirmwarePath(), []byte("fw"), 0o644))
	require.NoError(t, os.WriteFile(cfg.FilesystemPath(), []byte("fs"), 0o644))

	d := NewDispatcher()
	Register(d, packager.New(cfg))

	err := d.Fire(context.Background(), cfg.FilesystemPath())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate")
}

func TestDispatcher_Fire(t *testing.T) {
	d := NewDispatcher()

	var order []string
	d.AddPostAction("build/firmware.bin", func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	d.AddPostAction("build/firmware.bin", func(context.Context) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, d.Fire(context.Background(), "build/firmware.bin"))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDispatcher_Fire_StopsAtFirstError(t *testing.T) {
	d := NewDispatcher()
	boom := errors.New("boom")

	called := false
	d.AddPostAction("spiffs.bin", func(context.Context) error { return boom })
	d.AddPostAction("spiffs.bin", func(context.Context) error {
		called = true
		return nil
	})

	err := d.Fire(context.Background(), "spiffs.bin")
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}

func TestDispatcher_Fire_UnknownTarget(t *testing.T) {
	d := NewDispatcher()
	assert.NoError(t, d.Fire(context.Background(), "nothing.bin"))
}

func TestDispatcher_NormalizesTargets(t *testing.T) {
	d := NewDispatcher()

	fired := 0
	d.AddPostAction(filepath.Join("build", ".", "firmware.bin"), func(context.Context) error {
		fired++
		return nil
	})

	abs, err := filepath.Abs(filepath.Join("build", "firmware.bin"))
	require.NoError(t, err)

	assert.True(t, d.Has(abs))
	require.NoError(t, d.Fire(context.Background(), abs))
	assert.Equal(t, 1, fired)
}

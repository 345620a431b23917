// Package packager turns the firmware and filesystem images of a build into a
// device package by running the external packaging tool.
//
// TryBuild may be fired once per artifact, so it checks both artifacts on every
// call and does nothing until both exist. Each call that finds them runs the tool.
package packager

import (
	"context"
	"fmt"
	"os"

	"github.com/Norgate-AV/dpkhook/internal/config"
	"github.com/Norgate-AV/dpkhook/internal/logger"
)

// Packager produces the device package for one build environment
type Packager struct {
	cfg     *config.Config
	builder *CommandBuilder
}

// New creates a packager for cfg. cfg must not be modified afterwards.
func New(cfg *config.Config) *Packager {
	return &Packager{
		cfg:     cfg,
		builder: NewCommandBuilder(),
	}
}

// Config returns the configuration the packager was created with
func (p *Packager) Config() *config.Config {
	return p.cfg
}

// TryBuild generates the device package when both artifacts exist.
// A missing artifact is logged and is not an error.
func (p *Packager) TryBuild(ctx context.Context) error {
	firmware := p.cfg.FirmwarePath()
	if !exists(firmware) {
		logger.Infof(ctx, "Firmware not found: %s", firmware)
		return nil
	}

	filesystem := p.cfg.FilesystemPath()
	if !exists(filesystem) {
		logger.Infof(ctx, "Filesystem not found: %s", filesystem)
		return nil
	}

	sc := GetPackageCommand(p.cfg)

	if p.cfg.Verbose {
		p.logBuildInfo(ctx, sc)
	}

	logger.Infof(ctx, "Generating %s", p.cfg.OutputPath)

	if p.cfg.DryRun {
		logger.Infof(ctx, "Dry run, skipping: %s", sc)
		return nil
	}

	if err := p.builder.ExecuteCommand(ctx, sc); err != nil {
		return fmt.Errorf("failed to generate %s: %w", p.cfg.OutputPath, err)
	}

	logger.Infof(ctx, "Ok! %s", p.cfg.OutputPath)

	return nil
}

func (p *Packager) logBuildInfo(ctx context.Context, sc *ShellCommand) {
	logger.DebugKV(ctx, "Packaging",
		"env", p.cfg.Environment,
		"tool", p.cfg.Tool,
		"resolved", p.cfg.ToolPath,
		"overwrite", p.cfg.Overwrite,
	)

	for _, path := range []string{p.cfg.FirmwarePath(), p.cfg.FilesystemPath()} {
		sum, size, err := HashFile(path)
		if err != nil {
			logger.Warnf(ctx, "Cannot hash %s: %v", path, err)
			continue
		}

		logger.DebugKV(ctx, "Artifact", "path", path, "size", size, "sha256", sum)
	}

	logger.Debugf(ctx, "Command: %s", sc)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

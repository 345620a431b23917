package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Norgate-AV/dpkhook/internal/config"
	"github.com/Norgate-AV/dpkhook/internal/hook"
	"github.com/Norgate-AV/dpkhook/internal/logger"
	"github.com/Norgate-AV/dpkhook/internal/packager"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the device package if both images exist",
		Long: `Build the device package if both the firmware and filesystem images exist.

With --target the post-actions registered on each target are fired in order,
the way the build system does after producing that file. Without it the
packager runs once.`,
		RunE:         runPackage,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}

	addTargetFlag(cmd)

	return cmd
}

func addTargetFlag(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("target", "t", []string{}, "Artifact that was just built (repeatable)")
}

func runPackage(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader().LoadForRun(cmd)
	if err != nil {
		return err
	}

	ctx := logger.ToContext(cmd.Context(), setupLogger(cfg))
	p := packager.New(cfg)

	targets, err := cmd.Flags().GetStringSlice("target")
	if err != nil {
		return err
	}

	if len(targets) == 0 {
		return p.TryBuild(ctx)
	}

	d := hook.NewDispatcher()
	hook.Register(d, p)

	for _, target := range targets {
		if !d.Has(target) {
			logger.Warnf(ctx, "Nothing to do for %s", target)
			continue
		}

		if err := d.Fire(ctx, target); err != nil {
			return err
		}
	}

	return nil
}

// setupLogger applies the verbosity of cfg to the global logger
func setupLogger(cfg *config.Config) *zap.SugaredLogger {
	if cfg.Verbose {
		logger.SetLevel(zap.DebugLevel)
	}

	return logger.Logger()
}

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/dpkhook/internal/config"
	"github.com/Norgate-AV/dpkhook/internal/hook"
	"github.com/Norgate-AV/dpkhook/internal/logger"
	"github.com/Norgate-AV/dpkhook/internal/packager"
	"github.com/Norgate-AV/dpkhook/internal/watch"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Build the device package whenever an image is rebuilt",
		Long: `Watch the build directory and run the packager after the firmware or
filesystem image is written. Stops on interrupt.`,
		RunE:         runWatch,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}

	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "Quiet period after a write before packaging")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewLoader().LoadForRun(cmd)
	if err != nil {
		return err
	}

	ctx = logger.ToContext(ctx, setupLogger(cfg))

	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}

	w, err := watch.New(cfg.BuildDir, debounce)
	if err != nil {
		return err
	}

	hook.Register(w, packager.New(cfg))

	return w.Run(ctx)
}

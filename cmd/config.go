package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/dpkhook/internal/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "config",
		Short:        "Print the resolved configuration",
		RunE:         runConfig,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader().LoadForRun(cmd)
	if err != nil {
		return err
	}

	projectFile := cfg.ProjectFile
	if projectFile == "" {
		projectFile = "(none)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project file: %s\n", projectFile)
	fmt.Fprintf(out, "Environment:  %s\n", cfg.Environment)
	fmt.Fprintf(out, "Build dir:    %s\n", cfg.BuildDir)
	fmt.Fprintf(out, "Firmware:     %s\n", cfg.FirmwarePath())
	fmt.Fprintf(out, "Filesystem:   %s\n", cfg.FilesystemPath())
	fmt.Fprintf(out, "Tool:         %s\n", cfg.ToolPath)
	fmt.Fprintf(out, "Overwrite:    %t\n", cfg.Overwrite)
	fmt.Fprintf(out, "Output:       %s\n", cfg.OutputPath)

	return nil
}

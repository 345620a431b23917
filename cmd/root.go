package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/dpkhook/internal/config"
	"github.com/Norgate-AV/dpkhook/internal/version"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dpkhook",
		Short: "Device package post-build hook",
		Long: `Combine the firmware and filesystem images of a build into a device package.

Run it after the firmware image and after the filesystem image are built.
Once both images exist the packaging tool is invoked as:

  <tool> <firmware.bin> <filesystem.bin> <output.dpk> [--rewrite]`,
		RunE:         runPackage,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}

	flags := root.PersistentFlags()
	flags.StringP("build-dir", "b", "", "Build directory of the environment (default $BUILD_DIR)")
	flags.StringP("env", "e", "", "Build environment name (default $PIOENV)")
	flags.StringP("progname", "p", "", "Program name, the firmware image is <progname>.bin")
	flags.StringP("project-dir", "d", "", "Directory to look for "+config.ProjectFileName+" from (default current directory)")
	flags.String("filesystem", "", "Filesystem type, the filesystem image is <filesystem>.bin")
	flags.String("tool", "", "Packaging tool name or path")
	flags.String("overwrite", "", "Replace an existing package (1, true, yes, on)")
	flags.Lookup("overwrite").NoOptDefVal = "true"
	flags.String("dpk-name", "", "Package file name, may use $PIOENV, $PROGNAME, $BUILD_DIR")
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.Bool("dry-run", false, "Log the packaging command without running it")

	addTargetFlag(root)

	root.AddCommand(newRunCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newConfigCmd())
	version.AttachCobraVersionCommand(root)

	return root
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

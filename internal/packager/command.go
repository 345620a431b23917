package packager

import (
	"strings"

	"github.com/Norgate-AV/dpkhook/internal/config"
)

// RewriteFlag asks the packaging tool to replace an existing package
const RewriteFlag = "--rewrite"

// ShellCommand is a program and its arguments, run without a shell
type ShellCommand struct {
	Path string
	Args []string
}

// GetPackageCommand builds the packaging tool invocation:
//
//	<tool> <firmware.bin> <filesystem.bin> <output.dpk> [--rewrite]
func GetPackageCommand(cfg *config.Config) *ShellCommand {
	cmdArgs := []string{
		cfg.FirmwarePath(),
		cfg.FilesystemPath(),
		cfg.OutputPath,
	}

	if cfg.Overwrite {
		cmdArgs = append(cmdArgs, RewriteFlag)
	}

	return &ShellCommand{
		Path: cfg.ToolPath,
		Args: cmdArgs,
	}
}

func (sc *ShellCommand) String() string {
	return strings.Join(append([]string{sc.Path}, sc.Args...), " ")
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config keys and the command line flags bound to them
var flagKeys = map[string]string{
	"build_dir":   "build-dir",
	"env":         "env",
	"progname":    "progname",
	"project_dir": "project-dir",
	"filesystem":  "filesystem",
	"tool":        "tool",
	"overwrite":   "overwrite",
	"dpk_name":    "dpk-name",
	"verbose":     "verbose",
	"dry_run":     "dry-run",
}

// Config keys and the environment variables bound to them, first match wins.
// BUILD_DIR, PIOENV and PROGNAME are the names the build system exports.
var envKeys = map[string][]string{
	"build_dir":   {"DPKHOOK_BUILD_DIR", "BUILD_DIR"},
	"env":         {"DPKHOOK_ENV", "PIOENV"},
	"progname":    {"DPKHOOK_PROGNAME", "PROGNAME"},
	"project_dir": {"DPKHOOK_PROJECT_DIR", "PROJECT_DIR"},
	"filesystem":  {"DPKHOOK_FILESYSTEM"},
	"tool":        {"DPKHOOK_TOOL"},
	"overwrite":   {"DPKHOOK_OVERWRITE"},
	"dpk_name":    {"DPKHOOK_DPK_NAME"},
	"verbose":     {"DPKHOOK_VERBOSE"},
	"dry_run":     {"DPKHOOK_DRY_RUN"},
}

// Loader handles configuration loading from various sources.
// Precedence is flags, then environment, then project file, then defaults.
type Loader struct{}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadForRun loads the configuration captured by the post-build hook
func (l *Loader) LoadForRun(cmd *cobra.Command) (*Config, error) {
	l.setupViperDefaults()
	l.bindEnvironment()
	l.bindCommandFlags(cmd)

	if err := l.loadProjectConfig(); err != nil {
		return nil, err
	}

	return Load()
}

// setupViperDefaults sets up default values for viper
func (l *Loader) setupViperDefaults() {
	viper.SetDefault("progname", DefaultProgramName)
	viper.SetDefault("filesystem", DefaultFilesystemType)
	viper.SetDefault("tool", DefaultTool)
	viper.SetDefault("overwrite", DefaultOverwrite)
	viper.SetDefault("verbose", DefaultVerbose)
	viper.SetDefault("dry_run", DefaultDryRun)
}

// bindEnvironment binds config keys to environment variables
func (l *Loader) bindEnvironment() {
	for key, names := range envKeys {
		_ = viper.BindEnv(append([]string{key}, names...)...)
	}
}

// bindCommandFlags binds command flags to viper
func (l *Loader) bindCommandFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	for key, flag := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}

// loadProjectConfig merges the options of the current environment from the
// project file. A missing project file is not an error.
func (l *Loader) loadProjectConfig() error {
	dir := viper.GetString("project_dir")
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}

		dir = cwd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("invalid project directory: %w", err)
	}

	viper.Set("project_dir", abs)

	path := FindProjectConfig(abs)
	if path == "" {
		return nil
	}

	options, err := ReadProjectOptions(path, viper.GetString("env"))
	if err != nil {
		return err
	}

	viper.Set("project_file", path)

	return viper.MergeConfigMap(options)
}

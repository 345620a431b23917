package config

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Norgate-AV/dpkhook/internal/utils"
)

// Default configuration values
const (
	DefaultProgramName    = "firmware"
	DefaultFilesystemType = "spiffs"
	DefaultTool           = "mkdevpkg"
	DefaultOverwrite      = "no"
	DefaultVerbose        = false
	DefaultDryRun         = false

	// PackageExt is appended to the environment name to form the default package name
	PackageExt = ".dpk"
)

// truthyValues is the complete set of strings accepted as "on" for boolean
// project options. Anything else, including the empty string, is off.
var truthyValues = map[string]struct{}{
	"1":    {},
	"true": {},
	"yes":  {},
	"on":   {},
}

// lookPath is swapped out in tests
var lookPath = exec.LookPath

// Holds the configuration options for dpkhook.
// A Config is resolved once, before the hook is registered, and is read-only afterwards.
type Config struct {
	// Build output directory of the current environment
	BuildDir string

	// Name of the build environment (e.g. esp32dev)
	Environment string

	// Program name, the firmware image is <ProgramName>.bin
	ProgramName string

	// Project directory used to look up the project file
	ProjectDir string

	// Project file the options were read from, empty if none was found
	ProjectFile string

	// Filesystem type, the filesystem image is <FilesystemType>.bin
	FilesystemType string

	// Packaging tool as configured (name or path)
	Tool string
	// Tool after search path resolution
	ToolPath string

	// Ask the packaging tool to replace an existing package
	Overwrite bool

	// Output package name, may contain build variable placeholders
	PackageName string
	// Absolute path of the package to produce
	OutputPath string

	// Enable verbose output
	Verbose bool

	// Log the packaging command instead of running it
	DryRun bool
}

func Load() (*Config, error) {
	cfg := &Config{
		BuildDir:       viper.GetString("build_dir"),
		Environment:    viper.GetString("env"),
		ProgramName:    viper.GetString("progname"),
		ProjectDir:     viper.GetString("project_dir"),
		ProjectFile:    viper.GetString("project_file"),
		FilesystemType: viper.GetString("filesystem"),
		Tool:           viper.GetString("tool"),
		Overwrite:      ParseTruthy(viper.GetString("overwrite")),
		PackageName:    viper.GetString("dpk_name"),
		Verbose:        viper.GetBool("verbose"),
		DryRun:         viper.GetBool("dry_run"),
	}

	// Apply defaults if not set
	if cfg.ProgramName == "" {
		cfg.ProgramName = DefaultProgramName
	}

	if cfg.FilesystemType == "" {
		cfg.FilesystemType = DefaultFilesystemType
	}

	if cfg.Tool == "" {
		cfg.Tool = DefaultTool
	}

	if cfg.PackageName == "" && cfg.Environment != "" {
		cfg.PackageName = cfg.Environment + PackageExt
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the required fields and resolves every derived path
func (c *Config) Validate() error {
	if c.BuildDir == "" {
		return fmt.Errorf("build directory not specified")
	}

	if c.Environment == "" {
		return fmt.Errorf("environment name not specified")
	}

	if c.ProgramName == "" {
		return fmt.Errorf("program name not specified")
	}

	abs, err := filepath.Abs(c.BuildDir)
	if err != nil {
		return fmt.Errorf("invalid build directory: %v", err)
	}

	c.BuildDir = abs

	if c.PackageName == "" {
		c.PackageName = c.Environment + PackageExt
	}

	name := utils.ExpandVars(c.PackageName, c.BuildVars())
	if name == "" {
		return fmt.Errorf("package name %q expands to an empty string", c.PackageName)
	}

	c.OutputPath = filepath.Join(c.BuildDir, name)
	c.ToolPath = ResolveTool(c.Tool)

	return nil
}

// FirmwarePath returns the firmware image produced by the build
func (c *Config) FirmwarePath() string {
	return filepath.Join(c.BuildDir, c.ProgramName+".bin")
}

// FilesystemPath returns the filesystem image produced by the build
func (c *Config) FilesystemPath() string {
	return filepath.Join(c.BuildDir, c.FilesystemType+".bin")
}

// BuildVars returns the build variables available to package name placeholders
func (c *Config) BuildVars() map[string]string {
	return map[string]string{
		"BUILD_DIR":   c.BuildDir,
		"PIOENV":      c.Environment,
		"PROGNAME":    c.ProgramName,
		"PROJECT_DIR": c.ProjectDir,
		"FILESYSTEM":  c.FilesystemType,
	}
}

// ResolveTool looks the tool up on the search path. When it cannot be found the
// reference is returned verbatim so the failure surfaces when the tool is launched.
func ResolveTool(tool string) string {
	if path, err := lookPath(tool); err == nil {
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}

		return path
	}

	return tool
}

// ParseTruthy reports whether s is one of 1, true, yes or on (any case)
func ParseTruthy(s string) bool {
	_, ok := truthyValues[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/ini.v1"
)

// Project file options and the config keys they feed
var projectOptions = map[string]string{
	"board_build.filesystem":    "filesystem",
	"custom_mkdevpkg":           "tool",
	"custom_mkdevpkg_overwrite": "overwrite",
	"custom_dpk_name":           "dpk_name",
}

const (
	commonSection = "env"
	envPrefix     = "env:"
	extendsOption = "extends"

	// Pseudo sections usable in ${section.option} references
	thisSection   = "this"
	sysenvSection = "sysenv"
	envNameOption = "__env__"

	maxInterpolationDepth = 10
)

// Indented lines continue the previous value, and only " ;" or " #" start an
// inline comment, so lib_deps lists and values like fw#1.dpk load as written.
var projectLoadOptions = ini.LoadOptions{
	AllowPythonMultilineValues: true,
	SpaceBeforeInlineComment:   true,
}

// ${section.option}; references without a dot are build variables and are left alone
var referencePattern = regexp.MustCompile(`\$\{([^.}()]+)\.([^}]+)\}`)

type projectFile struct {
	file *ini.File
	env  string
}

// ReadProjectOptions reads the packaging options for env from a project file.
// Options in [env:<name>] override the ones of the sections it extends, which
// override the ones shared in [env]. ${sysenv.NAME}, ${this.option} and
// ${section.option} references are resolved.
func ReadProjectOptions(path, env string) (map[string]any, error) {
	f, err := ini.LoadSources(projectLoadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file %s: %w", path, err)
	}

	p := &projectFile{file: f, env: envPrefix + env}
	options := make(map[string]any)

	for option, key := range projectOptions {
		value, ok := p.lookup(p.env, option)
		if !ok {
			continue
		}

		value, err = p.interpolate(value, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s in %s: %w", option, path, err)
		}

		options[key] = value
	}

	return options, nil
}

// sections lists the sections searched for an option of name, first match wins.
// An env section is searched before the sections named by its extends option,
// the last named first, and the shared [env] section is searched last.
func (p *projectFile) sections(name string) []*ini.Section {
	if !strings.HasPrefix(name, envPrefix) {
		if section, err := p.file.GetSection(name); err == nil {
			return []*ini.Section{section}
		}

		return nil
	}

	var sections []*ini.Section

	pending := []string{commonSection, name}
	visited := make(map[string]bool)

	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		if visited[current] {
			continue
		}

		visited[current] = true

		section, err := p.file.GetSection(current)
		if err != nil {
			continue
		}

		sections = append(sections, section)

		if section.HasKey(extendsOption) {
			pending = append(pending, splitList(section.Key(extendsOption).String())...)
		}
	}

	return sections
}

func (p *projectFile) lookup(name, option string) (string, bool) {
	for _, section := range p.sections(name) {
		if section.HasKey(option) {
			return strings.TrimSpace(section.Key(option).String()), true
		}
	}

	return "", false
}

func (p *projectFile) interpolate(value string, depth int) (string, error) {
	if !strings.Contains(value, "${") {
		return value, nil
	}

	if depth >= maxInterpolationDepth {
		return "", fmt.Errorf("references in %q nest too deeply", value)
	}

	var resolveErr error

	expanded := referencePattern.ReplaceAllStringFunc(value, func(ref string) string {
		if resolveErr != nil {
			return ref
		}

		m := referencePattern.FindStringSubmatch(ref)
		section, option := m[1], m[2]

		switch section {
		case sysenvSection:
			return os.Getenv(option)
		case thisSection:
			if option == envNameOption {
				return strings.TrimPrefix(p.env, envPrefix)
			}

			section = p.env
		}

		v, ok := p.lookup(section, option)
		if !ok {
			resolveErr = fmt.Errorf("%s references unknown option %s in [%s]", ref, option, section)
			return ref
		}

		v, resolveErr = p.interpolate(v, depth+1)

		return v
	})

	if resolveErr != nil {
		return "", resolveErr
	}

	return expanded, nil
}

// splitList splits a comma or newline separated option value
func splitList(value string) []string {
	var items []string

	for _, item := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == '\n' }) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}

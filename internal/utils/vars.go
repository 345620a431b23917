package utils

import (
	"os"
	"strings"
)

// sysenvPrefix selects the process environment explicitly, as in ${sysenv.HOME}
const sysenvPrefix = "sysenv."

// ExpandVars replaces $VAR and ${VAR} placeholders in s. Build variables take
// precedence over the process environment; unknown variables expand to "".
// ${sysenv.NAME} always reads NAME from the process environment.
func ExpandVars(s string, vars map[string]string) string {
	return os.Expand(s, func(name string) string {
		if env, ok := strings.CutPrefix(name, sysenvPrefix); ok {
			return os.Getenv(env)
		}

		if v, ok := vars[name]; ok {
			return v
		}

		return os.Getenv(name)
	})
}

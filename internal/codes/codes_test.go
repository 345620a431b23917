package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		exitCode int
		want     string
	}{
		{name: "exit code 0", exitCode: 0, want: "Success"},
		{name: "exit code 1", exitCode: 1, want: "General failure"},
		{name: "exit code 126", exitCode: 126, want: "Command found but not executable"},
		{name: "exit code 127", exitCode: 127, want: "Command not found"},
		{name: "exit code 130", exitCode: 130, want: "Interrupted (SIGINT)"},
		{name: "killed by signal", exitCode: -1, want: "Terminated by signal"},
		{name: "tool specific code", exitCode: 42, want: "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorMessage(tt.exitCode))
		})
	}
}

func TestExitCodes_Coverage(t *testing.T) {
	for code, msg := range ExitCodes {
		assert.NotEmpty(t, msg, "Code %d should have a non-empty message", code)
		assert.Equal(t, msg, GetErrorMessage(code))
	}
}

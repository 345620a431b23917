package codes

// ExitCodes maps process exit statuses with a conventional meaning to their
// descriptions. The packaging tool's own codes are opaque and reported as is.
var ExitCodes = map[int]string{
	0:   "Success",
	1:   "General failure",
	2:   "Invalid usage",
	126: "Command found but not executable",
	127: "Command not found",
	128: "Invalid exit argument",
	129: "Terminated by SIGHUP",
	130: "Interrupted (SIGINT)",
	131: "Terminated by SIGQUIT",
	134: "Aborted (SIGABRT)",
	137: "Killed (SIGKILL)",
	139: "Segmentation fault (SIGSEGV)",
	143: "Terminated (SIGTERM)",
}

// GetErrorMessage returns the description for a given exit code, or a generic message if unknown
func GetErrorMessage(code int) string {
	if msg, ok := ExitCodes[code]; ok {
		return msg
	}

	if code < 0 {
		return "Terminated by signal"
	}

	return "Unknown error"
}

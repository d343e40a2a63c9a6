package codes

import "fmt"

// SignalNames maps Linux signal numbers to their names.
var SignalNames = map[int]string{
	1:  "SIGHUP",
	2:  "SIGINT",
	3:  "SIGQUIT",
	4:  "SIGILL",
	5:  "SIGTRAP",
	6:  "SIGABRT",
	7:  "SIGBUS",
	8:  "SIGFPE",
	9:  "SIGKILL",
	10: "SIGUSR1",
	11: "SIGSEGV",
	12: "SIGUSR2",
	13: "SIGPIPE",
	14: "SIGALRM",
	15: "SIGTERM",
	16: "SIGSTKFLT",
	17: "SIGCHLD",
	18: "SIGCONT",
	19: "SIGSTOP",
	20: "SIGTSTP",
	21: "SIGTTIN",
	22: "SIGTTOU",
	23: "SIGURG",
	24: "SIGXCPU",
	25: "SIGXFSZ",
	26: "SIGVTALRM",
	27: "SIGPROF",
	28: "SIGWINCH",
	29: "SIGIO",
	30: "SIGPWR",
	31: "SIGSYS",
}

// IsSuccess returns true if the exit code indicates the program finished normally
func IsSuccess(code int) bool {
	return code == 0
}

// GetSignalName returns the name of a signal, or a generic name if unknown
func GetSignalName(sig int) string {
	if name, ok := SignalNames[sig]; ok {
		return name
	}

	return fmt.Sprintf("signal %d", sig)
}

// Describe returns a short description of how a program terminated.
// signal takes precedence over exitCode when non-zero.
func Describe(exitCode, signal int) string {
	switch {
	case signal > 0:
		return "killed by " + GetSignalName(signal)
	case IsSuccess(exitCode):
		return "Success"
	default:
		return "non-zero exit"
	}
}

package taskrun

import (
	"errors"

	"github.com/edelbluth/taskmill/internal/buildfile"
	"github.com/edelbluth/taskmill/internal/taskgraph"
)

const (
	successExitCodeConstant            = 0
	genericFailureExitCodeConstant     = 1
	configurationErrorExitCodeConstant = 2
)

// ExitCode maps a run error to the process exit status: the failing command's
// own exit code for command failures, a distinguished code for configuration
// errors (unknown task, cycle, invalid declarations, unreadable task file),
// and a generic failure code for everything else.
func ExitCode(runError error) int {
	if runError == nil {
		return successExitCodeConstant
	}

	var commandFailed CommandFailedError
	if errors.As(runError, &commandFailed) {
		if commandFailed.ExitCode == 0 {
			return genericFailureExitCodeConstant
		}
		return commandFailed.ExitCode
	}

	var unknownTask taskgraph.UnknownTaskError
	var cyclicDependency taskgraph.CyclicDependencyError
	var duplicateTask taskgraph.DuplicateTaskError
	var selfDependency taskgraph.SelfDependencyError
	var emptyCommandLine taskgraph.EmptyCommandLineError
	var taskFile buildfile.TaskFileError
	if errors.As(runError, &unknownTask) ||
		errors.As(runError, &cyclicDependency) ||
		errors.As(runError, &duplicateTask) ||
		errors.As(runError, &selfDependency) ||
		errors.As(runError, &emptyCommandLine) ||
		errors.As(runError, &taskFile) {
		return configurationErrorExitCodeConstant
	}

	return genericFailureExitCodeConstant
}

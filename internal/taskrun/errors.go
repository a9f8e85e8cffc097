package taskrun

import "fmt"

const (
	commandFailedErrorMessageTemplateConstant = "task %q command %q exited with code %d"
	taskExecutionErrorMessageTemplateConstant = "task %q command %q could not be executed"
)

// CommandFailedError reports the first command line that exited with a
// non-zero status, aborting the remainder of the run.
type CommandFailedError struct {
	TaskName    string
	CommandLine string
	ExitCode    int
}

// Error implements the error interface.
func (errorDetails CommandFailedError) Error() string {
	return fmt.Sprintf(commandFailedErrorMessageTemplateConstant, errorDetails.TaskName, errorDetails.CommandLine, errorDetails.ExitCode)
}

// TaskExecutionError reports a command line whose process could not be spawned.
type TaskExecutionError struct {
	TaskName    string
	CommandLine string
	Cause       error
}

// Error implements the error interface.
func (errorDetails TaskExecutionError) Error() string {
	return fmt.Sprintf(taskExecutionErrorMessageTemplateConstant, errorDetails.TaskName, errorDetails.CommandLine)
}

// Unwrap exposes the underlying error.
func (errorDetails TaskExecutionError) Unwrap() error {
	return errorDetails.Cause
}

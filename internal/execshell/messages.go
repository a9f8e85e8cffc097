package execshell

import (
	"fmt"
	"strings"
)

const (
	startedMessageTemplateConstant          = "Running %s"
	successMessageTemplateConstant          = "Completed %s"
	failureMessageTemplateConstant          = "Command %s exited with code %d"
	executionFailureMessageTemplateConstant = "Unable to run %s: %v"
)

func renderCommandLine(command ShellCommand) string {
	parts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(parts, " ")
}

func buildStartedMessage(command ShellCommand) string {
	return fmt.Sprintf(startedMessageTemplateConstant, renderCommandLine(command))
}

func buildSuccessMessage(command ShellCommand) string {
	return fmt.Sprintf(successMessageTemplateConstant, renderCommandLine(command))
}

func buildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return fmt.Sprintf(failureMessageTemplateConstant, renderCommandLine(command), result.ExitCode)
}

func buildExecutionFailureMessage(command ShellCommand, runnerError error) string {
	return fmt.Sprintf(executionFailureMessageTemplateConstant, renderCommandLine(command), runnerError)
}

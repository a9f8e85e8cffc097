package execshell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

const environmentEntryTemplateConstant = "%s=%s"

// OSCommandRunner spawns real operating system processes. Standard output and
// standard error are forwarded to the configured writers as the process
// produces them, interleaved in execution order, without buffering.
type OSCommandRunner struct {
	standardOutput io.Writer
	standardError  io.Writer
}

// NewOSCommandRunner constructs a runner forwarding process streams to the provided writers.
func NewOSCommandRunner(standardOutput io.Writer, standardError io.Writer) *OSCommandRunner {
	if standardOutput == nil {
		standardOutput = os.Stdout
	}
	if standardError == nil {
		standardError = os.Stderr
	}
	return &OSCommandRunner{standardOutput: standardOutput, standardError: standardError}
}

// Run executes the command, blocking until the process exits. A non-zero exit
// status is reported through the result rather than as an error; errors are
// reserved for processes that could not be spawned or were interrupted.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	osCommand := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	osCommand.Dir = command.Details.WorkingDirectory
	osCommand.Stdout = runner.standardOutput
	osCommand.Stderr = runner.standardError

	if len(command.Details.EnvironmentVariables) > 0 {
		environment := os.Environ()
		for environmentKey, environmentValue := range command.Details.EnvironmentVariables {
			environment = append(environment, fmt.Sprintf(environmentEntryTemplateConstant, environmentKey, environmentValue))
		}
		osCommand.Env = environment
	}

	runError := osCommand.Run()
	if runError == nil {
		return ExecutionResult{ExitCode: 0}, nil
	}

	var exitError *exec.ExitError
	if errors.As(runError, &exitError) {
		return ExecutionResult{ExitCode: exitError.ExitCode()}, nil
	}

	return ExecutionResult{}, runError
}

package runcmd_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edelbluth/taskmill/cmd/cli/runcmd"
	"github.com/edelbluth/taskmill/internal/execshell"
	"github.com/edelbluth/taskmill/internal/taskrun"
)

const (
	testRunSubtestTemplateConstant   = "%d_%s"
	testTaskFileNameConstant         = "taskmill.yaml"
	testFailingCommandLineConstant   = "echo verify"
	testFailingCommandExitCodeNumber = 5
	testShellArgumentCountConstant   = 2
)

const testTaskFileContentConstant = "tasks:\n" +
	"  - name: prepare\n" +
	"    commands:\n" +
	"      - echo prepare\n" +
	"  - name: verify\n" +
	"    needs: [prepare]\n" +
	"    commands:\n" +
	"      - echo verify\n" +
	"  - name: release\n" +
	"    needs: [verify]\n" +
	"    commands:\n" +
	"      - echo package\n" +
	"      - echo upload\n"

type recordingCommandRunner struct {
	executedCommandLines []string
	failingCommandLine   string
	failureExitCode      int
}

func (runner *recordingCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	if len(command.Details.Arguments) != testShellArgumentCountConstant {
		return execshell.ExecutionResult{}, fmt.Errorf("unexpected shell arguments %v", command.Details.Arguments)
	}
	commandLine := command.Details.Arguments[1]
	runner.executedCommandLines = append(runner.executedCommandLines, commandLine)
	if len(runner.failingCommandLine) > 0 && commandLine == runner.failingCommandLine {
		return execshell.ExecutionResult{ExitCode: runner.failureExitCode}, nil
	}
	return execshell.ExecutionResult{}, nil
}

func writeTaskFile(testInstance *testing.T) string {
	testInstance.Helper()
	taskFilePath := filepath.Join(testInstance.TempDir(), testTaskFileNameConstant)
	require.NoError(testInstance, os.WriteFile(taskFilePath, []byte(testTaskFileContentConstant), 0o644))
	return taskFilePath
}

func buildRunCommand(testInstance *testing.T, runner *recordingCommandRunner, configuration runcmd.CommandConfiguration) *cobra.Command {
	testInstance.Helper()

	builder := runcmd.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return zap.NewNop()
		},
		ConfigurationProvider: func() runcmd.CommandConfiguration {
			return configuration
		},
		CommandRunnerFactory: func(_ io.Writer, _ io.Writer) execshell.CommandRunner {
			return runner
		},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	return command
}

func executeRunCommand(command *cobra.Command, arguments []string) error {
	command.SetArgs(arguments)
	return command.ExecuteContext(context.Background())
}

func TestRunCommandExecutesPrerequisitesInOrder(testInstance *testing.T) {
	taskFilePath := writeTaskFile(testInstance)
	runner := &recordingCommandRunner{}
	command := buildRunCommand(testInstance, runner, runcmd.CommandConfiguration{})

	executionError := executeRunCommand(command, []string{"release", "--taskfile", taskFilePath})
	require.NoError(testInstance, executionError)
	require.Equal(
		testInstance,
		[]string{"echo prepare", "echo verify", "echo package", "echo upload"},
		runner.executedCommandLines,
	)
}

func TestRunCommandStopsOnFirstFailure(testInstance *testing.T) {
	taskFilePath := writeTaskFile(testInstance)
	runner := &recordingCommandRunner{
		failingCommandLine: testFailingCommandLineConstant,
		failureExitCode:    testFailingCommandExitCodeNumber,
	}
	command := buildRunCommand(testInstance, runner, runcmd.CommandConfiguration{})

	executionError := executeRunCommand(command, []string{"release", "--taskfile", taskFilePath})
	require.Error(testInstance, executionError)

	commandFailure := &taskrun.CommandFailedError{}
	require.ErrorAs(testInstance, executionError, commandFailure)
	require.Equal(testInstance, "verify", commandFailure.TaskName)
	require.Equal(testInstance, testFailingCommandLineConstant, commandFailure.CommandLine)
	require.Equal(testInstance, testFailingCommandExitCodeNumber, commandFailure.ExitCode)
	require.Equal(testInstance, []string{"echo prepare", "echo verify"}, runner.executedCommandLines)
}

func TestRunCommandUnknownTargetExecutesNothing(testInstance *testing.T) {
	taskFilePath := writeTaskFile(testInstance)
	runner := &recordingCommandRunner{}
	command := buildRunCommand(testInstance, runner, runcmd.CommandConfiguration{})

	executionError := executeRunCommand(command, []string{"missing", "--taskfile", taskFilePath})
	require.Error(testInstance, executionError)
	require.Empty(testInstance, runner.executedCommandLines)
}

func TestRunCommandDryRunSkipsExecution(testInstance *testing.T) {
	taskFilePath := writeTaskFile(testInstance)
	runner := &recordingCommandRunner{}
	command := buildRunCommand(testInstance, runner, runcmd.CommandConfiguration{})

	executionError := executeRunCommand(command, []string{"release", "--taskfile", taskFilePath, "--dry-run"})
	require.NoError(testInstance, executionError)
	require.Empty(testInstance, runner.executedCommandLines)
}

func TestRunCommandUsesConfiguredTaskFile(testInstance *testing.T) {
	taskFilePath := writeTaskFile(testInstance)
	runner := &recordingCommandRunner{}
	command := buildRunCommand(testInstance, runner, runcmd.CommandConfiguration{TaskFile: taskFilePath})

	executionError := executeRunCommand(command, []string{"prepare"})
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"echo prepare"}, runner.executedCommandLines)
}

func TestRunCommandBuilderValidation(testInstance *testing.T) {
	testCases := []struct {
		name    string
		builder runcmd.CommandBuilder
	}{
		{
			name: "missing_logger_provider",
			builder: runcmd.CommandBuilder{
				CommandRunnerFactory: func(_ io.Writer, _ io.Writer) execshell.CommandRunner {
					return &recordingCommandRunner{}
				},
			},
		},
		{
			name: "missing_runner_factory",
			builder: runcmd.CommandBuilder{
				LoggerProvider: func() *zap.Logger {
					return zap.NewNop()
				},
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testRunSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			command, buildError := testCase.builder.Build()
			require.Error(testInstance, buildError)
			require.Nil(testInstance, command)
		})
	}
}

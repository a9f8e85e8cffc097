package taskrun

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/edelbluth/taskmill/internal/execshell"
	"github.com/edelbluth/taskmill/internal/taskgraph"
)

const (
	runnerLoggerMissingMessageConstant   = "task runner logger not configured"
	runnerExecutorMissingMessageConstant = "task runner shell executor not configured"
	shellCommandFlagConstant             = "-c"
	taskStartMessageConstant             = "task starting"
	taskCompleteMessageConstant          = "task completed"
	taskSkippedMessageConstant           = "task already completed in this run"
	commandPlannedMessageConstant        = "command skipped (dry run)"
	taskNameFieldNameConstant            = "task"
	commandLineFieldNameConstant         = "command_line"
	commandCountFieldNameConstant        = "command_count"
)

var (
	// ErrLoggerNotConfigured indicates the logger dependency was missing.
	ErrLoggerNotConfigured = errors.New(runnerLoggerMissingMessageConstant)
	// ErrShellExecutorNotConfigured indicates the shell executor dependency was missing.
	ErrShellExecutorNotConfigured = errors.New(runnerExecutorMissingMessageConstant)
)

// ShellCommandExecutor runs a single shell invocation.
type ShellCommandExecutor interface {
	ExecuteShell(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CommandExecution records one command line processed during a run.
type CommandExecution struct {
	TaskName    string
	CommandLine string
	ExitCode    int
	DryRun      bool
}

// RunLog is the ordered record of command lines processed during a single run.
type RunLog struct {
	Executions []CommandExecution
}

// RunOptions adjusts the behavior of a single run.
type RunOptions struct {
	WorkingDirectory string
	DryRun           bool
}

// Runner executes a task and its transitive prerequisites depth-first,
// strictly sequentially, each task at most once per run, stopping the whole
// run on the first command failure.
type Runner struct {
	shellExecutor ShellCommandExecutor
	logger        *zap.Logger
}

// NewRunner builds a Runner for the provided executor and logger.
func NewRunner(logger *zap.Logger, shellExecutor ShellCommandExecutor) (*Runner, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if shellExecutor == nil {
		return nil, ErrShellExecutorNotConfigured
	}
	return &Runner{shellExecutor: shellExecutor, logger: logger}, nil
}

// Run validates the prerequisite closure of the requested task and executes
// its command lines in dependency order. Validation failures (unknown task,
// dependency cycle) surface before any command is spawned. The returned log
// covers every command processed up to and including the first failure.
func (runner *Runner) Run(executionContext context.Context, graph *taskgraph.TaskGraph, requestedTaskName string, options RunOptions) (RunLog, error) {
	orderedTasks, planError := taskgraph.Plan(graph, requestedTaskName)
	if planError != nil {
		return RunLog{}, planError
	}

	runLog := RunLog{Executions: make([]CommandExecution, 0)}
	completedTasks := make(map[string]struct{}, len(orderedTasks))

	for taskIndex := range orderedTasks {
		task := orderedTasks[taskIndex]
		if _, alreadyCompleted := completedTasks[task.Name]; alreadyCompleted {
			runner.logger.Debug(taskSkippedMessageConstant, zap.String(taskNameFieldNameConstant, task.Name))
			continue
		}

		runner.logger.Debug(taskStartMessageConstant,
			zap.String(taskNameFieldNameConstant, task.Name),
			zap.Int(commandCountFieldNameConstant, len(task.Commands)),
		)

		for commandIndex := range task.Commands {
			commandLine := task.Commands[commandIndex]

			if options.DryRun {
				runner.logger.Info(commandPlannedMessageConstant,
					zap.String(taskNameFieldNameConstant, task.Name),
					zap.String(commandLineFieldNameConstant, commandLine),
				)
				runLog.Executions = append(runLog.Executions, CommandExecution{TaskName: task.Name, CommandLine: commandLine, DryRun: true})
				continue
			}

			executionResult, executionError := runner.shellExecutor.ExecuteShell(executionContext, execshell.CommandDetails{
				Arguments:        []string{shellCommandFlagConstant, commandLine},
				WorkingDirectory: options.WorkingDirectory,
			})
			if executionError != nil {
				return runLog, translateExecutionError(task.Name, commandLine, executionError)
			}

			runLog.Executions = append(runLog.Executions, CommandExecution{TaskName: task.Name, CommandLine: commandLine, ExitCode: executionResult.ExitCode})
		}

		completedTasks[task.Name] = struct{}{}
		runner.logger.Debug(taskCompleteMessageConstant, zap.String(taskNameFieldNameConstant, task.Name))
	}

	return runLog, nil
}

func translateExecutionError(taskName string, commandLine string, executionError error) error {
	var commandFailed execshell.CommandFailedError
	if errors.As(executionError, &commandFailed) {
		return CommandFailedError{TaskName: taskName, CommandLine: commandLine, ExitCode: commandFailed.Result.ExitCode}
	}
	return TaskExecutionError{TaskName: taskName, CommandLine: commandLine, Cause: executionError}
}

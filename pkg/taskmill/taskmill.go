package taskmill

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/edelbluth/taskmill/internal/execshell"
	"github.com/edelbluth/taskmill/internal/taskgraph"
	"github.com/edelbluth/taskmill/internal/taskrun"
)

// Task declares a named build task with ordered prerequisites and command lines.
type Task struct {
	Name     string
	Needs    []string
	Commands []string
}

// CommandExecution records one command line processed during a run.
type CommandExecution struct {
	TaskName    string
	CommandLine string
	ExitCode    int
	DryRun      bool
}

// RunResult is the ordered record of a completed run.
type RunResult struct {
	Executions []CommandExecution
}

// RunOptions adjusts a single run. Zero values select a no-op logger and the
// process's own standard streams.
type RunOptions struct {
	WorkingDirectory string
	DryRun           bool
	Logger           *zap.Logger
	StandardOutput   io.Writer
	StandardError    io.Writer
}

// Run executes the requested task and its transitive prerequisites from the
// provided declarations. Declaration problems (duplicate names, unknown or
// cyclic prerequisites) surface before any command is spawned.
func Run(executionContext context.Context, tasks []Task, requestedTaskName string, options RunOptions) (RunResult, error) {
	declarations := make([]taskgraph.Task, 0, len(tasks))
	for taskIndex := range tasks {
		declarations = append(declarations, taskgraph.Task{
			Name:     tasks[taskIndex].Name,
			Needs:    tasks[taskIndex].Needs,
			Commands: tasks[taskIndex].Commands,
		})
	}

	graph, graphError := taskgraph.NewTaskGraph(declarations)
	if graphError != nil {
		return RunResult{}, graphError
	}

	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	commandRunner := execshell.NewOSCommandRunner(options.StandardOutput, options.StandardError)
	shellExecutor, executorError := execshell.NewShellExecutor(logger, commandRunner, false)
	if executorError != nil {
		return RunResult{}, executorError
	}

	runner, runnerError := taskrun.NewRunner(logger, shellExecutor)
	if runnerError != nil {
		return RunResult{}, runnerError
	}

	runLog, runError := runner.Run(executionContext, graph, requestedTaskName, taskrun.RunOptions{
		WorkingDirectory: options.WorkingDirectory,
		DryRun:           options.DryRun,
	})

	result := RunResult{Executions: make([]CommandExecution, 0, len(runLog.Executions))}
	for executionIndex := range runLog.Executions {
		execution := runLog.Executions[executionIndex]
		result.Executions = append(result.Executions, CommandExecution{
			TaskName:    execution.TaskName,
			CommandLine: execution.CommandLine,
			ExitCode:    execution.ExitCode,
			DryRun:      execution.DryRun,
		})
	}
	return result, runError
}

// ExitCode maps a run error to a process exit status.
func ExitCode(runError error) int {
	return taskrun.ExitCode(runError)
}

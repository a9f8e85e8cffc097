package runcmd

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edelbluth/taskmill/internal/buildfile"
	"github.com/edelbluth/taskmill/internal/execshell"
	"github.com/edelbluth/taskmill/internal/taskrun"
)

const (
	commandUseConstant                    = "run <target>"
	commandShortDescriptionConstant       = "Run a task and its prerequisites"
	commandLongDescriptionConstant        = "run executes the requested task after its transitive prerequisites, depth-first, each task at most once, stopping on the first failing command."
	commandExampleConstant                = "taskmill run ci\n  taskmill run pylint --taskfile ./taskmill.yaml"
	taskFileFlagNameConstant              = "taskfile"
	taskFileFlagShorthandConstant         = "f"
	taskFileFlagUsageConstant             = "Path to the YAML task file (defaults to ./taskmill.yaml, then the embedded tasks)."
	workingDirectoryFlagNameConstant      = "chdir"
	workingDirectoryFlagShorthandConstant = "C"
	workingDirectoryFlagUsageConstant     = "Working directory for spawned commands."
	dryRunFlagNameConstant                = "dry-run"
	dryRunFlagUsageConstant               = "Resolve and log the execution plan without spawning commands."
	loggerProviderMissingMessageConstant  = "run command logger provider not configured"
	runnerFactoryMissingMessageConstant   = "run command runner factory not configured"
	taskFileSourceFieldNameConstant       = "source"
	targetFieldNameConstant               = "target"
	commandCountFieldNameConstant         = "commands_executed"
	runCompletedMessageConstant           = "run completed"
)

// CommandConfiguration carries configuration defaults for the run command.
type CommandConfiguration struct {
	TaskFile         string
	WorkingDirectory string
	DryRun           bool
}

// CommandRunnerFactory builds the process runner used for spawned commands,
// bound to the command's output streams.
type CommandRunnerFactory func(standardOutput io.Writer, standardError io.Writer) execshell.CommandRunner

// CommandBuilder assembles the run command.
type CommandBuilder struct {
	LoggerProvider               func() *zap.Logger
	ConfigurationProvider        func() CommandConfiguration
	CommandRunnerFactory         CommandRunnerFactory
	HumanReadableLoggingProvider func() bool
}

// Build constructs the run command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	if builder.LoggerProvider == nil {
		return nil, errors.New(loggerProviderMissingMessageConstant)
	}
	if builder.CommandRunnerFactory == nil {
		return nil, errors.New(runnerFactoryMissingMessageConstant)
	}

	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		Example:       commandExampleConstant,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          builder.run,
	}

	command.Flags().StringP(taskFileFlagNameConstant, taskFileFlagShorthandConstant, "", taskFileFlagUsageConstant)
	command.Flags().StringP(workingDirectoryFlagNameConstant, workingDirectoryFlagShorthandConstant, "", workingDirectoryFlagUsageConstant)
	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	taskFilePath, taskFileFlagError := command.Flags().GetString(taskFileFlagNameConstant)
	if taskFileFlagError != nil {
		return taskFileFlagError
	}
	if len(taskFilePath) == 0 {
		taskFilePath = configuration.TaskFile
	}

	workingDirectory, workingDirectoryFlagError := command.Flags().GetString(workingDirectoryFlagNameConstant)
	if workingDirectoryFlagError != nil {
		return workingDirectoryFlagError
	}
	if len(workingDirectory) == 0 {
		workingDirectory = configuration.WorkingDirectory
	}

	dryRun, dryRunFlagError := command.Flags().GetBool(dryRunFlagNameConstant)
	if dryRunFlagError != nil {
		return dryRunFlagError
	}
	if !command.Flags().Changed(dryRunFlagNameConstant) {
		dryRun = configuration.DryRun
	}

	graph, taskFileSource, resolveError := buildfile.Resolve(taskFilePath)
	if resolveError != nil {
		return resolveError
	}

	logger := builder.LoggerProvider()
	logger.Debug(commandUseConstant, zap.String(taskFileSourceFieldNameConstant, taskFileSource))

	commandRunner := builder.CommandRunnerFactory(command.OutOrStdout(), command.ErrOrStderr())
	shellExecutor, executorError := execshell.NewShellExecutor(logger, commandRunner, builder.humanReadableLoggingEnabled())
	if executorError != nil {
		return executorError
	}

	taskRunner, runnerError := taskrun.NewRunner(logger, shellExecutor)
	if runnerError != nil {
		return runnerError
	}

	runLog, runError := taskRunner.Run(command.Context(), graph, arguments[0], taskrun.RunOptions{
		WorkingDirectory: workingDirectory,
		DryRun:           dryRun,
	})
	if runError != nil {
		return runError
	}

	logger.Info(runCompletedMessageConstant,
		zap.String(targetFieldNameConstant, arguments[0]),
		zap.Int(commandCountFieldNameConstant, len(runLog.Executions)),
	)
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return CommandConfiguration{}
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) humanReadableLoggingEnabled() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}

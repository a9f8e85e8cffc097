package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/edelbluth/taskmill/cmd/cli/listcmd"
	"github.com/edelbluth/taskmill/cmd/cli/runcmd"
	"github.com/edelbluth/taskmill/internal/buildfile"
	"github.com/edelbluth/taskmill/internal/execshell"
	"github.com/edelbluth/taskmill/internal/utils"
	"github.com/edelbluth/taskmill/internal/version"
)

const (
	applicationNameConstant                                     = "taskmill"
	applicationShortDescriptionConstant                         = "Declarative build-task runner"
	applicationLongDescriptionConstant                          = "taskmill executes named build tasks with ordered prerequisites, running each task's shell command lines depth-first, at most once per invocation, and stopping on the first failure."
	configFileFlagNameConstant                                  = "config"
	configFileFlagUsageConstant                                 = "Optional path to a configuration file (YAML)."
	logLevelFlagNameConstant                                    = "log-level"
	logLevelFlagUsageConstant                                   = "Override the configured log level (debug, info, warn, error)."
	logFormatFlagNameConstant                                   = "log-format"
	logFormatFlagUsageConstant                                  = "Override the configured log format (structured or console)."
	taskFileInitializationFlagNameConstant                      = "init"
	taskFileInitializationFlagUsageConstant                     = "Write the embedded default task file to LOCAL (./taskmill.yaml) or user ($XDG_CONFIG_HOME/taskmill/taskmill.yaml, falling back to $HOME/.taskmill/taskmill.yaml)."
	taskFileInitializationForceFlagNameConstant                 = "force"
	taskFileInitializationForceFlagUsageConstant                = "Overwrite an existing task file when initializing."
	taskFileInitializationDefaultScopeConstant                  = "local"
	taskFileInitializationScopeLocalConstant                    = "local"
	taskFileInitializationScopeUserConstant                     = "user"
	taskFileInitializationUnsupportedScopeTemplateConstant      = "unsupported initialization scope %q"
	taskFileInitializationWorkingDirectoryErrorTemplateConstant = "unable to determine working directory: %w"
	taskFileInitializationHomeDirectoryErrorTemplateConstant    = "unable to determine user home directory: %w"
	taskFileInitializationDirectoryErrorTemplateConstant        = "unable to ensure task file directory %s: %w"
	taskFileInitializationExistingFileTemplateConstant          = "task file already exists at %s (use --force to overwrite)"
	taskFileInitializationWriteErrorTemplateConstant            = "unable to write task file %s: %w"
	taskFileInitializationSuccessMessageConstant                = "task file created"
	taskFilePathFieldConstant                                   = "task_file"
	versionFlagNameConstant                                     = "version"
	versionFlagUsageConstant                                    = "Print the application version and exit"
	versionOutputTemplateConstant                               = "taskmill version: %s\n"
	versionCommandUseNameConstant                               = "version"
	versionCommandShortDescriptionConstant                      = "Print the taskmill version"
	versionCommandLongDescriptionConstant                       = "version prints the current taskmill release identifier."
	commonConfigurationKeyConstant                              = "common"
	commonLogLevelConfigKeyConstant                             = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant                            = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant                                   = "TASKMILL"
	configurationNameConstant                                   = "config"
	configurationTypeConstant                                   = "yaml"
	defaultConfigurationSearchPathConstant                      = "."
	userConfigurationDirectoryNameConstant                      = ".taskmill"
	xdgConfigHomeEnvironmentVariableConstant                    = "XDG_CONFIG_HOME"
	configurationLoadErrorTemplateConstant                      = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant                         = "unable to create logger: %w"
	taskFileDirectoryPermissionConstant                         = 0o755
	taskFilePermissionConstant                                  = 0o644
	defaultLogLevelValueConstant                                = "info"
	defaultLogFormatValueConstant                               = "console"
)

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand                  *cobra.Command
	configurationLoader          *utils.ConfigurationLoader
	loggerFactory                *utils.LoggerFactory
	logger                       *zap.Logger
	consoleLogger                *zap.Logger
	configuration                ApplicationConfiguration
	configurationFilePath        string
	logLevelFlagValue            string
	logFormatFlagValue           string
	taskFileInitializationScope  string
	taskFileInitializationForced bool
	versionFlag                  bool
	versionResolver              func() string
	exitFunction                 func(int)
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	application := &Application{
		loggerFactory: utils.NewLoggerFactory(),
		logger:        zap.NewNop(),
		consoleLogger: zap.NewNop(),
	}
	application.versionResolver = func() string {
		return version.NewDetector(nil).Version()
	}
	application.exitFunction = os.Exit

	application.configurationLoader = utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		application.resolveConfigurationSearchPaths(),
	)
	embeddedConfigurationData, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	application.configurationLoader.SetEmbeddedConfiguration(embeddedConfigurationData, embeddedConfigurationType)

	rootCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if initializationError := application.initializeConfiguration(); initializationError != nil {
				return initializationError
			}
			if application.versionFlag {
				application.printVersion(command.OutOrStdout())
				application.exitFunction(0)
			}
			return nil
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command)
		},
	}

	rootCommand.SetContext(context.Background())
	rootCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	rootCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	rootCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	rootCommand.PersistentFlags().BoolVar(&application.versionFlag, versionFlagNameConstant, false, versionFlagUsageConstant)
	rootCommand.Flags().StringVar(
		&application.taskFileInitializationScope,
		taskFileInitializationFlagNameConstant,
		"",
		taskFileInitializationFlagUsageConstant,
	)
	rootCommand.Flags().Lookup(taskFileInitializationFlagNameConstant).NoOptDefVal = taskFileInitializationDefaultScopeConstant
	rootCommand.Flags().BoolVar(
		&application.taskFileInitializationForced,
		taskFileInitializationForceFlagNameConstant,
		false,
		taskFileInitializationForceFlagUsageConstant,
	)

	versionCommand := &cobra.Command{
		Use:           versionCommandUseNameConstant,
		Short:         versionCommandShortDescriptionConstant,
		Long:          versionCommandLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			application.printVersion(command.OutOrStdout())
			return nil
		},
	}
	rootCommand.AddCommand(versionCommand)

	runBuilder := runcmd.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider:        application.runCommandConfiguration,
		CommandRunnerFactory:         defaultCommandRunnerFactory,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
	}
	runCommand, runBuildError := runBuilder.Build()
	if runBuildError == nil {
		rootCommand.AddCommand(runCommand)
	}

	listBuilder := listcmd.CommandBuilder{
		ConfigurationProvider: application.listCommandConfiguration,
	}
	listCommand, listBuildError := listBuilder.Build()
	if listBuildError == nil {
		rootCommand.AddCommand(listCommand)
	}

	application.rootCommand = rootCommand
	return application
}

// Execute runs the root command hierarchy.
func (application *Application) Execute() error {
	return application.rootCommand.Execute()
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

// RootCommand exposes the assembled root command.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

func (application *Application) initializeConfiguration() error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  defaultLogLevelValueConstant,
		commonLogFormatConfigKeyConstant: defaultLogFormatValueConstant,
	}

	configuration := ApplicationConfiguration{}
	_, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configuration = configuration

	loggerOutputs, loggerError := application.loggerFactory.CreateLoggerOutputs(
		configuration.effectiveLogLevel(application.logLevelFlagValue),
		configuration.effectiveLogFormat(application.logFormatFlagValue),
	)
	if loggerError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerError)
	}
	application.logger = loggerOutputs.DiagnosticLogger
	application.consoleLogger = loggerOutputs.ConsoleLogger
	return nil
}

func (application *Application) runRootCommand(command *cobra.Command) error {
	if flagProvided(command.Flags(), taskFileInitializationFlagNameConstant) {
		return application.initializeTaskFile()
	}
	return command.Help()
}

func flagProvided(flagSet *pflag.FlagSet, flagName string) bool {
	registeredFlag := flagSet.Lookup(flagName)
	return registeredFlag != nil && registeredFlag.Changed
}

func (application *Application) initializeTaskFile() error {
	scope := strings.TrimSpace(application.taskFileInitializationScope)
	if len(scope) == 0 {
		scope = taskFileInitializationDefaultScopeConstant
	}

	taskFilePath, pathError := application.resolveTaskFileInitializationPath(scope)
	if pathError != nil {
		return pathError
	}

	if _, statError := os.Stat(taskFilePath); statError == nil && !application.taskFileInitializationForced {
		return fmt.Errorf(taskFileInitializationExistingFileTemplateConstant, taskFilePath)
	}

	taskFileDirectory := filepath.Dir(taskFilePath)
	if directoryError := os.MkdirAll(taskFileDirectory, taskFileDirectoryPermissionConstant); directoryError != nil {
		return fmt.Errorf(taskFileInitializationDirectoryErrorTemplateConstant, taskFileDirectory, directoryError)
	}

	if writeError := os.WriteFile(taskFilePath, buildfile.EmbeddedDefaultTaskFile(), taskFilePermissionConstant); writeError != nil {
		return fmt.Errorf(taskFileInitializationWriteErrorTemplateConstant, taskFilePath, writeError)
	}

	application.logger.Info(taskFileInitializationSuccessMessageConstant, zap.String(taskFilePathFieldConstant, taskFilePath))
	return nil
}

func (application *Application) resolveTaskFileInitializationPath(scope string) (string, error) {
	switch scope {
	case taskFileInitializationScopeLocalConstant:
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return "", fmt.Errorf(taskFileInitializationWorkingDirectoryErrorTemplateConstant, workingDirectoryError)
		}
		return filepath.Join(workingDirectory, buildfile.DefaultTaskFileName), nil
	case taskFileInitializationScopeUserConstant:
		return application.resolveUserTaskFilePath()
	default:
		return "", fmt.Errorf(taskFileInitializationUnsupportedScopeTemplateConstant, scope)
	}
}

func (application *Application) resolveUserTaskFilePath() (string, error) {
	xdgConfigHome := strings.TrimSpace(os.Getenv(xdgConfigHomeEnvironmentVariableConstant))
	if len(xdgConfigHome) > 0 {
		return filepath.Join(xdgConfigHome, applicationNameConstant, buildfile.DefaultTaskFileName), nil
	}

	homeDirectory, homeDirectoryError := os.UserHomeDir()
	if homeDirectoryError != nil {
		return "", fmt.Errorf(taskFileInitializationHomeDirectoryErrorTemplateConstant, homeDirectoryError)
	}
	return filepath.Join(homeDirectory, userConfigurationDirectoryNameConstant, buildfile.DefaultTaskFileName), nil
}

func (application *Application) resolveConfigurationSearchPaths() []string {
	searchPaths := []string{defaultConfigurationSearchPathConstant}

	xdgConfigHome := strings.TrimSpace(os.Getenv(xdgConfigHomeEnvironmentVariableConstant))
	if len(xdgConfigHome) > 0 {
		searchPaths = append(searchPaths, filepath.Join(xdgConfigHome, applicationNameConstant))
	}

	homeDirectory, homeDirectoryError := os.UserHomeDir()
	if homeDirectoryError == nil && len(strings.TrimSpace(homeDirectory)) > 0 {
		searchPaths = append(searchPaths, filepath.Join(homeDirectory, userConfigurationDirectoryNameConstant))
	}

	return searchPaths
}

func (application *Application) runCommandConfiguration() runcmd.CommandConfiguration {
	return runcmd.CommandConfiguration{
		TaskFile:         application.configuration.Run.TaskFile,
		WorkingDirectory: application.configuration.Run.WorkingDirectory,
		DryRun:           application.configuration.Common.DryRun,
	}
}

func (application *Application) listCommandConfiguration() listcmd.CommandConfiguration {
	return listcmd.CommandConfiguration{
		TaskFile: application.configuration.Run.TaskFile,
	}
}

func (application *Application) humanReadableLoggingEnabled() bool {
	return application.configuration.effectiveLogFormat(application.logFormatFlagValue) == utils.LogFormatConsole
}

func (application *Application) printVersion(outputWriter io.Writer) {
	fmt.Fprintf(outputWriter, versionOutputTemplateConstant, application.versionResolver())
}

func defaultCommandRunnerFactory(standardOutput io.Writer, standardError io.Writer) execshell.CommandRunner {
	return execshell.NewOSCommandRunner(standardOutput, standardError)
}

var errApplicationNotAssembled = errors.New("application root command not assembled")

// ExecuteWithArguments runs the root command hierarchy with the provided arguments.
func (application *Application) ExecuteWithArguments(arguments []string) error {
	if application.rootCommand == nil {
		return errApplicationNotAssembled
	}
	application.rootCommand.SetArgs(arguments)
	return application.rootCommand.Execute()
}

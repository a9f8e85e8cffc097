package listcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edelbluth/taskmill/internal/buildfile"
)

const (
	commandUseConstant              = "list"
	commandAliasConstant            = "ls"
	commandShortDescriptionConstant = "List declared tasks"
	commandLongDescriptionConstant  = "list prints every declared task in declaration order with its prerequisites and command count."
	taskFileFlagNameConstant        = "taskfile"
	taskFileFlagShorthandConstant   = "f"
	taskFileFlagUsageConstant       = "Path to the YAML task file (defaults to ./taskmill.yaml, then the embedded tasks)."
	taskListHeaderTemplateConstant  = "Tasks (%s):\n"
	taskEntryTemplateConstant       = "  %-12s needs=[%s] commands=%d\n"
	needsSeparatorConstant          = ", "
)

// CommandConfiguration carries configuration defaults for the list command.
type CommandConfiguration struct {
	TaskFile string
}

// CommandBuilder assembles the list command.
type CommandBuilder struct {
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the list command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Aliases:       []string{commandAliasConstant},
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          builder.run,
	}

	command.Flags().StringP(taskFileFlagNameConstant, taskFileFlagShorthandConstant, "", taskFileFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	taskFilePath, taskFileFlagError := command.Flags().GetString(taskFileFlagNameConstant)
	if taskFileFlagError != nil {
		return taskFileFlagError
	}
	if len(taskFilePath) == 0 && builder.ConfigurationProvider != nil {
		taskFilePath = builder.ConfigurationProvider().TaskFile
	}

	graph, taskFileSource, resolveError := buildfile.Resolve(taskFilePath)
	if resolveError != nil {
		return resolveError
	}

	outputWriter := command.OutOrStdout()
	fmt.Fprintf(outputWriter, taskListHeaderTemplateConstant, taskFileSource)
	for _, taskName := range graph.TaskNames() {
		task, _ := graph.Lookup(taskName)
		fmt.Fprintf(outputWriter, taskEntryTemplateConstant, task.Name, strings.Join(task.Needs, needsSeparatorConstant), len(task.Commands))
	}
	return nil
}

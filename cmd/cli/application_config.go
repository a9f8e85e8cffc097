package cli

import (
	"strings"

	"github.com/edelbluth/taskmill/internal/utils"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Run    ApplicationRunConfiguration    `mapstructure:"run"`
}

// ApplicationCommonConfiguration stores logging and execution defaults shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	DryRun    bool   `mapstructure:"dry_run"`
}

// ApplicationRunConfiguration stores defaults for the run command.
type ApplicationRunConfiguration struct {
	TaskFile         string `mapstructure:"taskfile"`
	WorkingDirectory string `mapstructure:"working_directory"`
}

func (configuration ApplicationConfiguration) effectiveLogLevel(flagOverride string) utils.LogLevel {
	trimmedOverride := strings.TrimSpace(flagOverride)
	if len(trimmedOverride) > 0 {
		return utils.LogLevel(trimmedOverride)
	}
	configuredLevel := strings.TrimSpace(configuration.Common.LogLevel)
	if len(configuredLevel) > 0 {
		return utils.LogLevel(configuredLevel)
	}
	return utils.LogLevelInfo
}

func (configuration ApplicationConfiguration) effectiveLogFormat(flagOverride string) utils.LogFormat {
	trimmedOverride := strings.TrimSpace(flagOverride)
	if len(trimmedOverride) > 0 {
		return utils.LogFormat(trimmedOverride)
	}
	configuredFormat := strings.TrimSpace(configuration.Common.LogFormat)
	if len(configuredFormat) > 0 {
		return utils.LogFormat(configuredFormat)
	}
	return utils.LogFormatConsole
}

package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edelbluth/taskmill/internal/utils"
)

const (
	testConfigurationNameConstant             = "taskmill"
	testConfigurationTypeConstant             = "yaml"
	testEnvironmentPrefixConstant             = "TESTMILL"
	testConfigurationFileNameConstant         = "taskmill.yaml"
	testLogLevelConfigurationKeyConstant      = "common.log_level"
	testDryRunConfigurationKeyConstant        = "common.dry_run"
	testEnvironmentVariableNameConstant       = "TESTMILL_COMMON_LOG_LEVEL"
	testConfigurationSubtestTemplateConstant  = "%d_%s"
	testEmbeddedConfigurationContentConstant  = "common:\n  log_level: warn\n  dry_run: false\n"
	testFileConfigurationContentConstant      = "common:\n  log_level: error\n"
	testMalformedConfigurationContentConstant = "common: [\n"
)

type testConfigurationStructure struct {
	Common testCommonConfigurationStructure `mapstructure:"common"`
}

type testCommonConfigurationStructure struct {
	LogLevel string `mapstructure:"log_level"`
	DryRun   bool   `mapstructure:"dry_run"`
}

func TestConfigurationLoaderLayering(testInstance *testing.T) {
	testCases := []struct {
		name                  string
		writeConfigFile       bool
		setEmbedded           bool
		environmentValue      string
		defaultValues         map[string]any
		expectedLogLevel      string
		expectedDryRun        bool
		expectConfigFileInUse bool
	}{
		{
			name:             "defaults_only",
			defaultValues:    map[string]any{testLogLevelConfigurationKeyConstant: "info", testDryRunConfigurationKeyConstant: true},
			expectedLogLevel: "info",
			expectedDryRun:   true,
		},
		{
			name:             "embedded_overrides_defaults",
			setEmbedded:      true,
			defaultValues:    map[string]any{testLogLevelConfigurationKeyConstant: "info", testDryRunConfigurationKeyConstant: true},
			expectedLogLevel: "warn",
			expectedDryRun:   false,
		},
		{
			name:                  "file_overrides_embedded",
			setEmbedded:           true,
			writeConfigFile:       true,
			defaultValues:         map[string]any{testLogLevelConfigurationKeyConstant: "info"},
			expectedLogLevel:      "error",
			expectedDryRun:        false,
			expectConfigFileInUse: true,
		},
		{
			name:                  "environment_overrides_file",
			setEmbedded:           true,
			writeConfigFile:       true,
			environmentValue:      "debug",
			defaultValues:         map[string]any{testLogLevelConfigurationKeyConstant: "info"},
			expectedLogLevel:      "debug",
			expectedDryRun:        false,
			expectConfigFileInUse: true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testConfigurationSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			searchDirectory := testInstance.TempDir()

			if testCase.writeConfigFile {
				configurationFilePath := filepath.Join(searchDirectory, testConfigurationFileNameConstant)
				writeError := os.WriteFile(configurationFilePath, []byte(testFileConfigurationContentConstant), 0o644)
				require.NoError(testInstance, writeError)
			}

			if len(testCase.environmentValue) > 0 {
				testInstance.Setenv(testEnvironmentVariableNameConstant, testCase.environmentValue)
			}

			configurationLoader := utils.NewConfigurationLoader(
				testConfigurationNameConstant,
				testConfigurationTypeConstant,
				testEnvironmentPrefixConstant,
				[]string{searchDirectory},
			)
			if testCase.setEmbedded {
				configurationLoader.SetEmbeddedConfiguration([]byte(testEmbeddedConfigurationContentConstant), testConfigurationTypeConstant)
			}

			loadedConfiguration := testConfigurationStructure{}
			loadMetadata, loadError := configurationLoader.LoadConfiguration("", testCase.defaultValues, &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedLogLevel, loadedConfiguration.Common.LogLevel)
			require.Equal(testInstance, testCase.expectedDryRun, loadedConfiguration.Common.DryRun)

			if testCase.expectConfigFileInUse {
				require.Equal(testInstance, filepath.Join(searchDirectory, testConfigurationFileNameConstant), loadMetadata.ConfigFileUsed)
			} else {
				require.Empty(testInstance, loadMetadata.ConfigFileUsed)
			}
		})
	}
}

func TestConfigurationLoaderExplicitFilePath(testInstance *testing.T) {
	explicitDirectory := testInstance.TempDir()
	explicitFilePath := filepath.Join(explicitDirectory, "custom.yaml")
	writeError := os.WriteFile(explicitFilePath, []byte(testFileConfigurationContentConstant), 0o644)
	require.NoError(testInstance, writeError)

	configurationLoader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		nil,
	)

	loadedConfiguration := testConfigurationStructure{}
	loadMetadata, loadError := configurationLoader.LoadConfiguration(explicitFilePath, nil, &loadedConfiguration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "error", loadedConfiguration.Common.LogLevel)
	require.Equal(testInstance, explicitFilePath, loadMetadata.ConfigFileUsed)
}

func TestConfigurationLoaderMissingExplicitFile(testInstance *testing.T) {
	missingFilePath := filepath.Join(testInstance.TempDir(), "absent.yaml")

	configurationLoader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		nil,
	)

	loadedConfiguration := testConfigurationStructure{}
	_, loadError := configurationLoader.LoadConfiguration(missingFilePath, nil, &loadedConfiguration)
	require.Error(testInstance, loadError)
}

func TestConfigurationLoaderMalformedFile(testInstance *testing.T) {
	searchDirectory := testInstance.TempDir()
	configurationFilePath := filepath.Join(searchDirectory, testConfigurationFileNameConstant)
	writeError := os.WriteFile(configurationFilePath, []byte(testMalformedConfigurationContentConstant), 0o644)
	require.NoError(testInstance, writeError)

	configurationLoader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{searchDirectory},
	)

	loadedConfiguration := testConfigurationStructure{}
	_, loadError := configurationLoader.LoadConfiguration("", nil, &loadedConfiguration)
	require.Error(testInstance, loadError)
}

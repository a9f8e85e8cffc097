package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	configurationKeySeparatorConstant              = "."
	environmentKeySeparatorConstant                = "_"
	embeddedConfigurationReadErrorTemplateConstant = "unable to read embedded configuration: %w"
	configurationFileReadErrorTemplateConstant     = "unable to read configuration file %s: %w"
	configurationDecodeErrorTemplateConstant       = "unable to decode configuration: %w"
)

// LoadedConfiguration describes where the effective configuration came from.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// ConfigurationLoader layers embedded defaults, configuration files discovered
// on the search paths, and environment variables, in increasing precedence.
type ConfigurationLoader struct {
	configurationName         string
	configurationType         string
	environmentPrefix         string
	searchPaths               []string
	embeddedConfiguration     []byte
	embeddedConfigurationType string
}

// NewConfigurationLoader constructs a loader for the provided configuration
// name, type, environment prefix, and ordered search paths.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		configurationName: configurationName,
		configurationType: configurationType,
		environmentPrefix: environmentPrefix,
		searchPaths:       append([]string{}, searchPaths...),
	}
}

// SetEmbeddedConfiguration registers embedded defaults merged beneath any
// discovered configuration file.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(content []byte, configurationType string) {
	loader.embeddedConfiguration = append([]byte{}, content...)
	loader.embeddedConfigurationType = configurationType
}

// LoadConfiguration resolves the effective configuration into the provided
// target structure. An explicit file path overrides the search paths.
func (loader *ConfigurationLoader) LoadConfiguration(explicitFilePath string, defaultValues map[string]any, target any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigType(loader.configurationType)

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	if len(loader.embeddedConfiguration) > 0 {
		embeddedType := loader.embeddedConfigurationType
		if len(embeddedType) == 0 {
			embeddedType = loader.configurationType
		}
		viperInstance.SetConfigType(embeddedType)
		if readError := viperInstance.ReadConfig(bytes.NewReader(loader.embeddedConfiguration)); readError != nil {
			return LoadedConfiguration{}, fmt.Errorf(embeddedConfigurationReadErrorTemplateConstant, readError)
		}
		viperInstance.SetConfigType(loader.configurationType)
	}

	configurationFilePath := loader.resolveConfigurationFilePath(explicitFilePath)
	if len(configurationFilePath) > 0 {
		viperInstance.SetConfigFile(configurationFilePath)
		if mergeError := viperInstance.MergeInConfig(); mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(configurationFileReadErrorTemplateConstant, configurationFilePath, mergeError)
		}
	}

	if len(loader.environmentPrefix) > 0 {
		viperInstance.SetEnvPrefix(loader.environmentPrefix)
		viperInstance.SetEnvKeyReplacer(strings.NewReplacer(configurationKeySeparatorConstant, environmentKeySeparatorConstant))
		viperInstance.AutomaticEnv()
	}

	if target != nil {
		decodeError := viperInstance.Unmarshal(target, func(decoderConfig *mapstructure.DecoderConfig) {
			decoderConfig.WeaklyTypedInput = true
		})
		if decodeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(configurationDecodeErrorTemplateConstant, decodeError)
		}
	}

	metadata := LoadedConfiguration{}
	if len(configurationFilePath) > 0 {
		metadata.ConfigFileUsed = configurationFilePath
	}
	return metadata, nil
}

func (loader *ConfigurationLoader) resolveConfigurationFilePath(explicitFilePath string) string {
	trimmedExplicitPath := strings.TrimSpace(explicitFilePath)
	if len(trimmedExplicitPath) > 0 {
		return trimmedExplicitPath
	}

	configurationFileName := loader.configurationName + configurationKeySeparatorConstant + loader.configurationType
	for _, searchPath := range loader.searchPaths {
		candidatePath := filepath.Join(searchPath, configurationFileName)
		fileInformation, statError := os.Stat(candidatePath)
		if statError != nil || fileInformation.IsDir() {
			continue
		}
		return candidatePath
	}
	return ""
}

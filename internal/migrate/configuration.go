package migrate

import (
	"fmt"
	"strings"
)

const (
	defaultSourceHostConstant = "github.com"

	sourceHostConfigKeySuffixConstant          = ".source_host"
	sourceUsernameConfigKeySuffixConstant      = ".source_username"
	sourceTokenConfigKeySuffixConstant         = ".source_token"
	destinationURLConfigKeySuffixConstant      = ".destination_url"
	destinationUsernameConfigKeySuffixConstant = ".destination_username"
	destinationTokenConfigKeySuffixConstant    = ".destination_token"
	workDirectoryConfigKeySuffixConstant       = ".work_directory"
	dryRunConfigKeySuffixConstant              = ".dry_run"

	sourceUsernameEnvironmentNameConstant      = "SOURCE_USERNAME"
	sourceTokenEnvironmentNameConstant         = "SOURCE_TOKEN"
	destinationURLEnvironmentNameConstant      = "DEST_URL"
	destinationUsernameEnvironmentNameConstant = "DEST_USERNAME"
	destinationTokenEnvironmentNameConstant    = "DEST_TOKEN"
	workDirectoryEnvironmentNameConstant       = "WORK_DIR"

	sourceUsernameSettingNameConstant      = "source_username"
	sourceTokenSettingNameConstant         = "source_token"
	destinationURLSettingNameConstant      = "destination_url"
	destinationUsernameSettingNameConstant = "destination_username"
	destinationTokenSettingNameConstant    = "destination_token"

	configurationErrorTemplateConstant = "required configuration setting missing: %s"
)

// ConfigurationError reports a missing required setting; the run aborts before any network call.
type ConfigurationError struct {
	SettingName string
}

// Error names the missing setting.
func (configurationError ConfigurationError) Error() string {
	return fmt.Sprintf(configurationErrorTemplateConstant, configurationError.SettingName)
}

// CommandConfiguration captures persisted configuration for the migration command.
type CommandConfiguration struct {
	SourceHost          string `mapstructure:"source_host"`
	SourceUsername      string `mapstructure:"source_username"`
	SourceToken         string `mapstructure:"source_token"`
	DestinationURL      string `mapstructure:"destination_url"`
	DestinationUsername string `mapstructure:"destination_username"`
	DestinationToken    string `mapstructure:"destination_token"`
	WorkDirectory       string `mapstructure:"work_directory"`
	DryRun              bool   `mapstructure:"dry_run"`
}

// DefaultCommandConfiguration returns baseline configuration values for the migration command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		SourceHost: defaultSourceHostConstant,
	}
}

// DefaultConfigurationValues exposes defaults keyed for the configuration loader.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + sourceHostConfigKeySuffixConstant: defaultSourceHostConstant,
		configurationKeyPrefix + dryRunConfigKeySuffixConstant:     false,
	}
}

// EnvironmentAliases maps configuration keys to the unprefixed environment variables they honor.
func EnvironmentAliases(configurationKeyPrefix string) map[string]string {
	return map[string]string{
		configurationKeyPrefix + sourceUsernameConfigKeySuffixConstant:      sourceUsernameEnvironmentNameConstant,
		configurationKeyPrefix + sourceTokenConfigKeySuffixConstant:         sourceTokenEnvironmentNameConstant,
		configurationKeyPrefix + destinationURLConfigKeySuffixConstant:      destinationURLEnvironmentNameConstant,
		configurationKeyPrefix + destinationUsernameConfigKeySuffixConstant: destinationUsernameEnvironmentNameConstant,
		configurationKeyPrefix + destinationTokenConfigKeySuffixConstant:    destinationTokenEnvironmentNameConstant,
		configurationKeyPrefix + workDirectoryConfigKeySuffixConstant:       workDirectoryEnvironmentNameConstant,
	}
}

// Sanitize trims configured values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.SourceHost = strings.TrimSpace(configuration.SourceHost)
	sanitized.SourceUsername = strings.TrimSpace(configuration.SourceUsername)
	sanitized.SourceToken = strings.TrimSpace(configuration.SourceToken)
	sanitized.DestinationURL = strings.TrimSpace(configuration.DestinationURL)
	sanitized.DestinationUsername = strings.TrimSpace(configuration.DestinationUsername)
	sanitized.DestinationToken = strings.TrimSpace(configuration.DestinationToken)
	sanitized.WorkDirectory = strings.TrimSpace(configuration.WorkDirectory)
	if len(sanitized.SourceHost) == 0 {
		sanitized.SourceHost = defaultSourceHostConstant
	}
	return sanitized
}

// Validate confirms every required setting is present before any network activity.
func (configuration CommandConfiguration) Validate() error {
	requiredSettings := []struct {
		name  string
		value string
	}{
		{name: sourceUsernameSettingNameConstant, value: configuration.SourceUsername},
		{name: sourceTokenSettingNameConstant, value: configuration.SourceToken},
		{name: destinationURLSettingNameConstant, value: configuration.DestinationURL},
		{name: destinationUsernameSettingNameConstant, value: configuration.DestinationUsername},
		{name: destinationTokenSettingNameConstant, value: configuration.DestinationToken},
	}

	for _, requiredSetting := range requiredSettings {
		if len(strings.TrimSpace(requiredSetting.value)) == 0 {
			return ConfigurationError{SettingName: requiredSetting.name}
		}
	}

	return nil
}

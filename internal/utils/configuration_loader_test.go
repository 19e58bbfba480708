package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitmigrate/internal/utils"
)

const (
	testConfigurationNameConstant    = "config"
	testConfigurationTypeConstant    = "yaml"
	testEnvironmentPrefixConstant    = "GITMIGRATETEST"
	testConfigurationFileConstant    = "config.yaml"
	testConfigurationContentConstant = `common:
  log_level: debug
tools:
  migrate:
    source_username: octocat
`
)

type testConfiguration struct {
	Common struct {
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"common"`
	Tools struct {
		Migrate struct {
			SourceUsername string `mapstructure:"source_username"`
			SourceToken    string `mapstructure:"source_token"`
		} `mapstructure:"migrate"`
	} `mapstructure:"tools"`
}

func TestLoadConfigurationReadsFileAndDefaults(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	configurationPath := filepath.Join(temporaryDirectory, testConfigurationFileConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(testConfigurationContentConstant), 0o644))

	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{temporaryDirectory},
	)

	defaultValues := map[string]any{
		"tools.migrate.source_token": "default-token",
	}

	var loadedTarget testConfiguration
	loadedMetadata, loadError := loader.LoadConfiguration(configurationPath, defaultValues, &loadedTarget)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, configurationPath, loadedMetadata.ConfigFileUsed)
	require.Equal(testInstance, "debug", loadedTarget.Common.LogLevel)
	require.Equal(testInstance, "octocat", loadedTarget.Tools.Migrate.SourceUsername)
	require.Equal(testInstance, "default-token", loadedTarget.Tools.Migrate.SourceToken)
}

func TestLoadConfigurationToleratesMissingFile(testInstance *testing.T) {
	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{testInstance.TempDir()},
	)

	var loadedTarget testConfiguration
	_, loadError := loader.LoadConfiguration("", map[string]any{"common.log_level": "info"}, &loadedTarget)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "info", loadedTarget.Common.LogLevel)
}

func TestLoadConfigurationHonorsEnvironmentAliases(testInstance *testing.T) {
	testInstance.Setenv("SOURCE_TOKEN", "token-from-environment")

	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{testInstance.TempDir()},
	)
	loader.BindEnvironmentAliases(map[string]string{
		"tools.migrate.source_token": "SOURCE_TOKEN",
	})

	var loadedTarget testConfiguration
	_, loadError := loader.LoadConfiguration("", nil, &loadedTarget)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "token-from-environment", loadedTarget.Tools.Migrate.SourceToken)
}

func TestLoadConfigurationEnvironmentAliasOverridesFile(testInstance *testing.T) {
	testInstance.Setenv("SOURCE_USERNAME", "environment-user")

	temporaryDirectory := testInstance.TempDir()
	configurationPath := filepath.Join(temporaryDirectory, testConfigurationFileConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(testConfigurationContentConstant), 0o644))

	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{temporaryDirectory},
	)
	loader.BindEnvironmentAliases(map[string]string{
		"tools.migrate.source_username": "SOURCE_USERNAME",
	})

	var loadedTarget testConfiguration
	_, loadError := loader.LoadConfiguration(configurationPath, nil, &loadedTarget)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "environment-user", loadedTarget.Tools.Migrate.SourceUsername)
}

package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
	expectedSourceHostConstant       = "github.com"
)

type readmeApplicationConfiguration struct {
	Common readmeCommonConfiguration `yaml:"common"`
	Tools  readmeToolsConfiguration  `yaml:"tools"`
}

type readmeCommonConfiguration struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogFile   string `yaml:"log_file"`
}

type readmeToolsConfiguration struct {
	Migrate readmeMigrateConfiguration `yaml:"migrate"`
}

type readmeMigrateConfiguration struct {
	SourceHost          string `yaml:"source_host"`
	SourceUsername      string `yaml:"source_username"`
	SourceToken         string `yaml:"source_token"`
	DestinationURL      string `yaml:"destination_url"`
	DestinationUsername string `yaml:"destination_username"`
	DestinationToken    string `yaml:"destination_token"`
	WorkDirectory       string `yaml:"work_directory"`
	DryRun              bool   `yaml:"dry_run"`
}

func TestReadmeConfigurationParses(testInstance *testing.T) {
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	readmePath := filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant)
	contentBytes, readError := os.ReadFile(readmePath)
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	remainingText := contentText[headerIndex:]
	fenceEndRelativeIndex := strings.Index(remainingText, yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)
	fenceEndIndex := headerIndex + fenceEndRelativeIndex

	snippetContent := strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : fenceEndIndex])

	var parsedConfiguration readmeApplicationConfiguration
	unmarshalError := yaml.Unmarshal([]byte(snippetContent), &parsedConfiguration)
	require.NoError(testInstance, unmarshalError)

	require.Equal(testInstance, expectedSourceHostConstant, parsedConfiguration.Tools.Migrate.SourceHost)
	require.NotEmpty(testInstance, parsedConfiguration.Tools.Migrate.SourceUsername)
	require.NotEmpty(testInstance, parsedConfiguration.Tools.Migrate.SourceToken)
	require.NotEmpty(testInstance, parsedConfiguration.Tools.Migrate.DestinationURL)
	require.NotEmpty(testInstance, parsedConfiguration.Tools.Migrate.DestinationUsername)
	require.NotEmpty(testInstance, parsedConfiguration.Tools.Migrate.DestinationToken)
	require.NotEmpty(testInstance, parsedConfiguration.Common.LogLevel)
	require.False(testInstance, parsedConfiguration.Tools.Migrate.DryRun)
}

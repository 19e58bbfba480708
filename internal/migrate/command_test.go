package migrate_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/gitmigrate/internal/destination"
	"github.com/temirov/gitmigrate/internal/execshell"
	"github.com/temirov/gitmigrate/internal/migrate"
	"github.com/temirov/gitmigrate/internal/transfer"
)

type singlePageListingService struct {
	repositoryNames []string
}

func (service *singlePageListingService) ListByAuthenticatedUser(executionContext context.Context, options *github.RepositoryListByAuthenticatedUserOptions) ([]*github.Repository, *github.Response, error) {
	if options.Page > 1 {
		return nil, &github.Response{}, nil
	}
	repositories := make([]*github.Repository, 0, len(service.repositoryNames))
	for _, repositoryName := range service.repositoryNames {
		repositories = append(repositories, &github.Repository{Name: github.String(repositoryName)})
	}
	return repositories, &github.Response{}, nil
}

type noopGitExecutor struct{}

func (executor *noopGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

func buildCommandConfiguration(testInstance *testing.T) migrate.CommandConfiguration {
	configuration := buildCompleteConfiguration()
	configuration.WorkDirectory = testInstance.TempDir()
	return configuration
}

func TestCommandRejectsIncompleteConfiguration(testInstance *testing.T) {
	builder := migrate.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() migrate.CommandConfiguration {
			return migrate.CommandConfiguration{}
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	command.SetArgs([]string{})

	executionError := command.Execute()
	var configurationError migrate.ConfigurationError
	require.ErrorAs(testInstance, executionError, &configurationError)
}

func TestCommandDryRunReportsDiscoveredCount(testInstance *testing.T) {
	configuration := buildCommandConfiguration(testInstance)
	builder := migrate.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() migrate.CommandConfiguration { return configuration },
		ListingService:        &singlePageListingService{repositoryNames: []string{"alpha", "beta"}},
		GitExecutor:           &noopGitExecutor{},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	var commandOutput bytes.Buffer
	command.SetOut(&commandOutput)
	command.SetArgs([]string{"--dry-run"})

	require.NoError(testInstance, command.Execute())
	require.Contains(testInstance, commandOutput.String(), "Dry run: 2 repositories discovered")
}

func TestCommandFailedRunReturnsRunFailedError(testInstance *testing.T) {
	configuration := buildCommandConfiguration(testInstance)
	builder := migrate.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() migrate.CommandConfiguration { return configuration },
		ListingService:        &singlePageListingService{repositoryNames: []string{"alpha"}},
		GitExecutor:           &noopGitExecutor{},
		ServiceProvider: func(dependencies migrate.ServiceDependencies) (*migrate.Service, error) {
			dependencies.Provisioner = &stubProvisioner{
				outcomes: map[string]destination.ProvisionOutcome{
					"alpha": {Status: destination.ProvisionStatusFailed, StatusCode: 500, Detail: "backend offline"},
				},
			}
			return migrate.NewService(dependencies)
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	var commandOutput bytes.Buffer
	command.SetOut(&commandOutput)
	command.SetArgs([]string{})

	executionError := command.Execute()
	var runFailure migrate.RunFailedError
	require.ErrorAs(testInstance, executionError, &runFailure)
	require.Equal(testInstance, 1, runFailure.Summary.Failed)
	require.Equal(testInstance, []string{"alpha"}, runFailure.Summary.FailedNames)
	require.Contains(testInstance, commandOutput.String(), "alpha: provisioning failed (status 500): backend offline")
}

func TestCommandSuccessfulRunRendersSummary(testInstance *testing.T) {
	configuration := buildCommandConfiguration(testInstance)
	builder := migrate.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() migrate.CommandConfiguration { return configuration },
		ListingService:        &singlePageListingService{repositoryNames: []string{"alpha"}},
		GitExecutor:           &noopGitExecutor{},
		ServiceProvider: func(dependencies migrate.ServiceDependencies) (*migrate.Service, error) {
			dependencies.Provisioner = &stubProvisioner{}
			dependencies.Transferrer = &stubTransferrer{
				outcomes: map[string]transfer.TransferOutcome{
					"alpha": {Status: transfer.TransferStatusSucceeded},
				},
			}
			return migrate.NewService(dependencies)
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	var commandOutput bytes.Buffer
	command.SetOut(&commandOutput)
	command.SetArgs([]string{})

	require.NoError(testInstance, command.Execute())
	require.Contains(testInstance, commandOutput.String(), "All repositories migrated successfully.")
}

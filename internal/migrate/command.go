package migrate

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitmigrate/internal/destination"
	"github.com/temirov/gitmigrate/internal/execshell"
	"github.com/temirov/gitmigrate/internal/source"
	"github.com/temirov/gitmigrate/internal/transfer"
)

const (
	commandUseConstant              = "migrate"
	commandShortDescriptionConstant = "Mirror every owned source repository to the destination service"
	commandLongDescriptionConstant  = "migrate discovers every repository owned by the source user, provisions a matching destination repository idempotently, and transfers full history and refs via mirror clone and push."
	dryRunFlagNameConstant          = "dry-run"
	dryRunFlagUsageConstant         = "Discover the repository set without provisioning or transferring anything"

	executorCreationErrorTemplateConstant    = "unable to construct shell executor: %w"
	listerCreationErrorTemplateConstant      = "unable to construct source lister: %w"
	provisionerCreationErrorTemplateConstant = "unable to construct destination provisioner: %w"
	workspacesCreationErrorTemplateConstant  = "unable to construct workspace manager: %w"
	transferCreationErrorTemplateConstant    = "unable to construct transfer service: %w"
	runFailedErrorTemplateConstant           = "migration completed with %d failed repositories: %s"
	runAbortedMessageConstant                = "Migration run aborted"
	failedNamesJoinSeparatorConstant         = ", "
)

// RunFailedError signals a completed run with at least one failed repository;
// the process exit turns non-zero while the summary stays readable.
type RunFailedError struct {
	Summary RunSummary
}

// Error names every failed repository.
func (runFailure RunFailedError) Error() string {
	return fmt.Sprintf(
		runFailedErrorTemplateConstant,
		runFailure.Summary.Failed,
		strings.Join(runFailure.Summary.FailedNames, failedNamesJoinSeparatorConstant),
	)
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the migrate Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	ServiceProvider       func(dependencies ServiceDependencies) (*Service, error)
	GitExecutor           transfer.GitExecutor
	ListingService        source.RepositoryListingService
	HTTPClient            *http.Client
}

// Build constructs the migrate command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runMigrate,
	}

	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runMigrate(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	if validationError := configuration.Validate(); validationError != nil {
		return validationError
	}

	logger := builder.resolveLogger()

	dryRunEnabled := configuration.DryRun
	if command.Flags().Changed(dryRunFlagNameConstant) {
		flagValue, _ := command.Flags().GetBool(dryRunFlagNameConstant)
		dryRunEnabled = flagValue
	}

	service, serviceError := builder.resolveService(logger, configuration)
	if serviceError != nil {
		return serviceError
	}

	report, executionError := service.Execute(command.Context(), RunOptions{DryRun: dryRunEnabled})
	if executionError != nil {
		logger.Error(runAbortedMessageConstant, zap.Error(executionError))
		return executionError
	}

	RenderRunReport(command.OutOrStdout(), report, dryRunEnabled)

	if report.Summary.Failed > 0 {
		return RunFailedError{Summary: report.Summary}
	}

	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration().Sanitize()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if logger := builder.LoggerProvider(); logger != nil {
			return logger
		}
	}
	return zap.NewNop()
}

func (builder *CommandBuilder) resolveService(logger *zap.Logger, configuration CommandConfiguration) (*Service, error) {
	lister, listerError := source.NewLister(source.ListerDependencies{
		Logger:         logger,
		ListingService: builder.resolveListingService(configuration),
	})
	if listerError != nil {
		return nil, fmt.Errorf(listerCreationErrorTemplateConstant, listerError)
	}

	provisioner, provisionerError := destination.NewProvisioner(destination.ProvisionerDependencies{
		Logger:     logger,
		HTTPClient: builder.HTTPClient,
		BaseURL:    configuration.DestinationURL,
		Token:      configuration.DestinationToken,
	})
	if provisionerError != nil {
		return nil, fmt.Errorf(provisionerCreationErrorTemplateConstant, provisionerError)
	}

	gitExecutor, executorError := builder.resolveGitExecutor(logger)
	if executorError != nil {
		return nil, fmt.Errorf(executorCreationErrorTemplateConstant, executorError)
	}

	workspaceManager, workspacesError := transfer.NewWorkspaceManager(configuration.WorkDirectory)
	if workspacesError != nil {
		return nil, fmt.Errorf(workspacesCreationErrorTemplateConstant, workspacesError)
	}

	transferService, transferError := transfer.NewService(transfer.ServiceDependencies{
		Logger:              logger,
		GitExecutor:         gitExecutor,
		WorkspaceManager:    workspaceManager,
		SourceHost:          configuration.SourceHost,
		SourceUsername:      configuration.SourceUsername,
		SourceToken:         configuration.SourceToken,
		DestinationURL:      configuration.DestinationURL,
		DestinationUsername: configuration.DestinationUsername,
		DestinationToken:    configuration.DestinationToken,
	})
	if transferError != nil {
		return nil, fmt.Errorf(transferCreationErrorTemplateConstant, transferError)
	}

	dependencies := ServiceDependencies{
		Logger:      logger,
		Lister:      lister,
		Provisioner: provisioner,
		Transferrer: transferService,
	}

	if builder.ServiceProvider != nil {
		return builder.ServiceProvider(dependencies)
	}
	return NewService(dependencies)
}

func (builder *CommandBuilder) resolveListingService(configuration CommandConfiguration) source.RepositoryListingService {
	if builder.ListingService != nil {
		return builder.ListingService
	}
	return source.NewGitHubListingService(configuration.SourceToken)
}

func (builder *CommandBuilder) resolveGitExecutor(logger *zap.Logger) (transfer.GitExecutor, error) {
	if builder.GitExecutor != nil {
		return builder.GitExecutor, nil
	}
	return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
}

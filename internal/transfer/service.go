package transfer

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/temirov/gitmigrate/internal/execshell"
	"github.com/temirov/gitmigrate/internal/source"
)

const (
	gitCloneSubcommandConstant                = "clone"
	gitPushSubcommandConstant                 = "push"
	gitMirrorFlagConstant                     = "--mirror"
	transferLoggerMissingMessageConstant      = "logger not configured"
	transferExecutorMissingMessageConstant    = "git executor not configured"
	transferWorkspacesMissingMessageConstant  = "workspace manager not configured"
	workspaceReleaseFailedMessageConstant     = "Workspace release failed"
	workspaceAcquireFailedMessageConstant     = "Workspace acquisition failed"
	transferSucceededMessageConstant          = "Mirror transfer completed"
	logFieldRepositoryNameConstant            = "repository"
	logFieldWorkspacePathConstant             = "workspace"
	logFieldSourceURLConstant                 = "source_url"
	logFieldDestinationURLConstant            = "destination_url"
)

// TransferStatus enumerates the tagged transfer outcomes.
type TransferStatus string

// Transfer outcome variants.
const (
	TransferStatusSucceeded   TransferStatus = "succeeded"
	TransferStatusCloneFailed TransferStatus = "clone_failed"
	TransferStatusPushFailed  TransferStatus = "push_failed"
)

// TransferOutcome records the result of one full-history mirror transfer.
type TransferOutcome struct {
	Status TransferStatus
	Detail string
}

// Failed reports whether the transfer left the destination without a complete mirror.
func (outcome TransferOutcome) Failed() bool {
	return outcome.Status != TransferStatusSucceeded
}

// GitExecutor runs git commands on behalf of the transfer service.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

var (
	errTransferLoggerMissing     = errors.New(transferLoggerMissingMessageConstant)
	errTransferExecutorMissing   = errors.New(transferExecutorMissingMessageConstant)
	errTransferWorkspacesMissing = errors.New(transferWorkspacesMissingMessageConstant)
)

// ServiceDependencies describes required collaborators for mirror transfers.
type ServiceDependencies struct {
	Logger              *zap.Logger
	GitExecutor         GitExecutor
	WorkspaceManager    *WorkspaceManager
	SourceHost          string
	SourceUsername      string
	SourceToken         string
	DestinationURL      string
	DestinationUsername string
	DestinationToken    string
}

// Service mirrors one repository at a time through an ephemeral workspace.
type Service struct {
	logger           *zap.Logger
	gitExecutor      GitExecutor
	workspaceManager *WorkspaceManager
	dependencies     ServiceDependencies
}

// NewService constructs a Service with the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Logger == nil {
		return nil, errTransferLoggerMissing
	}
	if dependencies.GitExecutor == nil {
		return nil, errTransferExecutorMissing
	}
	if dependencies.WorkspaceManager == nil {
		return nil, errTransferWorkspacesMissing
	}

	service := &Service{
		logger:           dependencies.Logger,
		gitExecutor:      dependencies.GitExecutor,
		workspaceManager: dependencies.WorkspaceManager,
		dependencies:     dependencies,
	}

	return service, nil
}

// Transfer performs the clone-then-push mirror for one repository. The
// workspace is released on every exit path. Only context cancellation and
// endpoint construction failures are returned as errors; git failures become
// CloneFailed or PushFailed outcomes so the run continues.
func (service *Service) Transfer(executionContext context.Context, descriptor source.RepositoryDescriptor) (TransferOutcome, error) {
	sourceEndpoint, sourceEndpointError := NewSourceEndpoint(
		service.dependencies.SourceHost,
		service.dependencies.SourceUsername,
		descriptor.Name,
		service.dependencies.SourceToken,
	)
	if sourceEndpointError != nil {
		return TransferOutcome{}, sourceEndpointError
	}

	destinationEndpoint, destinationEndpointError := NewDestinationEndpoint(
		service.dependencies.DestinationURL,
		service.dependencies.DestinationUsername,
		descriptor.Name,
		service.dependencies.DestinationToken,
	)
	if destinationEndpointError != nil {
		return TransferOutcome{}, destinationEndpointError
	}

	workspace, workspaceError := service.workspaceManager.Acquire(descriptor.Name)
	if workspaceError != nil {
		service.logger.Warn(
			workspaceAcquireFailedMessageConstant,
			zap.String(logFieldRepositoryNameConstant, descriptor.Name),
			zap.Error(workspaceError),
		)
		return TransferOutcome{Status: TransferStatusCloneFailed, Detail: workspaceError.Error()}, nil
	}
	defer service.releaseWorkspace(descriptor.Name, workspace)

	cloneDetails := execshell.CommandDetails{
		Arguments: []string{gitCloneSubcommandConstant, gitMirrorFlagConstant, sourceEndpoint.AuthenticatedURL(), workspace.Path},
	}
	if _, cloneError := service.gitExecutor.ExecuteGit(executionContext, cloneDetails); cloneError != nil {
		if contextError := contextFailure(executionContext, cloneError); contextError != nil {
			return TransferOutcome{}, contextError
		}
		return TransferOutcome{Status: TransferStatusCloneFailed, Detail: cloneError.Error()}, nil
	}

	pushDetails := execshell.CommandDetails{
		Arguments:        []string{gitPushSubcommandConstant, gitMirrorFlagConstant, destinationEndpoint.AuthenticatedURL()},
		WorkingDirectory: workspace.Path,
	}
	if _, pushError := service.gitExecutor.ExecuteGit(executionContext, pushDetails); pushError != nil {
		if contextError := contextFailure(executionContext, pushError); contextError != nil {
			return TransferOutcome{}, contextError
		}
		return TransferOutcome{Status: TransferStatusPushFailed, Detail: pushError.Error()}, nil
	}

	service.logger.Info(
		transferSucceededMessageConstant,
		zap.String(logFieldRepositoryNameConstant, descriptor.Name),
		zap.String(logFieldSourceURLConstant, sourceEndpoint.RedactedURL()),
		zap.String(logFieldDestinationURLConstant, destinationEndpoint.RedactedURL()),
	)

	return TransferOutcome{Status: TransferStatusSucceeded}, nil
}

func (service *Service) releaseWorkspace(repositoryName string, workspace Workspace) {
	if releaseError := workspace.Release(); releaseError != nil {
		service.logger.Warn(
			workspaceReleaseFailedMessageConstant,
			zap.String(logFieldRepositoryNameConstant, repositoryName),
			zap.String(logFieldWorkspacePathConstant, workspace.Path),
			zap.Error(releaseError),
		)
	}
}

func contextFailure(executionContext context.Context, failure error) error {
	if errors.Is(failure, context.Canceled) || errors.Is(failure, context.DeadlineExceeded) {
		return failure
	}
	if contextError := executionContext.Err(); contextError != nil {
		return contextError
	}
	return nil
}

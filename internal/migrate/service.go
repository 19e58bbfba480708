package migrate

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/gitmigrate/internal/destination"
	"github.com/temirov/gitmigrate/internal/source"
	"github.com/temirov/gitmigrate/internal/transfer"
)

const (
	listerMissingMessageConstant        = "source lister not configured"
	provisionerMissingMessageConstant   = "destination provisioner not configured"
	transferrerMissingMessageConstant   = "mirror transferrer not configured"
	discoveryFailedTemplateConstant     = "repository discovery failed: %w"
	runStartedMessageConstant           = "Migration run started"
	discoverySucceededMessageConstant   = "Repository set discovered"
	dryRunSkipMessageConstant           = "Dry run requested; skipping provisioning and transfer"
	repositoryProcessedMessageConstant  = "Repository processed"
	runSummarizedMessageConstant        = "Migration run summarized"
	logFieldRepositoryNameConstant      = "repository"
	logFieldRepositoryCountConstant     = "repositories"
	logFieldOutcomeConstant             = "outcome"
	logFieldTotalConstant               = "total"
	logFieldSucceededConstant           = "succeeded"
	logFieldFailedConstant              = "failed"
	logFieldFailedNamesConstant         = "failed_names"
)

// SourceLister enumerates the full source repository set once per run.
type SourceLister interface {
	List(executionContext context.Context) ([]source.RepositoryDescriptor, error)
}

// DestinationProvisioner ensures one destination repository exists.
type DestinationProvisioner interface {
	Ensure(executionContext context.Context, descriptor source.RepositoryDescriptor) (destination.ProvisionOutcome, error)
}

// MirrorTransferrer replicates one repository's full ref state.
type MirrorTransferrer interface {
	Transfer(executionContext context.Context, descriptor source.RepositoryDescriptor) (transfer.TransferOutcome, error)
}

var (
	errListerMissing      = errors.New(listerMissingMessageConstant)
	errProvisionerMissing = errors.New(provisionerMissingMessageConstant)
	errTransferrerMissing = errors.New(transferrerMissingMessageConstant)
)

// ServiceDependencies describes required collaborators for the run controller.
type ServiceDependencies struct {
	Logger      *zap.Logger
	Lister      SourceLister
	Provisioner DestinationProvisioner
	Transferrer MirrorTransferrer
}

// RunOptions configures one migration run.
type RunOptions struct {
	DryRun bool
}

// RunReport carries the ordered result list and its reduced summary.
type RunReport struct {
	Results []RepositoryResult
	Summary RunSummary
}

// Service sequences discovery, provisioning, and transfer for one run.
type Service struct {
	logger      *zap.Logger
	lister      SourceLister
	provisioner DestinationProvisioner
	transferrer MirrorTransferrer
}

// NewService constructs a Service with the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Lister == nil {
		return nil, errListerMissing
	}
	if dependencies.Provisioner == nil {
		return nil, errProvisionerMissing
	}
	if dependencies.Transferrer == nil {
		return nil, errTransferrerMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	service := &Service{
		logger:      logger,
		lister:      dependencies.Lister,
		provisioner: dependencies.Provisioner,
		transferrer: dependencies.Transferrer,
	}

	return service, nil
}

// Execute runs one finite migration: discovery happens exactly once up front,
// then each repository is provisioned and transferred sequentially. Discovery
// failures abort the run with zero repositories processed; per-repository
// failures are recorded and the run continues.
func (service *Service) Execute(executionContext context.Context, options RunOptions) (RunReport, error) {
	service.logger.Info(runStartedMessageConstant)

	descriptors, discoveryError := service.lister.List(executionContext)
	if discoveryError != nil {
		return RunReport{}, fmt.Errorf(discoveryFailedTemplateConstant, discoveryError)
	}

	service.logger.Info(
		discoverySucceededMessageConstant,
		zap.Int(logFieldRepositoryCountConstant, len(descriptors)),
	)

	if options.DryRun {
		service.logger.Info(
			dryRunSkipMessageConstant,
			zap.Int(logFieldRepositoryCountConstant, len(descriptors)),
		)
		report := RunReport{Summary: RunSummary{Total: len(descriptors)}}
		return report, nil
	}

	results := make([]RepositoryResult, 0, len(descriptors))

	for _, descriptor := range descriptors {
		provisionOutcome, provisionError := service.provisioner.Ensure(executionContext, descriptor)
		if provisionError != nil {
			return RunReport{}, provisionError
		}

		repositoryResult := RepositoryResult{Descriptor: descriptor, Provision: provisionOutcome}

		if !provisionOutcome.Failed() {
			transferOutcome, transferError := service.transferrer.Transfer(executionContext, descriptor)
			if transferError != nil {
				return RunReport{}, transferError
			}
			repositoryResult.Transfer = &transferOutcome
		}

		results = append(results, repositoryResult)
		service.logger.Info(
			repositoryProcessedMessageConstant,
			zap.String(logFieldRepositoryNameConstant, descriptor.Name),
			zap.String(logFieldOutcomeConstant, repositoryResult.Describe()),
		)
	}

	summary := SummarizeResults(results)
	service.logger.Info(
		runSummarizedMessageConstant,
		zap.Int(logFieldTotalConstant, summary.Total),
		zap.Int(logFieldSucceededConstant, summary.Succeeded),
		zap.Int(logFieldFailedConstant, summary.Failed),
		zap.Strings(logFieldFailedNamesConstant, summary.FailedNames),
	)

	return RunReport{Results: results, Summary: summary}, nil
}

package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v66/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	defaultPageSizeConstant              = 100
	listingSortFieldConstant             = "updated"
	listingSortDirectionConstant         = "desc"
	listingAffiliationConstant           = "owner"
	listingVisibilityConstant            = "all"
	discoveryErrorTemplateConstant       = "repository discovery failed: %v"
	listerLoggerMissingMessageConstant   = "logger not configured"
	listerServiceMissingMessageConstant  = "repository listing service not configured"
	discoveryPageFetchedMessageConstant  = "Fetched repository page"
	discoveryCompletedMessageConstant    = "Repository discovery completed"
	duplicateDescriptorMessageConstant   = "Skipping duplicate repository descriptor"
	logFieldPageNumberConstant           = "page"
	logFieldPageEntryCountConstant       = "entries"
	logFieldRepositoryNameConstant       = "repository"
	logFieldDiscoveredTotalConstant      = "discovered_total"
)

// RepositoryDescriptor is the immutable record of one source repository used downstream.
type RepositoryDescriptor struct {
	Name        string
	Description string
	Private     bool
	UpdatedAt   time.Time
}

// DiscoveryError reports a failed listing call; the run must abort before provisioning.
type DiscoveryError struct {
	Cause error
}

// Error describes the discovery failure.
func (discoveryError DiscoveryError) Error() string {
	return fmt.Sprintf(discoveryErrorTemplateConstant, discoveryError.Cause)
}

// Unwrap exposes the underlying listing failure.
func (discoveryError DiscoveryError) Unwrap() error {
	return discoveryError.Cause
}

var (
	errListerLoggerMissing  = errors.New(listerLoggerMissingMessageConstant)
	errListerServiceMissing = errors.New(listerServiceMissingMessageConstant)
)

// RepositoryListingService abstracts the authenticated-user repository listing endpoint.
type RepositoryListingService interface {
	ListByAuthenticatedUser(executionContext context.Context, options *github.RepositoryListByAuthenticatedUserOptions) ([]*github.Repository, *github.Response, error)
}

// ListerDependencies describes required collaborators for repository discovery.
type ListerDependencies struct {
	Logger         *zap.Logger
	ListingService RepositoryListingService
	PageSize       int
}

// Lister enumerates the full owned-repository set via bounded pages in recency order.
type Lister struct {
	logger         *zap.Logger
	listingService RepositoryListingService
	pageSize       int
}

// NewLister constructs a Lister after validating its dependencies.
func NewLister(dependencies ListerDependencies) (*Lister, error) {
	if dependencies.Logger == nil {
		return nil, errListerLoggerMissing
	}
	if dependencies.ListingService == nil {
		return nil, errListerServiceMissing
	}

	pageSize := dependencies.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSizeConstant
	}

	lister := &Lister{
		logger:         dependencies.Logger,
		listingService: dependencies.ListingService,
		pageSize:       pageSize,
	}

	return lister, nil
}

// List fetches every owned repository, deduplicated by name, in discovery order.
// A fresh call restarts from the first page; listing failures surface as DiscoveryError.
func (lister *Lister) List(executionContext context.Context) ([]RepositoryDescriptor, error) {
	listingOptions := &github.RepositoryListByAuthenticatedUserOptions{
		Visibility:  listingVisibilityConstant,
		Affiliation: listingAffiliationConstant,
		Sort:        listingSortFieldConstant,
		Direction:   listingSortDirectionConstant,
		ListOptions: github.ListOptions{PerPage: lister.pageSize, Page: 1},
	}

	descriptors := make([]RepositoryDescriptor, 0, lister.pageSize)
	seenNames := make(map[string]struct{}, lister.pageSize)

	for {
		repositories, response, listError := lister.listingService.ListByAuthenticatedUser(executionContext, listingOptions)
		if listError != nil {
			return nil, DiscoveryError{Cause: listError}
		}

		lister.logger.Debug(
			discoveryPageFetchedMessageConstant,
			zap.Int(logFieldPageNumberConstant, listingOptions.Page),
			zap.Int(logFieldPageEntryCountConstant, len(repositories)),
		)

		if len(repositories) == 0 {
			break
		}

		for _, repository := range repositories {
			descriptor := RepositoryDescriptor{
				Name:        repository.GetName(),
				Description: repository.GetDescription(),
				Private:     repository.GetPrivate(),
				UpdatedAt:   repository.GetUpdatedAt().Time,
			}
			if _, alreadySeen := seenNames[descriptor.Name]; alreadySeen {
				lister.logger.Debug(
					duplicateDescriptorMessageConstant,
					zap.String(logFieldRepositoryNameConstant, descriptor.Name),
				)
				continue
			}
			seenNames[descriptor.Name] = struct{}{}
			descriptors = append(descriptors, descriptor)
		}

		if response == nil || response.NextPage == 0 {
			break
		}
		listingOptions.Page = response.NextPage
	}

	lister.logger.Info(
		discoveryCompletedMessageConstant,
		zap.Int(logFieldDiscoveredTotalConstant, len(descriptors)),
	)

	return descriptors, nil
}

// NewGitHubListingService builds the go-github repositories service authenticated with the provided token.
func NewGitHubListingService(token string) RepositoryListingService {
	var transport http.RoundTripper = http.DefaultTransport
	if len(token) > 0 {
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		transport = &oauth2.Transport{Source: tokenSource, Base: transport}
	}
	httpClient := &http.Client{Transport: transport}
	return github.NewClient(httpClient).Repositories
}

package source_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/gitmigrate/internal/source"
)

const (
	testListingFailureMessageConstant = "listing endpoint unavailable"
)

type fakeListingService struct {
	pages          map[int][]*github.Repository
	nextPages      map[int]int
	listingError   error
	requestedPages []int
}

func (service *fakeListingService) ListByAuthenticatedUser(executionContext context.Context, options *github.RepositoryListByAuthenticatedUserOptions) ([]*github.Repository, *github.Response, error) {
	service.requestedPages = append(service.requestedPages, options.Page)
	if service.listingError != nil {
		return nil, nil, service.listingError
	}
	response := &github.Response{NextPage: service.nextPages[options.Page]}
	return service.pages[options.Page], response, nil
}

func buildRepository(name string, private bool) *github.Repository {
	return &github.Repository{
		Name:        github.String(name),
		Description: github.String("description of " + name),
		Private:     github.Bool(private),
		UpdatedAt:   &github.Timestamp{Time: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestListerInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name         string
		dependencies source.ListerDependencies
		expectError  bool
	}{
		{
			name:         "missing_logger",
			dependencies: source.ListerDependencies{ListingService: &fakeListingService{}},
			expectError:  true,
		},
		{
			name:         "missing_listing_service",
			dependencies: source.ListerDependencies{Logger: zap.NewNop()},
			expectError:  true,
		},
		{
			name:         "complete_dependencies",
			dependencies: source.ListerDependencies{Logger: zap.NewNop(), ListingService: &fakeListingService{}},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			lister, creationError := source.NewLister(testCase.dependencies)
			if testCase.expectError {
				require.Error(testInstance, creationError)
				require.Nil(testInstance, lister)
			} else {
				require.NoError(testInstance, creationError)
				require.NotNil(testInstance, lister)
			}
		})
	}
}

func TestListerWalksEveryPageOnce(testInstance *testing.T) {
	listingService := &fakeListingService{
		pages: map[int][]*github.Repository{
			1: {buildRepository("alpha", false), buildRepository("beta", true)},
			2: {buildRepository("gamma", false)},
		},
		nextPages: map[int]int{1: 2, 2: 0},
	}

	lister, creationError := source.NewLister(source.ListerDependencies{Logger: zap.NewNop(), ListingService: listingService, PageSize: 2})
	require.NoError(testInstance, creationError)

	descriptors, listError := lister.List(context.Background())
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []int{1, 2}, listingService.requestedPages)

	require.Len(testInstance, descriptors, 3)
	require.Equal(testInstance, "alpha", descriptors[0].Name)
	require.Equal(testInstance, "beta", descriptors[1].Name)
	require.Equal(testInstance, "gamma", descriptors[2].Name)
	require.True(testInstance, descriptors[1].Private)
	require.Equal(testInstance, "description of alpha", descriptors[0].Description)
}

func TestListerDeduplicatesRepeatedNames(testInstance *testing.T) {
	listingService := &fakeListingService{
		pages: map[int][]*github.Repository{
			1: {buildRepository("alpha", false), buildRepository("beta", false)},
			2: {buildRepository("beta", false), buildRepository("gamma", false)},
		},
		nextPages: map[int]int{1: 2, 2: 0},
	}

	lister, creationError := source.NewLister(source.ListerDependencies{Logger: zap.NewNop(), ListingService: listingService})
	require.NoError(testInstance, creationError)

	descriptors, listError := lister.List(context.Background())
	require.NoError(testInstance, listError)
	require.Len(testInstance, descriptors, 3)
}

func TestListerReturnsEmptySetWithoutError(testInstance *testing.T) {
	listingService := &fakeListingService{
		pages:     map[int][]*github.Repository{},
		nextPages: map[int]int{},
	}

	lister, creationError := source.NewLister(source.ListerDependencies{Logger: zap.NewNop(), ListingService: listingService})
	require.NoError(testInstance, creationError)

	descriptors, listError := lister.List(context.Background())
	require.NoError(testInstance, listError)
	require.Empty(testInstance, descriptors)
}

func TestListerSurfacesDiscoveryError(testInstance *testing.T) {
	listingFailure := errors.New(testListingFailureMessageConstant)
	listingService := &fakeListingService{listingError: listingFailure}

	lister, creationError := source.NewLister(source.ListerDependencies{Logger: zap.NewNop(), ListingService: listingService})
	require.NoError(testInstance, creationError)

	descriptors, listError := lister.List(context.Background())
	require.Nil(testInstance, descriptors)

	var discoveryError source.DiscoveryError
	require.ErrorAs(testInstance, listError, &discoveryError)
	require.ErrorIs(testInstance, listError, listingFailure)
}

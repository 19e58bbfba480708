package migrate_test

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/temirov/gitmigrate/internal/destination"
	"github.com/temirov/gitmigrate/internal/migrate"
	"github.com/temirov/gitmigrate/internal/source"
	"github.com/temirov/gitmigrate/internal/transfer"
)

func TestRenderRunReportNamesEveryFailure(testInstance *testing.T) {
	color.NoColor = true

	succeededTransfer := transfer.TransferOutcome{Status: transfer.TransferStatusSucceeded}
	pushFailedTransfer := transfer.TransferOutcome{Status: transfer.TransferStatusPushFailed, Detail: "remote rejected"}

	report := migrate.RunReport{
		Results: []migrate.RepositoryResult{
			{
				Descriptor: source.RepositoryDescriptor{Name: "alpha"},
				Provision:  destination.ProvisionOutcome{Status: destination.ProvisionStatusCreated},
				Transfer:   &succeededTransfer,
			},
			{
				Descriptor: source.RepositoryDescriptor{Name: "beta"},
				Provision:  destination.ProvisionOutcome{Status: destination.ProvisionStatusFailed, StatusCode: 422, Detail: "invalid name"},
			},
			{
				Descriptor: source.RepositoryDescriptor{Name: "gamma"},
				Provision:  destination.ProvisionOutcome{Status: destination.ProvisionStatusAlreadyExists},
				Transfer:   &pushFailedTransfer,
			},
		},
	}
	report.Summary = migrate.SummarizeResults(report.Results)

	var renderedOutput strings.Builder
	migrate.RenderRunReport(&renderedOutput, report, false)

	renderedText := renderedOutput.String()
	require.Contains(testInstance, renderedText, "total=3")
	require.Contains(testInstance, renderedText, "succeeded=1")
	require.Contains(testInstance, renderedText, "failed=2")
	require.Contains(testInstance, renderedText, "Failed repositories:")
	require.Contains(testInstance, renderedText, "beta: provisioning failed (status 422): invalid name")
	require.Contains(testInstance, renderedText, "gamma: push failed: remote rejected")
	require.NotContains(testInstance, renderedText, "alpha:")
}

func TestRenderRunReportAllSucceeded(testInstance *testing.T) {
	color.NoColor = true

	succeededTransfer := transfer.TransferOutcome{Status: transfer.TransferStatusSucceeded}
	report := migrate.RunReport{
		Results: []migrate.RepositoryResult{
			{
				Descriptor: source.RepositoryDescriptor{Name: "alpha"},
				Provision:  destination.ProvisionOutcome{Status: destination.ProvisionStatusCreated},
				Transfer:   &succeededTransfer,
			},
		},
	}
	report.Summary = migrate.SummarizeResults(report.Results)

	var renderedOutput strings.Builder
	migrate.RenderRunReport(&renderedOutput, report, false)

	require.Contains(testInstance, renderedOutput.String(), "All repositories migrated successfully.")
	require.NotContains(testInstance, renderedOutput.String(), "Failed repositories:")
}

func TestRenderRunReportDryRun(testInstance *testing.T) {
	color.NoColor = true

	report := migrate.RunReport{Summary: migrate.RunSummary{Total: 5}}

	var renderedOutput strings.Builder
	migrate.RenderRunReport(&renderedOutput, report, true)

	require.Contains(testInstance, renderedOutput.String(), "Dry run: 5 repositories discovered")
	require.NotContains(testInstance, renderedOutput.String(), "Migration summary")
}

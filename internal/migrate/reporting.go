package migrate

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const (
	summaryHeaderTemplateConstant     = "Migration summary: total=%d succeeded=%s failed=%s\n"
	failedRepositoryTemplateConstant  = "  %s: %s\n"
	allSucceededMessageConstant       = "All repositories migrated successfully.\n"
	failedRepositoriesHeaderConstant  = "Failed repositories:\n"
	dryRunSummaryTemplateConstant     = "Dry run: %d repositories discovered; nothing was provisioned or transferred.\n"
)

// RenderRunReport writes the human-readable end-of-run summary naming every failed repository.
func RenderRunReport(writer io.Writer, report RunReport, dryRun bool) {
	if dryRun {
		fmt.Fprintf(writer, dryRunSummaryTemplateConstant, report.Summary.Total)
		return
	}

	fmt.Fprintf(
		writer,
		summaryHeaderTemplateConstant,
		report.Summary.Total,
		color.GreenString("%d", report.Summary.Succeeded),
		color.RedString("%d", report.Summary.Failed),
	)

	if report.Summary.Failed == 0 {
		fmt.Fprint(writer, color.GreenString(allSucceededMessageConstant))
		return
	}

	fmt.Fprint(writer, failedRepositoriesHeaderConstant)
	for _, repositoryResult := range report.Results {
		if repositoryResult.Succeeded() {
			continue
		}
		fmt.Fprintf(
			writer,
			failedRepositoryTemplateConstant,
			color.RedString(repositoryResult.Descriptor.Name),
			repositoryResult.Describe(),
		)
	}
}

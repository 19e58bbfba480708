package migrate

import (
	"fmt"

	"github.com/temirov/gitmigrate/internal/destination"
	"github.com/temirov/gitmigrate/internal/source"
	"github.com/temirov/gitmigrate/internal/transfer"
)

const (
	provisioningFailureTemplateConstant = "provisioning failed (status %d): %s"
	cloneFailureTemplateConstant        = "clone failed: %s"
	pushFailureTemplateConstant         = "push failed: %s"
	succeededDescriptionConstant        = "succeeded"
)

// RepositoryResult is the durable per-repository record appended once and never mutated.
type RepositoryResult struct {
	Descriptor source.RepositoryDescriptor
	Provision  destination.ProvisionOutcome
	Transfer   *transfer.TransferOutcome
}

// Succeeded reports whether provisioning and transfer both completed.
func (result RepositoryResult) Succeeded() bool {
	if result.Provision.Failed() {
		return false
	}
	return result.Transfer != nil && !result.Transfer.Failed()
}

// Describe renders the repository outcome for human-readable summaries.
func (result RepositoryResult) Describe() string {
	if result.Provision.Failed() {
		return fmt.Sprintf(provisioningFailureTemplateConstant, result.Provision.StatusCode, result.Provision.Detail)
	}
	if result.Transfer != nil {
		switch result.Transfer.Status {
		case transfer.TransferStatusCloneFailed:
			return fmt.Sprintf(cloneFailureTemplateConstant, result.Transfer.Detail)
		case transfer.TransferStatusPushFailed:
			return fmt.Sprintf(pushFailureTemplateConstant, result.Transfer.Detail)
		}
	}
	return succeededDescriptionConstant
}

// RunSummary is the deterministic reduction of the ordered result list.
type RunSummary struct {
	Total       int
	Succeeded   int
	Failed      int
	FailedNames []string
}

// SummarizeResults reduces the result list into the final run summary.
func SummarizeResults(results []RepositoryResult) RunSummary {
	summary := RunSummary{Total: len(results)}
	for _, result := range results {
		if result.Succeeded() {
			summary.Succeeded++
			continue
		}
		summary.Failed++
		summary.FailedNames = append(summary.FailedNames, result.Descriptor.Name)
	}
	return summary
}

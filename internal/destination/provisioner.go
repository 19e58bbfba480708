package destination

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitmigrate/internal/source"
)

const (
	createRepositoryEndpointPathConstant      = "/api/v1/user/repos"
	authorizationHeaderNameConstant           = "Authorization"
	authorizationHeaderValueTemplateConstant  = "token %s"
	contentTypeHeaderNameConstant             = "Content-Type"
	jsonContentTypeConstant                   = "application/json"
	provisionerLoggerMissingMessageConstant   = "logger not configured"
	provisionerBaseURLMissingMessageConstant  = "destination base URL not configured"
	provisionerTokenMissingMessageConstant    = "destination token not configured"
	createRequestBuildErrorTemplateConstant   = "unable to build create request: %w"
	responseBodyReadErrorTemplateConstant     = "unable to read create response: %v"
	transportFailureDetailTemplateConstant    = "create call transport failure: %v"
	repositoryCreatedMessageConstant          = "Destination repository created"
	repositoryAlreadyExistsMessageConstant    = "Destination repository already exists"
	repositoryProvisionFailedMessageConstant  = "Destination repository provisioning failed"
	logFieldRepositoryNameConstant            = "repository"
	logFieldStatusCodeConstant                = "status_code"
	responseDetailByteLimitConstant           = 2048
)

// ProvisionStatus enumerates the tagged provisioning outcomes.
type ProvisionStatus string

// Provisioning outcome variants.
const (
	ProvisionStatusCreated       ProvisionStatus = "created"
	ProvisionStatusAlreadyExists ProvisionStatus = "already_exists"
	ProvisionStatusFailed        ProvisionStatus = "failed"
)

// ProvisionOutcome records the result of one idempotent create attempt.
type ProvisionOutcome struct {
	Status     ProvisionStatus
	StatusCode int
	Detail     string
}

// Failed reports whether the outcome blocks the repository's transfer.
func (outcome ProvisionOutcome) Failed() bool {
	return outcome.Status == ProvisionStatusFailed
}

type repositoryCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
	AutoInit    bool   `json:"auto_init"`
}

type repositoryErrorResponse struct {
	Message string `json:"message"`
}

var (
	errProvisionerLoggerMissing  = errors.New(provisionerLoggerMissingMessageConstant)
	errProvisionerBaseURLMissing = errors.New(provisionerBaseURLMissingMessageConstant)
	errProvisionerTokenMissing   = errors.New(provisionerTokenMissingMessageConstant)
)

// ProvisionerDependencies describes required collaborators for destination provisioning.
type ProvisionerDependencies struct {
	Logger     *zap.Logger
	HTTPClient *http.Client
	BaseURL    string
	Token      string
}

// Provisioner issues idempotent create-repository calls against the destination API.
type Provisioner struct {
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewProvisioner constructs a Provisioner after validating its dependencies.
func NewProvisioner(dependencies ProvisionerDependencies) (*Provisioner, error) {
	if dependencies.Logger == nil {
		return nil, errProvisionerLoggerMissing
	}
	trimmedBaseURL := strings.TrimRight(strings.TrimSpace(dependencies.BaseURL), "/")
	if len(trimmedBaseURL) == 0 {
		return nil, errProvisionerBaseURLMissing
	}
	if len(strings.TrimSpace(dependencies.Token)) == 0 {
		return nil, errProvisionerTokenMissing
	}

	httpClient := dependencies.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	provisioner := &Provisioner{
		logger:     dependencies.Logger,
		httpClient: httpClient,
		baseURL:    trimmedBaseURL,
		token:      dependencies.Token,
	}

	return provisioner, nil
}

// Ensure creates the destination repository for the descriptor, mapping a
// conflict to AlreadyExists. Only context cancellation is returned as an
// error; every other failure becomes a Failed outcome so the run continues.
func (provisioner *Provisioner) Ensure(executionContext context.Context, descriptor source.RepositoryDescriptor) (ProvisionOutcome, error) {
	requestBody := repositoryCreateRequest{
		Name:        descriptor.Name,
		Description: descriptor.Description,
		Private:     descriptor.Private,
		AutoInit:    false,
	}

	encodedBody, encodeError := json.Marshal(requestBody)
	if encodeError != nil {
		return ProvisionOutcome{}, fmt.Errorf(createRequestBuildErrorTemplateConstant, encodeError)
	}

	endpointURL := provisioner.baseURL + createRepositoryEndpointPathConstant
	httpRequest, requestError := http.NewRequestWithContext(executionContext, http.MethodPost, endpointURL, bytes.NewReader(encodedBody))
	if requestError != nil {
		return ProvisionOutcome{}, fmt.Errorf(createRequestBuildErrorTemplateConstant, requestError)
	}
	httpRequest.Header.Set(contentTypeHeaderNameConstant, jsonContentTypeConstant)
	httpRequest.Header.Set(authorizationHeaderNameConstant, fmt.Sprintf(authorizationHeaderValueTemplateConstant, provisioner.token))

	httpResponse, transportError := provisioner.httpClient.Do(httpRequest)
	if transportError != nil {
		if contextError := executionContext.Err(); contextError != nil {
			return ProvisionOutcome{}, contextError
		}
		outcome := ProvisionOutcome{
			Status: ProvisionStatusFailed,
			Detail: fmt.Sprintf(transportFailureDetailTemplateConstant, transportError),
		}
		provisioner.logFailure(descriptor.Name, outcome)
		return outcome, nil
	}
	defer httpResponse.Body.Close()

	switch httpResponse.StatusCode {
	case http.StatusCreated:
		provisioner.logger.Info(
			repositoryCreatedMessageConstant,
			zap.String(logFieldRepositoryNameConstant, descriptor.Name),
		)
		return ProvisionOutcome{Status: ProvisionStatusCreated, StatusCode: httpResponse.StatusCode}, nil
	case http.StatusConflict:
		provisioner.logger.Info(
			repositoryAlreadyExistsMessageConstant,
			zap.String(logFieldRepositoryNameConstant, descriptor.Name),
		)
		return ProvisionOutcome{Status: ProvisionStatusAlreadyExists, StatusCode: httpResponse.StatusCode}, nil
	default:
		outcome := ProvisionOutcome{
			Status:     ProvisionStatusFailed,
			StatusCode: httpResponse.StatusCode,
			Detail:     provisioner.readFailureDetail(httpResponse.Body),
		}
		provisioner.logFailure(descriptor.Name, outcome)
		return outcome, nil
	}
}

func (provisioner *Provisioner) readFailureDetail(responseBody io.Reader) string {
	limitedReader := io.LimitReader(responseBody, responseDetailByteLimitConstant)
	bodyBytes, readError := io.ReadAll(limitedReader)
	if readError != nil {
		return fmt.Sprintf(responseBodyReadErrorTemplateConstant, readError)
	}

	var decodedError repositoryErrorResponse
	if decodeError := json.Unmarshal(bodyBytes, &decodedError); decodeError == nil && len(decodedError.Message) > 0 {
		return decodedError.Message
	}

	return strings.TrimSpace(string(bodyBytes))
}

func (provisioner *Provisioner) logFailure(repositoryName string, outcome ProvisionOutcome) {
	provisioner.logger.Warn(
		repositoryProvisionFailedMessageConstant,
		zap.String(logFieldRepositoryNameConstant, repositoryName),
		zap.Int(logFieldStatusCodeConstant, outcome.StatusCode),
	)
}

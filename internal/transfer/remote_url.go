package transfer

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	httpsSchemeConstant                    = "https"
	gitSuffixConstant                      = ".git"
	pathSeparatorConstant                  = "/"
	endpointErrorTemplateConstant          = "%s: %s"
	requiredValueMessageConstant           = "value must not be empty"
	invalidBaseURLMessageConstant          = "destination base URL must be an absolute http(s) URL"
	hostFieldNameConstant                  = "host"
	ownerFieldNameConstant                 = "owner"
	repositoryFieldNameConstant            = "repository"
	destinationBaseURLFieldNameConstant    = "destination_url"
)

// EndpointValidationError reports an endpoint field that cannot produce a valid remote URL.
type EndpointValidationError struct {
	FieldName string
	Message   string
}

// Error describes the invalid endpoint field.
func (validationError EndpointValidationError) Error() string {
	return fmt.Sprintf(endpointErrorTemplateConstant, validationError.FieldName, validationError.Message)
}

// RemoteEndpoint identifies one remote repository location plus the credential
// used to reach it. Credentials never appear in the redacted rendering.
type RemoteEndpoint struct {
	Host       string
	Owner      string
	Repository string

	scheme             string
	basePath           string
	credentialUsername string
	credentialSecret   string
}

// NewSourceEndpoint builds the clone endpoint for a source repository. The
// source service accepts a bare token as URL userinfo.
func NewSourceEndpoint(host string, owner string, repository string, token string) (RemoteEndpoint, error) {
	endpoint := RemoteEndpoint{
		Host:             strings.TrimSpace(host),
		Owner:            strings.TrimSpace(owner),
		Repository:       strings.TrimSpace(repository),
		credentialSecret: token,
	}
	if validationError := endpoint.validate(); validationError != nil {
		return RemoteEndpoint{}, validationError
	}
	return endpoint, nil
}

// NewDestinationEndpoint builds the push endpoint for a destination
// repository. The configured base URL's scheme and path prefix carry over so
// the push targets the same namespace the provisioning API call used.
// Destination namespaces are case-insensitive, so the owner path segment is
// lowercased consistently; the credential username is passed through
// unchanged.
func NewDestinationEndpoint(baseURL string, accountName string, repository string, token string) (RemoteEndpoint, error) {
	parsedBaseURL, parseError := url.Parse(strings.TrimSpace(baseURL))
	if parseError != nil || !parsedBaseURL.IsAbs() || len(parsedBaseURL.Host) == 0 {
		return RemoteEndpoint{}, EndpointValidationError{FieldName: destinationBaseURLFieldNameConstant, Message: invalidBaseURLMessageConstant}
	}

	endpoint := RemoteEndpoint{
		Host:               parsedBaseURL.Host,
		Owner:              strings.ToLower(strings.TrimSpace(accountName)),
		Repository:         strings.TrimSpace(repository),
		scheme:             parsedBaseURL.Scheme,
		basePath:           strings.TrimRight(parsedBaseURL.Path, pathSeparatorConstant),
		credentialUsername: strings.TrimSpace(accountName),
		credentialSecret:   token,
	}
	if validationError := endpoint.validate(); validationError != nil {
		return RemoteEndpoint{}, validationError
	}
	return endpoint, nil
}

func (endpoint RemoteEndpoint) validate() error {
	if len(endpoint.Host) == 0 {
		return EndpointValidationError{FieldName: hostFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(endpoint.Owner) == 0 {
		return EndpointValidationError{FieldName: ownerFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(endpoint.Repository) == 0 {
		return EndpointValidationError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	return nil
}

// AuthenticatedURL renders the remote URL carrying credentials for git transport.
func (endpoint RemoteEndpoint) AuthenticatedURL() string {
	remoteURL := endpoint.buildURL()

	switch {
	case len(endpoint.credentialUsername) > 0 && len(endpoint.credentialSecret) > 0:
		remoteURL.User = url.UserPassword(endpoint.credentialUsername, endpoint.credentialSecret)
	case len(endpoint.credentialSecret) > 0:
		remoteURL.User = url.User(endpoint.credentialSecret)
	}

	return remoteURL.String()
}

// RedactedURL renders the remote URL without credentials for logging and summaries.
func (endpoint RemoteEndpoint) RedactedURL() string {
	remoteURL := endpoint.buildURL()
	return remoteURL.String()
}

func (endpoint RemoteEndpoint) buildURL() url.URL {
	scheme := endpoint.scheme
	if len(scheme) == 0 {
		scheme = httpsSchemeConstant
	}
	return url.URL{
		Scheme: scheme,
		Host:   endpoint.Host,
		Path:   endpoint.basePath + pathSeparatorConstant + endpoint.Owner + pathSeparatorConstant + endpoint.Repository + gitSuffixConstant,
	}
}

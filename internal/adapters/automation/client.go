// Package automation implements the Account port against an Azure Automation account
// through the Azure Resource Manager REST API.
package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.trai.ch/modroll/internal/core/domain"
	"go.trai.ch/modroll/internal/core/ports"
	"go.trai.ch/zerr"
)

const maxErrorBody = 4 << 10

// Client implements ports.Account over HTTP.
type Client struct {
	modulesURL string
	apiVersion string
	token      string
	httpClient *http.Client
}

var _ ports.Account = (*Client)(nil)

// New creates a Client for cfg using a default HTTP client.
func New(cfg domain.AccountConfig) (*Client, error) {
	return NewWithClient(cfg, &http.Client{Timeout: domain.DefaultRegistryTimeout})
}

// NewWithClient creates a Client for cfg that sends its requests through httpClient.
func NewWithClient(cfg domain.AccountConfig, httpClient *http.Client) (*Client, error) {
	if cfg.Token == "" {
		return nil, domain.ErrMissingCredentials
	}

	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, zerr.With(domain.ErrInvalidConfig, "account.endpoint", cfg.Endpoint)
	}
	for _, field := range []struct{ key, value string }{
		{"account.subscription", cfg.Subscription},
		{"account.resourceGroup", cfg.ResourceGroup},
		{"account.name", cfg.Name},
	} {
		if field.value == "" {
			return nil, zerr.With(domain.ErrInvalidConfig, "missing", field.key)
		}
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = domain.DefaultAccountAPIVersion
	}

	modulesURL := strings.TrimSuffix(endpoint.String(), "/") +
		"/subscriptions/" + url.PathEscape(cfg.Subscription) +
		"/resourceGroups/" + url.PathEscape(cfg.ResourceGroup) +
		"/providers/Microsoft.Automation/automationAccounts/" + url.PathEscape(cfg.Name) +
		"/modules"

	return &Client{
		modulesURL: modulesURL,
		apiVersion: apiVersion,
		token:      cfg.Token,
		httpClient: httpClient,
	}, nil
}

// ListInstalled pages through the account's modules and returns those selected by filter.
// Global modules shipped with the account are never managed.
func (c *Client) ListInstalled(ctx context.Context, filter domain.NameFilter) ([]domain.PackageDescriptor, error) {
	var out []domain.PackageDescriptor
	next := c.withAPIVersion(c.modulesURL)
	for next != "" {
		var page moduleList
		if err := c.do(ctx, http.MethodGet, next, nil, &page); err != nil {
			return nil, err
		}

		for _, m := range page.Value {
			if m.Properties.IsGlobal || !filter.Matches(m.Name) {
				continue
			}
			out = append(out, domain.PackageDescriptor{
				Name:             m.Name,
				InstalledVersion: m.Properties.Version,
			})
		}
		next = page.NextLink
	}
	return out, nil
}

// SubmitInstall creates or replaces the module from contentURL. The returned handle is the
// module's resource URL.
func (c *Client) SubmitInstall(ctx context.Context, name, contentURL string) (string, error) {
	handle := c.modulesURL + "/" + url.PathEscape(name)
	body := moduleUpdate{
		Properties: moduleProperties{ContentLink: &contentLink{URI: contentURL}},
	}

	if err := c.do(ctx, http.MethodPut, c.withAPIVersion(handle), body, nil); err != nil {
		return "", zerr.With(err, "package", name)
	}
	return handle, nil
}

// PollStatus reads the provisioning state of the module behind handle.
func (c *Client) PollStatus(ctx context.Context, handle string) (domain.JobState, error) {
	var m module
	if err := c.do(ctx, http.MethodGet, c.withAPIVersion(handle), nil, &m); err != nil {
		return "", err
	}
	return domain.ParseJobState(m.Properties.ProvisioningState), nil
}

func (c *Client) withAPIVersion(target string) string {
	return target + "?api-version=" + url.QueryEscape(c.apiVersion)
}

// do sends a JSON request and decodes the JSON response into out when out is not nil.
func (c *Client) do(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return zerr.Wrap(err, domain.ErrAccountRequestFailed.Error())
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return zerr.Wrap(err, domain.ErrAccountRequestFailed.Error())
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zerr.Wrap(err, domain.ErrAccountRequestFailed.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return requestError(method, target, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrAccountParseFailed.Error()), "url", target)
	}
	return nil
}

func requestError(method, target string, resp *http.Response) error {
	err := zerr.With(domain.ErrAccountRequestFailed, "method", method)
	err = zerr.With(err, "url", target)
	err = zerr.With(err, "status_code", resp.StatusCode)

	var apiErr apiError
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Code != "" {
		err = zerr.With(err, "code", apiErr.Error.Code)
		err = zerr.With(err, "message", apiErr.Error.Message)
	}
	return err
}

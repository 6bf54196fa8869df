// Package gallery implements the Registry port against a NuGet v2 (OData) package gallery
// such as the PowerShell Gallery.
package gallery

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.trai.ch/modroll/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	archiveSuffix = ".nupkg"
	searchPageMax = 40
	acceptHeader  = "application/atom+xml, application/xml"
)

// Client implements ports.Registry over HTTP.
type Client struct {
	baseURL      string
	maxRedirects int
	httpClient   *http.Client
	redirects    *http.Client
}

// New creates a Client for cfg using a default HTTP client.
func New(cfg domain.RegistryConfig) (*Client, error) {
	return NewWithClient(cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewWithClient creates a Client for cfg that sends its requests through httpClient.
func NewWithClient(cfg domain.RegistryConfig, httpClient *http.Client) (*Client, error) {
	base, err := url.Parse(cfg.URL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, zerr.With(domain.ErrInvalidConfig, "registry.url", cfg.URL)
	}

	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = domain.DefaultMaxRedirects
	}

	// The redirect walk inspects every hop itself.
	redirects := *httpClient
	redirects.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Client{
		baseURL:      strings.TrimSuffix(base.String(), "/"),
		maxRedirects: maxRedirects,
		httpClient:   httpClient,
		redirects:    &redirects,
	}, nil
}

// Search queries the gallery for name using the OData filter expression.
func (c *Client) Search(ctx context.Context, name, filter string) ([]domain.SearchHit, error) {
	query := url.Values{}
	query.Set("$filter", filter)
	query.Set("searchTerm", "'"+name+"'")
	query.Set("targetFramework", "''")
	query.Set("includePrerelease", "false")
	query.Set("$skip", "0")
	query.Set("$top", strconv.Itoa(searchPageMax))

	var f feed
	if err := c.getXML(ctx, c.baseURL+"/Search()?"+query.Encode(), &f); err != nil {
		return nil, zerr.With(err, "package", name)
	}

	hits := make([]domain.SearchHit, 0, len(f.Entries))
	for _, e := range f.Entries {
		hits = append(hits, domain.SearchHit{
			Title:     strings.TrimSpace(e.Title),
			DetailURL: strings.TrimSpace(e.ID),
		})
	}
	return hits, nil
}

// FetchDetail retrieves the package entry behind detailURL.
func (c *Client) FetchDetail(ctx context.Context, detailURL string) (domain.Release, error) {
	var e entry
	if err := c.getXML(ctx, detailURL, &e); err != nil {
		return domain.Release{}, err
	}

	if e.Properties.Version == "" {
		return domain.Release{}, zerr.With(domain.ErrRegistryParseFailed, "url", detailURL)
	}

	name := strings.TrimSpace(e.Properties.ID)
	if name == "" {
		name = strings.TrimSpace(e.Title)
	}
	return domain.Release{
		Name:            name,
		Version:         strings.TrimSpace(e.Properties.Version),
		RawDependencies: e.Properties.Dependencies,
	}, nil
}

// ResolveContentLocation follows the gallery's package download redirects until one points
// at the package archive. It gives up after the configured number of hops.
func (c *Client) ResolveContentLocation(ctx context.Context, name, version string) (string, error) {
	current := c.baseURL + "/package/" + url.PathEscape(name)
	if version != "" {
		current += "/" + url.PathEscape(version)
	}

	for hop := 0; hop < c.maxRedirects; hop++ {
		next, err := c.nextHop(ctx, current)
		if err != nil {
			return "", zerr.With(err, "package", name)
		}
		if strings.Contains(strings.ToLower(next), archiveSuffix) {
			return next, nil
		}
		current = next
	}

	err := zerr.With(domain.ErrRedirectResolutionFailure, "package", name)
	err = zerr.With(err, "version", version)
	return "", zerr.With(err, "hops", c.maxRedirects)
}

// nextHop requests target without following redirects and returns the absolute redirect target.
func (c *Client) nextHop(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error())
	}

	resp, err := c.redirects.Do(req)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error())
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	location := resp.Header.Get("Location")
	if resp.StatusCode < http.StatusMultipleChoices || resp.StatusCode >= http.StatusBadRequest || location == "" {
		err := zerr.With(domain.ErrRedirectResolutionFailure, "url", target)
		return "", zerr.With(err, "status_code", resp.StatusCode)
	}

	ref, err := url.Parse(location)
	if err != nil {
		return "", zerr.With(domain.ErrRedirectResolutionFailure, "location", location)
	}
	return req.URL.ResolveReference(ref).String(), nil
}

// getXML fetches target and decodes the XML body into v.
func (c *Client) getXML(ctx context.Context, target string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error())
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		err := zerr.With(domain.ErrRegistryRequestFailed, "url", target)
		return zerr.With(err, "status_code", resp.StatusCode)
	}

	if err := xml.NewDecoder(resp.Body).Decode(v); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRegistryParseFailed.Error()), "url", target)
	}
	return nil
}

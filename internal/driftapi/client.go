// Package driftapi is the HTTP client of the data-drift metrics backend.
package driftapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/schema"
)

// InstallationHeader scopes every request to a tenant.
const InstallationHeader = "Installation-Id"

// maxErrorBody caps how much of a failed response is kept in a StatusError.
const maxErrorBody = 4096

// ErrUnexpectedStatus is wrapped by every StatusError.
var ErrUnexpectedStatus = errors.New("unexpected status")

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("drift api %s %s: status=%d", e.Method, e.URL, e.Code)
	if e.Body != "" {
		msg += " body=" + e.Body
	}
	return msg
}

// Unwrap lets errors.Is match ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// Client talks to the metrics backend on behalf of one installation.
// Requests are never retried.
type Client struct {
	baseURL        string
	installationID string
	http           *http.Client
}

var _ contract.ReportsClient = &Client{} // Compile-time check

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			clone := *c.http
			clone.Timeout = d
			c.http = &clone
		}
	}
}

// NewClient creates a client for baseURL; an empty baseURL selects the hosted backend.
func NewClient(baseURL, installationID string, opts ...Option) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = contract.DefaultAPIURL
	}
	c := &Client{
		baseURL:        baseURL,
		installationID: installationID,
		http:           &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig creates a client from the validated configuration.
func NewClientFromConfig(cfg *contract.Config) *Client {
	return NewClient(cfg.APIURL, cfg.InstallationID, WithTimeout(cfg.Timeout))
}

// InstallationID returns the tenant the client is scoped to.
func (c *Client) InstallationID() string { return c.installationID }

func (c *Client) apiURL(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

// getRaw performs a GET and returns the body of a successful response.
func (c *Client) getRaw(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(InstallationHeader, c.installationID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			Method: http.MethodGet,
			URL:    u,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(b)),
		}
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	body, err := c.getRaw(ctx, u)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}
	return nil
}

// GetMetricReport fetches GET /metrics/{metricName}/reports.
func (c *Client) GetMetricReport(ctx context.Context, metricName string) (schema.MetricReport, error) {
	var report schema.MetricReport
	if err := c.getJSON(ctx, c.apiURL("metrics", metricName, "reports"), &report); err != nil {
		return nil, err
	}
	if report == nil {
		report = schema.MetricReport{}
	}
	return report, nil
}

// GetMetricCohorts fetches GET /metrics/{metricName}/cohorts/{timegrain}.
func (c *Client) GetMetricCohorts(ctx context.Context, metricName string, grain schema.TimeGrain) (json.RawMessage, error) {
	body, err := c.getRaw(ctx, c.apiURL("metrics", metricName, "cohorts", string(grain)))
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("decode cohorts of %s: invalid JSON", metricName)
	}
	return json.RawMessage(body), nil
}

// configEnvelope is the body of GET /config/{owner}/{repo}.
type configEnvelope struct {
	Config schema.RepoConfig `json:"config"`
}

// GetConfig fetches GET /config/{owner}/{repo}.
func (c *Client) GetConfig(ctx context.Context, owner, repo string) (schema.RepoConfig, error) {
	var env configEnvelope
	if err := c.getJSON(ctx, c.apiURL("config", owner, repo), &env); err != nil {
		return schema.RepoConfig{}, err
	}
	return env.Config, nil
}

// patchBody is the body of GET /gh/{owner}/{repo}/commit/{sha}.
type patchBody struct {
	Patch      string   `json:"patch"`
	Headers    []string `json:"headers"`
	CommitLink string   `json:"commitLink"`
	Date       string   `json:"date"`
	Filename   string   `json:"filename"`
}

// patchDateLayouts are tried in order when parsing the commit date.
var patchDateLayouts = []string{time.RFC3339Nano, time.RFC3339, time.RFC1123Z, time.RFC1123, time.DateTime, time.DateOnly}

// GetPatchAndHeader fetches GET /gh/{owner}/{repo}/commit/{sha}.
func (c *Client) GetPatchAndHeader(ctx context.Context, owner, repo, sha string) (schema.PatchAndHeader, error) {
	var body patchBody
	if err := c.getJSON(ctx, c.apiURL("gh", owner, repo, "commit", sha), &body); err != nil {
		return schema.PatchAndHeader{}, err
	}
	patch := schema.PatchAndHeader{
		Patch:      body.Patch,
		Headers:    body.Headers,
		CommitLink: body.CommitLink,
		DateRaw:    body.Date,
		Filename:   body.Filename,
		DiffURL:    CommitDiffURL(c.installationID, owner, repo, sha),
	}
	for _, layout := range patchDateLayouts {
		if t, err := time.Parse(layout, body.Date); err == nil {
			patch.Date = t
			break
		}
	}
	return patch, nil
}

// GetCommitList fetches GET /gh/{owner}/{repo}/commits and passes the list through.
func (c *Client) GetCommitList(ctx context.Context, owner, repo string) (json.RawMessage, error) {
	body, err := c.getRaw(ctx, c.apiURL("gh", owner, repo, "commits"))
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("decode commits of %s/%s: invalid JSON", owner, repo)
	}
	return json.RawMessage(body), nil
}

// CommitDiffURL builds the dashboard link of a commit diff.
func CommitDiffURL(installationID, owner, repo, sha string) string {
	return fmt.Sprintf("/report/%s/%s/%s/commit/%s",
		url.PathEscape(installationID), url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(sha))
}

// Package apiclient talks to the jobmatch API: it submits resumes to the
// extraction endpoint and reads and writes the user's profile.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/jobmatch/internal/failure"
	"github.com/jonathan/jobmatch/internal/intake"
	"github.com/jonathan/jobmatch/internal/types"
)

const (
	// DefaultTimeout bounds any single API call that has no context deadline.
	DefaultTimeout = 5 * time.Minute
	// UploadPath is the extraction endpoint.
	UploadPath = "/resume/upload"
	// ProfilePath reads and replaces the caller's profile.
	ProfilePath = "/auth/me"
	// UploadField is the multipart field carrying the PDF.
	UploadField = "file"

	maxResponseBytes = 10 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	Logger    *slog.Logger
	Transport http.RoundTripper
}

// Client is an API client bound to one user token.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
}

// New creates a Client. BaseURL must be an absolute http(s) URL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Host == "" || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, &Error{URL: opts.BaseURL, Message: "invalid base URL", Cause: err}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	next := opts.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	return &Client{
		baseURL: base,
		token:   opts.Token,
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &loggingTransport{next: next, logger: opts.Logger},
		},
	}, nil
}

func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// SubmitResume uploads the selection to the extraction endpoint. Every
// failure is a *failure.TransportError; StatusCode is zero when no response
// arrived and 2xx when the success envelope was malformed.
func (c *Client) SubmitResume(ctx context.Context, sel intake.Selection) (*ServerResult, error) {
	body, contentType, err := multipartBody(sel)
	if err != nil {
		return nil, &failure.TransportError{Cause: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, UploadPath, body)
	if err != nil {
		return nil, &failure.TransportError{Cause: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &failure.TransportError{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &failure.TransportError{Cause: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &failure.TransportError{StatusCode: resp.StatusCode, Detail: RenderDetail(data)}
	}

	result, err := ExtractEnvelope(data)
	if err != nil {
		return nil, &failure.TransportError{StatusCode: resp.StatusCode, Cause: err}
	}
	return result, nil
}

func multipartBody(sel intake.Selection) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	name := sel.FileName
	if name == "" {
		name = "resume.pdf"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, UploadField, name))
	h.Set("Content-Type", sel.MIMEType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(sel.Bytes); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

type profileEnvelope struct {
	Success bool               `json:"success"`
	Data    types.ProfileState `json:"data"`
}

// GetProfile reads the caller's stored profile.
func (c *Client) GetProfile(ctx context.Context) (types.ProfileState, error) {
	req, err := c.newRequest(ctx, http.MethodGet, ProfilePath, nil)
	if err != nil {
		return types.ProfileState{}, &Error{URL: c.endpoint(ProfilePath), Message: "failed to create request", Cause: err}
	}
	return c.doProfile(req)
}

// UpdateProfile replaces the caller's stored profile.
func (c *Client) UpdateProfile(ctx context.Context, state types.ProfileState) error {
	payload, err := json.Marshal(types.NewProfileUpdateRequest(state))
	if err != nil {
		return &Error{URL: c.endpoint(ProfilePath), Message: "failed to encode profile", Cause: err}
	}
	req, err := c.newRequest(ctx, http.MethodPut, ProfilePath, bytes.NewReader(payload))
	if err != nil {
		return &Error{URL: c.endpoint(ProfilePath), Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	_, err = c.doProfile(req)
	return err
}

func (c *Client) doProfile(req *http.Request) (types.ProfileState, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return types.ProfileState{}, &Error{URL: req.URL.String(), Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return types.ProfileState{}, &Error{URL: req.URL.String(), Message: "failed to read response body", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := RenderDetail(data)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return types.ProfileState{}, &Error{URL: req.URL.String(), StatusCode: resp.StatusCode, Message: msg}
	}

	var env profileEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return types.ProfileState{}, &Error{URL: req.URL.String(), StatusCode: resp.StatusCode, Message: "invalid profile response", Cause: err}
	}
	return env.Data, nil
}

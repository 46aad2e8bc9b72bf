package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenSource supplies the bearer token attached to outbound requests.
// An empty token means the request is sent unauthenticated.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to the TokenSource interface.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Request describes one API call for Do. Query and Header may be nil.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
}

// Client is the HTTP transport primitive every other component talks
// through. It owns token attachment, JSON encoding/decoding, error
// classification, and the 401 invalidation hook.
type Client struct {
	base           string
	http           *http.Client
	tokens         TokenSource
	observer       Observer
	onUnauthorized func()
}

// NewClient creates a Client for the given API root.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Client{
		base:     strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		tokens:   tokens,
		observer: observer,
	}
}

// SetUnauthorizedHook registers a function invoked whenever any request
// receives a 401. The session store wires its teardown here; the hook must
// not issue further API calls.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// Get performs a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post performs a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put performs a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete performs a DELETE. Most delete routes return 204 with no body.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Query: query}, nil)
}

// Do performs req and decodes a JSON response into out when out is
// non-nil. Failures are always classified; callers never see raw
// transport or status-code errors.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	start := time.Now()

	var bodyReader io.Reader
	contentType := ""
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := c.newRequest(ctx, req.Method, req.Path, req.Query, bodyReader)
	if err != nil {
		return err
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	status, respBody, doErr := c.send(httpReq)
	c.observe(req.Method, req.Path, status, start, doErr)
	if doErr != nil {
		return doErr
	}

	if out != nil && len(respBody) > 0 {
		if looksLikeHTML(respBody) {
			return &Error{
				Kind:       KindServerFault,
				StatusCode: status,
				Method:     req.Method,
				Path:       req.Path,
				Message:    "HTML body where JSON was expected",
				HTMLBody:   true,
			}
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return &Error{
				Kind:       KindServerFault,
				StatusCode: status,
				Method:     req.Method,
				Path:       req.Path,
				Message:    "malformed JSON response: " + err.Error(),
				cause:      err,
			}
		}
	}
	return nil
}

// Upload performs a multipart POST with form fields and one file part,
// decoding the JSON response into out.
func (c *Client) Upload(ctx context.Context, path string, fields map[string]string, fileField, fileName string, file io.Reader, out any) error {
	start := time.Now()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			return fmt.Errorf("writing form field %q: %w", key, err)
		}
	}
	part, err := mw.CreateFormFile(fileField, fileName)
	if err != nil {
		return fmt.Errorf("creating file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copying upload body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finalizing multipart body: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	status, respBody, doErr := c.send(httpReq)
	c.observe(http.MethodPost, path, status, start, doErr)
	if doErr != nil {
		return doErr
	}
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &Error{
				Kind:       KindServerFault,
				StatusCode: status,
				Method:     http.MethodPost,
				Path:       path,
				Message:    "malformed JSON response: " + err.Error(),
				cause:      err,
			}
		}
	}
	return nil
}

// Download performs a GET for a file blob and returns the raw bytes along
// with the server-suggested filename from Content-Disposition, if any.
func (c *Client) Download(ctx context.Context, path string, query url.Values) ([]byte, string, error) {
	start := time.Now()

	httpReq, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		terr := transportError(http.MethodGet, path, err)
		c.observe(http.MethodGet, path, 0, start, terr)
		return nil, "", terr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		terr := transportError(http.MethodGet, path, err)
		c.observe(http.MethodGet, path, resp.StatusCode, start, terr)
		return nil, "", terr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		cerr := classify(http.MethodGet, path, resp.StatusCode, body)
		if resp.StatusCode == 401 && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		c.observe(http.MethodGet, path, resp.StatusCode, start, cerr)
		return nil, "", cerr
	}

	filename := ""
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			filename = params["filename"]
		}
	}
	c.observe(http.MethodGet, path, resp.StatusCode, start, nil)
	return body, filename, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if token := c.tokens.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Token "+token)
	}
	httpReq.Header.Set("Accept", "application/json")
	return httpReq, nil
}

// send executes the request and classifies any failure. On success it
// returns the status code and the raw body.
func (c *Client) send(httpReq *http.Request) (int, []byte, error) {
	method := httpReq.Method
	path := httpReq.URL.Path

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, nil, transportError(method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, transportError(method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		cerr := classify(method, path, resp.StatusCode, body)
		if resp.StatusCode == 401 && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return resp.StatusCode, nil, cerr
	}
	return resp.StatusCode, body, nil
}

func (c *Client) observe(method, path string, status int, start time.Time, err error) {
	event := CallEvent{
		Method:    method,
		Path:      path,
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		event.ErrorKind = KindOf(err)
	}
	c.observer.OnCallComplete(event)
}

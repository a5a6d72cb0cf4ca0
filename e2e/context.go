// Package e2e drives a running shelterhub server as a black box over HTTP.
// Point E2E_BASE_URL at the server before running the suite.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TestContext holds per-scenario state: the last response, tokens keyed by the
// email used in the feature text, and ids of entities created along the way.
type TestContext struct {
	baseURL string
	client  *http.Client

	// runID uniquifies emails so scenarios can rerun against a server with
	// durable storage.
	runID string

	lastStatus int
	lastBody   []byte

	tokens map[string]string
	ids    map[string]string
}

// NewTestContext builds a context for one scenario run.
func NewTestContext(baseURL string) *TestContext {
	tc := &TestContext{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	tc.Reset()
	return tc
}

// Reset clears scenario state while keeping the base URL and client.
func (tc *TestContext) Reset() {
	tc.runID = uuid.NewString()[:8]
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.tokens = map[string]string{}
	// "run" lets steps uniquify server-side unique names (shelter names).
	tc.ids = map[string]string{"run": tc.runID}
}

// Email rewrites a feature-file address into a unique one for this run, so
// "mia@example.org" becomes "mia+<runID>@example.org".
func (tc *TestContext) Email(email string) string {
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return email + "+" + tc.runID
	}
	return email[:at] + "+" + tc.runID + email[at:]
}

// SaveToken remembers an access token under the feature-file email.
func (tc *TestContext) SaveToken(email, token string) {
	tc.tokens[email] = token
}

// SetID remembers a created entity's id under a readable name.
func (tc *TestContext) SetID(name, id string) {
	tc.ids[name] = id
}

// ID returns a previously remembered entity id.
func (tc *TestContext) ID(name string) string {
	return tc.ids[name]
}

// POST sends an unauthenticated JSON request.
func (tc *TestContext) POST(path string, body any) error {
	return tc.do(http.MethodPost, path, body, "")
}

// GET sends a request with optional extra headers.
func (tc *TestContext) GET(path string, headers map[string]string) error {
	req, err := http.NewRequest(http.MethodGet, tc.baseURL+path, nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return tc.send(req)
}

// PostAs sends a JSON request authenticated as a previously logged-in user.
func (tc *TestContext) PostAs(email, path string, body any) error {
	token, ok := tc.tokens[email]
	if !ok {
		return fmt.Errorf("no token saved for %q; log in first", email)
	}
	return tc.do(http.MethodPost, path, body, token)
}

// GetAs sends an authenticated GET.
func (tc *TestContext) GetAs(email, path string) error {
	token, ok := tc.tokens[email]
	if !ok {
		return fmt.Errorf("no token saved for %q; log in first", email)
	}
	return tc.do(http.MethodGet, path, nil, token)
}

// DeleteAs sends an authenticated DELETE.
func (tc *TestContext) DeleteAs(email, path string) error {
	token, ok := tc.tokens[email]
	if !ok {
		return fmt.Errorf("no token saved for %q; log in first", email)
	}
	return tc.do(http.MethodDelete, path, nil, token)
}

func (tc *TestContext) do(method, path string, body any, token string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, tc.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return tc.send(req)
}

func (tc *TestContext) send(req *http.Request) error {
	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.lastStatus = resp.StatusCode
	tc.lastBody = data
	return nil
}

// LastStatus returns the last response's status code.
func (tc *TestContext) LastStatus() int {
	return tc.lastStatus
}

// GetResponseField extracts a top-level field from the last JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var body map[string]any
	if err := json.Unmarshal(tc.lastBody, &body); err != nil {
		return nil, fmt.Errorf("last response is not a JSON object: %w", err)
	}
	value, ok := body[field]
	if !ok {
		return nil, fmt.Errorf("field %q not found in response: %s", field, tc.lastBody)
	}
	return value, nil
}

// ResponseContains reports whether the last JSON response has the field.
func (tc *TestContext) ResponseContains(field string) bool {
	_, err := tc.GetResponseField(field)
	return err == nil
}

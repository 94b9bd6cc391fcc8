package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"time"
)

// TestContext holds state between test steps
type TestContext struct {
	BaseURL          string
	HTTPClient       *http.Client
	LastResponse     *http.Response
	LastResponseBody []byte
	MedicationID     string
}

// NewTestContext creates a new test context. BASE_URL points the suite at a
// running server; otherwise baseURL (the in-process server) is used.
func NewTestContext(baseURL string) *TestContext {
	if env := os.Getenv("BASE_URL"); env != "" {
		baseURL = env
	}
	tc := &TestContext{BaseURL: baseURL}
	tc.ResetSession()
	return tc
}

// ResetSession drops every cookie, starting over as an anonymous client.
func (tc *TestContext) ResetSession() {
	jar, _ := cookiejar.New(nil)
	tc.HTTPClient = &http.Client{
		Timeout: 10 * time.Second,
		Jar:     jar,
	}
}

// POST makes a POST request and stores the response
func (tc *TestContext) POST(path string, body any) error {
	return tc.Do(http.MethodPost, path, body, nil)
}

// PUT makes a PUT request and stores the response
func (tc *TestContext) PUT(path string, body any) error {
	return tc.Do(http.MethodPut, path, body, nil)
}

// DELETE makes a DELETE request and stores the response
func (tc *TestContext) DELETE(path string) error {
	return tc.Do(http.MethodDelete, path, nil, nil)
}

// GET makes a GET request and stores the response
func (tc *TestContext) GET(path string, headers map[string]string) error {
	return tc.Do(http.MethodGet, path, nil, headers)
}

// Do sends a request with an optional JSON body and stores the response.
func (tc *TestContext) Do(method, path string, body any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, tc.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

// GetResponseField extracts a field from the JSON response
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var data map[string]any
	if err := json.Unmarshal(tc.LastResponseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	value, ok := data[field]
	if !ok {
		return nil, fmt.Errorf("field %s not found in response", field)
	}

	return value, nil
}

// ResponseContains checks if the response body contains a field or text
func (tc *TestContext) ResponseContains(text string) bool {
	if strings.Contains(string(tc.LastResponseBody), text) {
		return true
	}

	var data map[string]any
	if err := json.Unmarshal(tc.LastResponseBody, &data); err == nil {
		if _, ok := data[text]; ok {
			return true
		}
	}

	return false
}

// HasCookie reports whether the client currently holds a non-empty cookie.
func (tc *TestContext) HasCookie(name string) bool {
	u, err := http.NewRequest(http.MethodGet, tc.BaseURL, nil)
	if err != nil {
		return false
	}
	for _, c := range tc.HTTPClient.Jar.Cookies(u.URL) {
		if c.Name == name && c.Value != "" {
			return true
		}
	}
	return false
}

// Getter methods for step package interfaces

func (tc *TestContext) GetMedicationID() string {
	return tc.MedicationID
}

func (tc *TestContext) SetMedicationID(medID string) {
	tc.MedicationID = medID
}

func (tc *TestContext) GetLastResponseStatus() int {
	if tc.LastResponse == nil {
		return 0
	}
	return tc.LastResponse.StatusCode
}

func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.LastResponseBody
}

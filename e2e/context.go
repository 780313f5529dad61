// Package e2e drives a running tracker over HTTP with Gherkin scenarios.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestContext holds the last response of a scenario.
type TestContext struct {
	BaseURL    string
	AdminToken string

	client     *http.Client
	lastStatus int
	lastBody   []byte
}

func NewTestContext(baseURL, adminToken string) *TestContext {
	return &TestContext{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		AdminToken: adminToken,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Reset clears the previous scenario's response.
func (tc *TestContext) Reset() {
	tc.lastStatus = 0
	tc.lastBody = nil
}

// Do sends a request. A nil body sends no payload; a string is sent verbatim;
// anything else is JSON encoded.
func (tc *TestContext) Do(method, path string, body any) error {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.AdminToken != "" {
		req.Header.Set("X-Admin-Token", tc.AdminToken)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) Status() int {
	return tc.lastStatus
}

func (tc *TestContext) Body() []byte {
	return tc.lastBody
}

// DecodeBody unmarshals the last response body into v.
func (tc *TestContext) DecodeBody(v any) error {
	if err := json.Unmarshal(tc.lastBody, v); err != nil {
		return fmt.Errorf("decode response %q: %w", tc.lastBody, err)
	}
	return nil
}

// ResponseField returns a top-level field of a JSON object response.
func (tc *TestContext) ResponseField(field string) (any, error) {
	var obj map[string]any
	if err := tc.DecodeBody(&obj); err != nil {
		return nil, err
	}
	v, ok := obj[field]
	if !ok {
		return nil, fmt.Errorf("field %q not in response %s", field, tc.lastBody)
	}
	return v, nil
}

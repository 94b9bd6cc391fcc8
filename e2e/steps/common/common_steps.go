package common

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	ResponseContains(field string) bool
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	ResetSession()
}

// RegisterSteps registers common step definitions used across features
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	// Background steps
	ctx.Step(`^the carehub API is running$`, steps.apiIsRunning)
	ctx.Step(`^I start a fresh session$`, steps.freshSession)

	// Generic request steps
	ctx.Step(`^I GET "([^"]*)"$`, steps.get)
	ctx.Step(`^I GET "([^"]*)" with bearer token "([^"]*)"$`, steps.getWithBearer)

	// Response assertion steps
	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, steps.responseShouldContain)
	ctx.Step(`^the response should not contain "([^"]*)"$`, steps.responseShouldNotContain)
	ctx.Step(`^the response body should be "([^"]*)"$`, steps.responseBodyShouldBe)
	ctx.Step(`^the response should be the JSON string "([^"]*)"$`, steps.responseShouldBeJSONString)
	ctx.Step(`^the response should be null$`, steps.responseShouldBeNull)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, steps.responseFieldShouldEqual)
	ctx.Step(`^the response should be a list of (\d+) items?$`, steps.responseListLength)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) apiIsRunning(ctx context.Context) error {
	if err := s.tc.GET("/health/live", nil); err != nil {
		return err
	}
	return s.responseStatusShouldBe(ctx, 200)
}

func (s *commonSteps) freshSession(ctx context.Context) error {
	s.tc.ResetSession()
	return nil
}

func (s *commonSteps) get(ctx context.Context, path string) error {
	return s.tc.GET(path, nil)
}

func (s *commonSteps) getWithBearer(ctx context.Context, path, token string) error {
	return s.tc.GET(path, map[string]string{"Authorization": "Bearer " + token})
}

func (s *commonSteps) responseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	actualStatus := s.tc.GetLastResponseStatus()
	if actualStatus != expectedStatus {
		return fmt.Errorf("expected status %d but got %d", expectedStatus, actualStatus)
	}
	return nil
}

func (s *commonSteps) responseShouldContain(ctx context.Context, field string) error {
	if !s.tc.ResponseContains(field) {
		return fmt.Errorf("response does not contain field: %s\nResponse: %s", field, string(s.tc.GetLastResponseBody()))
	}
	return nil
}

func (s *commonSteps) responseShouldNotContain(ctx context.Context, field string) error {
	if s.tc.ResponseContains(field) {
		return fmt.Errorf("response unexpectedly contains: %s\nResponse: %s", field, string(s.tc.GetLastResponseBody()))
	}
	return nil
}

func (s *commonSteps) responseBodyShouldBe(ctx context.Context, expected string) error {
	if got := strings.TrimSpace(string(s.tc.GetLastResponseBody())); got != expected {
		return fmt.Errorf("expected body %q but got %q", expected, got)
	}
	return nil
}

func (s *commonSteps) responseShouldBeJSONString(ctx context.Context, expected string) error {
	var got string
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &got); err != nil {
		return fmt.Errorf("expected a JSON string body: %w", err)
	}
	if got != expected {
		return fmt.Errorf("expected %q but got %q", expected, got)
	}
	return nil
}

func (s *commonSteps) responseShouldBeNull(ctx context.Context) error {
	return s.responseBodyShouldBe(ctx, "null")
}

func (s *commonSteps) responseFieldShouldEqual(ctx context.Context, field, expectedValue string) error {
	var data map[string]any
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &data); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	actualValue, ok := data[field]
	if !ok {
		return fmt.Errorf("field %s not found in response", field)
	}

	if fmt.Sprint(actualValue) != expectedValue {
		return fmt.Errorf("field %s: expected %s but got %v", field, expectedValue, actualValue)
	}
	return nil
}

func (s *commonSteps) responseListLength(ctx context.Context, n int) error {
	var items []any
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &items); err != nil {
		return fmt.Errorf("failed to parse response as list: %w", err)
	}
	if len(items) != n {
		return fmt.Errorf("expected %d items but got %d", n, len(items))
	}
	return nil
}

package common

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Do(method, path string, body any) error
	Status() int
	Body() []byte
	ResponseField(field string) (any, error)
}

// RegisterSteps registers background, request and generic assertion steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the tracker is running$`, steps.trackerIsRunning)
	ctx.Step(`^I (GET|POST|PUT|DELETE) "([^"]*)"$`, steps.request)
	ctx.Step(`^I (POST|PUT) "([^"]*)" with body:$`, steps.requestWithBody)

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response body should be empty$`, steps.bodyShouldBeEmpty)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, steps.fieldShouldEqual)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) trackerIsRunning(ctx context.Context) error {
	if err := s.tc.Do(http.MethodGet, "/healthz", nil); err != nil {
		return err
	}
	if s.tc.Status() != http.StatusOK {
		return fmt.Errorf("tracker not healthy: status %d body %s", s.tc.Status(), s.tc.Body())
	}
	return nil
}

func (s *commonSteps) request(ctx context.Context, method, path string) error {
	return s.tc.Do(method, path, nil)
}

func (s *commonSteps) requestWithBody(ctx context.Context, method, path string, body *godog.DocString) error {
	return s.tc.Do(method, path, body.Content)
}

func (s *commonSteps) statusShouldBe(ctx context.Context, want int) error {
	if got := s.tc.Status(); got != want {
		return fmt.Errorf("expected status %d, got %d: %s", want, got, s.tc.Body())
	}
	return nil
}

func (s *commonSteps) bodyShouldBeEmpty(ctx context.Context) error {
	if len(s.tc.Body()) != 0 {
		return fmt.Errorf("expected empty body, got %s", s.tc.Body())
	}
	return nil
}

func (s *commonSteps) fieldShouldEqual(ctx context.Context, field, want string) error {
	v, err := s.tc.ResponseField(field)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); got != want {
		return fmt.Errorf("field %q: expected %q, got %q", field, want, got)
	}
	return nil
}

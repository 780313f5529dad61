package config

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Do(method, path string, body any) error
	Status() int
	Body() []byte
	DecodeBody(v any) error
}

// RegisterSteps registers configuration store step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &configSteps{tc: tc}

	ctx.Step(`^the configuration "([^"]*)" is "([^"]*)"$`, steps.configurationIs)
	ctx.Step(`^there is no configuration "([^"]*)"$`, steps.noConfiguration)
	ctx.Step(`^I fetch configuration "([^"]*)"$`, steps.fetch)
	ctx.Step(`^I fetch configuration "([^"]*)" strictly$`, steps.fetchStrict)

	ctx.Step(`^the response should hold (\d+) configuration records?$`, steps.recordCount)
}

type configSteps struct {
	tc TestContext
}

func keyPath(key string) string {
	return "/v1/config/" + url.PathEscape(key)
}

func (s *configSteps) noConfiguration(ctx context.Context, key string) error {
	if err := s.tc.Do(http.MethodDelete, keyPath(key), nil); err != nil {
		return err
	}
	if st := s.tc.Status(); st != http.StatusOK && st != http.StatusNotFound {
		return fmt.Errorf("delete %s: status %d", key, st)
	}
	return nil
}

func (s *configSteps) configurationIs(ctx context.Context, key, value string) error {
	if err := s.noConfiguration(ctx, key); err != nil {
		return err
	}
	if err := s.tc.Do(http.MethodPost, keyPath(key), map[string]string{"value": value}); err != nil {
		return err
	}
	if s.tc.Status() != http.StatusOK {
		return fmt.Errorf("add %s: status %d: %s", key, s.tc.Status(), s.tc.Body())
	}
	return nil
}

func (s *configSteps) fetch(ctx context.Context, key string) error {
	return s.tc.Do(http.MethodGet, keyPath(key), nil)
}

func (s *configSteps) fetchStrict(ctx context.Context, key string) error {
	return s.tc.Do(http.MethodGet, keyPath(key)+"?strict=true", nil)
}

func (s *configSteps) recordCount(ctx context.Context, n int) error {
	var records []map[string]string
	if err := s.tc.DecodeBody(&records); err != nil {
		return err
	}
	if len(records) != n {
		return fmt.Errorf("expected %d records, got %v", n, records)
	}
	return nil
}

package dictionary

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Do(method, path string, body any) error
	Status() int
	Body() []byte
	DecodeBody(v any) error
}

// RegisterSteps registers data dictionary step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &dictionarySteps{tc: tc}

	ctx.Step(`^the dictionary has no entry "([^"]*)"$`, steps.noEntry)
	ctx.Step(`^the dictionary has entry "([^"]*)" of type "([^"]*)"$`, steps.hasEntry)
	ctx.Step(`^the dictionary has entry "([^"]*)" of type "([^"]*)" nullable "(true|false)"$`, steps.hasNullableEntry)
	ctx.Step(`^I validate column "([^"]*)" with type "([^"]*)"$`, steps.validateColumn)
	ctx.Step(`^I look up columns "([^"]*)"$`, steps.lookUp)

	ctx.Step(`^the validation report should give (\d+) reasons?$`, steps.reportReasons)
	ctx.Step(`^the lookup should find "([^"]*)" and miss "([^"]*)"$`, steps.lookupPartition)
}

type dictionarySteps struct {
	tc TestContext
}

func entryPath(name string) string {
	return "/v1/dictionary/" + url.PathEscape(name)
}

func (s *dictionarySteps) noEntry(ctx context.Context, name string) error {
	if err := s.tc.Do(http.MethodDelete, entryPath(name), nil); err != nil {
		return err
	}
	if st := s.tc.Status(); st != http.StatusOK && st != http.StatusNotFound {
		return fmt.Errorf("delete %s: status %d", name, st)
	}
	return nil
}

func (s *dictionarySteps) hasEntry(ctx context.Context, name, columnType string) error {
	return s.put(name, map[string]any{"columnType": columnType})
}

func (s *dictionarySteps) hasNullableEntry(ctx context.Context, name, columnType, nullable string) error {
	return s.put(name, map[string]any{"columnType": columnType, "isNullable": nullable == "true"})
}

// put adds the entry, replacing whatever a previous run left behind.
func (s *dictionarySteps) put(name string, body map[string]any) error {
	if err := s.noEntry(context.Background(), name); err != nil {
		return err
	}
	if err := s.tc.Do(http.MethodPost, entryPath(name), body); err != nil {
		return err
	}
	if s.tc.Status() != http.StatusOK {
		return fmt.Errorf("add %s: status %d: %s", name, s.tc.Status(), s.tc.Body())
	}
	return nil
}

func (s *dictionarySteps) validateColumn(ctx context.Context, name, columnType string) error {
	return s.tc.Do(http.MethodPost, "/v1/dictionary/validate", map[string]any{
		"columnName": name,
		"columnType": columnType,
	})
}

func (s *dictionarySteps) lookUp(ctx context.Context, names string) error {
	return s.tc.Do(http.MethodPost, "/v1/dictionary", strings.Split(names, ","))
}

func (s *dictionarySteps) reportReasons(ctx context.Context, n int) error {
	var report struct {
		Reason []string `json:"reason"`
	}
	if err := s.tc.DecodeBody(&report); err != nil {
		return err
	}
	if len(report.Reason) != n {
		return fmt.Errorf("expected %d reasons, got %v", n, report.Reason)
	}
	return nil
}

func (s *dictionarySteps) lookupPartition(ctx context.Context, found, missing string) error {
	var resp struct {
		Errors  []string `json:"errors"`
		Results []struct {
			Name string `json:"columnName"`
		} `json:"results"`
	}
	if err := s.tc.DecodeBody(&resp); err != nil {
		return err
	}
	names := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		names = append(names, r.Name)
	}
	slices.Sort(names)
	slices.Sort(resp.Errors)

	wantFound := splitSorted(found)
	wantMissing := splitSorted(missing)
	if !slices.Equal(names, wantFound) {
		return fmt.Errorf("found %v, expected %v", names, wantFound)
	}
	if !slices.Equal(resp.Errors, wantMissing) {
		return fmt.Errorf("missed %v, expected %v", resp.Errors, wantMissing)
	}
	return nil
}

func splitSorted(csv string) []string {
	if csv == "" {
		return []string{}
	}
	out := strings.Split(csv, ",")
	slices.Sort(out)
	return out
}

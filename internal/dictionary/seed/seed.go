// Package seed loads dictionary entries from a YAML file.
//
//	entries:
//	  - name: customer_id
//	    type: Long
//	    nullable: false
//	    pii: false
//	    description: Primary customer key
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"tracker/internal/dictionary/models"
	dErrors "tracker/pkg/domain-errors"
)

type file struct {
	Entries []entry `yaml:"entries"`
}

type entry struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Nullable    *bool  `yaml:"nullable"`
	PII         *bool  `yaml:"pii"`
	Description string `yaml:"description"`
}

// Load decodes a seed file. Unknown keys are rejected.
func Load(r io.Reader) ([]models.Entry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	out := make([]models.Entry, 0, len(f.Entries))
	for i, e := range f.Entries {
		if e.Name == "" {
			return nil, fmt.Errorf("seed entry %d: name is required", i)
		}
		out = append(out, models.Entry{
			Name:        e.Name,
			Type:        e.Type,
			Nullable:    models.FromPtr(e.Nullable),
			PII:         models.FromPtr(e.PII),
			Description: e.Description,
		})
	}
	return out, nil
}

// Adder is the part of the dictionary service seeding needs.
type Adder interface {
	Add(ctx context.Context, entry models.Entry) (*models.Entry, error)
}

// Result counts what Apply did.
type Result struct {
	Added   int
	Skipped int
}

// Apply adds every entry. Names already in the dictionary are skipped; any other
// failure stops the run.
func Apply(ctx context.Context, adder Adder, entries []models.Entry) (Result, error) {
	var res Result
	for _, e := range entries {
		if _, err := adder.Add(ctx, e); err != nil {
			if dErrors.HasCode(err, dErrors.CodeAlreadyExists) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("seed %s: %w", e.Name, err)
		}
		res.Added++
	}
	return res, nil
}

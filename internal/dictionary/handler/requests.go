package handler

import (
	"strings"

	"tracker/internal/dictionary/models"
	dErrors "tracker/pkg/domain-errors"
)

const (
	maxTypeLength        = 64
	maxDescriptionLength = 4096
	maxLookupNames       = 1000
)

// EntryRequest is the body for POST and PUT /v1/dictionary/{name}.
// The name comes from the path.
type EntryRequest struct {
	ColumnType  string              `json:"columnType"`
	IsNullable  models.OptionalBool `json:"isNullable"`
	IsPII       models.OptionalBool `json:"isPII"`
	Description string              `json:"description"`
}

// Validate implements httputil.Validatable. Type recognition is left to the service.
func (r *EntryRequest) Validate() error {
	r.ColumnType = strings.TrimSpace(r.ColumnType)
	if len(r.ColumnType) > maxTypeLength {
		return dErrors.New(dErrors.CodeValidation, "columnType is too long")
	}
	if len(r.Description) > maxDescriptionLength {
		return dErrors.New(dErrors.CodeValidation, "description must be at most 4096 characters")
	}
	return nil
}

func (r *EntryRequest) toEntry(name string) models.Entry {
	return models.Entry{
		Name:        name,
		Type:        r.ColumnType,
		Nullable:    r.IsNullable,
		PII:         r.IsPII,
		Description: r.Description,
	}
}

// ValidateRequest is the body for POST /v1/dictionary/validate.
type ValidateRequest struct {
	ColumnName  string              `json:"columnName"`
	ColumnType  string              `json:"columnType"`
	IsNullable  models.OptionalBool `json:"isNullable"`
	IsPII       models.OptionalBool `json:"isPII"`
	Description string              `json:"description"`
}

func (r *ValidateRequest) Validate() error {
	r.ColumnName = strings.TrimSpace(r.ColumnName)
	if r.ColumnName == "" {
		return dErrors.New(dErrors.CodeValidation, "columnName is required")
	}
	if len(r.ColumnName) > models.MaxNameLength {
		return dErrors.New(dErrors.CodeValidation, "columnName is too long")
	}
	r.ColumnType = strings.TrimSpace(r.ColumnType)
	return nil
}

func (r *ValidateRequest) toCandidate() models.Candidate {
	return models.Candidate{
		Name:        r.ColumnName,
		Type:        r.ColumnType,
		Nullable:    r.IsNullable,
		PII:         r.IsPII,
		Description: r.Description,
	}
}

// LookupRequest is the JSON array of names for POST /v1/dictionary.
// Unknown names come back under errors spelled as first sent; blank names are
// always unknown.
type LookupRequest []string

func (r *LookupRequest) Validate() error {
	if r == nil || *r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body must be a JSON array of column names")
	}
	if len(*r) > maxLookupNames {
		return dErrors.New(dErrors.CodeValidation, "at most 1000 column names per lookup")
	}
	return nil
}

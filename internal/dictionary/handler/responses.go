package handler

import (
	"sort"

	"tracker/internal/dictionary/models"
)

// LookupResponse partitions a bulk lookup: unknown names under errors,
// stored entries under results.
type LookupResponse struct {
	Errors  []string       `json:"errors"`
	Results []models.Entry `json:"results"`
}

func toLookupResponse(res *models.LookupResult) LookupResponse {
	results := make([]models.Entry, 0, len(res.Found))
	for _, entry := range res.Found {
		results = append(results, entry)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	notFound := res.NotFound
	if notFound == nil {
		notFound = []string{}
	}
	return LookupResponse{Errors: notFound, Results: results}
}

package service

import (
	"strings"

	"github.com/cloo-solutions/quarry/internal/domain"
)

// webKeywords signal that a query is about current events and should reach
// the web retriever.
var webKeywords = []string{
	"latest",
	"recent",
	"current",
	"today",
	"news",
	"update",
	"trend",
	"statistics",
	"2024",
	"2025",
	"2026",
}

// ClassifyQuery routes a query to a retrieval strategy by counting distinct
// web-recency keywords: none means local documents, one means hybrid, two or
// more means web. Deterministic and total.
func ClassifyQuery(query string) domain.QueryType {
	lower := strings.ToLower(query)

	score := 0
	for _, kw := range webKeywords {
		if strings.Contains(lower, kw) {
			score++
		}
	}

	switch {
	case score == 0:
		return domain.QueryTypeDocument
	case score >= 2:
		return domain.QueryTypeWeb
	default:
		return domain.QueryTypeHybrid
	}
}

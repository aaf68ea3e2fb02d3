package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/cloo-solutions/quarry/internal/domain"
	"github.com/cloo-solutions/quarry/internal/telemetry"
)

// IndexSearcher is the local vector index as seen by the orchestrator.
type IndexSearcher interface {
	Search(ctx context.Context, query string, k int) ([]domain.RetrievedResult, error)
	Ready() bool
}

// WebSearcher is the external web search provider.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]domain.RetrievedResult, error)
}

// RetrievalConfig controls the orchestrator's fan-out.
type RetrievalConfig struct {
	TopK         int
	LocalTimeout time.Duration
	WebTimeout   time.Duration
}

// DefaultRetrievalConfig provides sane defaults for retrieval.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		TopK:         5,
		LocalTimeout: 30 * time.Second,
		WebTimeout:   15 * time.Second,
	}
}

// RetrievalService routes a query to the local index and/or the web provider
// and merges their results. Failures in one source never block the other:
// a failed source degrades to zero results and is reported through the
// logging/telemetry side channel.
type RetrievalService struct {
	local IndexSearcher
	web   WebSearcher
	cfg   RetrievalConfig
}

// NewRetrievalService creates a new RetrievalService instance. web may be nil
// when no provider is configured.
func NewRetrievalService(local IndexSearcher, web WebSearcher, cfg RetrievalConfig) *RetrievalService {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultRetrievalConfig().TopK
	}
	if cfg.LocalTimeout <= 0 {
		cfg.LocalTimeout = DefaultRetrievalConfig().LocalTimeout
	}
	if cfg.WebTimeout <= 0 {
		cfg.WebTimeout = DefaultRetrievalConfig().WebTimeout
	}
	return &RetrievalService{
		local: local,
		web:   web,
		cfg:   cfg,
	}
}

// RetrievalOutput is the per-query merged result set. It is discarded after
// synthesis.
type RetrievalOutput struct {
	Route domain.QueryType
	Local []domain.RetrievedResult
	Web   []domain.RetrievedResult
}

// Empty reports whether no source produced any result.
func (o *RetrievalOutput) Empty() bool {
	return len(o.Local) == 0 && len(o.Web) == 0
}

// Retrieve classifies the query and fans out to the selected sources.
// forceWeb overrides the router and always triggers a web call; the
// classification is still returned as a display label.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, forceWeb bool) *RetrievalOutput {
	route := ClassifyQuery(query)

	useLocal := (route == domain.QueryTypeDocument || route == domain.QueryTypeHybrid) &&
		s.local != nil && s.local.Ready()
	useWeb := (route == domain.QueryTypeWeb || route == domain.QueryTypeHybrid || forceWeb) &&
		s.web != nil

	out := &RetrievalOutput{Route: route}

	var wg sync.WaitGroup
	if useLocal {
		wg.Add(1)
		go func() {
			defer wg.Done()
			localCtx, cancel := context.WithTimeout(ctx, s.cfg.LocalTimeout)
			defer cancel()

			results, err := s.local.Search(localCtx, query, s.cfg.TopK)
			if err != nil {
				log.Printf("local retrieval failed: %v", err)
				telemetry.CaptureError(ctx, err)
				return
			}
			out.Local = results
		}()
	}

	if useWeb {
		wg.Add(1)
		go func() {
			defer wg.Done()
			webCtx, cancel := context.WithTimeout(ctx, s.cfg.WebTimeout)
			defer cancel()

			results, err := s.web.Search(webCtx, query)
			if err != nil {
				log.Printf("web retrieval failed: %v", err)
				telemetry.CaptureError(ctx, err)
				return
			}
			out.Web = results
		}()
	}

	// Both retrievals complete (or time out) before synthesis begins.
	wg.Wait()
	return out
}

package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"stocksnoop/lib/scrapers/shopify"
	"stocksnoop/services/watcher"
)

type productView struct {
	Handle string         `json:"handle"`
	Status shopify.Status `json:"status"`
	Detail string         `json:"detail,omitempty"`
	Url    string         `json:"url"`
}

type runView struct {
	RunId    string        `json:"run_id"`
	Time     time.Time     `json:"time"`
	Strategy string        `json:"strategy"`
	FirstRun bool          `json:"first_run"`
	Events   int           `json:"events"`
	Notified bool          `json:"notified"`
	Products []productView `json:"products"`
}

// statusStore holds the most recent completed run for the status endpoint.
type statusStore struct {
	mu   sync.Mutex
	last *runView
}

func (s *statusStore) set(result watcher.RunResult, at time.Time) {
	products := make([]productView, len(result.Results))
	for i, check := range result.Results {
		products[i] = productView{
			Handle: check.Handle,
			Status: check.Status,
			Detail: check.Detail,
			Url:    check.Url,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &runView{
		RunId:    result.RunId,
		Time:     at,
		Strategy: result.Strategy,
		FirstRun: result.FirstRun,
		Events:   len(result.Events),
		Notified: result.Notified,
		Products: products,
	}
}

func (s *statusStore) handler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("content-type", "application/json")
	if s.last == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "no runs completed yet"})
		return
	}
	json.NewEncoder(w).Encode(s.last)
}

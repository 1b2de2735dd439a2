package watcher

import (
	"fmt"

	"stocksnoop/lib/scrapers/shopify"
)

type EventKind string

const (
	EventNewProduct   EventKind = "new_product"
	EventStatusChange EventKind = "status_change"
)

// ChangeEvent describes one observed difference between two runs. Previous
// is empty for new products.
type ChangeEvent struct {
	Handle   string
	Kind     EventKind
	Previous shopify.Status
	Current  shopify.Status
	Url      string
}

// Line renders the event the way the change banner prints it.
func (e ChangeEvent) Line() string {
	if e.Kind == EventNewProduct {
		return fmt.Sprintf("%s: new product (%s)", e.Handle, e.Current.Display())
	}
	return fmt.Sprintf("%s: %s -> %s", e.Handle, e.Previous.Display(), e.Current.Display())
}

// DetectChanges compares fresh results against the previous state. Events
// keep the order of the current results. Handles that vanished from the
// current run produce no event, they simply age out of the state on the
// next save.
func DetectChanges(previous map[string]ProductRecord, current []shopify.CheckResult) []ChangeEvent {
	var events []ChangeEvent
	for _, result := range current {
		before, known := previous[result.Handle]
		if !known {
			events = append(events, ChangeEvent{
				Handle:  result.Handle,
				Kind:    EventNewProduct,
				Current: result.Status,
				Url:     result.Url,
			})
			continue
		}
		if before.Status != result.Status {
			events = append(events, ChangeEvent{
				Handle:   result.Handle,
				Kind:     EventStatusChange,
				Previous: before.Status,
				Current:  result.Status,
				Url:      result.Url,
			})
		}
	}
	return events
}

// Package notify delivers watch change digests to outside channels.
package notify

import (
	"context"
	"errors"

	"stocksnoop/services/watcher"
)

// Multi fans a digest out to every channel and joins the failures. A
// channel's failure never stops the others from being tried.
type Multi []watcher.Notifier

func (m Multi) Notify(ctx context.Context, events []watcher.ChangeEvent) error {
	var errs []error
	for _, notifier := range m {
		errs = append(errs, notifier.Notify(ctx, events))
	}
	return errors.Join(errs...)
}

// orderEvents returns new product events before status changes, keeping
// relative order within each group.
func orderEvents(events []watcher.ChangeEvent) []watcher.ChangeEvent {
	ordered := make([]watcher.ChangeEvent, 0, len(events))
	for _, e := range events {
		if e.Kind == watcher.EventNewProduct {
			ordered = append(ordered, e)
		}
	}
	for _, e := range events {
		if e.Kind != watcher.EventNewProduct {
			ordered = append(ordered, e)
		}
	}
	return ordered
}

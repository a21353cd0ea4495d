package notifier

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/pfrederiksen/fightcal/internal/event"
)

// DefaultInterval spaces consecutive posts on one channel.
const DefaultInterval = 2 * time.Second

// Notifier defines the interface for posting card announcements
type Notifier interface {
	// Notify posts one announcement per card, in order. It returns the number of cards
	// announced before the first failure.
	Notify(ctx context.Context, events []*event.Event) (int, error)
}

// newPacer allows one post immediately and then one per interval.
func newPacer(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// each calls post for every card, waiting on the pacer between posts.
func each(ctx context.Context, pacer *rate.Limiter, events []*event.Event, post func(*event.Event) error) (int, error) {
	for i, evt := range events {
		if err := pacer.Wait(ctx); err != nil {
			return i, err
		}
		if err := post(evt); err != nil {
			return i, err
		}
	}
	return len(events), nil
}

// Package lifecycle exposes store events as an aretw0/lifecycle Source so
// they can be consumed alongside signals and other supervised inputs.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/ainotes/pkg/core"
)

// Subscriber is satisfied by *core.Store.
type Subscriber interface {
	Subscribe(ctx context.Context) <-chan core.Event
}

type storeSource struct {
	store Subscriber
	out   chan lifecycle.Event
}

// NewSource creates a lifecycle.Source emitting every event of store.
// The subscription is taken when the source starts and ends with its context.
func NewSource(store Subscriber) lifecycle.Source {
	return &storeSource{
		store: store,
		out:   make(chan lifecycle.Event),
	}
}

func (s *storeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *storeSource) Start(ctx context.Context) error {
	events := s.store.Subscribe(ctx)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				// core.Event has String() and therefore is a lifecycle.Event.
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

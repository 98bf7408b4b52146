package reminders

import (
	"context"
	"errors"
	"fmt"
)

var ErrStoreBusy = errors.New("reminder store busy")

// Store persists the whole reminder collection. There is no indexed access:
// callers load everything or replace everything.
//
// LoadAll returns reminders in creation order. Absent or unreadable state is
// an empty collection, not an error. SaveAll must replace the collection
// atomically so a reader never observes a partial write.
type Store interface {
	LoadAll(ctx context.Context) ([]Reminder, error)
	SaveAll(ctx context.Context, reminders []Reminder) error
	Close() error
}

// Guarded serializes every access to a Store behind one lock. The lock is a
// single-slot channel so waiting for it can be bounded by a context.
type Guarded struct {
	store Store
	sem   chan struct{}
}

func NewGuarded(store Store) *Guarded {
	return &Guarded{store: store, sem: make(chan struct{}, 1)}
}

func (g *Guarded) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreBusy, err)
	}
	select {
	case g.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrStoreBusy, ctx.Err())
	}
}

func (g *Guarded) release() {
	<-g.sem
}

func (g *Guarded) LoadAll(ctx context.Context) ([]Reminder, error) {
	if err := g.acquire(ctx); err != nil {
		return nil, err
	}
	defer g.release()
	return g.store.LoadAll(ctx)
}

// Update runs one read-modify-write cycle as a critical section. fn receives
// the current collection and returns the replacement; returning an error
// aborts without writing.
func (g *Guarded) Update(ctx context.Context, fn func(current []Reminder) ([]Reminder, error)) error {
	if err := g.acquire(ctx); err != nil {
		return err
	}
	defer g.release()

	current, err := g.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load reminders: %w", err)
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	if err := g.store.SaveAll(ctx, next); err != nil {
		return fmt.Errorf("save reminders: %w", err)
	}
	return nil
}

func (g *Guarded) Close() error {
	return g.store.Close()
}

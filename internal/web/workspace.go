package web

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"style-finder/internal/session"
	"style-finder/internal/shared/telemetry"
	"style-finder/internal/ui"
)

// sessionGuard holds the submit lock of one workspace in the session store,
// so a second trigger is refused across requests and instances. The lock is
// owned by a per-acquire token and kept alive until release.
type sessionGuard struct {
	store session.Store
	id    string
	ttl   time.Duration
}

func (g *sessionGuard) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	ok, err := g.store.Lock(ctx, g.id, token, g.ttl)
	if err != nil {
		return nil, fmt.Errorf("lock session: %w", err)
	}
	if !ok {
		return nil, ui.ErrBusy
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go g.keepAlive(token, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := g.store.Unlock(ctx, g.id, token); err != nil {
				telemetry.Warn("session.unlock_failed", map[string]any{"session_id": g.id, "err": err.Error()})
			}
		})
	}, nil
}

// keepAlive refreshes the lock every third of its ttl until stop closes.
func (g *sessionGuard) keepAlive(token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	interval := g.ttl / 3
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			held, err := g.store.Refresh(ctx, g.id, token, g.ttl)
			cancel()
			if err != nil {
				telemetry.Warn("session.lock_refresh_failed", map[string]any{"session_id": g.id, "err": err.Error()})
				continue
			}
			if !held {
				telemetry.Warn("session.lock_lost", map[string]any{"session_id": g.id})
				return
			}
		}
	}
}

// liveView publishes the busy state as soon as a submission starts so that
// other requests for the workspace render the loader.
type liveView struct {
	*ui.Page
	onBusy  func()
	started bool
}

func (v *liveView) SetBusy(busy bool) {
	v.Page.SetBusy(busy)
	if busy {
		v.started = true
		if v.onBusy != nil {
			v.onBusy()
		}
	}
}

// update applies fn to the latest snapshot of id and saves it.
func (h *Handler) update(ctx context.Context, id string, fn func(*session.Snapshot)) error {
	snap, err := session.LoadOrNew(ctx, h.Sessions, id)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	fn(&snap)
	if err := h.Sessions.Save(ctx, snap); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// selectedFile loads the bytes behind the snapshot's selection.
func (h *Handler) selectedFile(ctx context.Context, snap session.Snapshot) (*ui.File, error) {
	if snap.Selected == nil {
		return nil, nil
	}
	data, err := h.Objects.Get(ctx, snap.Selected.StorageKey)
	if err != nil {
		return nil, err
	}
	return &ui.File{Name: snap.Selected.Name, MIMEType: snap.Selected.MIMEType, Data: data}, nil
}

func outcome(err error, ran bool) string {
	switch {
	case err == nil:
		return "succeeded"
	case errors.Is(err, ui.ErrNoSelection):
		return "no_selection"
	case errors.Is(err, ui.ErrBusy):
		return "busy"
	case !ran:
		return "start_failed"
	default:
		return "failed"
	}
}

package session

import (
	"context"
	"errors"
	"time"

	"style-finder/internal/ui"
)

var ErrNotFound = errors.New("session not found")

// FileRef points at the stored bytes of a workspace's selected file.
type FileRef struct {
	Name       string `json:"name"`
	MIMEType   string `json:"mimeType"`
	StorageKey string `json:"storageKey"`
	Size       int    `json:"size"`
}

// Snapshot is the persisted state of one visitor's workspace.
type Snapshot struct {
	ID        string       `json:"id"`
	Page      ui.PageState `json:"page"`
	Selected  *FileRef     `json:"selected,omitempty"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Store persists snapshots and the per-workspace submit lock.
type Store interface {
	Load(ctx context.Context, id string) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Delete(ctx context.Context, id string) error
	// Lock takes the submit lock for id on behalf of token. It reports false
	// when another holder has it; the lock expires after ttl.
	Lock(ctx context.Context, id, token string, ttl time.Duration) (bool, error)
	// Refresh extends the lock to ttl from now if token still holds it.
	Refresh(ctx context.Context, id, token string, ttl time.Duration) (bool, error)
	// Unlock releases the lock only if token holds it.
	Unlock(ctx context.Context, id, token string) error
	Locked(ctx context.Context, id string) (bool, error)
}

// New returns a snapshot for a workspace that has never been saved.
func New(id string) Snapshot {
	return Snapshot{ID: id, Page: ui.InitialState()}
}

// LoadOrNew loads id or starts a fresh workspace. A busy flag left behind by
// a submission that no longer holds the lock is cleared.
func LoadOrNew(ctx context.Context, store Store, id string) (Snapshot, error) {
	snap, err := store.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return New(id), nil
	}
	if err != nil {
		return Snapshot{}, err
	}
	if snap.Page.Busy {
		locked, err := store.Locked(ctx, id)
		if err != nil {
			return Snapshot{}, err
		}
		if !locked {
			snap.Page.Busy = false
		}
	}
	return snap, nil
}

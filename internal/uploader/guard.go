package uploader

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

type GuardState int

const (
	StateIdle GuardState = iota
	StateConfirming
)

// DismissGuard intercepts form dismissal while an upload is in flight or a
// completed upload has not been attached to a saved record. Closing in either
// situation would abandon a byte stream mid-flight or leave an orphaned
// object in storage, so dismissal requires explicit confirmation.
//
// The guard tracks the transfer's status; it does not duplicate the
// transfer's own state machine.
type DismissGuard struct {
	client *Client

	mu          sync.Mutex
	state       GuardState
	uploading   bool
	abort       context.CancelFunc
	folder      string
	unsavedURL  string
	unsavedName string
}

func NewDismissGuard(client *Client) *DismissGuard {
	return &DismissGuard{client: client}
}

// StartTransfer records an in-flight transfer and the handle to abort it.
// Starting over a completed-but-unsaved upload replaces it, so the previous
// object is deleted before it becomes unreachable.
func (g *DismissGuard) StartTransfer(folder string, abort context.CancelFunc) {
	g.mu.Lock()
	prevFolder := g.folder
	prevName := g.unsavedName
	replaced := g.unsavedURL != ""
	g.uploading = true
	g.folder = folder
	g.abort = abort
	g.unsavedURL = ""
	g.unsavedName = ""
	g.mu.Unlock()

	if replaced {
		if err := g.client.Delete(context.Background(), prevFolder, prevName); err != nil {
			log.Warn().Err(err).Str("file_name", prevName).Msg("failed to delete replaced upload")
		}
	}
}

// FinishTransfer records a completed upload whose object is not yet attached
// to a saved record.
func (g *DismissGuard) FinishTransfer(fileURL, fileName string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.uploading = false
	g.abort = nil
	g.unsavedURL = fileURL
	g.unsavedName = fileName
}

// MarkSaved clears the unsaved-object tracking once the parent record is
// persisted.
func (g *DismissGuard) MarkSaved() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.unsavedURL = ""
	g.unsavedName = ""
}

// ResetTransfer clears in-flight tracking after a failed transfer so the
// form can re-attempt.
func (g *DismissGuard) ResetTransfer() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.uploading = false
	g.abort = nil
}

func (g *DismissGuard) State() GuardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// RequestDismiss reports whether the form may close immediately. When there
// is anything at risk the guard moves to confirming and the caller must ask
// the user.
func (g *DismissGuard) RequestDismiss() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateConfirming {
		return false
	}
	if g.uploading || g.unsavedURL != "" {
		g.state = StateConfirming
		return false
	}
	return true
}

// KeepEditing returns to idle leaving any in-flight or completed upload
// untouched.
func (g *DismissGuard) KeepEditing() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = StateIdle
}

// ConfirmDiscard aborts any in-flight transfer and deletes the orphaned
// object before the form closes.
func (g *DismissGuard) ConfirmDiscard(ctx context.Context) error {
	g.mu.Lock()
	abort := g.abort
	folder := g.folder
	fileName := g.unsavedName
	orphaned := g.unsavedURL != ""
	g.state = StateIdle
	g.uploading = false
	g.abort = nil
	g.unsavedURL = ""
	g.unsavedName = ""
	g.mu.Unlock()

	if abort != nil {
		abort()
	}

	if orphaned {
		if err := g.client.Delete(ctx, folder, fileName); err != nil {
			return fmt.Errorf("orphan cleanup failed: %w", err)
		}
	}
	return nil
}

package uploader

import (
	"context"
	"errors"
	"fmt"
)

// DefaultMaxSizeBytes is the upper bound applied when a call site does not
// configure its own limit (2048 MB, the video ceiling).
const DefaultMaxSizeBytes int64 = 2048 << 20

type Options struct {
	// Folder is the destination folder negotiated with the gateway.
	Folder string
	// MaxSizeBytes overrides the default per-category size limit.
	MaxSizeBytes int64
	// OnProgress receives percent-complete ticks during the transfer.
	OnProgress func(int)
	// Guard, when set, is kept in sync with the transfer's status so form
	// dismissal can be intercepted.
	Guard *DismissGuard
}

// Uploader orchestrates the full pipeline: validation, metadata extraction,
// negotiation, and transfer.
type Uploader struct {
	client *Client
}

func New(client *Client) *Uploader {
	return &Uploader{client: client}
}

// Upload runs validate → negotiate → transfer. Metadata extraction runs
// concurrently with negotiation; both must finish before the result is
// returned, so the caller always receives the canonical URL together with
// the derived metadata.
func (u *Uploader) Upload(ctx context.Context, f File, opts Options) (*Result, error) {
	maxSize := opts.MaxSizeBytes
	if maxSize == 0 {
		maxSize = DefaultMaxSizeBytes
	}
	if f.Size > maxSize {
		return nil, &ValidationError{
			Message: fmt.Sprintf("%s is %d bytes, exceeding the %d byte limit", f.Name, f.Size, maxSize),
		}
	}

	metaCh := make(chan Metadata, 1)
	go func() {
		metaCh <- ExtractMetadata(f)
	}()

	cred, err := u.client.Negotiate(ctx, opts.Folder, f.Name, f.ContentType, f.Size)
	if err != nil {
		return nil, err
	}

	transferCtx := ctx
	if opts.Guard != nil {
		var cancel context.CancelFunc
		transferCtx, cancel = context.WithCancel(ctx)
		defer cancel()
		opts.Guard.StartTransfer(opts.Folder, cancel)
	}

	if err := u.client.Transfer(transferCtx, f, cred, opts.OnProgress); err != nil {
		if opts.Guard != nil {
			opts.Guard.ResetTransfer()
		}
		// A failed attempt resets progress so the form can re-attempt.
		var terr *TransferError
		if errors.As(err, &terr) && opts.OnProgress != nil {
			opts.OnProgress(0)
		}
		return nil, err
	}

	if opts.Guard != nil {
		opts.Guard.FinishTransfer(cred.FileURL, cred.FileName)
	}

	md := <-metaCh

	return &Result{
		FileURL:     cred.FileURL,
		FileName:    cred.FileName,
		SizeMB:      float64(md.SizeBytes) / (1024 * 1024),
		DurationSec: md.DurationSec,
	}, nil
}

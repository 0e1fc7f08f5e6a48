// Package media uploads deal images to an external media host.
// Uploader adds bounded retries and concurrent fan-out on top of a Backend,
// which performs exactly one upload attempt.
package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/travel-deals/backend/internal/domain"
)

// Defaults applied by NewUploader when Options leaves a field at zero.
const (
	DefaultAttempts       = 3
	DefaultBaseDelay      = 200 * time.Millisecond
	DefaultAttemptTimeout = 60 * time.Second
)

// File is an in-memory image waiting to be uploaded. The payload is held in
// memory so every retry can re-send it from the start.
type File struct {
	Name string
	Data []byte
}

// Backend performs a single upload attempt and returns the public URL.
type Backend interface {
	Upload(ctx context.Context, f File) (string, error)
}

// Options configures an Uploader.
type Options struct {
	// Attempts is the total number of tries per file, including the first.
	Attempts int
	// BaseDelay is the first backoff interval; it doubles after each failure.
	BaseDelay time.Duration
	// AttemptTimeout bounds the wall-clock time of one attempt.
	AttemptTimeout time.Duration
}

// Uploader sends images to a Backend with retries.
type Uploader struct {
	backend Backend
	opts    Options
	log     *slog.Logger
}

// NewUploader constructs an Uploader. Zero-valued options take the package
// defaults; a nil logger falls back to slog.Default().
func NewUploader(b Backend, opts Options, log *slog.Logger) *Uploader {
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = DefaultAttemptTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Uploader{backend: b, opts: opts, log: log}
}

// Upload sends one file, retrying with exponential backoff until an attempt
// succeeds or all attempts are used. Exhaustion returns an error wrapping
// domain.ErrUploadFailed. An empty file is rejected without contacting the
// backend.
func (u *Uploader) Upload(ctx context.Context, f File) (string, error) {
	if len(f.Data) == 0 {
		return "", fmt.Errorf("media.Uploader.Upload: %s: no file provided: %w", f.Name, domain.ErrUploadFailed)
	}

	b := retry.WithMaxRetries(uint64(u.opts.Attempts-1), retry.NewExponential(u.opts.BaseDelay))

	var (
		url     string
		attempt int
	)
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, u.opts.AttemptTimeout)
		defer cancel()

		got, err := u.backend.Upload(attemptCtx, f)
		if err != nil {
			u.log.WarnContext(ctx, "image upload attempt failed",
				"file", f.Name,
				"attempt", attempt,
				"attempts_left", u.opts.Attempts-attempt,
				"error", err,
			)
			return retry.RetryableError(err)
		}
		url = got
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("media.Uploader.Upload: %s: %w", f.Name, ctx.Err())
		}
		return "", fmt.Errorf("media.Uploader.Upload: %s after %d attempts: %w: %w", f.Name, attempt, domain.ErrUploadFailed, err)
	}
	return url, nil
}

// UploadAll uploads every file concurrently and returns the URLs in input
// order. It waits for all uploads; the first terminal failure cancels the
// remaining ones and is returned, and no partial result is reported.
func (u *Uploader) UploadAll(ctx context.Context, files []File) ([]string, error) {
	urls := make([]string, len(files))
	if len(files) == 0 {
		return urls, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			url, err := u.Upload(gctx, f)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// reader returns a fresh reader over the payload for one attempt.
func (f File) reader() *bytes.Reader {
	return bytes.NewReader(f.Data)
}

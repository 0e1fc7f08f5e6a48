package media_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travel-deals/backend/internal/domain"
	"github.com/travel-deals/backend/internal/media"
)

// mockBackend is a test double for media.Backend.
type mockBackend struct {
	upload func(ctx context.Context, f media.File) (string, error)
}

func (m *mockBackend) Upload(ctx context.Context, f media.File) (string, error) {
	return m.upload(ctx, f)
}

var _ media.Backend = (*mockBackend)(nil)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fastUploader uses a 1ms base delay so retry tests stay quick.
func fastUploader(b media.Backend, attempts int) *media.Uploader {
	return media.NewUploader(b, media.Options{Attempts: attempts, BaseDelay: time.Millisecond}, quietLogger())
}

func file(name string) media.File {
	return media.File{Name: name, Data: []byte("binary-" + name)}
}

func TestUploader_Upload_FirstTry(t *testing.T) {
	var calls int32
	b := &mockBackend{upload: func(_ context.Context, f media.File) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "https://cdn.example.com/" + f.Name, nil
	}}

	url, err := fastUploader(b, 3).Upload(context.Background(), file("a.jpg"))

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.jpg", url)
	assert.EqualValues(t, 1, calls)
}

func TestUploader_Upload_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	b := &mockBackend{upload: func(_ context.Context, _ media.File) (string, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return "", errors.New("502 bad gateway")
		}
		return "https://cdn.example.com/ok.jpg", nil
	}}

	url, err := fastUploader(b, 3).Upload(context.Background(), file("ok.jpg"))

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/ok.jpg", url)
	assert.EqualValues(t, 3, calls)
}

func TestUploader_Upload_Exhausted(t *testing.T) {
	var calls int32
	b := &mockBackend{upload: func(_ context.Context, _ media.File) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", errors.New("timeout")
	}}

	_, err := fastUploader(b, 3).Upload(context.Background(), file("bad.jpg"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	assert.EqualValues(t, 3, calls, "attempts is the total number of tries")
}

func TestUploader_Upload_EmptyFile(t *testing.T) {
	b := &mockBackend{upload: func(_ context.Context, _ media.File) (string, error) {
		t.Fatal("backend must not be called for an empty file")
		return "", nil
	}}

	_, err := fastUploader(b, 3).Upload(context.Background(), media.File{Name: "empty.jpg"})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestUploader_Upload_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := &mockBackend{upload: func(_ context.Context, _ media.File) (string, error) {
		cancel()
		return "", errors.New("boom")
	}}

	up := media.NewUploader(b, media.Options{Attempts: 5, BaseDelay: time.Hour}, quietLogger())
	_, err := up.Upload(ctx, file("a.jpg"))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestUploader_UploadAll_PreservesOrder(t *testing.T) {
	b := &mockBackend{upload: func(_ context.Context, f media.File) (string, error) {
		if f.Name == "0.jpg" {
			// Finish last so order cannot come from completion order.
			time.Sleep(20 * time.Millisecond)
		}
		return "https://cdn.example.com/" + f.Name, nil
	}}

	files := []media.File{file("0.jpg"), file("1.jpg"), file("2.jpg"), file("3.jpg")}
	urls, err := fastUploader(b, 3).UploadAll(context.Background(), files)

	require.NoError(t, err)
	for i, u := range urls {
		assert.Equal(t, fmt.Sprintf("https://cdn.example.com/%d.jpg", i), u)
	}
}

func TestUploader_UploadAll_RunsConcurrently(t *testing.T) {
	var (
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	b := &mockBackend{upload: func(_ context.Context, f media.File) (string, error) {
		mu.Lock()
		active++
		if active > maxSeen {
			maxSeen = active
		}
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
		return f.Name, nil
	}}

	_, err := fastUploader(b, 1).UploadAll(context.Background(), []media.File{file("a"), file("b"), file("c")})

	require.NoError(t, err)
	assert.Greater(t, maxSeen, 1, "uploads should overlap")
}

func TestUploader_UploadAll_OneFailureFailsAll(t *testing.T) {
	b := &mockBackend{upload: func(_ context.Context, f media.File) (string, error) {
		if f.Name == "bad.jpg" {
			return "", errors.New("rejected")
		}
		return "https://cdn.example.com/" + f.Name, nil
	}}

	urls, err := fastUploader(b, 2).UploadAll(context.Background(), []media.File{file("good.jpg"), file("bad.jpg")})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	assert.Nil(t, urls, "no partial result on failure")
}

func TestUploader_UploadAll_Empty(t *testing.T) {
	b := &mockBackend{upload: func(_ context.Context, _ media.File) (string, error) {
		t.Fatal("backend must not be called")
		return "", nil
	}}

	urls, err := fastUploader(b, 3).UploadAll(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, urls)
}

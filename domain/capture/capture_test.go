package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deepayan-S/FoodScanner/domain/barcode"
	"github.com/Deepayan-S/FoodScanner/images"
)

func solid(w, h int, v uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 255
	}
	return img
}

func writeFrames(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		name := filepath.Join(dir, fmt.Sprintf("frame_%02d.png", i))
		require.NoError(t, os.WriteFile(name, images.EncodePNG(solid(8+i, 4, uint8(i*40))), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))
	return dir
}

func drain(t *testing.T, d Device, limit int) []Frame {
	t.Helper()
	var out []Frame
	timeout := time.After(5 * time.Second)
	for len(out) < limit {
		select {
		case f, ok := <-d.Frames():
			if !ok {
				return out
			}
			out = append(out, f)
		case <-timeout:
			t.Fatalf("timed out after %d frames", len(out))
		}
	}
	return out
}

func TestDirReplayInOrderThenEnds(t *testing.T) {
	dir := writeFrames(t, 3)
	d, err := Open(context.Background(), Options{Kind: KindDir, Dir: dir}, nil)
	require.NoError(t, err)
	defer d.Close()

	frames := drain(t, d, 10)
	require.Len(t, frames, 3)
	for i, f := range frames {
		assert.Equal(t, 8+i, f.Image.Bounds().Dx())
		assert.Equal(t, uint64(i+1), f.Sequence)
	}
	assert.ErrorIs(t, d.Err(), ErrEndOfStream)
	assert.Equal(t, uint64(3), d.Stats().Captures)
}

func TestDirReplayLoops(t *testing.T) {
	dir := writeFrames(t, 2)
	d, err := OpenDir(dir, 0, true, nil)
	require.NoError(t, err)
	frames := drain(t, d, 5)
	require.Len(t, frames, 5)
	assert.Equal(t, 8, frames[2].Image.Bounds().Dx())
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
}

func TestOpenEmptyDirIsCaptureUnavailable(t *testing.T) {
	_, err := Open(context.Background(), Options{Kind: KindDir, Dir: t.TempDir()}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, barcode.ErrCaptureUnavailable))
}

func TestOpenUnknownKind(t *testing.T) {
	_, err := Open(context.Background(), Options{Kind: "v4l2"}, nil)
	assert.True(t, errors.Is(err, barcode.ErrCaptureUnavailable))
}

func TestSnapshotPolling(t *testing.T) {
	png := images.EncodePNG(solid(12, 6, 200))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}))
	defer srv.Close()

	d, err := Open(context.Background(), Options{Kind: KindSnapshot, URL: srv.URL + "/shot.png", Interval: time.Millisecond, Client: srv.Client()}, nil)
	require.NoError(t, err)
	frames := drain(t, d, 2)
	require.Len(t, frames, 2)
	assert.Equal(t, 12, frames[0].Image.Bounds().Dx())
	require.NoError(t, d.Close())

	// channel is closed after Close
	for range d.Frames() {
	}
}

func TestSnapshotGivesUpAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	d, err := OpenSnapshot(srv.URL, srv.Client(), time.Millisecond, nil)
	require.NoError(t, err)
	defer d.Close()
	frames := drain(t, d, 1)
	assert.Empty(t, frames)
	require.Error(t, d.Err())
	assert.Contains(t, d.Err().Error(), "HTTP 403")
	assert.Equal(t, uint64(maxConsecutiveFailures), d.Stats().Skipped)
}

func TestSnapshotRejectsBadURL(t *testing.T) {
	_, err := OpenSnapshot("ftp://camera/shot.jpg", nil, 0, nil)
	assert.Error(t, err)
}

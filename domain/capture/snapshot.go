package capture

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Deepayan-S/FoodScanner/images"
)

const maxSnapshotBytes = 16 << 20

// OpenSnapshot polls an HTTP still-image endpoint, as exposed by most IP
// cameras and phone webcam apps.
func OpenSnapshot(rawURL string, client *http.Client, interval time.Duration, logger *slog.Logger) (Device, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("snapshot: invalid url %q", rawURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	target := u.String()
	grab := func(ctx context.Context) (image.Image, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("snapshot: HTTP %d", resp.StatusCode)
		}
		return images.Decode(io.LimitReader(resp.Body, maxSnapshotBytes))
	}
	return startPolling("snapshot", interval, grab, logger), nil
}

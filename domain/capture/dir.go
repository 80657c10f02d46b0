package capture

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Deepayan-S/FoodScanner/images"
)

var replayExts = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff"}

// ListImages returns the image files in dir sorted by name.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slices.Contains(replayExts, strings.ToLower(filepath.Ext(e.Name()))) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

// OpenDir replays the images of dir in name order, once or in a loop.
// Unreadable files are skipped.
func OpenDir(dir string, interval time.Duration, loop bool, logger *slog.Logger) (Device, error) {
	files, err := ListImages(dir)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("replay: no images in %s", dir)
	}
	next := 0
	grab := func(context.Context) (image.Image, error) {
		if next >= len(files) {
			if !loop {
				return nil, ErrEndOfStream
			}
			next = 0
		}
		path := files[next]
		next++
		return images.Load(path)
	}
	return startPolling("replay", interval, grab, logger), nil
}

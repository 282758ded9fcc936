package preview

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/tablescope/internal/preview/notifier"
	"github.com/matzehuels/tablescope/pkg/observability"
)

// debounce coalesces the burst of events editors produce on save.
const debounce = 100 * time.Millisecond

// watchInput watches the input file and reloads on change. The parent
// directory is watched so that editors replacing the file by rename are
// noticed.
func (s *Server) watchInput(ctx context.Context) error {
	input, err := filepath.Abs(s.treemap.Input)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(input)); err != nil {
		s.logger.Error("failed to watch input", "path", input, "error", err)
		// Serve without reloading.
		<-ctx.Done()
		return nil
	}
	s.logger.Debug("watching input", "path", input)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != input {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, func() {
				_ = s.reload(ctx)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// reload re-reads the input and notifies connected pages. Pages are not
// notified when the input no longer loads, so they keep the last good
// render.
func (s *Server) reload(ctx context.Context) error {
	start := time.Now()
	opts := s.treemap
	if len(opts.Attributes) == 0 {
		opts = s.graph
	}
	_, err := s.runner.Load(ctx, opts)
	observability.Preview().OnReload(ctx, opts.Input, time.Since(start), err)
	if err != nil {
		return err
	}
	s.resetDrag()
	s.notifier.Broadcast(notifier.Reload)
	return nil
}

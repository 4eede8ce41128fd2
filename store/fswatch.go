package store

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/lookoutdb/lookout/notify"
)

// BridgeFileChanges publishes a ChangeEvent for the given tables
// whenever the database file (or its WAL) is written by another process.
//
// SQLite has no cross-process change notification, so this bridge is
// coarse: it cannot tell which tables a foreign write touched and
// attributes every file-level write to the declared table set. Writes
// made through this Store publish their own precise events; use the
// bridge only to observe databases written by other processes.
//
// The returned stop function releases the watcher and is idempotent.
func (s *Store) BridgeFileChanges(tables []string) (stop func(), err error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("bridge file changes: no tables declared")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("bridge file changes: %w", err)
	}

	if err := watcher.Add(s.path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("bridge file changes: watch %s: %w", s.path, err)
	}
	// In WAL mode foreign writes land in the -wal file first.
	walPath := s.path + "-wal"
	if _, serr := os.Stat(walPath); serr == nil {
		if werr := watcher.Add(walPath); werr != nil {
			s.log.Debug("store: wal watch failed", zap.String("path", walPath), zap.Error(werr))
		}
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					s.hub.Publish(notify.ChangeEvent{Tables: tables})
				}
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Debug("store: file watch error", zap.Error(werr))
			case <-done:
				return
			}
		}
	}()

	var stopped bool
	return func() {
		if stopped {
			return
		}
		stopped = true
		close(done)
		watcher.Close()
	}, nil
}

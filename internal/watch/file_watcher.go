package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/nortreport/internal/foundation/errors"
	"git.home.luguber.info/inful/nortreport/internal/logfields"
)

// FileWatcher calls onChange once a burst of writes to a single file has gone quiet.
type FileWatcher struct {
	path     string
	debounce time.Duration
	onChange func()
	logger   *slog.Logger

	watcher  *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
}

// NewFileWatcher prepares a watcher for path. Nothing is watched until Start.
func NewFileWatcher(path string, debounce time.Duration, onChange func(), logger *slog.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.FileSystemError("failed to resolve watched path").WithCause(err).
			WithContext("path", path).Build()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.RuntimeError("failed to create file watcher").WithCause(err).Build()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileWatcher{
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		watcher:  w,
		done:     make(chan struct{}),
	}, nil
}

// Start watches the file's directory; editors that replace the file by rename
// would otherwise drop the watch.
func (fw *FileWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(fw.path)
	if err := fw.watcher.Add(dir); err != nil {
		return errors.FileSystemError("failed to watch directory").WithCause(err).
			WithContext("path", dir).Build()
	}
	fw.logger.Info("Watching links document", logfields.Path(fw.path))
	go fw.loop(ctx)
	return nil
}

// Stop releases the underlying watcher. It is safe to call more than once.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}

func (fw *FileWatcher) loop(ctx context.Context) {
	name := filepath.Base(fw.path)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.done:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Remove) {
				fw.logger.Warn("Links document removed", logfields.Path(event.Name))
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			fw.logger.Debug("Links document changed", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			fw.onChange()
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

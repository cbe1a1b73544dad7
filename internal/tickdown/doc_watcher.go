package tickdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/hay-kot/tickdown/internal/core/logging"
	"github.com/hay-kot/tickdown/internal/core/task"
	"github.com/hay-kot/tickdown/pkg/clock"
)

// ErrDocumentChanged is returned by SyncOnce when the document was edited
// between reading and writing it. The write is abandoned.
var ErrDocumentChanged = errors.New("document changed during sync")

// DocWatcherOptions configures a DocWatcher.
type DocWatcherOptions struct {
	Path     string
	Owner    string
	Debounce time.Duration
	Interval time.Duration
}

// DocWatcher keeps one markdown file and the task store in step. User edits
// are debounced and reconciled into the store; store-side checks are written
// back into the file by the Syncer once the user has stopped typing.
type DocWatcher struct {
	path     string
	owner    string
	debounce time.Duration
	interval time.Duration

	reconciler *Reconciler
	store      task.Store
	syncer     *Syncer
	clock      clock.Clock
	log        zerolog.Logger

	kick chan struct{}

	// seen is the last content the watcher reconciled or wrote. Anything
	// else on disk is a user edit that has not been processed yet.
	mu      sync.Mutex
	seen    string
	hasSeen bool
}

// NewDocWatcher creates a watcher for a single document.
func NewDocWatcher(
	opts DocWatcherOptions,
	reconciler *Reconciler,
	store task.Store,
	syncer *Syncer,
	clk clock.Clock,
	log zerolog.Logger,
) *DocWatcher {
	path := filepath.Clean(opts.Path)
	if opts.Debounce <= 0 {
		opts.Debounce = time.Second
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	return &DocWatcher{
		path:       path,
		owner:      opts.Owner,
		debounce:   opts.Debounce,
		interval:   opts.Interval,
		reconciler: reconciler,
		store:      store,
		syncer:     syncer,
		clock:      clk,
		log:        log.With().Str("component", "doc-watcher").Str("path", path).Logger(),
		kick:       make(chan struct{}, 1),
	}
}

// Path returns the watched document.
func (w *DocWatcher) Path() string { return w.path }

// Notify asks the watcher to attempt a sync soon. It never blocks.
func (w *DocWatcher) Notify() {
	select {
	case w.kick <- struct{}{}:
	default:
	}
}

// Run reconciles the document once, then watches it until ctx is cancelled.
// The parent directory is watched so editors that replace the file on save
// are still observed.
func (w *DocWatcher) Run(ctx context.Context) error {
	ctx = logging.WithDocument(logging.WithOwner(ctx, w.owner), w.path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	if err := w.Reconcile(ctx); err != nil {
		w.log.Warn().Ctx(ctx).Err(err).Msg("initial reconcile failed")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.isTarget(event) {
				continue
			}

			w.log.Debug().Ctx(ctx).Str("op", event.Op.String()).Msg("file system event")

			// Debounce: wait for changes to settle using a timer
			debounce := time.NewTimer(w.debounce)
		debounceLoop:
			for {
				select {
				case <-ctx.Done():
					debounce.Stop()
					return nil
				case e, ok := <-watcher.Events:
					if !ok {
						debounce.Stop()
						return nil
					}
					if !w.isTarget(e) {
						continue
					}
					if !debounce.Stop() {
						<-debounce.C
					}
					debounce.Reset(w.debounce)
				case <-debounce.C:
					break debounceLoop
				}
			}

			if err := w.HandleChange(ctx); err != nil {
				w.log.Warn().Ctx(ctx).Err(err).Msg("reconcile after edit failed")
			}

		case <-ticker.C:
			w.trySync(ctx)

		case <-w.kick:
			w.trySync(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error().Ctx(ctx).Err(err).Msg("watcher error")
		}
	}
}

// HandleChange processes a settled file change. Content the watcher has
// already reconciled or written itself is not a user edit and is ignored.
func (w *DocWatcher) HandleChange(ctx context.Context) error {
	content, err := w.read()
	if err != nil {
		return err
	}
	if w.isSeen(content) {
		return nil
	}

	w.syncer.RecordEdit(w.clock.Now())
	return w.reconcile(ctx, content)
}

// Reconcile reads the document and reconciles it without treating the read
// as a user edit.
func (w *DocWatcher) Reconcile(ctx context.Context) error {
	content, err := w.read()
	if err != nil {
		return err
	}
	return w.reconcile(ctx, content)
}

// SyncOnce writes store-side checks into the document if the quiet period
// has elapsed. It reports whether the file was rewritten.
//
// A document that differs from what the watcher last reconciled holds a user
// edit whose file event has not been handled yet. It is reconciled instead
// of written, and the quiet period restarts.
func (w *DocWatcher) SyncOnce(ctx context.Context) (bool, error) {
	content, err := w.read()
	if err != nil {
		return false, err
	}

	if !w.isSeen(content) {
		if w.hasSeenAny() {
			w.syncer.RecordEdit(w.clock.Now())
		}
		return false, w.reconcile(ctx, content)
	}

	now := w.clock.Now()
	if !w.syncer.Quiet(now) {
		return false, nil
	}

	tasks, err := w.store.ListAll(ctx, w.owner)
	if err != nil {
		return false, fmt.Errorf("load tasks: %w", err)
	}

	updated, changed := w.syncer.Apply(content, tasks, now)
	if !changed {
		return false, nil
	}

	// The user may have saved while the store was queried.
	current, err := w.read()
	if err != nil {
		return false, err
	}
	if current != content {
		return false, ErrDocumentChanged
	}

	if err := w.write(updated); err != nil {
		return false, err
	}

	w.log.Debug().Ctx(ctx).Msg("synced checkbox state into document")
	return true, nil
}

func (w *DocWatcher) trySync(ctx context.Context) {
	if _, err := w.SyncOnce(ctx); err != nil {
		if errors.Is(err, ErrDocumentChanged) {
			w.log.Debug().Ctx(ctx).Msg("document edited during sync, retrying later")
			return
		}
		w.log.Warn().Ctx(ctx).Err(err).Msg("document sync failed")
	}
}

func (w *DocWatcher) isTarget(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *DocWatcher) reconcile(ctx context.Context, content string) error {
	if _, err := w.reconciler.Reconcile(ctx, w.owner, content); err != nil {
		return err
	}
	w.markSeen(content)
	return nil
}

func (w *DocWatcher) markSeen(content string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seen = content
	w.hasSeen = true
}

func (w *DocWatcher) isSeen(content string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hasSeen && content == w.seen
}

func (w *DocWatcher) hasSeenAny() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hasSeen
}

func (w *DocWatcher) read() (string, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(data), nil
}

func (w *DocWatcher) write(content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(w.path); err == nil {
		mode = info.Mode().Perm()
	}

	w.markSeen(content)

	if err := os.WriteFile(w.path, []byte(content), mode); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Saver persists a session after each change.
type Saver interface {
	Save(ctx context.Context, sess *Session) error
}

// Watcher adds files that appear in a directory to a session.
type Watcher struct {
	Session *Session
	Saver   Saver

	// PDF extracts text from .pdf files. When nil, PDFs are ignored.
	PDF PDFExtractor

	Logger *zap.Logger
	Out    io.Writer

	// Quiet is how long a file must go without writes before it is
	// ingested. Zero uses DefaultQuiet.
	Quiet time.Duration

	added map[string]bool
}

// DefaultQuiet is the default settle time for a written file.
const DefaultQuiet = 500 * time.Millisecond

// Extensions returns the file extensions the watcher ingests.
func (w *Watcher) Extensions() []string {
	exts := []string{".txt", ".md"}
	if w.PDF != nil {
		exts = append(exts, ".pdf")
	}
	return exts
}

// Watch observes dir until ctx ends or the session is full. Each new or
// written file with a watched extension is added once, after it has gone
// Quiet without further writes. It returns nil when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	if w.Logger == nil {
		w.Logger = zap.NewNop()
	}
	if w.Out == nil {
		w.Out = io.Discard
	}
	w.added = make(map[string]bool)
	quiet := w.Quiet
	if quiet <= 0 {
		quiet = DefaultQuiet
	}

	if w.Session.Full() {
		return fmt.Errorf("%w (%d)", ErrSessionFull, w.Session.Max())
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.Logger.Info("watching directory", zap.String("dir", dir), zap.Strings("extensions", w.Extensions()))

	// Timers are only touched from this goroutine; their callbacks only
	// send the settled path, or give up once Watch has returned.
	done := make(chan struct{})
	defer close(done)
	settled := make(chan string)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			path := event.Name
			if !w.watched(path) || w.added[path] {
				continue
			}
			if t, ok := timers[path]; ok {
				t.Reset(quiet)
				continue
			}
			timers[path] = time.AfterFunc(quiet, func() {
				select {
				case settled <- path:
				case <-done:
				}
			})
		case path := <-settled:
			delete(timers, path)
			if w.added[path] {
				continue
			}
			full, err := w.ingest(ctx, path)
			if err != nil {
				fmt.Fprintf(w.Out, "failed  %s: %v\n", filepath.Base(path), err)
				continue
			}
			if full {
				fmt.Fprintf(w.Out, "Maximum of %d sources reached.\n", w.Session.Max())
				return nil
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) watched(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.Extensions() {
		if ext == e {
			return true
		}
	}
	return false
}

// ingest adds path to the session. Files that are still empty are skipped
// without error so the following write event can pick them up.
func (w *Watcher) ingest(ctx context.Context, path string) (full bool, err error) {
	name := filepath.Base(path)
	var text string
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err = w.PDF.Extract(ctx, path)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		text = string(data)
	}
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(text) == "" {
		return false, nil
	}

	var addErr error
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		_, addErr = w.Session.AddPDF(name, text)
	} else {
		_, addErr = w.Session.AddText(text)
	}
	if errors.Is(addErr, ErrSessionFull) {
		return true, nil
	}
	if addErr != nil {
		return false, addErr
	}
	w.added[path] = true

	if err := w.Saver.Save(ctx, w.Session); err != nil {
		return false, fmt.Errorf("saving session: %w", err)
	}
	fmt.Fprintf(w.Out, "added   %s (source %d)\n", name, w.Session.Len())
	w.Logger.Debug("source added", zap.String("path", path), zap.Int("sources", w.Session.Len()))
	return w.Session.Full(), nil
}

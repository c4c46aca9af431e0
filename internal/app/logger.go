package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fatih/color"
)

const (
	LogFile   = "swift-format-plugin.log"
	LogEnvVar = "SWIFT_FORMAT_PLUGIN_LOG_FILE"
)

// logPath picks the log file: the env override, else LogFile in workDir.
func logPath(envValue, workDir string) string {
	if envValue != "" {
		return envValue
	}
	return filepath.Join(workDir, LogFile)
}

// setupLogger configures a logger that writes structured logs to a file
// and clean, human-readable logs to the console. File output is held in
// memory until the returned deferredLog is opened; eager opens it straight
// away. If the file cannot be opened the logger still writes to the console.
func setupLogger(stderr io.Writer, logLevel *slog.LevelVar, path string, useColour, eager bool,
) (*slog.Logger, *deferredLog, error) {
	file := &deferredLog{path: path}
	var err error
	if eager {
		err = file.Open()
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level: slog.LevelDebug, // File always gets full debug info
	})
	console := &consoleHandler{
		w:      stderr,
		level:  logLevel,
		colour: useColour,
	}

	return slog.New(&multiHandler{handlers: []slog.Handler{fileHandler, console}}), file, err
}

// deferredLog buffers log output until Open, so commands that only read the
// project leave nothing behind in it.
type deferredLog struct {
	mu     sync.Mutex
	path   string
	buf    bytes.Buffer
	f      *os.File
	failed bool
}

func (d *deferredLog) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.f != nil:
		return d.f.Write(p)
	case d.failed:
		return len(p), nil
	default:
		return d.buf.Write(p)
	}
}

// Open creates the log file and flushes what was buffered. Only the first
// failure is returned; after it output is discarded.
func (d *deferredLog) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f != nil || d.failed {
		return nil
	}

	f, err := d.open()
	if err != nil {
		d.failed = true
		d.buf.Reset()
		return err
	}
	d.f = f
	_, err = d.buf.WriteTo(f)
	return err
}

func (d *deferredLog) open() (*os.File, error) {
	if d.path == "" {
		return nil, errors.New("no log file path")
	}
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(d.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// Close closes the file if it was ever opened. Buffered output is dropped.
func (d *deferredLog) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf.Reset()
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	d.failed = true
	return err
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

type consoleHandler struct {
	w      io.Writer
	level  *slog.LevelVar
	colour bool
	attrs  []slog.Attr
}

func (c *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (c *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	switch {
	case record.Level >= slog.LevelError:
		fmt.Fprintf(c.w, "%s %s", c.prefix("Error:", color.FgRed), record.Message)
	case record.Level >= slog.LevelWarn:
		fmt.Fprintf(c.w, "%s %s", c.prefix("Warning:", color.FgYellow), record.Message)
	default:
		fmt.Fprint(c.w, record.Message)
	}

	// Show attributes added via WithAttrs
	for _, a := range c.attrs {
		c.formatAttr(a)
	}

	// Show attributes from the record
	record.Attrs(func(a slog.Attr) bool {
		c.formatAttr(a)
		return true
	})

	fmt.Fprintln(c.w)
	return nil
}

func (c *consoleHandler) prefix(label string, fg color.Attribute) string {
	if !c.colour {
		return label
	}
	p := color.New(fg, color.Bold)
	p.EnableColor()
	return p.Sprint(label)
}

func (c *consoleHandler) formatAttr(a slog.Attr) {
	if a.Key == "error" || a.Key == "err" {
		fmt.Fprintf(c.w, ": %v", a.Value)
	} else if c.level.Level() <= slog.LevelDebug {
		fmt.Fprintf(c.w, " %s=%v", a.Key, a.Value)
	}
}

func (c *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{
		w:      c.w,
		level:  c.level,
		colour: c.colour,
		attrs:  append(slices.Clone(c.attrs), attrs...),
	}
}

func (c *consoleHandler) WithGroup(_ string) slog.Handler {
	return c
}

// Package logging builds the structured logger shared by the desktop app, the CLI
// and the HTTP server.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/baditaflorin/l"
)

// Options selects where log lines go.
type Options struct {
	// File appends logs to this path in addition to stderr when set.
	File string
	JSON bool
	// Extra receives a copy of every line, e.g. the on-screen log panel.
	Extra io.Writer
	// Quiet drops the stderr copy.
	Quiet bool
	// Async buffers writes on a background goroutine.
	Async bool
}

// New creates a logger. The returned close function flushes the logger and
// closes the log file.
func New(opts Options) (l.Logger, func() error, error) {
	var writers []io.Writer
	if !opts.Quiet {
		writers = append(writers, os.Stderr)
	}
	var file *os.File
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
		writers = append(writers, f)
	}
	if opts.Extra != nil {
		writers = append(writers, opts.Extra)
	}
	var output io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		output = writers[0]
	default:
		output = io.MultiWriter(writers...)
	}

	logger, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  opts.JSON,
		AsyncWrite:  opts.Async,
		BufferSize:  1024 * 1024,      // 1MB
		MaxFileSize: 10 * 1024 * 1024, // 10MB
		MaxBackups:  5,
		AddSource:   false,
		Metrics:     false,
	})
	if err != nil {
		if file != nil {
			_ = file.Close()
		}
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	closeFn := func() error {
		err := logger.Close()
		if file != nil {
			if cerr := file.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
		return err
	}
	return logger, closeFn, nil
}

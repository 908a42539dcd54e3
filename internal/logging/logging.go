package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"creditjack/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	mu     sync.Mutex
	writer io.Writer = os.Stdout
	closer io.Closer
)

// Init configures the global zerolog logger. When cfg.File is set, logs go
// to stdout and to the rolling file.
func Init(cfg config.LogConfig) error {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var console io.Writer = os.Stdout
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	out := console
	var file *rollingFile
	if cfg.File != "" {
		f, err := newRollingFile(cfg.File, cfg.MaxMB)
		if err != nil {
			return err
		}
		file = f
		out = zerolog.MultiLevelWriter(console, f)
	}

	mu.Lock()
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
	writer = out
	if file != nil {
		closer = file
	}
	mu.Unlock()

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(out).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
	return nil
}

// Writer is the sink chosen by the last Init.
func Writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return writer
}

// Close flushes and releases the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	writer = os.Stdout
	return err
}

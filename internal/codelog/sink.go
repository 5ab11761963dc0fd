package codelog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

// Layout of one sink line.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	LineFormat      = "%s - 2FA Code: %s"
)

// FormatLine renders the sink line for code derived at t.
func FormatLine(t time.Time, code string) string {
	return fmt.Sprintf(LineFormat, t.UTC().Format(TimestampLayout), code)
}

// Sink receives one line per derived code.
type Sink interface {
	WriteLine(line string) error
}

// WriterSink writes lines to an io.Writer such as stdout.
type WriterSink struct {
	mu sync.Mutex
	W  io.Writer
}

func (s *WriterSink) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.W, line+"\n")
	return err
}

// FileSink appends lines to a file, opening it for each write so external log
// rotation needs no signal. Transient write failures are retried.
type FileSink struct {
	Path       string
	Attempts   uint
	RetryDelay time.Duration
}

// NewFileSink returns a FileSink for path with the default retry policy.
func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path, Attempts: 3, RetryDelay: 200 * time.Millisecond}
}

func (s *FileSink) WriteLine(line string) error {
	attempts := s.Attempts
	if attempts == 0 {
		attempts = 1
	}
	return retry.Do(func() error {
		return s.appendLine(line)
	}, retry.Attempts(attempts),
		retry.Delay(s.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n+1).Str("path", s.Path).Msg("retrying code log write")
		}))
}

func (s *FileSink) appendLine(line string) error {
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SinkFor returns a FileSink for path, or a stdout sink for "" and "-".
func SinkFor(path string) Sink {
	if path == "" || path == "-" {
		return &WriterSink{W: os.Stdout}
	}
	return NewFileSink(path)
}

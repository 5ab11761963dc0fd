package codelog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/commitproof/internal/common/apperrors"
	"github.com/tansive/commitproof/internal/common/middleware"
	"github.com/tansive/commitproof/internal/otp"
)

const rfcSeedHex = "3132333435363738393031323334353637383930"

type memorySink struct {
	mu    sync.Mutex
	lines []string
	err   error
}

func (s *memorySink) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.lines = append(s.lines, line)
	return nil
}

func (s *memorySink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

func fixedNow(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0) }
}

func TestFormatLine(t *testing.T) {
	at := time.Date(2005, 3, 18, 3, 58, 29, 0, time.FixedZone("X", 5*3600))
	assert.Equal(t, "2005-03-17 22:58:29 - 2FA Code: 081804", FormatLine(at, "081804"))
}

func TestRunOnceWritesLine(t *testing.T) {
	sink := &memorySink{}
	m := NewMetrics()
	r := &Runner{
		Source:  otp.StaticSeedSource(rfcSeedHex),
		Sink:    sink,
		Now:     fixedNow(1111111109),
		Metrics: m,
	}

	res := r.RunOnce(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, ClassOK, res.Class)
	assert.Equal(t, "2005-03-18 01:58:29 - 2FA Code: 081804", res.Line)
	assert.Equal(t, []string{res.Line}, sink.Lines())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.codes))
}

func TestRunOnceMissingSeedIsSkipped(t *testing.T) {
	sink := &memorySink{}
	m := NewMetrics()
	r := &Runner{
		Source:  otp.FileSeedSource{Path: filepath.Join(t.TempDir(), "seed.txt")},
		Sink:    sink,
		Metrics: m,
	}

	res := r.RunOnce(context.Background())
	assert.Equal(t, ClassSkipped, res.Class)
	assert.ErrorIs(t, res.Err, apperrors.ErrMissingResource)
	assert.Empty(t, res.Line)
	assert.Empty(t, sink.Lines())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skipped))
}

func TestRunOnceBadSeedFails(t *testing.T) {
	m := NewMetrics()
	r := &Runner{Source: otp.StaticSeedSource("not-hex"), Sink: &memorySink{}, Metrics: m}

	res := r.RunOnce(context.Background())
	assert.Equal(t, ClassFailed, res.Class)
	assert.ErrorIs(t, res.Err, otp.ErrInvalidSeed)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures))
}

func TestRunOnceSinkFailure(t *testing.T) {
	r := &Runner{Source: otp.StaticSeedSource(rfcSeedHex), Sink: &memorySink{err: errors.New("disk full")}}
	res := r.RunOnce(context.Background())
	assert.Equal(t, ClassFailed, res.Class)
	assert.Empty(t, res.Line)
}

func TestRunOnceMisconfigured(t *testing.T) {
	res := (&Runner{}).RunOnce(context.Background())
	assert.Equal(t, ClassFailed, res.Class)
}

func TestRunSurvivesSkipsAndPicksUpSeed(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.txt")
	sink := &memorySink{}
	r := &Runner{
		Source:   otp.FileSeedSource{Path: seedPath},
		Sink:     sink,
		Interval: 10 * time.Millisecond,
		Now:      fixedNow(59),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	time.Sleep(35 * time.Millisecond)
	assert.Empty(t, sink.Lines())

	require.NoError(t, os.WriteFile(seedPath, []byte(rfcSeedHex+"\n"), 0600))
	require.Eventually(t, func() bool { return len(sink.Lines()) > 0 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
	for _, line := range sink.Lines() {
		assert.Equal(t, "1970-01-01 00:00:59 - 2FA Code: 287082", line)
	}
}

func TestFileSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cron.log")
	s := NewFileSink(path)
	require.NoError(t, s.WriteLine("one"))
	require.NoError(t, s.WriteLine("two"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(b))
}

func TestFileSinkGivesUp(t *testing.T) {
	dir := t.TempDir()
	// a directory in place of the log file cannot be opened for writing
	path := filepath.Join(dir, "cron.log")
	require.NoError(t, os.Mkdir(path, 0755))
	s := &FileSink{Path: path, Attempts: 2, RetryDelay: time.Millisecond}
	assert.Error(t, s.WriteLine("x"))
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	s := &WriterSink{W: &buf}
	require.NoError(t, s.WriteLine("a"))
	assert.Equal(t, "a\n", buf.String())
	assert.IsType(t, &WriterSink{}, SinkFor("-"))
	assert.IsType(t, &FileSink{}, SinkFor("/tmp/x.log"))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ClassOK, Classify(nil))
	assert.Equal(t, ClassSkipped, Classify(otp.ErrSeedNotFound))
	assert.Equal(t, ClassFailed, Classify(otp.ErrDeriveFailed))
	assert.Equal(t, ClassFailed, Classify(errors.New("boom")))
	assert.Equal(t, "skipped", ClassSkipped.String())
}

func TestMetricsRouter(t *testing.T) {
	m := NewMetrics()
	m.observe(ClassOK)
	srv := httptest.NewServer(m.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "codelog_codes_total 1")
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	count, err := testutil.GatherAndCount(m.Registry, "codelog_codes_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	resp2, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestRouterLogsRecoveredPanic(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	t.Cleanup(func() { log.Logger = prev })

	r := newRouter()
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/boom")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, buf.String(), `"message":"panic occurred"`)
	assert.Contains(t, buf.String(), `"request_id":"`+resp.Header.Get(middleware.RequestIDHeader)+`"`)
}

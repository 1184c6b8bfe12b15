package asynclog

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for the writer goroutine and the test to
// share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testClock is a settable clock for deterministic file names.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 10, 17, 10, 0, 0, 0, time.Local)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// newTestService initializes a service writing into a fresh temp dir with a
// fixed clock. setup may adjust the service and its config before
// Initialize.
func newTestService(t testing.TB, setup func(s *Service, cfg *Config)) (*Service, *testClock) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Dir = t.TempDir()
	cfg.ShutdownTimeoutMS = 5000

	clock := newTestClock()
	s := NewLogger()
	s.Config = &cfg
	s.now = clock.Now
	s.diagOut = &syncBuffer{}
	if setup != nil {
		setup(s, &cfg)
	}
	require.NoError(t, s.Initialize())
	t.Cleanup(func() { _ = s.Close() })
	return s, clock
}

// todayFile is the first log file for the default test clock.
func todayFile(s *Service) string {
	return filepath.Join(s.Config.Dir, "2026_10_17"+s.Config.Suffix)
}

func readLines(t testing.TB, path string) []string {
	t.Helper()
	fh, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = fh.Close() }()

	var lines []string
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.NoError(t, sc.Err())
	return lines
}

package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/issuefilter/internal/testutil"
)

// createTestStore creates a new file-backed store for testing, with
// timestamps from a ticking clock.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	clock := testutil.NewTickingClock()
	s, err := Open(path, WithNow(clock.Now))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func rfc3339(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339Nano)
}

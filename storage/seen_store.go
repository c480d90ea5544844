package storage

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"bike-deal-monitor/utils"
)

// SeenStore tracks the signatures of listings that have already produced an
// alert. It is backed by an append-only text file, one signature per line,
// loaded fully into memory at startup. There is a single writer (the polling
// loop), so no locking is needed.
type SeenStore struct {
	path   string
	logger *utils.Logger
	seen   map[string]struct{}
}

// NewSeenStore loads the persisted seen log at path. A missing or unreadable
// file yields an empty store: re-alerting once is preferred over refusing to
// start.
func NewSeenStore(path string, logger *utils.Logger) *SeenStore {
	s := &SeenStore{
		path:   path,
		logger: logger,
		seen:   make(map[string]struct{}),
	}

	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("[seen] Could not read %s: %v — starting empty", path, err)
		}
		return s
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		sig := strings.TrimSpace(scanner.Text())
		if sig != "" {
			s.seen[sig] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("[seen] Error reading %s: %v — loaded %d entries", path, err, len(s.seen))
	}

	return s
}

// Contains reports whether the signature has already been alerted on.
func (s *SeenStore) Contains(signature string) bool {
	_, ok := s.seen[signature]
	return ok
}

// Size returns the number of signatures loaded or recorded so far.
func (s *SeenStore) Size() int {
	return len(s.seen)
}

// RecordDeal adds the signature to the in-memory set and appends it to the
// persisted log. An append failure is returned for logging but the in-memory
// set is updated regardless, so the same process never re-alerts; only a
// restart after a failed append could alert once more.
func (s *SeenStore) RecordDeal(signature string) error {
	s.seen[signature] = struct{}{}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("seen: open %q: %w", s.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(signature + "\n"); err != nil {
		return fmt.Errorf("seen: append to %q: %w", s.path, err)
	}
	return nil
}

// Package debuglog is the append-only response trace used for offline
// post-mortems of the remote PPM API. Every request/response pair lands here,
// including failures. Write failures are swallowed: the trace must never mask
// the primary call's outcome.
package debuglog

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Log appends timestamped entries to a single file. Appends from concurrent
// fan-out branches are serialized so each entry lands intact; ordering
// between branches is not guaranteed and not needed.
type Log struct {
	mu      sync.Mutex
	path    string
	onError func(error)
}

// New creates a Log writing to path. onError, if non-nil, is invoked for each
// swallowed write failure (used for failure counting); it must not block.
func New(path string, onError func(error)) *Log {
	return &Log{path: path, onError: onError}
}

// Append writes one entry. Errors are logged and counted, never returned.
func (l *Log) Append(label string, body []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		l.fail(err)
		return
	}
	defer f.Close()

	entry := fmt.Sprintf("=== %s %s ===\n%s\n", time.Now().UTC().Format(time.RFC3339), label, body)
	if _, err := f.WriteString(entry); err != nil {
		l.fail(err)
	}
}

func (l *Log) fail(err error) {
	log.Debug().Err(err).Str("path", l.path).Msg("Trace write failed, swallowed")
	if l.onError != nil {
		l.onError(err)
	}
}

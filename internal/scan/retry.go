package scan

import (
	"errors"
	"math/rand/v2"
	"net"
	"time"

	"github.com/helpforge/helpaudit/internal/dms"
)

const maxFetchAttempts = 3

// transient reports whether a fetch error is worth retrying: a 5xx from the
// store or a network timeout. 4xx responses and parse-level errors are not.
func transient(err error) bool {
	var se *dms.StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// backoff returns the wait before retrying attempt n (0-indexed), with
// jitter.
func backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 10*time.Second {
		base = 10 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

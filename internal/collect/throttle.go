package collect

import "time"

// Throttle paces the per-file fetch loop. It enforces a fixed delay before
// each fetch as a preventive measure against remote rate limiting (not a
// reactive backoff), and caps the number of files one run will process so
// worst-case run duration stays bounded. Hitting the cap is a graceful
// stop, not an error.
type Throttle struct {
	delay     time.Duration
	maxFiles  int
	processed int
}

// NewThrottle creates a throttle with the given fixed delay and file ceiling.
func NewThrottle(delay time.Duration, maxFiles int) *Throttle {
	return &Throttle{delay: delay, maxFiles: maxFiles}
}

// Admit asks to process one more file. It returns false once the ceiling is
// reached; otherwise it counts the file, blocks for the fixed delay, and
// returns true.
func (t *Throttle) Admit() bool {
	if t.processed >= t.maxFiles {
		return false
	}
	t.processed++
	if t.delay > 0 {
		time.Sleep(t.delay)
	}
	return true
}

// Processed returns how many files have been admitted so far.
func (t *Throttle) Processed() int {
	return t.processed
}

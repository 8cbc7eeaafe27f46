package mealplan

import "sync"

// DefaultWarningLimit bounds how many undelivered warnings are kept.
const DefaultWarningLimit = 20

// Diagnostics collects human readable degradation notices until a caller
// consumes them. Oldest notices are dropped once the limit is reached and a
// notice equal to the one just before it is not queued twice.
type Diagnostics struct {
	mu    sync.Mutex
	limit int
	queue []string
}

// NewDiagnostics creates a sink holding at most limit notices.
func NewDiagnostics(limit int) *Diagnostics {
	if limit <= 0 {
		limit = DefaultWarningLimit
	}
	return &Diagnostics{limit: limit}
}

// Warn queues a notice.
func (d *Diagnostics) Warn(msg string) {
	if d == nil || msg == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := len(d.queue); n > 0 && d.queue[n-1] == msg {
		return
	}
	d.queue = append(d.queue, msg)
	if over := len(d.queue) - d.limit; over > 0 {
		d.queue = append([]string(nil), d.queue[over:]...)
	}
}

// Drain returns every queued notice in arrival order and empties the queue.
func (d *Diagnostics) Drain() []string {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.queue
	d.queue = nil
	if out == nil {
		return []string{}
	}
	return out
}

// Package profiler - timing of the read, convert and encode stages.
package profiler

import (
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// TimeTracker tracks timing statistics for one operation.
type TimeTracker struct {
	Name  string
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
	Count int64
}

// Average returns the mean duration, or zero if nothing was recorded.
func (t TimeTracker) Average() time.Duration {
	if t.Count == 0 {
		return 0
	}
	return t.Total / time.Duration(t.Count)
}

// Profiler records how long named operations take. It is safe for concurrent use,
// so a background save can record into the same profiler as the foreground read.
type Profiler struct {
	mu    sync.Mutex
	ops   map[string]*TimeTracker
	order []string
	now   func() time.Time
}

// New returns an empty profiler.
func New() *Profiler {
	return &Profiler{ops: make(map[string]*TimeTracker), now: time.Now}
}

// StartOperation begins timing an operation.
//
// Arguments:
//   - name: The name of the operation to track.
//
// Returns:
//   - A function to call when the operation completes.
func (p *Profiler) StartOperation(name string) func() {
	start := p.now()
	return func() {
		p.Record(name, p.now().Sub(start))
	}
}

// Record adds one sample for name.
func (p *Profiler) Record(name string, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.ops[name]
	if !ok {
		t = &TimeTracker{Name: name, Min: d, Max: d}
		p.ops[name] = t
		p.order = append(p.order, name)
	}
	t.Total += d
	t.Count++
	if d < t.Min {
		t.Min = d
	}
	if d > t.Max {
		t.Max = d
	}
}

// Snapshot returns the trackers in the order the operations were first seen.
func (p *Profiler) Snapshot() []TimeTracker {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]TimeTracker, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, *p.ops[name])
	}
	return out
}

// Report logs one line per operation at debug level, slowest first.
func (p *Profiler) Report(l *log.Logger) {
	ops := p.Snapshot()
	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].Total > ops[j].Total
	})
	for _, op := range ops {
		l.Debug("timing", "op", op.Name, "count", op.Count, "avg", op.Average(), "min", op.Min, "max", op.Max)
	}
}

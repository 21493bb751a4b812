// Package meter polls the microphone level telemetry file.
package meter

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultInterval is the poll cadence for the telemetry file.
const DefaultInterval = 200 * time.Millisecond

// Reading is a snapshot of the monitor.
type Reading struct {
	Current   float64
	Threshold float64
	Peak      float64
	Valid     bool
}

// Loud reports whether the current level is above the silence threshold.
func (r Reading) Loud() bool {
	return r.Current > r.Threshold
}

// Scale is the value mapped to the top of the meter. A few loud spikes must
// not flatten the normal range, so it never exceeds three times the
// threshold.
func (r Reading) Scale() float64 {
	scale := r.Peak
	if limit := r.Threshold * 3; scale > limit {
		scale = limit
	}
	return scale
}

// Marker signals a changed reading.
type Marker interface {
	Mark()
}

// Monitor tracks the level file. Poll and Run belong to one goroutine;
// Reading is safe from any goroutine.
type Monitor struct {
	path  string
	dirty Marker

	modTime time.Time
	size    int64
	seen    bool

	mu      sync.RWMutex
	reading Reading
}

// NewMonitor watches path and marks dirty on every successful update.
func NewMonitor(path string, dirty Marker) *Monitor {
	return &Monitor{path: path, dirty: dirty}
}

// Path is the watched file.
func (m *Monitor) Path() string {
	return m.path
}

// Reading returns the latest values. Valid is false until a line parsed.
func (m *Monitor) Reading() Reading {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reading
}

// ParseLevel reads a line such as "Energy: cur=4 thresh=1.5 muted=0". The
// last three space separated fields are consumed and the first two must
// hold key=value floats.
func ParseLevel(line string) (cur, thresh float64, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0, 0, false
	}
	tail := fields[len(fields)-3:]
	cur, err := parseValue(tail[0])
	if err != nil {
		return 0, 0, false
	}
	thresh, err = parseValue(tail[1])
	if err != nil {
		return 0, 0, false
	}
	return cur, thresh, true
}

func parseValue(field string) (float64, error) {
	idx := strings.LastIndexByte(field, '=')
	if idx < 0 {
		return 0, fmt.Errorf("field %q has no value", field)
	}
	return strconv.ParseFloat(field[idx+1:], 64)
}

// Poll runs one cycle. The file is read only when its modification time or
// size changed. A malformed line keeps the previous values and is reported
// as an error.
func (m *Monitor) Poll() error {
	info, err := os.Stat(m.path)
	if err != nil {
		return fmt.Errorf("stat level: %w", err)
	}
	if m.seen && info.ModTime().Equal(m.modTime) && info.Size() == m.size {
		return nil
	}
	m.seen = true
	m.modTime = info.ModTime()
	m.size = info.Size()

	line, err := firstLine(m.path)
	if err != nil {
		return err
	}
	cur, thresh, ok := ParseLevel(line)
	if !ok {
		return fmt.Errorf("parse level %q", line)
	}
	m.update(cur, thresh)
	return nil
}

func (m *Monitor) update(cur, thresh float64) {
	m.mu.Lock()
	m.reading.Current = cur
	m.reading.Threshold = thresh
	if cur > m.reading.Peak {
		m.reading.Peak = cur + 1
	}
	m.reading.Valid = true
	m.mu.Unlock()
	if m.dirty != nil {
		m.dirty.Mark()
	}
}

func firstLine(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open level: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read level: %w", err)
	}
	return "", nil
}

// Run polls until ctx is cancelled. Errors are dropped.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		_ = m.Poll()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

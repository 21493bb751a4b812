package logtail

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultInterval is the poll cadence for log files.
const DefaultInterval = 100 * time.Millisecond

// Sink receives the complete lines read by one poll.
type Sink func(source int, lines []string)

// Source tails one log file by polling its size and modification time.
// It is driven by a single goroutine and is not safe for concurrent use.
type Source struct {
	ID   int
	Path string

	start   int64
	offset  int64
	size    int64
	modTime time.Time
}

// NewSource starts tailing path at its current end so only new output is
// shown. A missing file starts at offset zero and is picked up once it
// appears.
func NewSource(id int, path string) *Source {
	s := &Source{ID: id, Path: path}
	if info, err := os.Stat(path); err == nil {
		s.start = info.Size()
		s.offset = info.Size()
		s.size = info.Size()
		s.modTime = info.ModTime()
	}
	return s
}

// Name is the file's base name, used by the legend.
func (s *Source) Name() string {
	return filepath.Base(s.Path)
}

// Poll runs one cycle. It returns the complete lines appended since the
// previous cycle; a trailing partial line waits for the next one. A file
// that shrank is read again from the beginning.
func (s *Source) Poll() ([]string, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}
	if info.Size() == s.size && info.ModTime().Equal(s.modTime) {
		return nil, nil
	}
	if info.Size() < s.offset {
		s.offset = 0
	}

	lines, consumed, err := readFrom(s.Path, s.offset)
	if err != nil {
		return nil, err
	}
	s.offset += consumed
	s.size = info.Size()
	s.modTime = info.ModTime()
	return lines, nil
}

func readFrom(path string, offset int64) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("seek log: %w", err)
	}

	var (
		lines    []string
		consumed int64
	)
	reader := bufio.NewReaderSize(file, 64*1024)
	for {
		chunk, err := reader.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return lines, consumed, fmt.Errorf("read log: %w", err)
		}
		consumed += int64(len(chunk))
		lines = append(lines, strings.TrimRight(string(chunk), "\r\n \t"))
	}
	return lines, consumed, nil
}

// Run polls until ctx is cancelled. Poll errors are dropped; the next tick
// retries. A zero interval selects DefaultInterval.
func (s *Source) Run(ctx context.Context, interval time.Duration, sink Sink) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if lines, err := s.Poll(); err == nil && len(lines) > 0 {
			sink(s.ID, lines)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Backfill returns at most n complete lines written before tailing began.
func (s *Source) Backfill(n int) ([]string, error) {
	if n <= 0 || s.start == 0 {
		return nil, nil
	}
	file, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()
	return lastLines(io.LimitReader(file, s.start), n)
}

// lastLines keeps a ring of the final maxLines lines of r.
func lastLines(r io.Reader, maxLines int) ([]string, error) {
	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = strings.TrimRight(scanner.Text(), "\r \t")
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Discover lists the *.log files of each directory, sorted by name within a
// directory. Unreadable directories are skipped. Duplicate paths are listed
// once.
func Discover(dirs ...string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".log") {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)
		for _, name := range names {
			path := filepath.Join(dir, name)
			if seen[path] {
				continue
			}
			seen[path] = true
			out = append(out, path)
		}
	}
	return out
}

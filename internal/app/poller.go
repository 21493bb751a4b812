package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/OpenVoiceOS/ovos-cli-client/internal/logtail"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/meter"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/state"
)

// pollIntervals overrides the poll cadences; zero values use the package
// defaults.
type pollIntervals struct {
	logs  time.Duration
	meter time.Duration
}

// startPollers launches one goroutine per log source and one for the
// meter. It returns immediately; wg tracks the goroutines.
func startPollers(ctx context.Context, wg *sync.WaitGroup, session *state.Session, sources []*logtail.Source, mon *meter.Monitor, every pollIntervals) {
	sink := func(source int, lines []string) {
		session.Append(source, lines)
	}
	for _, src := range sources {
		src := src
		wg.Add(1)
		go func() {
			defer wg.Done()
			src.Run(ctx, every.logs, sink)
		}()
	}
	if mon == nil {
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		mon.Run(ctx, every.meter)
	}()
}

// backfill shows up to n lines each source held before tailing began.
func backfill(session *state.Session, sources []*logtail.Source, n int) {
	if n <= 0 {
		return
	}
	for _, src := range sources {
		lines, err := src.Backfill(n)
		if err != nil {
			log.Printf("backfill %s: %v", src.Path, err)
			continue
		}
		session.Append(src.ID, lines)
	}
}

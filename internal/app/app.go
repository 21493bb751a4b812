package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"

	"github.com/OpenVoiceOS/ovos-cli-client/internal/bus"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/chat"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/command"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/config"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/logtail"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/meter"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/prefs"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/render"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/ui"
)

// Options configure the client.
type Options struct {
	ConfigPath   string
	SettingsPath string // empty uses prefs.DefaultPath()
	LogDir       string // overrides log_dir from the core config
	BusURL       string // overrides the websocket block of the core config
	Backfill     int    // lines of existing log output to show per file
	Theme        string
	Simple       bool

	// Simple mode streams; nil selects stdin and stdout.
	Stdin  io.Reader
	Stdout io.Writer
}

// Run boots the client until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load core config: %w", err)
	}
	if opts.LogDir != "" {
		cfg.LogDir = opts.LogDir
	}

	busURL := opts.BusURL
	if busURL == "" {
		busURL = cfg.Websocket.URL()
	}
	client, err := bus.NewClient(busURL)
	if err != nil {
		return fmt.Errorf("init messagebus client: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.Simple {
		return runSimple(ctx, client, opts.Stdin, opts.Stdout, simplePause)
	}
	return runDashboard(ctx, cfg, client, opts)
}

func runDashboard(ctx context.Context, cfg config.Config, client *bus.Client, opts Options) error {
	settingsPath := opts.SettingsPath
	if settingsPath == "" {
		settingsPath = prefs.DefaultPath()
	}

	dirs, legacy := cfg.LogDirs()
	session, loadErr := newSession(settingsPath)
	if legacy {
		session.Noticef("this installation seems to also contain logs in the legacy directory %s, please start using %s",
			cfg.LegacyLogDir, cfg.LogDir)
	}
	if loadErr != nil {
		log.Printf("settings: %v", loadErr)
		session.Notice("Ignoring failed load of settings file")
	}

	transcript := chat.New(session.Dirty())
	bindBus(client, session, transcript)

	paths := logtail.Discover(dirs...)
	sources := make([]*logtail.Source, len(paths))
	names := make([]string, len(paths))
	for i, path := range paths {
		sources[i] = logtail.NewSource(i, path)
		names[i] = sources[i].Name()
	}
	mon := meter.NewMonitor(cfg.MicLevelPath(), session.Dirty())

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	backfill(session, sources, opts.Backfill)
	startPollers(ctx, &wg, session, sources, mon, pollIntervals{})

	session.Notice("Establishing Mycroft Messagebus connection...")
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = client.Run(ctx)
	}()

	interrupted := &atomic.Bool{}
	stopSignals := watchInterrupts(ctx, interrupted)
	defer stopSignals()

	painter := render.NewPainter(session, transcript, mon, names, render.GetTheme(opts.Theme))
	runErr := ui.Run(ctx, ui.Options{
		Session:     session,
		Chat:        transcript,
		Commands:    command.New(session, client, transcript, cfg.Lang),
		Painter:     painter,
		Interrupted: interrupted,
	})

	if err := saveSettings(settingsPath, session); err != nil {
		log.Printf("save settings: %v", err)
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

// watchInterrupts raises flag on SIGINT instead of letting it kill the
// process; the UI decides what an interrupt means.
func watchInterrupts(ctx context.Context, flag *atomic.Bool) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ch:
				flag.Store(true)
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}

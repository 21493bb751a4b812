package ui

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/OpenVoiceOS/ovos-cli-client/internal/bus"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/chat"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/command"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/render"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/state"
)

const defaultTick = time.Second

// Options configures the UI.
type Options struct {
	Context  context.Context
	Session  *state.Session
	Chat     *chat.Log
	Commands *command.Processor
	Painter  *render.Painter

	// Interrupted is raised by the SIGINT handler. The tick treats it as
	// ctrl+x.
	Interrupted *atomic.Bool
	// Redraw forces a full repaint. Run wires it to the scheduler.
	Redraw func()

	RequestTimeout time.Duration
	Tick           time.Duration
	Now            func() time.Time
}

// Model is the input controller. Painting happens on the scheduler's
// goroutine; the model only keeps the latest frame.
type Model struct {
	ctx         context.Context
	session     *state.Session
	chat        *chat.Log
	commands    *command.Processor
	interrupted *atomic.Bool
	redraw      func()

	keys  keyMap
	esc   escapeDecoder
	frame string

	requestTimeout time.Duration
	tick           time.Duration
	now            func() time.Time
}

// New creates the model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = defaultTick
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = bus.DefaultResponseTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	redraw := opts.Redraw
	if redraw == nil {
		redraw = opts.Session.Dirty().Mark
	}
	return Model{
		ctx:            ctx,
		session:        opts.Session,
		chat:           opts.Chat,
		commands:       opts.Commands,
		interrupted:    opts.Interrupted,
		redraw:         redraw,
		keys:           DefaultKeyMap(),
		requestTimeout: timeout,
		tick:           tick,
		now:            now,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	m.session.Dirty().Mark()
	return tickCmd(m.tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.session.Update(func(v *state.View) {
			v.Width = msg.Width
			v.Height = msg.Height
		})
		return m, nil

	case frameMsg:
		m.frame = msg.Content
		if msg.Full {
			return m, tea.ClearScreen
		}
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.tick)}
		if m.esc.Expire(m.now()) {
			m.clearLine()
		}
		if m.interrupted != nil && m.interrupted.Swap(false) {
			cmds = append(cmds, m.dispatch(tea.KeyMsg{Type: tea.KeyCtrlX}))
		}
		m.session.Dirty().Mark()
		return m, tea.Batch(cmds...)

	case escTimeoutMsg:
		if m.esc.Expire(m.now()) {
			m.clearLine()
		}
		return m, nil

	case listingMsg:
		m.showListing(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	return m.frame
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	now := m.now()
	if m.esc.Expire(now) {
		m.clearLine()
	}

	var cmds []tea.Cmd
	for _, k := range splitKey(msg) {
		pending := m.esc.Pending()
		res := m.esc.Feed(k, now)
		m.session.Update(func(v *state.View) { v.LastKey = res.Label })

		switch res.Action {
		case escHold:
			if !pending {
				cmds = append(cmds, escTimeoutCmd())
			}
		case escClear:
			m.clearLine()
		case escPass, escKey:
			cmds = append(cmds, m.dispatch(res.Key))
		}
	}
	return tea.Batch(cmds...)
}

// dispatch handles one decoded key.
func (m *Model) dispatch(k tea.KeyMsg) tea.Cmd {
	v := m.session.View()

	switch v.Mode {
	case state.ModeHelp:
		m.session.Update(func(v *state.View) {
			v.HelpPage++
			if v.HelpPage >= render.HelpPages(v.Width, v.Height) {
				v.Mode = state.ModeMain
				v.HelpPage = 0
			}
		})
		return nil
	case state.ModeListing:
		m.session.Update(func(v *state.View) {
			if v.Listing != nil {
				v.Listing.Page++
				if v.Listing.Page < render.ListingPages(v.Listing, v.Width, v.Height) {
					return
				}
			}
			v.Mode = state.ModeMain
			v.Listing = nil
		})
		return nil
	}

	switch {
	case key.Matches(k, m.keys.Submit):
		return m.submit(v.Input)

	case key.Matches(k, m.keys.Backspace):
		m.session.Update(func(v *state.View) { v.Input = dropLastRune(v.Input) })

	case key.Matches(k, m.keys.HistoryPrev):
		m.recall(1)

	case key.Matches(k, m.keys.HistoryNext):
		m.recall(-1)

	case key.Matches(k, m.keys.Find):
		m.session.Update(func(v *state.View) { v.Input = ":find " })

	case key.Matches(k, m.keys.LineUp):
		m.session.Scroll(1)

	case key.Matches(k, m.keys.LineDown):
		m.session.Scroll(-1)

	case key.Matches(k, m.keys.HalfPageUp):
		m.session.Scroll(halfPage(v))

	case key.Matches(k, m.keys.HalfPageDn):
		m.session.Scroll(-halfPage(v))

	case key.Matches(k, m.keys.Top):
		m.session.Scroll(m.session.MaxLines())

	case key.Matches(k, m.keys.Bottom):
		m.session.Scroll(-m.session.MaxLines())

	case key.Matches(k, m.keys.ScrollLeft):
		m.session.Update(func(v *state.View) { v.HScroll = min(v.HScroll+v.Width/4, v.LongestLine) })

	case key.Matches(k, m.keys.ScrollRight):
		m.session.Update(func(v *state.View) { v.HScroll = max(v.HScroll-v.Width/4, 0) })

	case key.Matches(k, m.keys.LineStart):
		m.session.Update(func(v *state.View) { v.HScroll = v.LongestLine })

	case key.Matches(k, m.keys.LineEnd):
		m.session.Update(func(v *state.View) { v.HScroll = 0 })

	case key.Matches(k, m.keys.Redraw):
		m.redraw()

	case key.Matches(k, m.keys.Keycode):
		m.session.Update(func(v *state.View) { v.ShowLastKey = !v.ShowLastKey })

	case key.Matches(k, m.keys.Exit):
		return m.exit(v)

	case k.Type == tea.KeySpace:
		m.typeRunes([]rune{' '})

	case k.Type == tea.KeyRunes:
		m.typeRunes(k.Runes)
	}
	return nil
}

// submit sends the input line as a command or an utterance.
func (m *Model) submit(line string) tea.Cmd {
	if line == "" {
		return nil
	}
	m.clearLine()

	if line[0] != ':' {
		m.commands.Utter(line)
		return nil
	}
	res := m.commands.Handle(line[1:])
	if res.Quit {
		return tea.Quit
	}
	if res.Request != nil {
		return requestCmd(m.ctx, m.requestTimeout, res.Request)
	}
	return nil
}

// exit ends a search, cancels command mode, or quits, in that order.
func (m *Model) exit(v state.View) tea.Cmd {
	if m.session.ClearSearch() {
		return nil
	}
	if v.CommandMode() {
		m.session.Update(func(v *state.View) { v.Input = "" })
		return nil
	}
	return tea.Quit
}

func (m *Model) recall(delta int) {
	m.session.Update(func(v *state.View) {
		v.HistoryCursor, v.Input = m.chat.Recall(v.HistoryCursor, delta)
	})
}

func (m *Model) clearLine() {
	m.session.Update(func(v *state.View) {
		v.Input = ""
		v.HistoryCursor = -1
	})
}

func (m *Model) typeRunes(runes []rune) {
	text := make([]rune, 0, len(runes))
	for _, r := range runes {
		if r >= ' ' && r != utf8.RuneError && r != 0x7f {
			text = append(text, r)
		}
	}
	if len(text) == 0 {
		return
	}
	m.session.Update(func(v *state.View) { v.Input += string(text) })
}

func (m *Model) showListing(msg listingMsg) {
	if msg.err != nil {
		m.session.Notice(msg.err.Error())
		return
	}
	if msg.listing == nil {
		return
	}
	m.session.Update(func(v *state.View) {
		v.Mode = state.ModeListing
		v.Listing = msg.listing
	})
}

func halfPage(v state.View) int {
	return max(v.LogRows/2, 1)
}

func dropLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

// Messages

type tickMsg time.Time

type escTimeoutMsg struct{}

type frameMsg render.Frame

type listingMsg struct {
	listing *state.Listing
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func escTimeoutCmd() tea.Cmd {
	return tea.Tick(escapeTimeout, func(time.Time) tea.Msg {
		return escTimeoutMsg{}
	})
}

func requestCmd(ctx context.Context, timeout time.Duration, req command.Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		l, err := req(ctx)
		return listingMsg{listing: l, err: err}
	}
}

// Run starts the scheduler and the program and blocks until the user quits
// or ctx is cancelled.
func Run(ctx context.Context, opts Options, programOpts ...tea.ProgramOption) error {
	if opts.Session == nil || opts.Painter == nil || opts.Commands == nil {
		return errors.New("ui requires a session, a painter and a command processor")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var program *tea.Program
	sched := render.NewScheduler(opts.Painter, opts.Session.Dirty(), func(f render.Frame) {
		program.Send(frameMsg(f))
	})
	opts.Context = ctx
	opts.Redraw = sched.ForceFull

	programOpts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	}, programOpts...)
	program = tea.NewProgram(New(opts), programOpts...)

	go sched.Run(ctx)

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

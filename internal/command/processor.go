package command

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/OpenVoiceOS/ovos-cli-client/internal/bus"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/state"
)

// Bus message types emitted by commands.
const (
	MsgUtterance   = "recognizer_loop:utterance"
	MsgDebugLog    = "mycroft.debug.log"
	MsgSkillList   = "skillmanager.list"
	MsgSkillsReply = "mycroft.skills.list"
	MsgActivate    = "skillmanager.activate"
	MsgDeactivate  = "skillmanager.deactivate"
	MsgKeep        = "skillmanager.keep"
	publicAPI      = ".public_api"
)

// Request is bus work deferred off the input path. It returns the report to
// show in listing mode.
type Request func(ctx context.Context) (*state.Listing, error)

// Result tells the input controller what to do after a command.
type Result struct {
	Quit    bool
	Request Request
}

// History records typed utterances for recall.
type History interface {
	PushHistory(text string)
}

// Processor interprets commands typed after ':' and typed utterances.
type Processor struct {
	session *state.Session
	bus     bus.Bus
	history History
	lang    string
}

// New returns a processor. bus may be nil, in which case outbound
// messages are dropped with a notice.
func New(session *state.Session, b bus.Bus, history History, lang string) *Processor {
	if lang == "" {
		lang = "en-us"
	}
	return &Processor{session: session, bus: b, history: history, lang: lang}
}

// Utter publishes a typed utterance and records it for recall.
func (p *Processor) Utter(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if p.history != nil {
		p.history.PushHistory(text)
	}
	msg := bus.NewMessage(MsgUtterance, map[string]any{
		"utterances": []string{text},
		"lang":       p.lang,
	}).WithContext(map[string]any{
		"client_name": "mycroft_cli",
		"source":      "debug_cli",
		"destination": []string{"skills"},
	})
	p.emit(msg)
}

// Handle runs one command. Keywords are matched by containment and the
// first match wins, so the order of the cases matters ("deactivate" before
// "activate", "filter" before "clear").
func (p *Processor) Handle(cmd string) Result {
	cmd = strings.TrimSpace(cmd)
	switch {
	case strings.Contains(cmd, "show") && strings.Contains(cmd, "log"):
	case strings.Contains(cmd, "help"):
		p.session.Update(func(v *state.View) {
			v.Mode = state.ModeHelp
			v.HelpPage = 0
		})
	case containsAny(cmd, "exit", "quit"):
		return Result{Quit: true}
	case strings.Contains(cmd, "keycode"):
		p.toggle(cmd, func(v *state.View, on bool) { v.ShowLastKey = on })
	case strings.Contains(cmd, "meter"):
		p.toggle(cmd, func(v *state.View, on bool) { v.ShowMeter = on })
	case strings.Contains(cmd, "find"):
		p.find(param(cmd, "find"))
	case strings.Contains(cmd, "filter"):
		p.filter(cmd)
	case strings.Contains(cmd, "clear"):
		p.session.ClearLogs()
	case strings.Contains(cmd, "log"):
		p.logControl(cmd)
	case strings.Contains(cmd, "history"):
		p.historyRows(param(cmd, "history"))
	case strings.Contains(cmd, "skills"):
		return Result{Request: p.listSkills}
	case strings.Contains(cmd, "deactivate"):
		p.skillCommand(cmd, MsgDeactivate, "Usage :deactivate SKILL [SKILL2] [...]")
	case strings.Contains(cmd, "keep"):
		fields := strings.Fields(cmd)
		if len(fields) < 2 {
			p.session.Notice("Usage :keep SKILL")
			break
		}
		p.emit(bus.NewMessage(MsgKeep, map[string]any{"skill": fields[1]}))
	case strings.Contains(cmd, "activate"):
		p.skillCommand(cmd, MsgActivate, "Usage :activate SKILL [SKILL2] [...]")
	case strings.Contains(cmd, "api"):
		fields := strings.Fields(cmd)
		if len(fields) < 2 {
			p.session.Notice("Usage :api SKILL")
			break
		}
		skill := fields[1]
		return Result{Request: func(ctx context.Context) (*state.Listing, error) {
			return p.skillAPI(ctx, skill)
		}}
	}
	return Result{}
}

func (p *Processor) toggle(cmd string, set func(*state.View, bool)) {
	switch {
	case containsAny(cmd, "hide", "off"):
		p.session.Update(func(v *state.View) { set(v, false) })
	case containsAny(cmd, "show", "on"):
		p.session.Update(func(v *state.View) { set(v, true) })
	}
}

func (p *Processor) find(term string) {
	if term == "" {
		p.session.ClearSearch()
		return
	}
	p.session.SetSearch(term)
}

func (p *Processor) filter(cmd string) {
	if containsAny(cmd, "show", "list") {
		p.session.Notice("Filters: " + pyList(p.session.Filters()))
		return
	}
	if containsAny(cmd, "reset", "clear") {
		p.session.ResetFilters()
	} else if token := param(cmd, "filter"); token != "" {
		if strings.Contains(cmd, "remove") {
			p.session.RemoveFilter(token)
		} else {
			p.session.AddFilter(token)
		}
	}
	p.session.Notice("Filters: " + pyList(p.session.Filters()))
}

func (p *Processor) logControl(cmd string) {
	switch {
	case strings.Contains(cmd, "level"):
		level := param(cmd, "log", "level")
		if level == "" {
			p.session.Notice("Usage :log level (DEBUG|INFO|ERROR)")
			return
		}
		p.emit(bus.NewMessage(MsgDebugLog, map[string]any{"level": level}))
	case strings.Contains(cmd, "bus"):
		switch strings.ToLower(param(cmd, "log", "bus")) {
		case "on", "true", "yes":
			p.emit(bus.NewMessage(MsgDebugLog, map[string]any{"bus": true}))
		case "off", "false", "no":
			p.emit(bus.NewMessage(MsgDebugLog, map[string]any{"bus": false}))
		default:
			p.session.Notice("Usage :log bus (on|off)")
		}
	}
}

func (p *Processor) historyRows(arg string) {
	lines, err := strconv.Atoi(arg)
	if err != nil {
		p.session.Notice("Usage :history (# lines)")
		return
	}
	p.session.Update(func(v *state.View) {
		limit := state.DefaultChatRows
		if v.Height > 0 {
			limit = v.MaxChatRows()
		}
		v.ChatRows = min(max(lines, state.MinChatRows), max(limit, state.MinChatRows))
	})
}

func (p *Processor) skillCommand(cmd, msgType, usage string) {
	skills := strings.Fields(cmd)[1:]
	if len(skills) == 0 {
		p.session.Notice(usage)
		return
	}
	for _, s := range skills {
		p.emit(bus.NewMessage(msgType, map[string]any{"skill": s}))
	}
}

func (p *Processor) emit(msg bus.Message) {
	if p.bus == nil {
		p.session.Noticef("Messagebus unavailable, dropped %s", msg.Type)
		return
	}
	if err := p.bus.Emit(msg); err != nil {
		p.session.Noticef("Failed to send %s: %v", msg.Type, err)
	}
}

func (p *Processor) request(ctx context.Context, msg bus.Message, replyType string) (bus.Message, error) {
	if p.bus == nil {
		return bus.Message{}, bus.ErrNotConnected
	}
	return p.bus.WaitForResponse(ctx, msg, replyType)
}

func (p *Processor) listSkills(ctx context.Context) (*state.Listing, error) {
	reply, err := p.request(ctx, bus.NewMessage(MsgSkillList, nil), MsgSkillsReply)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return SkillListing(reply.Data), nil
}

func (p *Processor) skillAPI(ctx context.Context, skill string) (*state.Listing, error) {
	reply, err := p.request(ctx, bus.NewMessage(skill+publicAPI, nil), "")
	if err != nil {
		return nil, fmt.Errorf("skill api %s: %w", skill, err)
	}
	return APIListing(skill, reply.Data), nil
}

// SkillListing builds the "Loaded Skills" report from a skillmanager.list
// reply: {skill_id: {"active": bool}}.
func SkillListing(data map[string]any) *state.Listing {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	slices.Sort(names)

	l := &state.Listing{Title: "Loaded Skills", Kind: state.ListingColumns}
	for _, name := range names {
		active := false
		if info, ok := data[name].(map[string]any); ok {
			active, _ = info["active"].(bool)
		}
		l.Items = append(l.Items, state.ListingItem{Text: name, Dim: !active})
	}
	return l
}

// APIListing builds the "Skill-API" report from a public_api reply:
// {method: {"type": string, "help": string}}.
func APIListing(skill string, data map[string]any) *state.Listing {
	methods := make([]string, 0, len(data))
	for name := range data {
		methods = append(methods, name)
	}
	slices.Sort(methods)

	l := &state.Listing{Title: "Skill-API for " + skill, Kind: state.ListingText}
	for _, name := range methods {
		info, _ := data[name].(map[string]any)
		kind, _ := info["type"].(string)
		l.Items = append(l.Items,
			state.ListingItem{Text: fmt.Sprintf("%s (%s)", name, kind), Indent: 2, Emphasis: true},
			state.ListingItem{},
		)
		help, ok := info["help"].(string)
		if !ok {
			l.Items = append(l.Items, state.ListingItem{})
			continue
		}
		for _, line := range strings.Split(help, "\n") {
			l.Items = append(l.Items, state.ListingItem{Text: line, Indent: 4})
		}
		l.Items = append(l.Items, state.ListingItem{}, state.ListingItem{})
	}
	return l
}

package command

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/OpenVoiceOS/ovos-cli-client/internal/bus"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/logbuf"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/state"
)

type fakeBus struct {
	emitted []bus.Message
	err     error
	replies map[string]bus.Message
	asked   []string
}

func (f *fakeBus) Emit(msg bus.Message) error {
	if f.err != nil {
		return f.err
	}
	f.emitted = append(f.emitted, msg)
	return nil
}

func (f *fakeBus) On(string, bus.Handler) {}

func (f *fakeBus) WaitForResponse(_ context.Context, msg bus.Message, replyType string) (bus.Message, error) {
	f.asked = append(f.asked, msg.Type+"->"+replyType)
	reply, ok := f.replies[msg.Type]
	if !ok {
		return bus.Message{}, context.DeadlineExceeded
	}
	return reply, nil
}

type history []string

func (h *history) PushHistory(text string) { *h = append(*h, text) }

func newProcessor(t *testing.T) (*Processor, *state.Session, *fakeBus, *history) {
	t.Helper()
	view := state.DefaultView()
	view.Width, view.Height = 80, 24
	s := state.NewSession(logbuf.New(0, nil), view, state.NewDirty())
	b := &fakeBus{}
	h := &history{}
	return New(s, b, h, "en-us"), s, b, h
}

func logText(s *state.Session) []string {
	var out []string
	s.Paint(func(b *logbuf.Buffer, _ *state.View) {
		for _, l := range b.Merged() {
			out = append(out, l.Text)
		}
	})
	return out
}

func lastLog(s *state.Session) string {
	lines := logText(s)
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

func TestParam(t *testing.T) {
	tests := []struct {
		cmd      string
		keywords []string
		want     string
	}{
		{"find 'abc def'", []string{"find"}, "abc def"},
		{`find "abc def"`, []string{"find"}, "abc def"},
		{"find abc def", []string{"find"}, "def"},
		{"find", []string{"find"}, ""},
		{"log level DEBUG", []string{"log", "level"}, "DEBUG"},
		{"history 5", []string{"history"}, "5"},
	}
	for _, tt := range tests {
		if got := param(tt.cmd, tt.keywords...); got != tt.want {
			t.Errorf("param(%q) = %q, want %q", tt.cmd, got, tt.want)
		}
	}
}

func TestPyList(t *testing.T) {
	if got := pyList(nil); got != "[]" {
		t.Errorf("pyList(nil) = %q", got)
	}
	if got := pyList([]string{"a", "b"}); got != "['a', 'b']" {
		t.Errorf("pyList = %q", got)
	}
}

func TestUtter(t *testing.T) {
	p, _, b, h := newProcessor(t)
	p.Utter("  what time is it ")
	p.Utter("   ")

	if len(b.emitted) != 1 {
		t.Fatalf("emitted %d messages, want 1", len(b.emitted))
	}
	msg := b.emitted[0]
	if msg.Type != MsgUtterance {
		t.Errorf("type = %q", msg.Type)
	}
	if got := msg.Data["utterances"]; !reflect.DeepEqual(got, []string{"what time is it"}) {
		t.Errorf("utterances = %v", got)
	}
	if msg.Data["lang"] != "en-us" {
		t.Errorf("lang = %v", msg.Data["lang"])
	}
	if msg.Context["client_name"] != "mycroft_cli" || msg.Context["source"] != "debug_cli" {
		t.Errorf("context = %v", msg.Context)
	}
	if !reflect.DeepEqual([]string(*h), []string{"what time is it"}) {
		t.Errorf("history = %v", *h)
	}
}

func TestHandle_ExitAndHelp(t *testing.T) {
	p, s, _, _ := newProcessor(t)
	if !p.Handle("quit").Quit || !p.Handle("exit").Quit {
		t.Fatalf("quit/exit did not quit")
	}
	if p.Handle("show log").Quit {
		t.Fatalf("show log should be a no-op")
	}
	p.Handle("help")
	if got := s.View().Mode; got != state.ModeHelp {
		t.Fatalf("mode = %v, want help", got)
	}
}

func TestHandle_Toggles(t *testing.T) {
	p, s, _, _ := newProcessor(t)

	p.Handle("keycode show")
	if !s.View().ShowLastKey {
		t.Errorf("keycode show did not enable")
	}
	p.Handle("keycode off")
	if s.View().ShowLastKey {
		t.Errorf("keycode off did not disable")
	}
	p.Handle("meter hide")
	if s.View().ShowMeter {
		t.Errorf("meter hide did not disable")
	}
	p.Handle("meter on")
	if !s.View().ShowMeter {
		t.Errorf("meter on did not enable")
	}
}

func TestHandle_Find(t *testing.T) {
	p, s, _, _ := newProcessor(t)
	p.Handle("find 'skill loaded'")
	if !s.Searching() {
		t.Fatalf("find did not start a search")
	}
	p.Handle("find")
	if s.Searching() {
		t.Fatalf("empty find did not end the search")
	}
}

func TestHandle_Filter(t *testing.T) {
	p, s, _, _ := newProcessor(t)

	p.Handle("filter extra")
	if got := s.Filters(); got[len(got)-1] != "extra" {
		t.Fatalf("filters = %v", got)
	}
	if want := "Filters: ['mouth.viseme', 'mouth.display', 'mouth.icon', 'extra']"; lastLog(s) != want {
		t.Errorf("notice = %q, want %q", lastLog(s), want)
	}

	p.Handle("filter remove extra")
	if got := s.Filters(); len(got) != 3 {
		t.Fatalf("after remove filters = %v", got)
	}

	p.Handle("filter remove mouth.icon")
	p.Handle("filter reset")
	if got := s.Filters(); !reflect.DeepEqual(got, logbuf.DefaultFilters) {
		t.Fatalf("after reset filters = %v", got)
	}

	before := len(logText(s))
	p.Handle("filter list")
	if len(logText(s)) != before+1 || !strings.HasPrefix(lastLog(s), "Filters: ") {
		t.Errorf("filter list did not add one notice: %q", lastLog(s))
	}
}

func TestHandle_FilterAddRemoveExistingRestoresView(t *testing.T) {
	p, s, _, _ := newProcessor(t)
	s.Append(0, []string{"a: hello", "a: mouth.viseme x"})
	s.Append(1, []string{"b: error"})

	visible := func() []string {
		var out []string
		s.Paint(func(b *logbuf.Buffer, _ *state.View) {
			for _, l := range b.Filtered(0, b.FilteredLen()) {
				if !l.IsSystem() {
					out = append(out, l.Text)
				}
			}
		})
		return out
	}
	before := visible()

	p.Handle("filter add mouth.viseme")
	p.Handle("filter remove mouth.viseme")

	if got := visible(); !reflect.DeepEqual(got, before) {
		t.Fatalf("visible = %v, want %v", got, before)
	}
	if got := s.Filters(); !reflect.DeepEqual(got, logbuf.DefaultFilters) {
		t.Fatalf("filters = %v, want %v", got, logbuf.DefaultFilters)
	}
}

func TestHandle_Clear(t *testing.T) {
	p, s, _, _ := newProcessor(t)
	s.Append(0, []string{"a", "b"})
	p.Handle("clear")
	if got := logText(s); len(got) != 0 {
		t.Fatalf("logs after clear = %v", got)
	}
}

func TestHandle_Log(t *testing.T) {
	tests := []struct {
		cmd    string
		want   map[string]any
		notice string
	}{
		{cmd: "log level DEBUG", want: map[string]any{"level": "DEBUG"}},
		{cmd: "log bus on", want: map[string]any{"bus": true}},
		{cmd: "log bus NO", want: map[string]any{"bus": false}},
		{cmd: "log bus maybe", notice: "Usage :log bus (on|off)"},
		{cmd: "log level", notice: "Usage :log level (DEBUG|INFO|ERROR)"},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			p, s, b, _ := newProcessor(t)
			p.Handle(tt.cmd)
			if tt.notice != "" {
				if len(b.emitted) != 0 {
					t.Fatalf("emitted %v", b.emitted)
				}
				if lastLog(s) != tt.notice {
					t.Fatalf("notice = %q, want %q", lastLog(s), tt.notice)
				}
				return
			}
			if len(b.emitted) != 1 || b.emitted[0].Type != MsgDebugLog {
				t.Fatalf("emitted %v", b.emitted)
			}
			if !reflect.DeepEqual(b.emitted[0].Data, tt.want) {
				t.Fatalf("data = %v, want %v", b.emitted[0].Data, tt.want)
			}
		})
	}
}

func TestHandle_History(t *testing.T) {
	tests := []struct {
		cmd  string
		want int
	}{
		{"history 5", 5},
		{"history 0", 1},
		{"history -3", 1},
		{"history 99", 17},
	}
	for _, tt := range tests {
		p, s, _, _ := newProcessor(t)
		p.Handle(tt.cmd)
		if got := s.View().ChatRows; got != tt.want {
			t.Errorf("%s: ChatRows = %d, want %d", tt.cmd, got, tt.want)
		}
	}

	p, s, _, _ := newProcessor(t)
	p.Handle("history lots")
	if got := s.View().ChatRows; got != state.DefaultChatRows {
		t.Errorf("bad history arg changed rows to %d", got)
	}
	if lastLog(s) != "Usage :history (# lines)" {
		t.Errorf("notice = %q", lastLog(s))
	}
}

func TestHandle_SkillCommands(t *testing.T) {
	tests := []struct {
		cmd    string
		types  []string
		skills []string
		notice string
	}{
		{cmd: "deactivate skill-a skill-b", types: []string{MsgDeactivate, MsgDeactivate}, skills: []string{"skill-a", "skill-b"}},
		{cmd: "activate skill-a", types: []string{MsgActivate}, skills: []string{"skill-a"}},
		{cmd: "keep skill-a skill-b", types: []string{MsgKeep}, skills: []string{"skill-a"}},
		{cmd: "deactivate", notice: "Usage :deactivate SKILL [SKILL2] [...]"},
		{cmd: "activate", notice: "Usage :activate SKILL [SKILL2] [...]"},
		{cmd: "keep", notice: "Usage :keep SKILL"},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			p, s, b, _ := newProcessor(t)
			p.Handle(tt.cmd)
			if tt.notice != "" {
				if len(b.emitted) != 0 || lastLog(s) != tt.notice {
					t.Fatalf("emitted %v notice %q", b.emitted, lastLog(s))
				}
				return
			}
			if len(b.emitted) != len(tt.types) {
				t.Fatalf("emitted %v", b.emitted)
			}
			for i, msg := range b.emitted {
				if msg.Type != tt.types[i] || msg.String("skill") != tt.skills[i] {
					t.Errorf("message %d = %s %v", i, msg.Type, msg.Data)
				}
			}
		})
	}
}

func TestHandle_EmitErrorBecomesNotice(t *testing.T) {
	p, s, b, _ := newProcessor(t)
	b.err = bus.ErrNotConnected
	p.Handle("activate skill-a")
	if !strings.HasPrefix(lastLog(s), "Failed to send skillmanager.activate") {
		t.Fatalf("notice = %q", lastLog(s))
	}

	nobus := New(s, nil, nil, "")
	nobus.Utter("hello")
	if !strings.Contains(lastLog(s), MsgUtterance) {
		t.Fatalf("notice = %q", lastLog(s))
	}
}

func TestHandle_UnknownIsNoop(t *testing.T) {
	p, s, b, _ := newProcessor(t)
	res := p.Handle("frobnicate")
	if res.Quit || res.Request != nil || len(b.emitted) != 0 || len(logText(s)) != 0 {
		t.Fatalf("unknown command had effects: %+v", res)
	}
}

func TestHandle_SkillsRequest(t *testing.T) {
	p, _, b, _ := newProcessor(t)
	b.replies = map[string]bus.Message{
		MsgSkillList: bus.NewMessage(MsgSkillsReply, map[string]any{
			"skill-weather": map[string]any{"active": true},
			"skill-alarm":   map[string]any{"active": false},
		}),
	}
	res := p.Handle("skills")
	if res.Request == nil {
		t.Fatalf("skills returned no request")
	}
	l, err := res.Request(context.Background())
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if b.asked[0] != MsgSkillList+"->"+MsgSkillsReply {
		t.Errorf("asked %v", b.asked)
	}
	if l.Title != "Loaded Skills" || l.Kind != state.ListingColumns {
		t.Errorf("listing = %+v", l)
	}
	want := []state.ListingItem{{Text: "skill-alarm", Dim: true}, {Text: "skill-weather"}}
	if !reflect.DeepEqual(l.Items, want) {
		t.Errorf("items = %+v", l.Items)
	}
}

func TestHandle_APIRequest(t *testing.T) {
	p, s, b, _ := newProcessor(t)
	b.replies = map[string]bus.Message{
		"skill-x.public_api": bus.NewMessage("skill-x.public_api.response", map[string]any{
			"speak": map[string]any{"type": "skill-x.speak", "help": "Say it\nloud"},
			"beep":  map[string]any{"type": "skill-x.beep"},
		}),
	}
	res := p.Handle("api skill-x")
	l, err := res.Request(context.Background())
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if l.Title != "Skill-API for skill-x" || l.Kind != state.ListingText {
		t.Fatalf("listing = %+v", l)
	}
	var texts []string
	for _, it := range l.Items {
		texts = append(texts, it.Text)
	}
	want := []string{"beep (skill-x.beep)", "", "", "speak (skill-x.speak)", "", "Say it", "loud", "", ""}
	if !reflect.DeepEqual(texts, want) {
		t.Errorf("texts = %q", texts)
	}

	if p.Handle("api").Request != nil {
		t.Errorf("api without skill returned a request")
	}
	if lastLog(s) != "Usage :api SKILL" {
		t.Errorf("notice = %q", lastLog(s))
	}

	_, err = p.Handle("api skill-missing").Request(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline", err)
	}
}

package app

import (
	"github.com/OpenVoiceOS/ovos-cli-client/internal/logbuf"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/prefs"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/state"
)

// newSession builds the session from the settings file. A file that cannot
// be parsed still yields a session with the defaults, plus the error.
func newSession(path string) (*state.Session, error) {
	settings, err := prefs.Load(path)

	view := state.DefaultView()
	view.ChatRows = max(settings.ChatRows, state.MinChatRows)
	view.ShowLastKey = settings.ShowLastKey
	view.ShowMeter = settings.ShowMeter

	logs := logbuf.New(settings.MaxLogLines, settings.Filters)
	return state.NewSession(logs, view, state.NewDirty()), err
}

func snapshotSettings(session *state.Session) prefs.Settings {
	v := session.View()
	return prefs.Settings{
		Filters:     session.Filters(),
		ChatRows:    v.ChatRows,
		ShowLastKey: v.ShowLastKey,
		MaxLogLines: session.MaxLines(),
		ShowMeter:   v.ShowMeter,
	}
}

func saveSettings(path string, session *state.Session) error {
	return prefs.Save(path, snapshotSettings(session))
}

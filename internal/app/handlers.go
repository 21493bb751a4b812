package app

import (
	"github.com/OpenVoiceOS/ovos-cli-client/internal/bus"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/chat"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/command"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/ssml"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/state"
)

const msgSpeak = "speak"

// bindBus routes connection events to the system log and speech to the
// transcript.
func bindBus(b bus.Bus, session *state.Session, transcript *chat.Log) {
	b.On(bus.EventConnected, func(bus.Message) {
		session.Notice("Connected to Messagebus!")
	})
	b.On(bus.EventReconnecting, func(bus.Message) {
		session.Notice("Looking for Messagebus websocket...")
	})
	b.On(msgSpeak, func(msg bus.Message) {
		transcript.AddResponse(ssml.Strip(msg.String("utterance")))
	})
	b.On(command.MsgUtterance, func(msg bus.Message) {
		if text, ok := firstUtterance(msg); ok {
			transcript.AddUtterance(text)
		}
	})
}

func firstUtterance(msg bus.Message) (string, bool) {
	switch list := msg.Data["utterances"].(type) {
	case []any:
		if len(list) > 0 {
			s, ok := list[0].(string)
			return s, ok
		}
	case []string:
		if len(list) > 0 {
			return list[0], true
		}
	}
	return "", false
}

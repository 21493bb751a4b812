package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/OpenVoiceOS/ovos-cli-client/internal/bus"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/chat"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/command"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/ssml"
)

// simplePause lets the output of the previous utterance finish before the
// next prompt.
const simplePause = 1500 * time.Millisecond

const simplePrompt = "Input (Ctrl+C to quit):"

// busRunner is a Bus that also owns its connection loop.
type busRunner interface {
	bus.Bus
	Run(ctx context.Context) error
}

// runSimple is the line-oriented client: spoken responses are printed as
// they arrive and every line read from in is sent as an utterance.
func runSimple(ctx context.Context, b busRunner, in io.Reader, out io.Writer, pause time.Duration) error {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	var mu sync.Mutex
	printf := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, format, args...)
	}

	b.On(msgSpeak, func(msg bus.Message) {
		printf("%s%s\n", chat.ResponsePrefix, ssml.Strip(msg.String("utterance")))
	})
	go func() { _ = b.Run(ctx) }()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if !sleepCtx(ctx, pause) {
			printf("\n")
			return nil
		}
		printf("%s\n", simplePrompt)

		select {
		case <-ctx.Done():
			printf("\n")
			return nil
		case err := <-readErr:
			if err != nil && ctx.Err() == nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		case line := <-lines:
			msg := bus.NewMessage(command.MsgUtterance, map[string]any{
				"utterances": []string{strings.TrimSpace(line)},
			}).WithContext(map[string]any{
				"client_name": "mycroft_simple_cli",
				"source":      "debug_cli",
				"destination": []string{"skills"},
			})
			if err := b.Emit(msg); err != nil {
				printf("%v\n", err)
			}
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

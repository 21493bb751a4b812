// Package prefs persists the dashboard settings between sessions.
// Settings are stored in ~/.config/mycroft/mycroft_cli.conf.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
)

// Settings holds the persisted dashboard settings.
type Settings struct {
	// Filters is nil when the file does not name any, which selects the
	// built-in defaults.
	Filters     []string `json:"filters" toml:"filters"`
	ChatRows    int      `json:"cy_chat_area" toml:"cy_chat_area"`
	ShowLastKey bool     `json:"show_last_key" toml:"show_last_key"`
	MaxLogLines int      `json:"max_log_lines" toml:"max_log_lines"`
	ShowMeter   bool     `json:"show_meter" toml:"show_meter"`
}

const (
	fileName          = "mycroft_cli.conf"
	legacyPrefsPath   = "~/." + fileName
	defaultPrefsPath  = "~/.config/mycroft/" + fileName
	defaultChatRows   = 10
	defaultMaxLogLine = 5000
)

// ignoredFilter is dropped from loaded filters.
const ignoredFilter = "DEBUG"

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		ChatRows:    defaultChatRows,
		MaxLogLines: defaultMaxLogLine,
		ShowMeter:   true,
	}
}

// DefaultPath returns the settings file to use: the legacy dotfile when it
// exists, otherwise the XDG location.
func DefaultPath() string {
	if legacy, err := expandPath(legacyPrefsPath); err == nil {
		if _, err := os.Stat(legacy); err == nil {
			return legacy
		}
	}
	if dir := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); dir != "" {
		return filepath.Join(dir, "mycroft", fileName)
	}
	return defaultPrefsPath
}

// raw mirrors Settings with pointers so absent fields keep their defaults.
type raw struct {
	Filters     *[]string `json:"filters" toml:"filters"`
	ChatRows    *int      `json:"cy_chat_area" toml:"cy_chat_area"`
	ShowLastKey *bool     `json:"show_last_key" toml:"show_last_key"`
	MaxLogLines *int      `json:"max_log_lines" toml:"max_log_lines"`
	ShowMeter   *bool     `json:"show_meter" toml:"show_meter"`
}

// Load reads settings from path (DefaultPath when empty). A missing file
// yields the defaults and no error. A file that cannot be read or parsed
// also yields the defaults, together with the error so the caller can
// surface it.
func Load(path string) (Settings, error) {
	settings := Defaults()

	resolved, err := resolvePath(path)
	if err != nil {
		return settings, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("open settings: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return settings, fmt.Errorf("read settings: %w", err)
	}

	var r raw
	if isTOML(resolved) {
		err = toml.Unmarshal(data, &r)
	} else {
		err = json.Unmarshal(jsonc.ToJSON(data), &r)
	}
	if err != nil {
		return Defaults(), fmt.Errorf("parse settings %s: %w", resolved, err)
	}

	if r.Filters != nil {
		settings.Filters = make([]string, 0, len(*r.Filters))
		for _, f := range *r.Filters {
			if f != ignoredFilter {
				settings.Filters = append(settings.Filters, f)
			}
		}
	}
	if r.ChatRows != nil && *r.ChatRows > 0 {
		settings.ChatRows = *r.ChatRows
	}
	if r.ShowLastKey != nil {
		settings.ShowLastKey = *r.ShowLastKey
	}
	if r.MaxLogLines != nil && *r.MaxLogLines > 0 {
		settings.MaxLogLines = *r.MaxLogLines
	}
	if r.ShowMeter != nil {
		settings.ShowMeter = *r.ShowMeter
	}
	return settings, nil
}

// Save writes settings to path, creating directories as needed.
func Save(path string, s Settings) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	if s.Filters == nil {
		s.Filters = []string{}
	}
	var data []byte
	if isTOML(resolved) {
		data, err = toml.Marshal(s)
	} else {
		data, err = json.Marshal(s)
	}
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(DefaultPath())
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

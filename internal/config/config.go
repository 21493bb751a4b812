package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
)

// Config captures the fields the CLI needs from the assistant's core config.
type Config struct {
	LogDir       string
	LegacyLogDir string
	IPCPath      string
	Lang         string
	Websocket    Websocket
	// Sources lists the files that were merged, lowest priority first.
	Sources []string
}

// Websocket locates the messagebus.
type Websocket struct {
	Host  string
	Port  int
	Route string
	SSL   bool
}

const (
	defaultUserConfig = "~/.config/mycroft/mycroft.conf"
	defaultStateDir   = "~/.local/state"
	defaultLang       = "en-us"
	defaultHost       = "127.0.0.1"
	defaultPort       = 8181
	defaultRoute      = "/core"

	// LegacyLogDir is where older installs wrote their logs.
	LegacyLogDir = "/var/log/mycroft"
)

// systemConfigPath is read before the user config. Tests override it.
var systemConfigPath = "/etc/mycroft/mycroft.conf"

// Load merges the system config and the user config (or only path when it
// is given). Missing files are skipped; a file that cannot be parsed is an
// error.
func Load(path string) (Config, error) {
	cfg := defaults()

	var candidates []string
	if strings.TrimSpace(path) != "" {
		resolved, err := expandPath(path)
		if err != nil {
			return Config{}, err
		}
		candidates = []string{resolved}
	} else {
		candidates = []string{systemConfigPath, userConfigPath()}
	}

	for _, candidate := range candidates {
		loaded, err := overlay(&cfg, candidate)
		if err != nil {
			return Config{}, err
		}
		if loaded {
			cfg.Sources = append(cfg.Sources, candidate)
		}
	}

	cfg.LogDir = mustExpand(cfg.LogDir)
	cfg.IPCPath = mustExpand(cfg.IPCPath)
	return cfg, nil
}

func defaults() Config {
	return Config{
		LogDir:       filepath.Join(stateHome(), "mycroft"),
		LegacyLogDir: LegacyLogDir,
		IPCPath:      filepath.Join(os.TempDir(), "mycroft", "ipc"),
		Lang:         defaultLang,
		Websocket: Websocket{
			Host:  defaultHost,
			Port:  defaultPort,
			Route: defaultRoute,
		},
	}
}

func stateHome() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); dir != "" {
		return dir
	}
	return mustExpand(defaultStateDir)
}

func userConfigPath() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); dir != "" {
		return filepath.Join(dir, "mycroft", "mycroft.conf")
	}
	return mustExpand(defaultUserConfig)
}

type rawConfig struct {
	LogDir    *string `json:"log_dir"`
	IPCPath   *string `json:"ipc_path"`
	Lang      *string `json:"lang"`
	Websocket *struct {
		Host  *string `json:"host"`
		Port  *int    `json:"port"`
		Route *string `json:"route"`
		SSL   *bool   `json:"ssl"`
	} `json:"websocket"`
}

func overlay(cfg *Config, path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return false, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return false, fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.LogDir, raw.LogDir)
	setString(&cfg.IPCPath, raw.IPCPath)
	setString(&cfg.Lang, raw.Lang)
	if ws := raw.Websocket; ws != nil {
		setString(&cfg.Websocket.Host, ws.Host)
		setString(&cfg.Websocket.Route, ws.Route)
		if ws.Port != nil && *ws.Port > 0 {
			cfg.Websocket.Port = *ws.Port
		}
		if ws.SSL != nil {
			cfg.Websocket.SSL = *ws.SSL
		}
	}
	return true, nil
}

// setString replaces dst with a trimmed non-empty value.
func setString(dst *string, v *string) {
	if v == nil {
		return
	}
	if trimmed := strings.TrimSpace(*v); trimmed != "" {
		*dst = trimmed
	}
}

// MicLevelPath is the telemetry file written by the listener.
func (c Config) MicLevelPath() string {
	return filepath.Join(c.IPCPath, "mic_level")
}

// LogDirs returns the directories to tail: the configured one and, when it
// exists and differs, the legacy one.
func (c Config) LogDirs() (dirs []string, legacy bool) {
	dirs = []string{c.LogDir}
	if c.LegacyLogDir == "" || filepath.Clean(c.LegacyLogDir) == filepath.Clean(c.LogDir) {
		return dirs, false
	}
	if info, err := os.Stat(c.LegacyLogDir); err == nil && info.IsDir() {
		return append(dirs, c.LegacyLogDir), true
	}
	return dirs, false
}

// URL builds the websocket endpoint.
func (w Websocket) URL() string {
	scheme := "ws"
	if w.SSL {
		scheme = "wss"
	}
	host := w.Host
	if host == "" {
		host = defaultHost
	}
	port := w.Port
	if port <= 0 {
		port = defaultPort
	}
	route := w.Route
	if route == "" {
		route = defaultRoute
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	u := url.URL{Scheme: scheme, Host: net.JoinHostPort(host, strconv.Itoa(port)), Path: route}
	return u.String()
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
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

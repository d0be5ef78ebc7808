package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// GlobalConfig is the client configuration at ~/.opsdash/config.json.
type GlobalConfig struct {
	// BaseURL is the API origin (e.g. "https://ops.example.net"). Empty means
	// relative paths against the transport default, which only makes sense
	// behind a local proxy; most installs set this.
	BaseURL string `json:"baseUrl,omitempty"`

	// OnUnauthorized selects the 401 policy: "redirect" (drop credentials and
	// return to login) or "propagate" (surface the error to the caller).
	// The persisted debug flag forces "propagate" regardless of this value.
	OnUnauthorized string `json:"onUnauthorized,omitempty"`

	// PollSeconds is the dashboard refresh interval (default 5).
	PollSeconds int `json:"pollSeconds,omitempty"`

	// WatchCron is the schedule for `opsdash watch` (default "@every 30s").
	WatchCron string `json:"watchCron,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.opsdash).
	if v := strings.TrimSpace(os.Getenv("OPSDASH_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".opsdash"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// atomicWriteFile writes via a unique temp file + rename so concurrent CLI and
// TUI processes cannot interleave partial writes.
func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	_, werr := tmp.Write(b)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmpName)
		if werr != nil {
			return werr
		}
		return cerr
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

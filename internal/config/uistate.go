package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

const uiStateVersion = 1

// UIState is the small persisted presentation record (which tab was active
// last). Read once at startup, written on tab change. Versioned so a future
// shape change can migrate instead of guessing.
type UIState struct {
	Version   int    `yaml:"version" json:"version"`
	ActiveTab string `yaml:"active_tab" json:"active_tab"`
}

func DefaultUIState() UIState {
	return UIState{Version: uiStateVersion, ActiveTab: "applications"}
}

// LoadUIState falls back to the default on a missing file or an
// unrecognized version.
func LoadUIState(path string) UIState {
	b, err := os.ReadFile(path)
	if err != nil {
		return DefaultUIState()
	}
	var s UIState
	if err := yaml.Unmarshal(b, &s); err != nil || s.Version != uiStateVersion {
		return DefaultUIState()
	}
	if s.ActiveTab == "" {
		s.ActiveTab = "applications"
	}
	return s
}

func SaveUIState(path string, s UIState) error {
	if s.ActiveTab == "" {
		return errors.New("active_tab is required")
	}
	s.Version = uiStateVersion
	b, err := yaml.Marshal(&s)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// State is the small amount of per-installation data the CLI keeps between
// runs. It lives next to the database, not in the config file.
type State struct {
	ActiveUser string `toml:"active_user"`
}

// ReadState loads the state file at path. A missing file yields an empty State.
func ReadState(path string) (*State, error) {
	var st State
	if _, err := toml.DecodeFile(path, &st); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("reading state from %s: %w", path, err)
	}
	return &st, nil
}

// WriteState saves st to path, replacing any previous state.
func WriteState(path string, st *State) error {
	return writeTOML(path, st)
}

// RemoveState deletes the state file. Removing a missing file is not an error.
func RemoveState(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing state: %w", err)
	}
	return nil
}

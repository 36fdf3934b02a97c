package vault

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotFound is returned when a cover or snapshot is not in the vault.
var ErrNotFound = errors.New("not found in vault")

// Every backend uses the same object layout:
//
//	covers/<aa>/<checksum>          cover images, sharded by the first two hex digits
//	snapshots/<hostID>/<name>       per-host snapshots (e.g. "db")
//	snapshots/<hostID>/<name>.version
func coverKey(checksum string) (string, error) {
	if err := checkSegment("checksum", checksum); err != nil {
		return "", err
	}
	if len(checksum) < 3 {
		return "", fmt.Errorf("checksum too short: %q", checksum)
	}
	return path.Join("covers", checksum[:2], checksum), nil
}

func snapshotKey(hostID, name string) (string, error) {
	if err := checkSegment("host id", hostID); err != nil {
		return "", err
	}
	if err := checkSegment("snapshot name", name); err != nil {
		return "", err
	}
	return path.Join("snapshots", hostID, name), nil
}

func versionKey(snapshot string) string {
	return snapshot + ".version"
}

// checkSegment rejects values that would escape their directory.
func checkSegment(what, s string) error {
	if s == "" {
		return fmt.Errorf("%s is empty", what)
	}
	if s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return fmt.Errorf("invalid %s: %q", what, s)
	}
	return nil
}

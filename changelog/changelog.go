// Package changelog appends install/update entries to the append-only audit
// log, deriving the acting user from VCS config.
package changelog

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shards-pm/shards/diff"
	"github.com/shards-pm/shards/log"
	"github.com/shards-pm/shards/vcsuser"
)

// FileName is the project-relative changelog path.
const FileName = ".shards/audit/changelog.json"

// Action is the operation that produced a changelog entry.
type Action string

const (
	Install Action = "install"
	Update  Action = "update"
)

// ChangeSet is the {added, removed, updated} slice of a diff, Unchanged
// entries omitted.
type ChangeSet struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Updated []string `json:"updated"`
}

// Entry is a single changelog record.
type Entry struct {
	Timestamp        time.Time `json:"timestamp"`
	Action           Action    `json:"action"`
	User             string    `json:"user"`
	Changes          ChangeSet `json:"changes"`
	LockfileChecksum string    `json:"lockfile_checksum"`
}

// changeSetFrom derives a ChangeSet from a diff, dropping Unchanged entries.
func changeSetFrom(changes []diff.Change) ChangeSet {
	var cs ChangeSet
	for _, c := range changes {
		switch c.Status {
		case diff.Added:
			cs.Added = append(cs.Added, c.Name)
		case diff.Removed:
			cs.Removed = append(cs.Removed, c.Name)
		case diff.Updated:
			cs.Updated = append(cs.Updated, c.Name)
		}
	}
	return cs
}

// Append records one install/update event. newLockfileBytes is the
// already-written lockfile's serialized bytes, used to derive
// lockfile_checksum; projectRoot is the directory containing .shards/.
func Append(projectRoot string, action Action, changes []diff.Change, newLockfileBytes []byte, now time.Time) error {
	path := filepath.Join(projectRoot, FileName)

	entries, err := readAll(path)
	if err != nil {
		log.Warnf("changelog: %s is corrupt, replacing history: %v", path, err)
		entries = nil
	}

	sum := sha256.Sum256(newLockfileBytes)
	entry := Entry{
		Timestamp:        now,
		Action:           action,
		User:             vcsuser.Detect(projectRoot),
		Changes:          changeSetFrom(changes),
		LockfileChecksum: fmt.Sprintf("sha256:%x", sum),
	}
	entries = append(entries, entry)

	return writeAll(path, entries)
}

func readAll(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return entries, nil
}

func writeAll(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("changelog: marshal: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// ReadHistory loads the full changelog at projectRoot, or nil if it's
// absent, for the report composer's change_history section.
func ReadHistory(projectRoot string) ([]Entry, error) {
	return readAll(filepath.Join(projectRoot, FileName))
}

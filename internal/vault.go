package internal

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ErrNotExist is returned by Store.Read when no file exists at the path
var ErrNotExist = errors.New("file not found")

// Store abstracts the local vault so sync logic never touches the
// filesystem directly. Paths are vault-relative and slash-separated.
type Store interface {
	Exists(path string) bool
	Read(path string) (string, error)
	Write(path string, content string) error
	List(folder string) ([]string, error)
	EnsureFolder(folder string) error
}

// DirStore is a Store backed by a directory on disk
type DirStore struct {
	root string
}

// NewDirStore creates a DirStore rooted at the given directory
func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

func (s *DirStore) abs(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(path))
}

// Exists reports whether a file exists at the vault-relative path
func (s *DirStore) Exists(path string) bool {
	_, err := os.Stat(s.abs(path))
	return err == nil
}

// Read returns the content of the file at path, or ErrNotExist
func (s *DirStore) Read(path string) (string, error) {
	data, err := os.ReadFile(s.abs(path))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotExist
		}
		return "", &VaultError{Path: path, Op: "read", Err: err}
	}
	return string(data), nil
}

// Write stores content at path, overwriting any existing file
func (s *DirStore) Write(path string, content string) error {
	abs := s.abs(path)
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return &VaultError{Path: path, Op: "mkdir", Err: err}
	}
	if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
		return &VaultError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// List returns the basenames of files directly under folder. A missing
// folder lists as empty rather than failing, since a fresh vault has no
// sync folders yet.
func (s *DirStore) List(folder string) ([]string, error) {
	entries, err := os.ReadDir(s.abs(folder))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &VaultError{Path: folder, Op: "list", Err: err}
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// EnsureFolder creates the folder if it does not exist
func (s *DirStore) EnsureFolder(folder string) error {
	if err := os.MkdirAll(s.abs(folder), 0755); err != nil {
		return &VaultError{Path: folder, Op: "mkdir", Err: err}
	}
	return nil
}

var lifelogFilePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// LastSyncedDate scans the lifelog folder for YYYY-MM-DD.md files and
// returns the most recent date found, anchored at midnight in loc so it
// compares correctly against other dates in the same calendar frame.
// ok is false when the folder holds no date-named files.
func LastSyncedDate(store Store, folder string, loc *time.Location) (time.Time, bool, error) {
	names, err := store.List(folder)
	if err != nil {
		return time.Time{}, false, err
	}

	var last time.Time
	found := false
	for _, name := range names {
		base := strings.TrimSuffix(name, ".md")
		if base == name || !lifelogFilePattern.MatchString(base) {
			continue
		}
		d, err := time.ParseInLocation("2006-01-02", base, loc)
		if err != nil {
			continue
		}
		if !found || d.After(last) {
			last = d
			found = true
		}
	}
	return last, found, nil
}

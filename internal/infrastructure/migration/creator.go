package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FilePair is the up/down stub pair written for a new migration.
type FilePair struct {
	Version  string
	UpPath   string
	DownPath string
}

// Create writes an empty up/down migration pair into dir, creating the
// directory if needed. The version prefix is the current time as
// YYYYMMDDHHMMSS so files sort in apply order.
func Create(dir, name, description string) (*FilePair, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create migrations directory: %w", err)
	}

	now := time.Now()
	version := now.Format("20060102150405")
	base := version + "_" + slugify(name)

	pair := &FilePair{
		Version:  version,
		UpPath:   filepath.Join(dir, base+".up.sql"),
		DownPath: filepath.Join(dir, base+".down.sql"),
	}

	if err := writeStub(pair.UpPath, name, description, "up", now); err != nil {
		return nil, err
	}
	if err := writeStub(pair.DownPath, name, description, "down", now); err != nil {
		// Do not leave a dangling half pair behind.
		_ = os.Remove(pair.UpPath)
		return nil, err
	}

	return pair, nil
}

func writeStub(path, name, description, direction string, now time.Time) error {
	var b strings.Builder
	fmt.Fprintf(&b, "-- %s (%s)\n", name, direction)
	fmt.Fprintf(&b, "-- created %s\n", now.Format(time.RFC3339))
	if description != "" {
		fmt.Fprintf(&b, "-- %s\n", description)
	}
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write %s migration: %w", direction, err)
	}
	return nil
}

// slugify lowercases the name and collapses separators to single
// underscores, dropping anything that is not safe in a file name.
func slugify(name string) string {
	var out []byte
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, byte(r))
		case r == ' ', r == '-', r == '_':
			if n := len(out); n > 0 && out[n-1] != '_' {
				out = append(out, '_')
			}
		}
	}
	if n := len(out); n > 0 && out[n-1] == '_' {
		out = out[:n-1]
	}
	return string(out)
}

// List returns the base names of the up migrations in dir, without the
// .up.sql suffix. A missing directory reads as empty.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			names = append(names, base)
		}
	}
	return names, nil
}

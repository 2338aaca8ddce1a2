package dbprocessor

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ScriptFile is a preview script being written to disk.
type ScriptFile struct {
	*ScriptAnnouncer

	// Path is the file being written.
	Path string

	f *os.File
}

// CreateScriptFile creates a new preview script in dir.
// description: a human-readable description that will be kebab-cased for the filename.
// mode: "int" for integer increment (default) or "timestamp" to use the Unix timestamp.
//
// Files are named NNN.preview.<description>.sql so successive previews sort
// in the order they were taken.
func CreateScriptFile(dir, description, mode string) (*ScriptFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create script directory %s: %w", dir, err)
	}

	var nextNumber string
	if strings.ToLower(mode) == "timestamp" {
		nextNumber = strconv.FormatInt(time.Now().Unix(), 10)
	} else {
		files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
		if err != nil {
			return nil, fmt.Errorf("failed to scan script files: %w", err)
		}
		highest := 0
		for _, file := range files {
			parts := strings.Split(filepath.Base(file), ".")
			if len(parts) < 2 {
				continue
			}
			num, err := strconv.Atoi(parts[0])
			if err != nil {
				continue
			}
			if num > highest {
				highest = num
			}
		}
		nextNumber = fmt.Sprintf("%03d", highest+1)
	}

	name := fmt.Sprintf("%s.preview.%s.sql", nextNumber, kebabCase(description))
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create script file %s: %w", path, err)
	}
	sf := &ScriptFile{ScriptAnnouncer: NewScriptAnnouncer(f), Path: path, f: f}
	sf.Say(fmt.Sprintf("Preview generated %s", time.Now().UTC().Format(time.RFC3339)))
	return sf, nil
}

// Close flushes the script to disk. It reports the first write error, if any.
func (s *ScriptFile) Close() error {
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("failed to close script file %s: %w", s.Path, err)
	}
	if s.Err != nil {
		return fmt.Errorf("failed to write script file %s: %w", s.Path, s.Err)
	}
	return nil
}

var kebabRe = regexp.MustCompile("[^a-z0-9]+")

// kebabCase converts a string to kebab-case.
func kebabCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = kebabRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

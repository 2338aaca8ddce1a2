package dbprocessor

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Script is a SQL file loaded for execution.
type Script struct {
	// Filename is the path to the script file.
	Filename string

	// Name is the file name without directory and extension.
	Name string

	// SQL is the file content, with line endings converted when requested.
	SQL string

	// Md5 is the MD5 checksum of SQL.
	Md5 string
}

// LoadScript reads a .sql file. If newline is set ("LF", "CR" or "CRLF")
// line endings are converted before the checksum is computed.
func LoadScript(filename, newline string) (Script, error) {
	if filepath.Ext(filename) != ".sql" {
		return Script{}, fmt.Errorf("script %s must have a .sql extension", filename)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return Script{}, err
	}
	content := string(data)
	if newline != "" {
		content, err = convertLineEnding(content, newline)
		if err != nil {
			return Script{}, err
		}
	}
	base := filepath.Base(filename)
	return Script{
		Filename: filename,
		Name:     strings.TrimSuffix(base, filepath.Ext(base)),
		SQL:      content,
		Md5:      checksum(content),
	}, nil
}

// LoadScripts loads each file in the order given.
func LoadScripts(filenames []string, newline string) ([]Script, error) {
	scripts := make([]Script, 0, len(filenames))
	for _, f := range filenames {
		s, err := LoadScript(f, newline)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}

// ProcessScript announces the script and processes its SQL as one
// statement batch.
func (p *Processor) ProcessScript(ctx context.Context, s Script) error {
	p.announcer.Heading(fmt.Sprintf("%s (md5 %s)", s.Name, s.Md5))
	return p.Process(ctx, s.SQL)
}

var lineEndingRe = regexp.MustCompile(`\r\n|\r|\n`)

// convertLineEnding converts all newline variations in content to the target style.
func convertLineEnding(content, lineEnding string) (string, error) {
	var target string
	switch lineEnding {
	case "LF":
		target = "\n"
	case "CR":
		target = "\r"
	case "CRLF":
		target = "\r\n"
	default:
		return "", fmt.Errorf("newline must be one of: LF, CR, CRLF")
	}
	return lineEndingRe.ReplaceAllString(content, target), nil
}

func checksum(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Package loader builds trees from directories, documents and sqlite tables.
// This file handles .gitignore filtering and keeps the .tv directory ignored.
package loader

import (
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// StateDirPattern is the .gitignore entry covering tv's state directory.
const StateDirPattern = ".tv/"

const gitignoreComment = "# tv local config, logs and view state"

// Ignorer reports whether a path relative to the scanned root is ignored.
// Directory paths end with a slash.
type Ignorer interface {
	MatchesPath(rel string) bool
}

type nopIgnorer struct{}

func (nopIgnorer) MatchesPath(string) bool { return false }

// LoadIgnore compiles root/.gitignore. A missing or unreadable file ignores
// nothing.
func LoadIgnore(root string) Ignorer {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nopIgnorer{}
	}
	return gi
}

// IgnoreLines compiles gitignore patterns given inline.
func IgnoreLines(lines ...string) Ignorer {
	return ignore.CompileIgnoreLines(lines...)
}

// EnsureStateDirIgnored makes sure the project's .gitignore covers .tv/,
// creating the file when needed. Calling it again is a no-op.
func EnsureStateDirIgnored(projectDir string) error {
	if projectDir == "" {
		var err error
		projectDir, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	gitignorePath := filepath.Join(projectDir, ".gitignore")

	covered, err := stateDirIgnored(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if covered {
		return nil
	}
	return appendToGitignore(gitignorePath, StateDirPattern)
}

// stateDirIgnored reports whether the patterns in path already match the
// state directory, so "**/.tv" or "/.tv" count as well as ".tv/".
func stateDirIgnored(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		return false, err
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return false, err
	}
	return gi.MatchesPath(StateDirPattern), nil
}

// appendToGitignore appends pattern under a comment, creating the file if
// needed and keeping a blank line between it and existing content.
func appendToGitignore(path string, pattern string) error {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	var toWrite string
	if len(content) > 0 {
		if content[len(content)-1] != '\n' {
			toWrite = "\n"
		}
		toWrite += "\n"
	}
	toWrite += gitignoreComment + "\n" + pattern + "\n"

	_, err = file.WriteString(toWrite)
	return err
}

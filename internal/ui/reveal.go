package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Reveal opens dir in the system file manager. A non-empty customCommand
// is tokenized shell-style with dir appended as the final argument;
// otherwise the platform opener is used. The subprocess is fire-and-forget:
// any error is returned for warning-level logging and never fails a run.
func Reveal(dir, customCommand string) error {
	argv, err := revealArgv(dir, customCommand)
	if err != nil {
		return err
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting file manager %q: %w", argv[0], err)
	}
	go cmd.Wait() //nolint:errcheck
	return nil
}

// revealArgv builds the argv that opens dir.
func revealArgv(dir, customCommand string) ([]string, error) {
	if trimmed := strings.TrimSpace(customCommand); trimmed != "" {
		parts, err := splitShellArgs(trimmed)
		if err != nil {
			return nil, fmt.Errorf("parse reveal command: %w", err)
		}
		return append(parts, dir), nil
	}

	switch runtime.GOOS {
	case "darwin":
		return []string{"open", dir}, nil
	case "windows":
		return []string{"explorer", dir}, nil
	default:
		return []string{"xdg-open", dir}, nil
	}
}

// splitShellArgs tokenizes s like a POSIX shell, respecting single and double
// quotes and backslash escapes outside quotes. No variable expansion or
// globbing is performed. This allows reveal commands in 3mf-looper.yaml such as:
//
//	nautilus --select "my files"
//
// to be parsed correctly instead of being fragmented by whitespace splitting.
func splitShellArgs(s string) ([]string, error) {
	var args []string
	var cur strings.Builder
	inSingle := false
	inDouble := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case inSingle:
			if ch == '\'' {
				inSingle = false
			} else {
				cur.WriteByte(ch)
			}
		case inDouble:
			if ch == '\\' && i+1 < len(s) {
				next := s[i+1]
				// Characters escapable inside double quotes per POSIX
				if next == '"' || next == '\\' || next == '$' || next == '`' || next == '\n' {
					cur.WriteByte(next)
					i++
				} else {
					cur.WriteByte(ch)
				}
			} else if ch == '"' {
				inDouble = false
			} else {
				cur.WriteByte(ch)
			}
		case ch == '\\':
			if i+1 < len(s) {
				cur.WriteByte(s[i+1])
				i++
			}
		case ch == '\'':
			inSingle = true
		case ch == '"':
			inDouble = true
		case ch == ' ' || ch == '\t':
			if cur.Len() > 0 {
				args = append(args, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(ch)
		}
	}

	if inSingle {
		return nil, fmt.Errorf("unterminated single quote in reveal command")
	}
	if inDouble {
		return nil, fmt.Errorf("unterminated double quote in reveal command")
	}
	if cur.Len() > 0 {
		args = append(args, cur.String())
	}

	return args, nil
}

// Package command describes shell commands as structured values. They are turned
// into command lines only when handed to an executor.
package command

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Line is anything which can be rendered to a single shell command line.
type Line interface {
	Render() string
}

// Command describes single program invocation with its shell decorations.
type Command struct {
	Program string
	Args    []string
	// RawArgs follow Args without quoting. Use Glob to build them.
	RawArgs []string

	// Timeout bounds the program runtime with coreutils timeout(1) when non zero.
	// It is rounded up to whole seconds.
	Timeout time.Duration
	// NoHangup wraps the program with nohup(1).
	NoHangup bool
	// Background detaches the command so the shell does not wait for it.
	Background bool
	// Output is a file which receives both stdout and stderr.
	Output string
	// DiscardStderr sends stderr to /dev/null. Ignored when Output is set.
	DiscardStderr bool
	// AllowFailure makes the command always succeed.
	AllowFailure bool
}

// New returns command for program with given arguments.
func New(program string, args ...string) Command {
	return Command{Program: program, Args: args}
}

// Render implements Line.
func (c Command) Render() string {
	var parts []string
	if c.NoHangup {
		parts = append(parts, "nohup")
	}
	if c.Timeout > 0 {
		seconds := (c.Timeout + time.Second - 1) / time.Second
		parts = append(parts, "timeout", fmt.Sprintf("%ds", int64(seconds)))
	}
	parts = append(parts, Quote(c.Program))
	for _, arg := range c.Args {
		parts = append(parts, Quote(arg))
	}
	parts = append(parts, c.RawArgs...)

	switch {
	case c.Output != "":
		parts = append(parts, ">", Quote(c.Output), "2>&1")
	case c.DiscardStderr:
		parts = append(parts, "2>/dev/null")
	}

	line := strings.Join(parts, " ")
	if c.AllowFailure {
		line += " || true"
	}
	if c.Background {
		// Braces keep the backgrounded command usable inside && chains.
		line = "{ " + line + " & }"
	}
	return line
}

// Pipeline connects stdout of each command to stdin of the next one.
type Pipeline []Command

// Render implements Line.
func (p Pipeline) Render() string {
	parts := make([]string, 0, len(p))
	for _, c := range p {
		parts = append(parts, c.Render())
	}
	return strings.Join(parts, " | ")
}

// Sequence runs lines one after another regardless of their exit codes.
type Sequence []Line

// Render implements Line.
func (s Sequence) Render() string {
	return join(s, "; ")
}

// Chain runs lines one after another while they succeed.
type Chain []Line

// Render implements Line.
func (c Chain) Render() string {
	return join(c, " && ")
}

func join(lines []Line, separator string) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if rendered := line.Render(); rendered != "" {
			parts = append(parts, rendered)
		}
	}
	return strings.Join(parts, separator)
}

var safeWord = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// Quote returns word quoted for POSIX shell when it contains special characters.
func Quote(word string) string {
	if word == "" {
		return "''"
	}
	if safeWord.MatchString(word) {
		return word
	}
	return "'" + strings.Replace(word, "'", `'\''`, -1) + "'"
}

// Glob returns shell pattern matching files in dir. Dir is quoted, pattern is left
// for the shell to expand.
func Glob(dir, pattern string) string {
	return Quote(strings.TrimSuffix(dir, "/")) + "/" + pattern
}

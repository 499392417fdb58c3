// pkg/cli/shell.go
package cli

import (
	"bufio"
	"io"
	"strings"
)

// Shell reads query blocks from an input stream. A block runs from the
// current position through the line containing query_end; the single word
// "quit" ends the session.
type Shell struct {
	// reader reads input lines
	reader *bufio.Reader

	// output is where prompts are written
	output io.Writer

	// prompt is shown before the first line of a block
	prompt string

	// continuePrompt is shown for block continuation lines
	continuePrompt string

	// showPrompts enables prompt printing; false for piped input
	showPrompts bool

	// history stores completed blocks for recall
	history []string

	// maxHistory bounds the history length
	maxHistory int
}

// NewShell creates a shell over the given streams. Prompts are shown by
// default; call SetInteractive(false) for piped input.
func NewShell(input io.Reader, output io.Writer) *Shell {
	var reader *bufio.Reader
	if input != nil {
		reader = bufio.NewReader(input)
	}

	return &Shell{
		reader:         reader,
		output:         output,
		prompt:         "qo> ",
		continuePrompt: "...> ",
		showPrompts:    true,
		maxHistory:     1000,
	}
}

// SetInteractive toggles prompt printing.
func (s *Shell) SetInteractive(interactive bool) {
	s.showPrompts = interactive
}

// SetPrompt changes the primary prompt string.
func (s *Shell) SetPrompt(prompt string) {
	s.prompt = prompt
}

// ReadLine reads one line, stripping trailing whitespace. The second result
// reports EOF.
func (s *Shell) ReadLine() (string, bool) {
	if s.reader == nil {
		return "", true
	}

	line, err := s.reader.ReadString('\n')
	line = strings.TrimRight(line, " \t\r\n")
	if err != nil {
		return line, true
	}
	return line, false
}

// ReadBlock reads lines until query_end (inclusive), "quit", or EOF.
// Returns the collected lines, whether quit was requested, and whether the
// stream is exhausted.
func (s *Shell) ReadBlock() (lines []string, quit, eof bool) {
	isFirst := true

	for {
		if s.showPrompts && s.output != nil {
			if isFirst {
				io.WriteString(s.output, s.prompt)
			} else {
				io.WriteString(s.output, s.continuePrompt)
			}
		}
		isFirst = false

		line, atEOF := s.ReadLine()

		if strings.TrimSpace(line) == "quit" {
			return lines, true, atEOF
		}
		if line != "" || !atEOF {
			lines = append(lines, line)
		}

		if strings.Contains(line, "query_end") || len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[0]), ".") {
			s.addHistory(strings.Join(lines, "\n"))
			return lines, false, atEOF
		}

		if atEOF {
			return lines, false, true
		}
	}
}

// addHistory appends a completed block, dropping duplicates of the last
// entry and trimming to the history bound.
func (s *Shell) addHistory(block string) {
	block = strings.TrimSpace(block)
	if block == "" {
		return
	}
	if len(s.history) > 0 && s.history[len(s.history)-1] == block {
		return
	}

	s.history = append(s.history, block)
	if len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
}

// History returns a copy of the completed-block history.
func (s *Shell) History() []string {
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

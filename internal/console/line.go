package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Line reads answers one line at a time.
type Line struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLine creates a line console reading r and writing prompts to w.
func NewLine(r io.Reader, w io.Writer) *Line {
	return &Line{in: bufio.NewReader(r), out: w}
}

// Prompt prints message and returns the next line without its line ending.
// A final line without a newline is still returned; io.EOF only comes back
// when nothing was read.
func (l *Line) Prompt(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprintf(l.out, "%s ", message)

	line, err := l.in.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Choose prints the menu and reads until the operator enters one of the
// keys. A whole key wins over a first-character match and case is ignored.
// It returns the matching Key.
func (l *Line) Choose(ctx context.Context, title string, choices []Choice) (string, error) {
	fmt.Fprintln(l.out, title)
	for _, c := range choices {
		fmt.Fprintf(l.out, "  [%s] %s\n", c.Key, c.Label)
	}

	for {
		answer, err := l.Prompt(ctx, ">")
		if err != nil {
			return "", err
		}

		if key, ok := matchKey(answer, choices); ok {
			return key, nil
		}
		fmt.Fprintf(l.out, "Unknown choice %q\n", strings.TrimSpace(answer))
	}
}

func matchKey(answer string, choices []Choice) (string, bool) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", false
	}
	for _, c := range choices {
		if strings.EqualFold(c.Key, answer) {
			return c.Key, true
		}
	}
	first := strings.ToLower(answer[:1])
	for _, c := range choices {
		if strings.ToLower(c.Key) == first {
			return c.Key, true
		}
	}
	return "", false
}

package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// terminalConfirmer pauses between stages and asks the operator to
// continue. Only installed when stdin is a terminal; the core never
// sees interactive I/O.
type terminalConfirmer struct {
	in  io.Reader
	out io.Writer
}

// Confirm returns true unless the operator answers no. An empty
// answer proceeds.
func (c *terminalConfirmer) Confirm(stage string) (bool, error) {
	fmt.Fprintf(c.out, "Continue with stage %q? [Y/n] ", stage)

	reader := bufio.NewReader(c.in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "" || answer == "y" || answer == "yes", nil
}

// Package shell implements the command shell spec.md §6 describes: a
// line-oriented textual dispatcher over stdin/stdout. It requires no
// network sockets, matching the spec's stated environment, and exits with
// code 0 on the "exit" verb or on end of input.
package shell

import (
	"bufio"
	"fmt"
	"io"

	"github.com/foldtable/foldtable-db/internal/protocol"
)

// Shell reads commands from an input reader and writes responses to an
// output writer.
type Shell struct {
	dispatcher *protocol.Dispatcher
	in         *bufio.Scanner
	out        io.Writer
}

// New builds a Shell over the given reader/writer, using dispatcher to run
// each parsed command.
func New(dispatcher *protocol.Dispatcher, in io.Reader, out io.Writer) *Shell {
	return &Shell{dispatcher: dispatcher, in: bufio.NewScanner(in), out: out}
}

// Run reads lines until "exit" is issued or the input is exhausted,
// returning the process exit code (always 0 on graceful termination, per
// spec.md §6).
func (s *Shell) Run() int {
	for s.in.Scan() {
		line := s.in.Text()
		if len(line) == 0 {
			continue
		}

		output, exit, err := s.dispatcher.Execute(line)
		if err != nil {
			fmt.Fprintf(s.out, "ERROR %v\n", err)
			continue
		}
		if output != "" {
			fmt.Fprintln(s.out, output)
		}
		if exit {
			return 0
		}
	}
	return 0
}

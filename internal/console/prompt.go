package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ConfirmAnswer is the only answer (case-insensitive) that accepts a Confirm prompt.
const ConfirmAnswer = "o"

// Confirm writes question to out and reads one line from in. It returns true only when
// the line, without its terminator, equals "o" or "O". Empty input, EOF and read errors
// all decline.
func Confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprint(out, question)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	answer := strings.TrimRight(line, "\r\n")
	return strings.ToLower(answer) == ConfirmAnswer
}

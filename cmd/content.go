package cmd

import (
	"bufio"
	"io"
	"os"
	"strings"

	"devek/pkg/errors"
	"devek/pkg/logger"

	"golang.org/x/term"
)

const stdinSentinel = "-"

// resolveContent returns source verbatim unless it is the stdin sentinel, in
// which case exactly one line is read from stdin.
func resolveContent(stdin io.Reader, source string) (string, error) {
	if source != stdinSentinel {
		return source, nil
	}

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		logger.Debug().Msg("waiting for one line of content on stdin")
	}

	line, err := readLine(stdin)
	if err != nil {
		return "", errors.InputError(err)
	}
	logger.Debug().Int("bytes", len(line)).Msg("read content from stdin")
	return line, nil
}

// readLine reads up to and excluding the first line terminator. End of input
// before any terminator is not an error, so empty input yields "".
//
// Earlier devek releases kept the terminator in the stored content; here
// `echo '<b>x</b>' | devek -` stores exactly the markup.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

package clipboard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// The selection owner reports whether it claimed the selection on an
// inherited pipe, one line: "ok" or "error <message>".
const (
	statusFDEnv = "DEVEK_CLIPBOARD_STATUS_FD"
	statusOK    = "ok"
	statusError = "error "
)

// errOwnerExited is reported when the owner closes the status pipe without
// writing a status line.
var errOwnerExited = errors.New("clipboard owner exited before claiming the selection")

func writeStatus(w io.Writer, claimErr error) error {
	line := statusOK
	if claimErr != nil {
		line = statusError + strings.ReplaceAll(claimErr.Error(), "\n", " ")
	}
	_, err := io.WriteString(w, line+"\n")
	return err
}

// readStatus returns nil once the owner reports a claimed selection and the
// owner's error otherwise.
func readStatus(r io.Reader) error {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errOwnerExited
		}
		return fmt.Errorf("read clipboard owner status: %w", err)
	}

	line = strings.TrimSuffix(line, "\n")
	switch {
	case line == statusOK:
		return nil
	case strings.HasPrefix(line, statusError):
		return errors.New(strings.TrimPrefix(line, statusError))
	default:
		return fmt.Errorf("unexpected clipboard owner status %q", line)
	}
}

package cmd

import (
	"io"

	"devek/pkg/clipboard"
	"devek/pkg/errors"
)

// serveClipboard runs the detached selection owner: it reads the entry the
// parent process handed over on stdin and serves it until replaced.
func serveClipboard(stdin io.Reader) error {
	data, err := io.ReadAll(stdin)
	if err != nil {
		return errors.WrapWithCode(err, errors.ExitCodeInput, "failed to read clipboard payload")
	}
	entry, err := clipboard.DecodePayload(data)
	if err != nil {
		return errors.WrapWithCode(err, errors.ExitCodeInput, "failed to read clipboard payload")
	}
	if err := clipboard.ServeClipboard(entry); err != nil {
		return errors.ClipboardError(errors.ErrMsgClipboardServe, err)
	}
	return nil
}

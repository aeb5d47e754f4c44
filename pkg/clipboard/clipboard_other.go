//go:build !linux && !darwin

package clipboard

import (
	"fmt"

	"devek/pkg/logger"

	atotto "github.com/atotto/clipboard"
)

// writeEntry stores plain text only; HTML entries fall back to their
// plain-text rendition.
func writeEntry(e Entry) error {
	if e.Kind == KindHTML {
		logger.Warn().Msg("rich clipboard entries are not supported on this platform, copying plain text")
	}
	return atotto.WriteAll(e.PlainText())
}

func ServeClipboard(e Entry) error {
	return fmt.Errorf("clipboard: %s is only used on Linux", ServeCommand)
}

//go:build darwin

package clipboard

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	atotto "github.com/atotto/clipboard"
)

func writeEntry(e Entry) error {
	if e.Kind == KindText {
		return atotto.WriteAll(e.Content)
	}
	return runOSAScript(appleScript(e))
}

// runOSAScript runs script and folds osascript's stderr into the error.
func runOSAScript(script string) error {
	_, err := exec.Command("osascript", "-e", script).Output()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if msg := strings.TrimSpace(string(exitErr.Stderr)); msg != "" {
			return fmt.Errorf("osascript: %w: %s", err, msg)
		}
	}
	return fmt.Errorf("osascript: %w", err)
}

// appleScript builds a script setting the pasteboard to the HTML data and,
// when present, the fallback string in one record.
func appleScript(e Entry) string {
	data := fmt.Sprintf("«data HTML%s»", strings.ToUpper(hex.EncodeToString([]byte(e.Content))))
	if !e.HasFallback {
		return "set the clipboard to " + data
	}
	return fmt.Sprintf("set the clipboard to {«class HTML»:%s, «class utf8»:%s}", data, appleString(e.Fallback))
}

func appleString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

func ServeClipboard(e Entry) error {
	return fmt.Errorf("clipboard: %s is only used on Linux", ServeCommand)
}

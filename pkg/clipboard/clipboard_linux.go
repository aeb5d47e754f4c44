//go:build linux

package clipboard

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"
	"time"

	"devek/pkg/clipboard/internal/wayland"
	"devek/pkg/clipboard/internal/x11"
	"devek/pkg/logger"

	atotto "github.com/atotto/clipboard"
)

// statusFD is where the owner process finds the write end of the status pipe,
// the first of exec.Cmd.ExtraFiles.
const statusFD = 3

var (
	plainWriter  = atotto.WriteAll
	spawnOwner   = spawnClipboardOwner
	ownerCommand = selfCommand
	ownerTimeout = 5 * time.Second
)

type selectionOwner interface {
	Serve() error
}

func writeEntry(e Entry) error {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return spawnOwner(e)
	}
	return writeX11(e)
}

// writeX11 hands HTML entries to an owner process offering text/html and the
// plain-text targets together. Text entries go through atotto/clipboard.
func writeX11(e Entry) error {
	if e.Kind == KindHTML {
		if os.Getenv("DISPLAY") != "" {
			return spawnOwner(e)
		}
		logger.Warn().Msg("DISPLAY not set, copying plain text only")
	}
	return plainWriter(e.PlainText())
}

func selfCommand() (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	return exec.Command(exe, ServeCommand), nil
}

// spawnClipboardOwner starts a detached owner process for e and waits until it
// reports that it holds the selection.
func spawnClipboardOwner(e Entry) error {
	payload, err := EncodePayload(e)
	if err != nil {
		return err
	}
	cmd, err := ownerCommand()
	if err != nil {
		return err
	}

	status, statusW, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("create status pipe: %w", err)
	}
	defer status.Close()

	env := cmd.Env
	if env == nil {
		env = os.Environ()
	}
	cmd.Env = append(env, statusFDEnv+"="+strconv.Itoa(statusFD))
	cmd.Stdin = bytes.NewReader(payload)
	cmd.ExtraFiles = []*os.File{statusW}
	// New session so the owner outlives this process.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	err = cmd.Start()
	statusW.Close() //nolint:errcheck
	if err != nil {
		return fmt.Errorf("start clipboard owner: %w", err)
	}

	status.SetReadDeadline(time.Now().Add(ownerTimeout)) //nolint:errcheck
	if err := readStatus(status); err != nil {
		cmd.Process.Kill() //nolint:errcheck
		cmd.Wait()         //nolint:errcheck
		return err
	}

	logger.Debug().Int("pid", cmd.Process.Pid).Str("kind", e.Kind.String()).Msg("clipboard owner holds the selection")
	return cmd.Process.Release()
}

// ServeClipboard claims the selection for e, reports the outcome on the
// inherited status pipe and serves paste requests until the selection is
// replaced.
func ServeClipboard(e Entry) error {
	owner, err := claimSelection(e)
	if status := statusPipe(); status != nil {
		if werr := writeStatus(status, err); werr != nil {
			logger.Debug().Err(werr).Msg("failed to report clipboard owner status")
		}
		status.Close() //nolint:errcheck
	}
	if err != nil {
		return err
	}
	return owner.Serve()
}

func claimSelection(e Entry) (selectionOwner, error) {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		o, err := wayland.Claim(e.Formats())
		if err != nil {
			return nil, err
		}
		return o, nil
	}
	o, err := x11.Claim(e.Formats())
	if err != nil {
		return nil, err
	}
	return o, nil
}

func statusPipe() *os.File {
	fd, err := strconv.Atoi(os.Getenv(statusFDEnv))
	if err != nil || fd < statusFD {
		return nil
	}
	return os.NewFile(uintptr(fd), "clipboard-status")
}

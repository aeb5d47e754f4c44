//go:build linux

package wayland

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/sys/unix"
)

const (
	seatInterface    = "wl_seat"
	managerInterface = "zwlr_data_control_manager_v1"
	maxManagerVer    = 2
)

// Owner holds the clipboard selection on a live compositor connection.
type Owner struct {
	s       *session
	formats map[string][]byte
}

// Claim takes the clipboard selection through zwlr_data_control_v1, offering
// every MIME type in formats. It returns once the compositor has processed
// the request.
func Claim(formats map[string][]byte) (*Owner, error) {
	sockPath, err := socketPath()
	if err != nil {
		return nil, err
	}

	c, err := dial(sockPath)
	if err != nil {
		return nil, fmt.Errorf("wayland: connect %s: %w", sockPath, err)
	}

	o, err := claimOn(c, formats)
	if err != nil {
		c.close()
		return nil, err
	}
	return o, nil
}

func claimOn(c *conn, formats map[string][]byte) (*Owner, error) {
	s := &session{c: c, nextCallback: idFirstCallback}
	if err := s.bindGlobals(); err != nil {
		return nil, err
	}
	if err := s.claim(slices.Sorted(maps.Keys(formats))); err != nil {
		return nil, err
	}
	return &Owner{s: s, formats: formats}, nil
}

// Serve answers paste requests with the bytes registered for the requested
// MIME type. It blocks until another client takes the selection and closes
// the connection before returning.
func (o *Owner) Serve() error {
	defer o.s.c.close()
	return o.s.serve(o.formats)
}

func socketPath() (string, error) {
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = "wayland-0"
	}
	if filepath.IsAbs(display) {
		return display, nil
	}
	runtime := os.Getenv("XDG_RUNTIME_DIR")
	if runtime == "" {
		return "", fmt.Errorf("wayland: XDG_RUNTIME_DIR not set")
	}
	return filepath.Join(runtime, display), nil
}

type global struct {
	name    uint32
	version uint32
	found   bool
}

type session struct {
	c            *conn
	nextCallback uint32
	seat         global
	manager      global
}

// roundtrip issues wl_display.sync and passes every event that arrives before
// the callback fires to handle.
func (s *session) roundtrip(handle func(message)) error {
	cb := s.nextCallback
	s.nextCallback++
	if err := s.c.send(idDisplay, opDisplaySync, uint32Arg(cb)); err != nil {
		return err
	}

	for {
		msg, err := s.c.next()
		if err != nil {
			return err
		}
		closeFd(msg.fd)

		switch {
		case msg.object == cb && msg.opcode == evCallbackDone:
			return nil
		case msg.object == idDisplay && msg.opcode == evDisplayError:
			return protocolError(msg.payload)
		case handle != nil:
			handle(msg)
		}
	}
}

func (s *session) bindGlobals() error {
	if err := s.c.send(idDisplay, opDisplayGetRegistry, uint32Arg(idRegistry)); err != nil {
		return err
	}

	err := s.roundtrip(func(msg message) {
		if msg.object != idRegistry || msg.opcode != evRegistryGlobal || len(msg.payload) < 4 {
			return
		}
		name := le.Uint32(msg.payload[:4])
		iface, rest, err := readString(msg.payload[4:])
		if err != nil || len(rest) < 4 {
			return
		}
		g := global{name: name, version: le.Uint32(rest[:4]), found: true}
		switch iface {
		case seatInterface:
			s.seat = g
		case managerInterface:
			s.manager = g
		}
	})
	if err != nil {
		return err
	}

	if !s.seat.found {
		return fmt.Errorf("wayland: %s not found", seatInterface)
	}
	if !s.manager.found {
		return fmt.Errorf("wayland: %s not found (compositor may not support wlr-data-control)", managerInterface)
	}
	return nil
}

// claim binds the globals, offers mimeTypes and makes the new source the
// selection, waiting for the compositor to acknowledge it.
func (s *session) claim(mimeTypes []string) error {
	// wl_registry.bind with an untyped new_id: name, interface, version, id.
	if err := s.c.send(idRegistry, opRegistryBind,
		uint32Arg(s.seat.name), stringArg(seatInterface), uint32Arg(1), uint32Arg(idSeat)); err != nil {
		return err
	}
	if err := s.c.send(idRegistry, opRegistryBind,
		uint32Arg(s.manager.name), stringArg(managerInterface), uint32Arg(min(s.manager.version, maxManagerVer)), uint32Arg(idManager)); err != nil {
		return err
	}

	if err := s.c.send(idManager, opManagerCreateSrc, uint32Arg(idSource)); err != nil {
		return err
	}
	for _, mimeType := range mimeTypes {
		if err := s.c.send(idSource, opSourceOffer, stringArg(mimeType)); err != nil {
			return err
		}
	}
	if err := s.c.send(idManager, opManagerGetDevice, uint32Arg(idDevice), uint32Arg(idSeat)); err != nil {
		return err
	}
	if err := s.c.send(idDevice, opDeviceSetSelection, uint32Arg(idSource)); err != nil {
		return err
	}

	return s.roundtrip(nil)
}

func (s *session) serve(formats map[string][]byte) error {
	for {
		msg, err := s.c.next()
		if err != nil {
			// The compositor went away; nothing left to own.
			return nil
		}

		if msg.object != idSource {
			closeFd(msg.fd)
			continue
		}

		switch msg.opcode {
		case evSourceSend:
			mimeType, _, _ := readString(msg.payload)
			if data, ok := formats[mimeType]; ok && msg.fd >= 0 {
				writeAll(msg.fd, data)
			}
			closeFd(msg.fd)
		case evSourceCancelled:
			closeFd(msg.fd)
			return nil
		default:
			closeFd(msg.fd)
		}
	}
}

func writeAll(fd int, data []byte) {
	for len(data) > 0 {
		n, err := unix.Write(fd, data)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return
		}
		data = data[n:]
	}
}

func protocolError(payload []byte) error {
	if len(payload) < 8 {
		return fmt.Errorf("wayland: protocol error")
	}
	object := le.Uint32(payload[0:4])
	code := le.Uint32(payload[4:8])
	msg, _, _ := readString(payload[8:])
	return fmt.Errorf("wayland: protocol error on object %d (code %d): %s", object, code, msg)
}

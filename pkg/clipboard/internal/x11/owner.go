// Package x11 owns the CLIPBOARD selection of an X server and converts it to
// any of a fixed set of targets on request.
package x11

import (
	"fmt"
	"maps"
	"slices"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

const (
	selectionName = "CLIPBOARD"
	targetsName   = "TARGETS"

	// Largest property written in one ChangeProperty request.
	// TODO: serve larger payloads with the INCR transfer protocol.
	maxPropertySize = 1<<18 - 64
)

// Owner holds the CLIPBOARD selection on a private InputOnly window.
type Owner struct {
	conn      *xgb.Conn
	window    xproto.Window
	selection xproto.Atom
	targets   xproto.Atom
	formats   map[xproto.Atom][]byte
}

// Claim connects to $DISPLAY, takes the CLIPBOARD selection and returns once
// the server confirms the new owner. formats maps target names such as
// "text/html" or "UTF8_STRING" to their bytes.
func Claim(formats map[string][]byte) (*Owner, error) {
	c, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("x11: connect: %w", err)
	}

	o, err := claim(c, formats)
	if err != nil {
		c.Close()
		return nil, err
	}
	return o, nil
}

func claim(c *xgb.Conn, formats map[string][]byte) (*Owner, error) {
	screen := xproto.Setup(c).DefaultScreen(c)
	win, err := xproto.NewWindowId(c)
	if err != nil {
		return nil, fmt.Errorf("x11: allocate window: %w", err)
	}
	err = xproto.CreateWindowChecked(c, 0, win, screen.Root,
		0, 0, 1, 1, 0, xproto.WindowClassInputOnly, 0, 0, nil).Check()
	if err != nil {
		return nil, fmt.Errorf("x11: create window: %w", err)
	}

	o := &Owner{conn: c, window: win, formats: make(map[xproto.Atom][]byte, len(formats))}
	if o.selection, err = intern(c, selectionName); err != nil {
		return nil, err
	}
	if o.targets, err = intern(c, targetsName); err != nil {
		return nil, err
	}
	for name, data := range formats {
		atom, err := intern(c, name)
		if err != nil {
			return nil, err
		}
		o.formats[atom] = data
	}

	if err := xproto.SetSelectionOwnerChecked(c, win, o.selection, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, fmt.Errorf("x11: set selection owner: %w", err)
	}
	reply, err := xproto.GetSelectionOwner(c, o.selection).Reply()
	if err != nil {
		return nil, fmt.Errorf("x11: get selection owner: %w", err)
	}
	if reply.Owner != win {
		return nil, fmt.Errorf("x11: %s selection taken by window %d", selectionName, reply.Owner)
	}
	return o, nil
}

func intern(c *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c, false, uint16(len(name)), name).Reply()
	if err != nil {
		return xproto.AtomNone, fmt.Errorf("x11: intern %s: %w", name, err)
	}
	return reply.Atom, nil
}

// Serve answers conversion requests until another client takes the selection
// or the server connection closes, then closes the connection.
func (o *Owner) Serve() error {
	defer o.conn.Close()
	for {
		ev, xerr := o.conn.WaitForEvent()
		if ev == nil && xerr == nil {
			return nil
		}
		if xerr != nil {
			// Requestor windows may vanish mid-transfer; that only fails
			// their paste.
			continue
		}

		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			o.answer(e)
		case xproto.SelectionClearEvent:
			if e.Selection == o.selection {
				return nil
			}
		}
	}
}

func (o *Owner) answer(req xproto.SelectionRequestEvent) {
	property := req.Property
	if property == xproto.AtomNone {
		// Obsolete clients leave the property to the owner.
		property = req.Target
	}

	typ, format, data, ok := o.convert(req.Target)
	if ok && req.Selection == o.selection {
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, req.Requestor, property,
			typ, format, uint32(len(data))*8/uint32(format), data)
	} else {
		property = xproto.AtomNone
	}

	notify := xproto.SelectionNotifyEvent{
		Time:      req.Time,
		Requestor: req.Requestor,
		Selection: req.Selection,
		Target:    req.Target,
		Property:  property,
	}
	xproto.SendEvent(o.conn, false, req.Requestor, xproto.EventMaskNoEvent, string(notify.Bytes()))
}

// convert returns the property type, element format and bytes stored for
// target. TARGETS lists every offered target as 32-bit atoms.
func (o *Owner) convert(target xproto.Atom) (typ xproto.Atom, format byte, data []byte, ok bool) {
	if target == o.targets {
		atoms := append([]xproto.Atom{o.targets}, slices.Sorted(maps.Keys(o.formats))...)
		data = make([]byte, 4*len(atoms))
		for i, a := range atoms {
			xgb.Put32(data[4*i:], uint32(a))
		}
		return xproto.AtomAtom, 32, data, true
	}

	data, ok = o.formats[target]
	if !ok || len(data) > maxPropertySize {
		return xproto.AtomNone, 0, nil, false
	}
	return target, 8, data, true
}

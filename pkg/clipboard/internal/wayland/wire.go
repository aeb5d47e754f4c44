package wayland

import (
	"encoding/binary"
	"fmt"
)

var le = binary.LittleEndian

// Object IDs allocated by this client (client range starts at 2).
const (
	idDisplay  uint32 = 1
	idRegistry uint32 = 2
	idSeat     uint32 = 3
	idManager  uint32 = 4 // zwlr_data_control_manager_v1
	idSource   uint32 = 5 // zwlr_data_control_source_v1
	idDevice   uint32 = 6 // zwlr_data_control_device_v1
	// Callbacks for wl_display.sync are allocated from here upwards.
	idFirstCallback uint32 = 16
)

// Request opcodes.
const (
	opDisplaySync        uint16 = 0
	opDisplayGetRegistry uint16 = 1
	opRegistryBind       uint16 = 0
	opManagerCreateSrc   uint16 = 0
	opManagerGetDevice   uint16 = 1
	opSourceOffer        uint16 = 0
	opDeviceSetSelection uint16 = 0
)

// Event opcodes.
const (
	evRegistryGlobal  uint16 = 0
	evCallbackDone    uint16 = 0
	evSourceSend      uint16 = 0
	evSourceCancelled uint16 = 1
	evDisplayError    uint16 = 0
)

const headerSize = 8

// message is a decoded wire message: header fields plus raw argument bytes.
type message struct {
	object  uint32
	opcode  uint16
	payload []byte
	fd      int // -1 unless an fd arrived with the message
}

// frame encodes a request header followed by args.
func frame(object uint32, opcode uint16, args ...[]byte) []byte {
	size := headerSize
	for _, a := range args {
		size += len(a)
	}
	buf := make([]byte, headerSize, size)
	le.PutUint32(buf[0:], object)
	le.PutUint32(buf[4:], uint32(opcode)|uint32(size)<<16)
	for _, a := range args {
		buf = append(buf, a...)
	}
	return buf
}

// splitFrame cuts the first complete message out of buf. ok is false while
// more bytes are needed.
func splitFrame(buf []byte) (msg message, rest []byte, ok bool) {
	if len(buf) < headerSize {
		return message{}, buf, false
	}
	sizeOpcode := le.Uint32(buf[4:8])
	size := int(sizeOpcode >> 16)
	if size < headerSize || len(buf) < size {
		return message{}, buf, false
	}
	msg = message{
		object:  le.Uint32(buf[0:4]),
		opcode:  uint16(sizeOpcode & 0xffff),
		payload: append([]byte(nil), buf[headerSize:size]...),
		fd:      -1,
	}
	return msg, buf[size:], true
}

func uint32Arg(v uint32) []byte {
	b := make([]byte, 4)
	le.PutUint32(b, v)
	return b
}

// stringArg encodes a string argument: length including the NUL terminator,
// the bytes, then padding to a 4-byte boundary.
func stringArg(s string) []byte {
	length := len(s) + 1
	padded := (length + 3) &^ 3
	buf := make([]byte, 4+padded)
	le.PutUint32(buf[0:], uint32(length))
	copy(buf[4:], s)
	return buf
}

// readString decodes a string argument and returns the remaining payload.
func readString(data []byte) (string, []byte, error) {
	if len(data) < 4 {
		return "", data, fmt.Errorf("wayland: short string length field")
	}
	length := int(le.Uint32(data[:4]))
	data = data[4:]
	if length == 0 {
		return "", data, nil
	}
	padded := (length + 3) &^ 3
	if len(data) < padded {
		return "", data, fmt.Errorf("wayland: short string data")
	}
	return string(data[:length-1]), data[padded:], nil
}

package orgb

import "fmt"

// headerSize is the fixed wire size of Header: 4-byte magic plus three
// u32 fields.
const headerSize = 16

var magicBytes = [4]byte{'O', 'R', 'G', 'B'}

// Header is the fixed prefix of every frame exchanged with the daemon.
// body_size counts the bytes following the header, not including it.
type Header struct {
	DeviceIdx   uint32
	MessageType MessageType
	BodySize    uint32
}

// Encode writes the 16-byte wire form of h: magic, device_idx, message_type,
// body_size, in that order.
func (h Header) Encode(w *Writer) {
	w.PutBytes(magicBytes[:])
	w.PutU32(h.DeviceIdx)
	w.PutU32(uint32(h.MessageType))
	w.PutU32(h.BodySize)
}

// DecodeHeader reads a 16-byte Header from r. It fails ErrBadMagic if the
// leading four bytes aren't "ORGB", and ErrUnknownType if message_type is
// not one this package recognizes. body_size is returned verbatim; callers
// (the framed transport) are responsible for bounding it against a cap.
func DecodeHeader(r *Reader) (Header, error) {
	magic, err := r.GetBytes(4)
	if err != nil {
		return Header{}, err
	}
	if string(magic) != string(magicBytes[:]) {
		return Header{}, fmt.Errorf("%w: got %q", ErrBadMagic, magic)
	}
	deviceIdx, err := r.GetU32()
	if err != nil {
		return Header{}, err
	}
	rawType, err := r.GetU32()
	if err != nil {
		return Header{}, err
	}
	msgType := MessageType(rawType)
	if !knownMessageType(msgType) {
		return Header{}, fmt.Errorf("%w: %d", ErrUnknownType, rawType)
	}
	bodySize, err := r.GetU32()
	if err != nil {
		return Header{}, err
	}
	return Header{DeviceIdx: deviceIdx, MessageType: msgType, BodySize: bodySize}, nil
}

package orgb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// defaultMaxFrameSize caps a single frame's body_size; a daemon declaring
// more than this is treated as a protocol violation rather than an
// invitation to allocate unbounded memory.
const defaultMaxFrameSize = 16 * 1024 * 1024

// Stream is the transport collaborator a Client speaks frames over. The
// net.Conn returned by dialTCP satisfies it directly; tests substitute
// net.Pipe, which satisfies it too.
type Stream interface {
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// dialTCP opens a TCP connection to the daemon at host:port. The returned
// Stream is ready for use by a framer immediately.
func dialTCP(ctx context.Context, host string, port int) (Stream, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s:%d: %v", ErrDisconnected, host, port, err)
	}
	return conn, nil
}

// framer serializes Message exchange over a Stream: SendFrame/RecvFrame
// each do exactly one frame's worth of I/O, looping internally only to
// cover short reads/writes, never to pipeline multiple frames.
type framer struct {
	stream       Stream
	maxFrameSize uint32
}

func newFramer(s Stream, maxFrameSize uint32) *framer {
	if maxFrameSize == 0 {
		maxFrameSize = defaultMaxFrameSize
	}
	return &framer{stream: s, maxFrameSize: maxFrameSize}
}

// Message pairs a Header with the Body it frames.
type Message struct {
	Header Header
	Body   Body
}

// SendFrame serializes a header and body into one contiguous buffer and writes it in as
// few Write calls as the underlying Stream allows, honoring ctx's
// deadline. header.BodySize is computed from body and does not need to be
// set by the caller.
func (f *framer) SendFrame(ctx context.Context, deviceIdx uint32, body Body) error {
	bodySize := body.calcBodySize()
	hdr := Header{DeviceIdx: deviceIdx, MessageType: body.msgType(), BodySize: bodySize}

	w := NewWriter(headerSize + int(bodySize))
	hdr.Encode(w)
	body.encodeBody(w)
	buf := w.Bytes()

	if dl, ok := ctx.Deadline(); ok {
		f.stream.SetWriteDeadline(dl)
	} else {
		f.stream.SetWriteDeadline(time.Time{})
	}

	for len(buf) > 0 {
		n, err := f.stream.Write(buf)
		if err != nil {
			return classifyIOError(err)
		}
		buf = buf[n:]
	}
	return nil
}

// RecvFrame reads exactly one frame: a 16-byte header, then body_size
// bytes of body, decoded according to fl. The read loop always passes
// flowReply, since every inbound frame after the handshake is either a
// reply or a server-initiated notification, never a request.
func (f *framer) RecvFrame(ctx context.Context, fl flow) (Message, error) {
	if dl, ok := ctx.Deadline(); ok {
		f.stream.SetReadDeadline(dl)
	} else {
		f.stream.SetReadDeadline(time.Time{})
	}

	headerBuf := make([]byte, headerSize)
	if err := readFull(f.stream, headerBuf); err != nil {
		return Message{}, err
	}
	hdr, err := DecodeHeader(NewReader(headerBuf))
	if err != nil {
		return Message{}, err
	}
	if hdr.BodySize > f.maxFrameSize {
		return Message{}, fmt.Errorf("%w: %d > %d", ErrOverSized, hdr.BodySize, f.maxFrameSize)
	}

	bodyBuf := make([]byte, hdr.BodySize)
	if err := readFull(f.stream, bodyBuf); err != nil {
		return Message{}, err
	}

	body, err := newBody(hdr.MessageType, fl)
	if err != nil {
		return Message{}, err
	}
	if err := body.decodeBody(NewReader(bodyBuf)); err != nil {
		return Message{}, err
	}
	return Message{Header: hdr, Body: body}, nil
}

// readFull reads exactly len(buf) bytes from s, translating EOF, reset,
// and deadline errors into the package's sentinel errors.
func readFull(s Stream, buf []byte) error {
	_, err := io.ReadFull(readerFunc(s.Read), buf)
	if err != nil {
		return classifyIOError(err)
	}
	return nil
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(b []byte) (int, error) { return f(b) }

// classifyIOError maps a raw net/io error to one of this package's
// sentinel errors, so callers can errors.Is against ErrTimeout or
// ErrDisconnected regardless of which concrete Stream implementation is
// in play.
func classifyIOError(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrDisconnected, err)
	}
	return fmt.Errorf("%w: %v", ErrDisconnected, err)
}

// isCleanEOF reports whether err is exactly io.EOF (stream closed before
// any byte of the next frame arrived), as opposed to a short/aborted read
// mid-frame (io.ErrUnexpectedEOF) or any other transport failure. The
// handshake uses this distinction to decide whether a legacy daemon
// closed the connection instead of answering, versus a genuinely broken
// transport.
func isCleanEOF(err error) bool {
	return errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF)
}

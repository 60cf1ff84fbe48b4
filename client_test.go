package orgb

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeDaemon runs the server side of a net.Pipe connection: it answers the
// protocol-version handshake and then dispatches each inbound request to
// handle, which is responsible for sending (or not sending) a reply.
func fakeDaemon(t *testing.T, server net.Conn, serverVersion uint32, handle func(fr *framer, msg Message)) {
	t.Helper()
	fr := newFramer(server, defaultMaxFrameSize)
	go func() {
		req, err := fr.RecvFrame(context.Background(), flowRequest)
		if err != nil {
			return
		}
		_ = fr.SendFrame(context.Background(), 0, &ReplyProtocolVersion{ServerVersion: serverVersion})
		_ = req
		for {
			msg, err := fr.RecvFrame(context.Background(), flowRequest)
			if err != nil {
				return
			}
			handle(fr, msg)
		}
	}()
}

func testConnect(t *testing.T, handle func(fr *framer, msg Message)) (*Client, net.Conn) {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	fakeDaemon(t, serverConn, 1, handle)

	o := defaultOptions()
	o.logger = NewNoopLogger()
	c, err := connectStream(context.Background(), clientConn, o)
	require.NoError(t, err)
	return c, serverConn
}

func TestConnectNegotiatesVersion(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c, _ := testConnect(t, func(fr *framer, msg Message) {})
	defer c.Close()

	assert.Equal(t, uint32(1), c.NegotiatedVersion())
	assert.Equal(t, StateConnected, c.State())
}

func TestConnectLegacyDaemonClosesBeforeReply(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	clientConn, serverConn := net.Pipe()
	go func() {
		fr := newFramer(serverConn, defaultMaxFrameSize)
		_, _ = fr.RecvFrame(context.Background(), flowRequest)
		serverConn.Close() // legacy daemon: never answers, just hangs up
	}()

	o := defaultOptions()
	o.logger = NewNoopLogger()
	c, err := connectStream(context.Background(), clientConn, o)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, uint32(0), c.NegotiatedVersion())
}

func TestConnectHandshakeTimeout(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	clientConn, serverConn := net.Pipe()
	defer serverConn.Close()

	o := defaultOptions()
	o.logger = NewNoopLogger()
	o.handshakeTimeout = 50 * time.Millisecond
	_, err := connectStream(context.Background(), clientConn, o)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestRequestControllerCountRoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c, _ := testConnect(t, func(fr *framer, msg Message) {
		if msg.Header.MessageType == MsgRequestControllerCount {
			_ = fr.SendFrame(context.Background(), 0, &ReplyControllerCount{Count: 3})
		}
	})
	defer c.Close()

	n, err := c.RequestControllerCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint32(3), n)
}

func TestRequestControllerDataRoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dev := buildTestDevice()
	c, _ := testConnect(t, func(fr *framer, msg Message) {
		if msg.Header.MessageType == MsgRequestControllerData {
			_ = fr.SendFrame(context.Background(), 0, &ReplyControllerData{Device: dev})
		}
	})
	defer c.Close()

	got, err := c.RequestControllerData(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, dev, *got)
}

// TestFIFOCorrelationSameType checks that two requests sharing the same
// message type are matched to replies in send order: the fake daemon
// numbers its replies in the order the requests reach it.
func TestFIFOCorrelationSameType(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var seen int
	c, _ := testConnect(t, func(fr *framer, msg Message) {
		seen++
		_ = fr.SendFrame(context.Background(), 0, &ReplyControllerCount{Count: uint32(seen)})
	})
	defer c.Close()

	type result struct {
		n   uint32
		err error
	}
	r1 := make(chan result, 1)
	r2 := make(chan result, 1)

	go func() {
		n, err := c.RequestControllerCount(context.Background())
		r1 <- result{n, err}
	}()
	// Give the first request a head start so ordering is deterministic.
	time.Sleep(20 * time.Millisecond)
	go func() {
		n, err := c.RequestControllerCount(context.Background())
		r2 <- result{n, err}
	}()

	res1 := <-r1
	res2 := <-r2
	require.NoError(t, res1.err)
	require.NoError(t, res2.err)
	assert.Equal(t, uint32(1), res1.n)
	assert.Equal(t, uint32(2), res2.n)
}

func TestNotificationBypassesQueue(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c, server := testConnect(t, func(fr *framer, msg Message) {})
	defer c.Close()

	fr := newFramer(server, defaultMaxFrameSize)
	go func() {
		_ = fr.SendFrame(context.Background(), 7, &DeviceListUpdated{})
	}()

	n, err := c.PollNotifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MsgDeviceListUpdated, n.Type)
	assert.Equal(t, uint32(7), n.DeviceIdx)
}

func TestUnexpectedMessageBreaksConnection(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c, server := testConnect(t, func(fr *framer, msg Message) {})
	defer c.Close()

	// Nothing is pending client-side yet, so this reply matches no queue
	// entry and must fail the connection.
	fr := newFramer(server, defaultMaxFrameSize)
	require.NoError(t, fr.SendFrame(context.Background(), 0, &ReplyControllerCount{Count: 1}))

	require.Eventually(t, func() bool {
		return c.State() == StateDisconnected
	}, time.Second, 10*time.Millisecond)
}

func TestRequestTimeoutCancelsPendingEntry(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c, _ := testConnect(t, func(fr *framer, msg Message) {
		// Never reply.
	})
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := c.RequestControllerCount(ctx)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestCloseIsIdempotentAndUnblocksReadLoop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c, _ := testConnect(t, func(fr *framer, msg Message) {})
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, StateDisconnected, c.State())
}

func TestSendOnlyCommandsRequireConnection(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c, _ := testConnect(t, func(fr *framer, msg Message) {})
	require.NoError(t, c.Close())

	err := c.UpdateLEDs(context.Background(), 0, []Color{RGB(1, 1, 1)})
	assert.ErrorIs(t, err, ErrNotConnected)
}

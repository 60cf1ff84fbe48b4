package orgb

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramerSendRecvRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	clientFr := newFramer(client, defaultMaxFrameSize)
	serverFr := newFramer(server, defaultMaxFrameSize)

	go func() {
		_ = clientFr.SendFrame(context.Background(), 5, &RequestControllerCount{})
	}()

	msg, err := serverFr.RecvFrame(context.Background(), flowRequest)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), msg.Header.DeviceIdx)
	assert.Equal(t, MsgRequestControllerCount, msg.Header.MessageType)
	assert.Equal(t, uint32(0), msg.Header.BodySize)
}

func TestFramerRejectsOversizedFrame(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	clientFr := newFramer(client, 8) // tiny cap
	serverFr := newFramer(server, 8)

	go func() {
		_ = clientFr.SendFrame(context.Background(), 0, &SetClientName{Name: "a longer name than the cap allows"})
	}()

	_, err := serverFr.RecvFrame(context.Background(), flowRequest)
	assert.ErrorIs(t, err, ErrOverSized)
}

func TestFramerReadDeadlineTimesOut(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	serverFr := newFramer(server, defaultMaxFrameSize)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := serverFr.RecvFrame(ctx, flowRequest)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestIsCleanEOFDistinguishesFromPartialRead(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	serverFr := newFramer(server, defaultMaxFrameSize)
	client.Close() // closes before any byte is sent: a clean EOF

	_, err := serverFr.RecvFrame(context.Background(), flowRequest)
	assert.True(t, isCleanEOF(err))
}

func TestIsCleanEOFFalseOnMidFrameClose(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	serverFr := newFramer(server, defaultMaxFrameSize)
	go func() {
		// write a partial header, then hang up mid-frame
		_, _ = client.Write([]byte{'O', 'R'})
		client.Close()
	}()

	_, err := serverFr.RecvFrame(context.Background(), flowRequest)
	require.Error(t, err)
	assert.False(t, isCleanEOF(err))
}

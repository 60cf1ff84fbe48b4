package orgb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/tomb.v2"
)

// ImplementedProtocolVersion is the only process-wide immutable value this
// package carries: the OpenRGB protocol version this client speaks.
// Connect negotiates min(client, server) against whatever the daemon
// reports.
const ImplementedProtocolVersion = 1

// connState is the client's connection lifecycle, a direct realization of
// the four states the protocol design calls for. A hand-rolled enum
// rather than a generic FSM framework: four states and the transitions
// below are the whole state space, and a table would only obscure that.
type connState int32

const (
	StateDisconnected connState = iota
	StateConnecting
	StateConnected
	StateClosing
)

func (s connState) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateClosing:
		return "Closing"
	default:
		return fmt.Sprintf("connState(%d)", int32(s))
	}
}

// clientOptions holds every knob Option can set, all defaulted so
// Connect(ctx, host, port) alone is a valid call.
type clientOptions struct {
	handshakeTimeout time.Duration
	requestTimeout   time.Duration
	maxFrameSize     uint32
	clientName       string
	logger           Logger
	metricsReg       prometheus.Registerer
}

func defaultOptions() clientOptions {
	return clientOptions{
		handshakeTimeout: 3 * time.Second,
		requestTimeout:   5 * time.Second,
		maxFrameSize:     defaultMaxFrameSize,
		logger:           NewLogrusLogger(nil),
	}
}

// Option configures a Client at construction time. There is no config
// file and no environment variable lookup; every knob is set explicitly
// through these functions, the same shape the teacher SDK uses for its
// own DeviceOption values.
type Option func(*clientOptions)

// WithHandshakeTimeout bounds the initial protocol-version exchange.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.handshakeTimeout = d }
}

// WithRequestTimeout sets the default deadline used by commands.go's
// per-operation wrappers when the caller's context carries no deadline
// of its own.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.requestTimeout = d }
}

// WithMaxFrameSize overrides the 16 MiB default cap on a single frame's
// body_size.
func WithMaxFrameSize(n uint32) Option {
	return func(o *clientOptions) { o.maxFrameSize = n }
}

// WithClientName causes Connect to send SetClientName immediately after
// the protocol-version handshake.
func WithClientName(name string) Option {
	return func(o *clientOptions) { o.clientName = name }
}

// WithLogger overrides the default logrus-backed Logger.
func WithLogger(l Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// WithMetrics registers this client's Prometheus collectors against reg.
// Without this option a Client carries no metrics and performs no
// Prometheus calls at all.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *clientOptions) { o.metricsReg = reg }
}

// pendingEntry is one outstanding expectation of a reply. Entries live in
// Client.pending in send order. A reply is matched to the first entry
// (cancelled or not) whose msgType equals the inbound frame's type; a
// cancelled entry is then discarded rather than delivered, but its
// removal from the queue still happens at match time, preserving FIFO
// order for entries of the same type queued behind it. cancelled is only
// ever read or written while c.mu is held, since a timing cancel() and
// the read loop's delivery decision can race on it otherwise.
type pendingEntry struct {
	msgType   MessageType
	replyCh   chan pendingResult
	cancelled bool
}

type pendingResult struct {
	body Body
	err  error
}

// Client is a connection to one OpenRGB daemon. A Client is safe for one
// goroutine to drive the read side (PollNotifications, the replies to its
// own requests) while another issues requests, but callers issuing
// multiple requests concurrently must serialize those calls themselves;
// the Client only guarantees that an individual SendFrame/RecvFrame and
// the pending-reply queue are internally atomic.
type Client struct {
	opts    clientOptions
	traceID string
	metrics *metrics

	mu                sync.Mutex
	state             connState
	stream            Stream
	framer            *framer
	pending           []*pendingEntry
	negotiatedVersion uint32

	writeMu sync.Mutex

	notifyCh chan Notification
	t        tomb.Tomb
}

// Connect dials host:port, performs the protocol-version handshake, and
// starts the background read loop. The returned Client is in
// StateConnected.
func Connect(ctx context.Context, host string, port int, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	stream, err := dialTCP(ctx, host, port)
	if err != nil {
		return nil, err
	}

	c, err := connectStream(ctx, stream, o)
	if err != nil {
		return nil, err
	}
	o.logger.Info("connected", "trace_id", c.traceID, "host", host, "port", port,
		"negotiated_version", c.negotiatedVersion)
	return c, nil
}

// connectStream drives the handshake and starts the read loop over an
// already-open Stream. Connect uses this over a dialed net.Conn; tests use
// it directly over a net.Pipe to fake a daemon without touching the
// network.
func connectStream(ctx context.Context, stream Stream, o clientOptions) (*Client, error) {
	c := &Client{
		opts:     o,
		traceID:  newTraceID(),
		state:    StateConnecting,
		stream:   stream,
		framer:   newFramer(stream, o.maxFrameSize),
		notifyCh: make(chan Notification, 32),
	}
	if o.metricsReg != nil {
		c.metrics = newMetrics(o.metricsReg)
	}
	c.metrics.setState(StateConnecting)

	if err := c.handshake(ctx); err != nil {
		stream.Close()
		c.metrics.setState(StateDisconnected)
		return nil, err
	}

	c.t.Go(c.readLoop)

	c.mu.Lock()
	c.state = StateConnected
	c.mu.Unlock()
	c.metrics.setState(StateConnected)
	return c, nil
}

// handshake runs the 3-phase exchange described in the component design:
// send RequestProtocolVersion, then either read ReplyProtocolVersion and
// negotiate min(client, server), or — only on a clean stream-closed
// signal, never a generic read error — fall back to negotiatedVersion=0
// for a legacy daemon. SetClientName follows if WithClientName was used.
func (c *Client) handshake(ctx context.Context) error {
	hctx := ctx
	if c.opts.handshakeTimeout > 0 {
		var cancel context.CancelFunc
		hctx, cancel = context.WithTimeout(ctx, c.opts.handshakeTimeout)
		defer cancel()
	}

	req := &RequestProtocolVersion{ClientVersion: ImplementedProtocolVersion}
	if err := c.framer.SendFrame(hctx, 0, req); err != nil {
		return err
	}

	msg, err := c.framer.RecvFrame(hctx, flowReply)
	if err != nil {
		if isCleanEOF(err) {
			c.negotiatedVersion = 0
			c.opts.logger.Info("legacy daemon: no protocol version reply, proceeding", "trace_id", c.traceID)
			return c.sendClientName(ctx)
		}
		return err
	}
	if msg.Header.MessageType != MsgRequestProtocolVersion {
		return fmt.Errorf("%w: expected protocol version reply, got %s", ErrUnexpectedMessage, msg.Header.MessageType)
	}
	reply, ok := msg.Body.(*ReplyProtocolVersion)
	if !ok {
		return fmt.Errorf("%w: malformed protocol version reply", ErrMalformed)
	}
	c.negotiatedVersion = reply.ServerVersion
	if ImplementedProtocolVersion < c.negotiatedVersion {
		c.negotiatedVersion = ImplementedProtocolVersion
	}
	return c.sendClientName(ctx)
}

func (c *Client) sendClientName(ctx context.Context) error {
	if c.opts.clientName == "" {
		return nil
	}
	return c.framer.SendFrame(ctx, 0, &SetClientName{Name: c.opts.clientName})
}

// readLoop is the Client's single reader: it owns all calls to
// framer.RecvFrame after the handshake completes, dispatching each
// inbound frame either to the notification channel or to the first
// matching pending-reply entry. It runs until the tomb is killed or a
// transport/protocol error breaks the connection.
func (c *Client) readLoop() error {
	for {
		select {
		case <-c.t.Dying():
			return nil
		default:
		}

		msg, err := c.framer.RecvFrame(context.Background(), flowReply)
		if err != nil {
			c.breakConnection(err)
			return err
		}
		c.metrics.recordReceived()

		if msg.Header.MessageType == MsgDeviceListUpdated {
			c.deliverNotification(Notification{Type: msg.Header.MessageType, DeviceIdx: msg.Header.DeviceIdx})
			continue
		}

		entry, cancelled := c.matchPending(msg.Header.MessageType)
		if entry == nil {
			err := fmt.Errorf("%w: %s", ErrUnexpectedMessage, msg.Header.MessageType)
			c.breakConnection(err)
			return err
		}
		if !cancelled {
			entry.replyCh <- pendingResult{body: msg.Body}
		}
	}
}

// matchPending scans the pending queue front-to-back for the first entry
// (cancelled or not) whose msgType equals t, removes it, and returns it
// along with its cancelled flag, both read under c.mu so a concurrent
// cancel() can never race with the decision to deliver or drop. Returns a
// nil entry if no entry matches.
func (c *Client) matchPending(t MessageType) (*pendingEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.pending {
		if e.msgType == t {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return e, e.cancelled
		}
	}
	return nil, false
}

func (c *Client) deliverNotification(n Notification) {
	select {
	case c.notifyCh <- n:
	default:
		c.opts.logger.Error("notification channel full, dropping DeviceListUpdated", "trace_id", c.traceID)
	}
}

// breakConnection moves the connection through StateClosing to
// StateDisconnected: it closes the stream, fails the oldest still-pending,
// non-cancelled entry with err and every other one with ErrDisconnected.
// Called once, from readLoop's exit path.
func (c *Client) breakConnection(err error) {
	c.mu.Lock()
	c.state = StateClosing
	pending := c.pending
	c.pending = nil
	live := make([]*pendingEntry, 0, len(pending))
	for _, e := range pending {
		if !e.cancelled {
			live = append(live, e)
		}
	}
	c.mu.Unlock()
	c.metrics.setState(StateClosing)
	c.stream.Close()

	for i, e := range live {
		if i == 0 {
			e.replyCh <- pendingResult{err: err}
		} else {
			e.replyCh <- pendingResult{err: fmt.Errorf("%w: %v", ErrDisconnected, err)}
		}
	}
	c.mu.Lock()
	c.state = StateDisconnected
	c.mu.Unlock()
	c.metrics.setState(StateDisconnected)
	c.opts.logger.Error("connection broken", "trace_id", c.traceID, "error", err)
}

// enqueue registers a pending reply expectation of type t and returns it.
// Returns ErrNotConnected if the client isn't currently connected.
func (c *Client) enqueue(t MessageType) (*pendingEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConnected {
		return nil, ErrNotConnected
	}
	e := &pendingEntry{msgType: t, replyCh: make(chan pendingResult, 1)}
	c.pending = append(c.pending, e)
	return e, nil
}

// cancel marks e cancelled in place rather than removing it from the
// queue, preserving FIFO position for any same-type entries still behind
// it.
func (c *Client) cancel(e *pendingEntry) {
	c.mu.Lock()
	e.cancelled = true
	c.mu.Unlock()
}

// doRequest sends reqBody addressed to deviceIdx and waits for the first
// reply whose type matches expectType, or ctx's deadline, whichever comes
// first. A deadline firing cancels (not removes) the pending entry.
func (c *Client) doRequest(ctx context.Context, deviceIdx uint32, reqBody Body, expectType MessageType) (Body, error) {
	entry, err := c.enqueue(expectType)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	c.writeMu.Lock()
	err = c.framer.SendFrame(ctx, deviceIdx, reqBody)
	c.writeMu.Unlock()
	if err != nil {
		c.cancel(entry)
		return nil, err
	}
	c.metrics.recordSent()

	select {
	case res := <-entry.replyCh:
		c.metrics.observeRequest(expectType, time.Since(start).Seconds())
		return res.body, res.err
	case <-ctx.Done():
		c.cancel(entry)
		return nil, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	case <-c.t.Dying():
		return nil, ErrDisconnected
	}
}

// sendOnly sends body addressed to deviceIdx without registering a
// pending-reply expectation, for the messages in the wire table that
// never carry a reply.
func (c *Client) sendOnly(ctx context.Context, deviceIdx uint32, body Body) error {
	c.mu.Lock()
	connected := c.state == StateConnected
	c.mu.Unlock()
	if !connected {
		return ErrNotConnected
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	err := c.framer.SendFrame(ctx, deviceIdx, body)
	if err == nil {
		c.metrics.recordSent()
	}
	return err
}

// PollNotifications blocks until a server-initiated notification
// arrives, ctx is done, or the connection is closed. Callers that want a
// dedicated notification loop for the lifetime of the connection should
// pass context.Background() and call this in its own goroutine.
func (c *Client) PollNotifications(ctx context.Context) (Notification, error) {
	select {
	case n := <-c.notifyCh:
		return n, nil
	case <-ctx.Done():
		return Notification{}, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	case <-c.t.Dying():
		return Notification{}, ErrDisconnected
	}
}

// Close shuts the connection down: it stops the read loop, closes the
// underlying stream, and waits for the read loop goroutine to exit. Close
// is idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.state == StateDisconnected || c.state == StateClosing {
		c.mu.Unlock()
		return nil
	}
	c.state = StateClosing
	c.mu.Unlock()
	c.metrics.setState(StateClosing)

	c.t.Kill(nil)
	c.stream.Close()
	_ = c.t.Wait()

	c.mu.Lock()
	c.state = StateDisconnected
	pending := c.pending
	c.pending = nil
	live := make([]*pendingEntry, 0, len(pending))
	for _, e := range pending {
		if !e.cancelled {
			live = append(live, e)
		}
	}
	c.mu.Unlock()
	for _, e := range live {
		e.replyCh <- pendingResult{err: ErrDisconnected}
	}

	c.metrics.setState(StateDisconnected)
	c.opts.logger.Info("closed", "trace_id", c.traceID)
	return nil
}

// NegotiatedVersion returns the protocol version agreed during the
// handshake (0 for a legacy daemon that closed the connection instead of
// replying).
func (c *Client) NegotiatedVersion() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.negotiatedVersion
}

// State returns the client's current connection state.
func (c *Client) State() connState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

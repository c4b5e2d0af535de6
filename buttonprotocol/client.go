package buttonprotocol

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// Config identifies the sensor endpoint a client connects to.
type Config struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DefaultConfig returns the loopback endpoint on DefaultPort.
func DefaultConfig() Config {
	return Config{Host: DefaultHost, Port: DefaultPort}
}

// Address returns the host:port dial address.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate checks that the config names a dialable endpoint.
func (c Config) Validate() error {
	if c.Host == "" {
		return ErrEmptyHost
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}
	return nil
}

// Consumer receives everything the read loop produces. Methods are called
// sequentially from the goroutine running the loop.
type Consumer interface {
	// OnEvent is called for every line that decodes as a frame.
	OnEvent(event ButtonEvent, raw string)
	// OnUnmatched is called for every line that is not a frame.
	OnUnmatched(line string)
	// OnReadError is called for every failed read. The loop keeps going.
	OnReadError(err error)
	// OnClosed is called once when the loop ends.
	OnClosed()
}

// ConnectObserver is an optional Consumer extension notified once the
// connection is established, before the first read.
type ConnectObserver interface {
	OnConnected(address string)
}

// ConsumerFuncs adapts plain functions to Consumer and ConnectObserver.
// Nil fields are skipped.
type ConsumerFuncs struct {
	Connected func(address string)
	Event     func(event ButtonEvent, raw string)
	Unmatched func(line string)
	ReadError func(err error)
	Closed    func()
}

var (
	_ Consumer        = ConsumerFuncs{}
	_ ConnectObserver = ConsumerFuncs{}
)

func (f ConsumerFuncs) OnConnected(address string) {
	if f.Connected != nil {
		f.Connected(address)
	}
}

func (f ConsumerFuncs) OnEvent(event ButtonEvent, raw string) {
	if f.Event != nil {
		f.Event(event, raw)
	}
}

func (f ConsumerFuncs) OnUnmatched(line string) {
	if f.Unmatched != nil {
		f.Unmatched(line)
	}
}

func (f ConsumerFuncs) OnReadError(err error) {
	if f.ReadError != nil {
		f.ReadError(err)
	}
}

func (f ConsumerFuncs) OnClosed() {
	if f.Closed != nil {
		f.Closed()
	}
}

// DialFunc opens the stream to a sensor endpoint.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the diagnostics logger. The default discards everything.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.Named("client")
		}
	}
}

// WithDialer replaces the TCP dialer.
func WithDialer(dial DialFunc) Option {
	return func(c *Client) {
		if dial != nil {
			c.dial = dial
		}
	}
}

// Client runs the read loop for one connection. It owns the connection and
// the LineReader over it; a Client is used for a single Run.
type Client struct {
	config   Config
	consumer Consumer
	logger   *zap.SugaredLogger
	dial     DialFunc

	mu      sync.Mutex
	conn    net.Conn
	closing bool
}

// NewClient creates a client for the endpoint in config.
func NewClient(config Config, consumer Consumer, opts ...Option) *Client {
	var d net.Dialer
	c := &Client{
		config:   config,
		consumer: consumer,
		logger:   zap.NewNop().Sugar(),
		dial:     d.DialContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run connects and reads until the peer closes the stream or Close is
// called. A failed connection is returned as a *ConnectionError; read
// errors are reported to the consumer and never end the loop.
//
// ctx bounds dialing only. Once connected, the loop is stopped by the peer
// or by Close.
func (c *Client) Run(ctx context.Context) error {
	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	if conn == nil {
		// Closed while dialing.
		c.consumer.OnClosed()
		return nil
	}
	defer conn.Close()

	c.readLoop(NewLineReader(conn))
	c.logger.Infow("Connection terminated", "address", c.config.Address())
	return nil
}

// Close stops the loop by closing the connection. The loop then exits
// normally instead of treating the resulting read error as retryable.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closing {
		return nil
	}
	c.closing = true

	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) isClosing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closing
}

func (c *Client) connect(ctx context.Context) (net.Conn, error) {
	address := c.config.Address()
	if err := c.config.Validate(); err != nil {
		return nil, NewConnectionError(address, "invalid endpoint", err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, ConnectionTimeout)
	defer cancel()

	c.logger.Debugw("Dialing sensor endpoint", "address", address)
	conn, err := c.dial(dialCtx, "tcp", address)
	if err != nil {
		c.logger.Warnw("Failed to connect", "address", address, "error", err)
		return nil, NewConnectionError(address, "dial", err)
	}

	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		conn.Close()
		return nil, nil
	}
	c.conn = conn
	c.mu.Unlock()

	c.logger.Infow("Connected to sensor endpoint", "address", address)
	if observer, ok := c.consumer.(ConnectObserver); ok {
		observer.OnConnected(address)
	}
	return conn, nil
}

// readLoop drives Reader -> Decoder -> Consumer until the stream ends.
func (c *Client) readLoop(reader *LineReader) {
	for {
		result := reader.NextLine()

		switch result.Kind {
		case LineText:
			decoded := Decode(result.Text)
			if decoded.Matched {
				c.consumer.OnEvent(decoded.Event, result.Text)
			} else {
				c.logger.Debugw("Unmatched line", "line", result.Text)
				c.consumer.OnUnmatched(result.Text)
			}

		case LineEndOfStream:
			c.logger.Infow("Data is closed", "address", c.config.Address())
			c.consumer.OnClosed()
			return

		case LineIOError:
			if c.isClosing() {
				c.logger.Debugw("Read loop stopped by Close", "address", c.config.Address())
				c.consumer.OnClosed()
				return
			}
			c.logger.Warnw("Read failed", "address", c.config.Address(), "error", result.Err)
			c.consumer.OnReadError(result.Err)
		}
	}
}

// Run connects to the endpoint in config and runs the read loop on the
// calling goroutine. See Client.Run.
func Run(ctx context.Context, config Config, consumer Consumer, opts ...Option) error {
	return NewClient(config, consumer, opts...).Run(ctx)
}

// Session is a read loop running on its own goroutine.
type Session struct {
	client *Client
	done   chan struct{}
	err    error
}

// Start runs a new Client on its own goroutine and returns immediately.
func Start(ctx context.Context, config Config, consumer Consumer, opts ...Option) *Session {
	s := &Session{
		client: NewClient(config, consumer, opts...),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		s.err = s.client.Run(ctx)
	}()
	return s
}

// Done is closed when the session's loop has ended.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the loop ends and returns its error, which is nil for
// a clean end of stream and a *ConnectionError when dialing failed.
func (s *Session) Wait() error {
	<-s.done
	return s.err
}

// Err returns the session's error once Done is closed, and nil before.
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Close stops the session. It does not wait; use Wait for that.
func (s *Session) Close() error {
	return s.client.Close()
}

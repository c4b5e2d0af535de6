// =============================================================================
// server.go - Simulated Sensor Endpoint
// =============================================================================
//
// broadcaster accepts TCP clients on the loopback address, greets each one
// and fans every broadcast line out to all of them. Clients never send
// anything meaningful; their side of the stream is drained only to notice
// when they hang up.
//
// =============================================================================

package main

import (
	"io"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/stesel/hardware-tcp/buttonprotocol"
)

type broadcaster struct {
	// listener accepts client connections.
	listener net.Listener

	// greeting is sent as the first line to every new client. Empty
	// disables it.
	greeting string

	logger *zap.SugaredLogger

	// mu protects clients.
	mu sync.Mutex

	// clients holds every connected client.
	clients map[net.Conn]struct{}

	// closed is set by Close so late accepts are turned away.
	closed bool

	// wg tracks all goroutines spawned by the broadcaster.
	wg sync.WaitGroup
}

// listen starts a broadcaster on address.
func listen(address, greeting string, logger *zap.SugaredLogger) (*broadcaster, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}

	b := &broadcaster{
		listener: listener,
		greeting: greeting,
		logger:   logger.Named("server"),
		clients:  make(map[net.Conn]struct{}),
	}

	b.wg.Add(1)
	go b.acceptLoop()

	return b, nil
}

// Addr returns the listening address.
func (b *broadcaster) Addr() net.Addr {
	return b.listener.Addr()
}

func (b *broadcaster) acceptLoop() {
	defer b.wg.Done()

	for {
		conn, err := b.listener.Accept()
		if err != nil {
			// Listener closed.
			return
		}

		if b.greeting != "" {
			if _, err := io.WriteString(conn, b.greeting+buttonprotocol.LineTerminator); err != nil {
				b.logger.Warnw("Failed to greet client", "remote", conn.RemoteAddr(), "error", err)
				conn.Close()
				continue
			}
		}

		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			conn.Close()
			return
		}
		b.clients[conn] = struct{}{}
		b.mu.Unlock()
		b.logger.Infow("Client connected", "remote", conn.RemoteAddr())

		b.wg.Add(1)
		go b.drain(conn)
	}
}

// drain discards client input until the client hangs up, then forgets it.
func (b *broadcaster) drain(conn net.Conn) {
	defer b.wg.Done()

	io.Copy(io.Discard, conn)
	if b.remove(conn) {
		b.logger.Infow("Client disconnected", "remote", conn.RemoteAddr())
	}
}

// remove closes and forgets conn, reporting whether it was still known.
func (b *broadcaster) remove(conn net.Conn) bool {
	b.mu.Lock()
	_, ok := b.clients[conn]
	delete(b.clients, conn)
	b.mu.Unlock()

	conn.Close()
	return ok
}

// Broadcast writes line plus the protocol terminator to every client and
// returns how many received it. Clients that fail the write are dropped.
func (b *broadcaster) Broadcast(line string) int {
	payload := []byte(line + buttonprotocol.LineTerminator)

	b.mu.Lock()
	conns := make([]net.Conn, 0, len(b.clients))
	for conn := range b.clients {
		conns = append(conns, conn)
	}
	b.mu.Unlock()

	delivered := 0
	for _, conn := range conns {
		if _, err := conn.Write(payload); err != nil {
			b.logger.Warnw("Dropping client after failed write", "remote", conn.RemoteAddr(), "error", err)
			b.remove(conn)
			continue
		}
		delivered++
	}

	b.logger.Debugw("Broadcast", "line", line, "clients", delivered)
	return delivered
}

// ClientCount returns the number of connected clients.
func (b *broadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Close stops accepting, disconnects every client and waits for the
// broadcaster's goroutines to finish.
func (b *broadcaster) Close() error {
	err := b.listener.Close()

	b.mu.Lock()
	b.closed = true
	for conn := range b.clients {
		conn.Close()
	}
	b.clients = make(map[net.Conn]struct{})
	b.mu.Unlock()

	b.wg.Wait()
	return err
}

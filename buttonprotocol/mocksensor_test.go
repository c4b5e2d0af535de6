package buttonprotocol

import (
	"net"
	"sync"
	"testing"
	"time"
)

// mockSensor is a loopback TCP listener standing in for a sensor endpoint.
// Tests pull accepted connections with nextConn and write frames to them.
type mockSensor struct {
	listener net.Listener

	// accepted delivers each client connection to the test.
	accepted chan net.Conn

	// mu protects connections.
	mu sync.Mutex

	// connections tracks every accepted connection for cleanup.
	connections []net.Conn

	wg sync.WaitGroup
}

func startMockSensor(t *testing.T) *mockSensor {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create mock sensor listener: %v", err)
	}

	ms := &mockSensor{
		listener: listener,
		accepted: make(chan net.Conn, 8),
	}

	ms.wg.Add(1)
	go ms.acceptLoop()

	t.Cleanup(ms.stop)
	return ms
}

func (ms *mockSensor) acceptLoop() {
	defer ms.wg.Done()

	for {
		conn, err := ms.listener.Accept()
		if err != nil {
			return
		}

		ms.mu.Lock()
		ms.connections = append(ms.connections, conn)
		ms.mu.Unlock()

		ms.accepted <- conn
	}
}

// config returns a client Config pointing at the mock sensor.
func (ms *mockSensor) config() Config {
	addr := ms.listener.Addr().(*net.TCPAddr)
	return Config{Host: DefaultHost, Port: addr.Port}
}

// nextConn waits for the next client to connect.
func (ms *mockSensor) nextConn(t *testing.T) net.Conn {
	t.Helper()

	select {
	case conn := <-ms.accepted:
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for client connection")
		return nil
	}
}

func (ms *mockSensor) stop() {
	ms.listener.Close()

	ms.mu.Lock()
	for _, conn := range ms.connections {
		conn.Close()
	}
	ms.connections = nil
	ms.mu.Unlock()

	ms.wg.Wait()
}

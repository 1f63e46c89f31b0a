//go:build zmq
// +build zmq

package stream

import (
	"fmt"
	"sync"
	"syscall"

	zmq "github.com/pebbe/zmq4"
)

// ZMQTransport publishes events over a ZeroMQ PUB socket. Requires libzmq
// at build time, so it sits behind the zmq build tag.
type ZMQTransport struct {
	mu   sync.Mutex
	sock *zmq.Socket
}

// NewZMQTransport binds a PUB socket to addr, e.g. "tcp://*:9302".
func NewZMQTransport(addr string) (*ZMQTransport, error) {
	sock, err := zmq.NewSocket(zmq.PUB)
	if err != nil {
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}

	if err := sock.Bind(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("failed to bind PUB socket to %s: %w", addr, err)
	}

	return &ZMQTransport{sock: sock}, nil
}

func (t *ZMQTransport) Send(data []byte) error {
	// zmq sockets are not safe for concurrent use
	t.mu.Lock()
	defer t.mu.Unlock()

	_, err := t.sock.SendBytes(data, zmq.DONTWAIT)
	// EAGAIN with DONTWAIT means no subscriber buffer space; drop the event
	if err != nil && zmq.AsErrno(err) == zmq.Errno(syscall.EAGAIN) {
		return nil
	}
	return err
}

func (t *ZMQTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sock.Close()
}

func newZMQTransport(addr string) (Transport, error) {
	return NewZMQTransport(addr)
}

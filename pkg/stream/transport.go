package stream

import "fmt"

// Transport kinds selectable by configuration.
const (
	TransportMangos = "mangos"
	TransportZMQ    = "zmq"
)

// NewTransport builds the named publisher transport bound to addr. An empty
// kind selects mangos. The zmq transport needs libzmq and the zmq build tag;
// without it, selecting zmq fails at startup rather than silently degrading.
func NewTransport(kind, addr string) (Transport, error) {
	switch kind {
	case "", TransportMangos:
		return NewMangosTransport(addr)
	case TransportZMQ:
		return newZMQTransport(addr)
	default:
		return nil, fmt.Errorf("unknown stream transport %q", kind)
	}
}

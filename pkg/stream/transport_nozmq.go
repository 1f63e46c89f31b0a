//go:build !zmq
// +build !zmq

package stream

import "errors"

func newZMQTransport(addr string) (Transport, error) {
	return nil, errors.New("zmq transport requires building with -tags zmq")
}

package stream

import (
	"fmt"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"

	_ "go.nanomsg.org/mangos/v3/transport/all"
)

// MangosTransport publishes events over an NNG PUB socket (pure Go).
// Subscribers connect with any nanomsg-compatible SUB client.
type MangosTransport struct {
	sock mangos.Socket
}

// NewMangosTransport binds a PUB socket to addr, e.g. "tcp://0.0.0.0:9301".
func NewMangosTransport(addr string) (*MangosTransport, error) {
	sock, err := pub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}

	if err := sock.SetOption(mangos.OptionSendDeadline, time.Second); err != nil {
		sock.Close()
		return nil, fmt.Errorf("failed to set send deadline: %w", err)
	}

	if err := sock.Listen(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("failed to bind PUB socket to %s: %w", addr, err)
	}

	return &MangosTransport{sock: sock}, nil
}

func (t *MangosTransport) Send(data []byte) error {
	err := t.sock.Send(data)
	// No subscribers is not an error for PUB
	if err == mangos.ErrSendTimeout {
		return nil
	}
	return err
}

func (t *MangosTransport) Close() error {
	return t.sock.Close()
}

package stream

import "testing"

func TestNewTransport(t *testing.T) {
	tr, err := NewTransport(TransportMangos, "inproc://transport-select-test")
	if err != nil {
		t.Fatalf("NewTransport(mangos) failed: %v", err)
	}
	tr.Close()

	// Empty kind defaults to mangos
	tr, err = NewTransport("", "inproc://transport-default-test")
	if err != nil {
		t.Fatalf("NewTransport with empty kind failed: %v", err)
	}
	tr.Close()

	if _, err := NewTransport("carrier-pigeon", "inproc://x"); err == nil {
		t.Error("Expected unknown transport kind rejected")
	}
}

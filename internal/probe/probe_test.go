package probe

import (
	"context"
	"net"
	"net/netip"
	"testing"
	"time"
)

func TestConnect_DetectsOpenPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	addr := netip.MustParseAddrPort(ln.Addr().String())
	outcome := Connect(context.Background(), StdDialer(time.Second), addr, time.Second)

	if !outcome.Open {
		t.Errorf("expected open outcome for listening port")
	}
	if outcome.Addr != addr {
		t.Errorf("addr = %v, want %v", outcome.Addr, addr)
	}
}

func TestConnect_ClosedPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	addr := netip.MustParseAddrPort(ln.Addr().String())
	ln.Close()

	outcome := Connect(context.Background(), StdDialer(500*time.Millisecond), addr, 500*time.Millisecond)
	if outcome.Open {
		t.Errorf("expected unreachable outcome for closed port")
	}
}

func TestConnect_NeverLeaksOnError(t *testing.T) {
	// A dialer that always errors must never be asked to close anything;
	// Connect should not panic or retain any resource reference.
	d := &erroringDialer{}
	addr := netip.MustParseAddrPort("127.0.0.1:1")
	outcome := Connect(context.Background(), d, addr, 50*time.Millisecond)
	if outcome.Open {
		t.Error("expected unreachable outcome from erroring dialer")
	}
}

type erroringDialer struct{}

func (d *erroringDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return nil, context.DeadlineExceeded
}

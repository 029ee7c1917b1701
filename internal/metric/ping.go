package metric

import (
	"context"
	"errors"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

// protocolICMP is the IANA protocol number for ICMP over IPv4.
const protocolICMP = 1

const (
	// DefaultPingHost is a well-known anycast resolver that answers ICMP.
	DefaultPingHost = "8.8.8.8"
	// DefaultPingTimeout bounds how long one echo waits for its reply.
	DefaultPingTimeout = 100 * time.Millisecond
)

// PingProbe sends a single ICMP echo and reports 1 if the matching reply
// arrives before the timeout, 0 otherwise. It tries an unprivileged
// datagram socket first and falls back to a raw socket.
type PingProbe struct {
	Host    string
	Timeout time.Duration

	seq atomic.Uint32
}

// NewPingProbe creates a probe for host with the given reply timeout.
func NewPingProbe(host string, timeout time.Duration) *PingProbe {
	if host == "" {
		host = DefaultPingHost
	}
	if timeout <= 0 {
		timeout = DefaultPingTimeout
	}
	return &PingProbe{Host: host, Timeout: timeout}
}

// Sample pings once. A timeout is a normal "unreachable" answer; socket and
// resolution failures come back as *ProbeError.
func (p *PingProbe) Sample(ctx context.Context) (float64, error) {
	ok, err := p.Ping(ctx)
	if err != nil {
		return 0, err
	}
	if ok {
		return 1, nil
	}
	return 0, nil
}

// Ping sends one echo request and waits for its reply.
func (p *PingProbe) Ping(ctx context.Context) (bool, error) {
	ip, err := net.ResolveIPAddr("ip4", p.Host)
	if err != nil {
		return false, categorizeProbeError(p.Host, err)
	}

	conn, dst, err := listenICMP(ip)
	if err != nil {
		return false, categorizeProbeError(p.Host, err)
	}
	defer conn.Close()

	seq := int(p.seq.Add(1) & 0xffff)
	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   os.Getpid() & 0xffff,
			Seq:  seq,
			Data: []byte("pixelbar"),
		},
	}
	wb, err := msg.Marshal(nil)
	if err != nil {
		return false, categorizeProbeError(p.Host, err)
	}

	deadline := time.Now().Add(p.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return false, categorizeProbeError(p.Host, err)
	}

	if _, err := conn.WriteTo(wb, dst); err != nil {
		return false, categorizeProbeError(p.Host, err)
	}

	rb := make([]byte, 1500)
	for {
		n, _, err := conn.ReadFrom(rb)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return false, nil
			}
			return false, categorizeProbeError(p.Host, err)
		}

		reply, err := icmp.ParseMessage(protocolICMP, rb[:n])
		if err != nil {
			continue
		}
		if reply.Type != ipv4.ICMPTypeEchoReply {
			continue
		}
		// Unprivileged sockets get their ID rewritten by the kernel, so
		// only the sequence number is matched.
		if echo, ok := reply.Body.(*icmp.Echo); ok && echo.Seq == seq {
			return true, nil
		}
	}
}

// listenICMP opens an ICMP socket and returns the destination address in
// the form that socket type expects.
func listenICMP(ip *net.IPAddr) (*icmp.PacketConn, net.Addr, error) {
	conn, err := icmp.ListenPacket("udp4", "0.0.0.0")
	if err == nil {
		return conn, &net.UDPAddr{IP: ip.IP}, nil
	}

	raw, rawErr := icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	if rawErr != nil {
		return nil, nil, errors.Join(err, rawErr)
	}
	return raw, ip, nil
}

package hostinput

import (
	"context"
	"fmt"
	"net"

	"github.com/miekg/dns"
)

// Resolver is an injectable capability for turning a hostname into IP
// addresses. It is a capability, not a singleton — tests substitute a
// deterministic mock rather than hitting real DNS. ParseAddress falls back
// to DefaultResolver only when the caller passes nil.
type Resolver interface {
	LookupHost(ctx context.Context, hostname string) ([]net.IP, error)
}

// DNSResolver resolves hostnames via direct miekg/dns A and AAAA queries
// against Nameserver or, when that is empty, the first nameserver listed
// in /etc/resolv.conf. Unlike net.DefaultResolver it bypasses the system
// resolver (and so /etc/hosts) entirely.
type DNSResolver struct {
	Nameserver string // host:port; empty means read /etc/resolv.conf
	client     *dns.Client
}

// NewDNSResolver builds a resolver. An empty nameserver means "read the
// system's /etc/resolv.conf", matching the zero-config case most CLI
// invocations hit.
func NewDNSResolver(nameserver string) *DNSResolver {
	return &DNSResolver{Nameserver: nameserver, client: new(dns.Client)}
}

func (r *DNSResolver) LookupHost(ctx context.Context, hostname string) ([]net.IP, error) {
	server := r.Nameserver
	if server == "" {
		cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err != nil || len(cfg.Servers) == 0 {
			return nil, fmt.Errorf("no nameserver configured: %w", err)
		}
		server = net.JoinHostPort(cfg.Servers[0], cfg.Port)
	}

	var ips []net.IP
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		msg := new(dns.Msg)
		msg.SetQuestion(dns.Fqdn(hostname), qtype)
		msg.RecursionDesired = true

		resp, _, err := r.client.ExchangeContext(ctx, msg, server)
		if err != nil || resp == nil {
			continue
		}
		for _, rr := range resp.Answer {
			switch rec := rr.(type) {
			case *dns.A:
				ips = append(ips, rec.A)
			case *dns.AAAA:
				ips = append(ips, rec.AAAA)
			}
		}
	}

	if len(ips) == 0 {
		return nil, fmt.Errorf("no A/AAAA records for %q", hostname)
	}
	return ips, nil
}

// netResolver wraps net.DefaultResolver as the zero-value fallback when
// no resolver is injected.
type netResolver struct{}

func (netResolver) LookupHost(ctx context.Context, hostname string) ([]net.IP, error) {
	addrs, err := net.DefaultResolver.LookupHost(ctx, hostname)
	if err != nil {
		return nil, err
	}
	ips := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		if ip := net.ParseIP(a); ip != nil {
			ips = append(ips, ip)
		}
	}
	return ips, nil
}

// DefaultResolver is the fallback used when the caller does not inject one.
var DefaultResolver Resolver = netResolver{}

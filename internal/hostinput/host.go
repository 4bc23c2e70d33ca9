// Package hostinput resolves the host specifications a scan accepts —
// IPv4/IPv6 literals, CIDR blocks, DNS names, or files containing any of
// the above — into the ordered list of addresses the engine scans.
package hostinput

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"strings"
)

// ParseAddress resolves a single input string to zero or more addresses,
// trying in order: CIDR (expanded host-by-host, including the network and
// broadcast addresses), IP literal, then DNS hostname via resolver. It
// never returns an error — an input that matches nothing yields nil, and
// the caller decides whether to retry it as a file path.
func ParseAddress(ctx context.Context, address string, resolver Resolver) []net.IP {
	if ip, ipnet, err := net.ParseCIDR(address); err == nil {
		return expandCIDR(ip, ipnet)
	}

	if ip := net.ParseIP(address); ip != nil {
		return []net.IP{ip}
	}

	if resolver == nil {
		resolver = DefaultResolver
	}
	ips, err := resolver.LookupHost(ctx, address)
	if err != nil {
		return nil
	}
	if len(ips) == 0 {
		return nil
	}
	// First address retained, per spec.
	return ips[:1]
}

// expandCIDR walks every address in ipnet, including network and
// broadcast, in ascending order.
func expandCIDR(first net.IP, ipnet *net.IPNet) []net.IP {
	var ips []net.IP
	ip := cloneIP(ipnet.IP.Mask(ipnet.Mask))
	for ipnet.Contains(ip) {
		ips = append(ips, cloneIP(ip))
		incrementIP(ip)
	}
	return ips
}

func cloneIP(ip net.IP) net.IP {
	out := make(net.IP, len(ip))
	copy(out, ip)
	return out
}

func incrementIP(ip net.IP) {
	for i := len(ip) - 1; i >= 0; i-- {
		ip[i]++
		if ip[i] != 0 {
			return
		}
	}
}

// ParseAddresses resolves every input, in order. Inputs that resolve to
// nothing are retried as newline-delimited files of the same kinds of
// entries (blank lines and #-prefixed comments skipped); anything still
// unresolved after that is dropped, with a human-readable warning
// appended to the returned slice. An entirely empty result is the
// caller's cue to abort before constructing the engine.
func ParseAddresses(ctx context.Context, inputs []string, resolver Resolver) (hosts []net.IP, warnings []string) {
	var maybeFiles []string

	for _, addr := range inputs {
		parsed := ParseAddress(ctx, addr, resolver)
		if len(parsed) > 0 {
			hosts = append(hosts, parsed...)
			continue
		}
		maybeFiles = append(maybeFiles, addr)
	}

	for _, path := range maybeFiles {
		fileHosts, err := readHostsFile(ctx, path, resolver)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("host %q could not be resolved", path))
			continue
		}
		hosts = append(hosts, fileHosts...)
	}

	return hosts, warnings
}

// readHostsFile parses a newline-delimited file of addresses, CIDRs, or
// hostnames. Unresolvable lines are silently skipped — the file itself is
// only an InputError when it cannot be opened.
func readHostsFile(ctx context.Context, path string, resolver Resolver) ([]net.IP, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var hosts []net.IP
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		hosts = append(hosts, ParseAddress(ctx, line, resolver)...)
	}
	return hosts, scanner.Err()
}

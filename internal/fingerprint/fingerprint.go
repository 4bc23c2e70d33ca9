// Package fingerprint hands discovered open ports off to an external
// service-fingerprinting tool (nmap). It is a pure dispatcher: the scan
// result is already final by the time this package runs, so a failure
// here is reported to the user but never rewrites what was found.
package fingerprint

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ExternalToolError wraps a fingerprinting subprocess failure: a failed
// spawn or a non-zero exit. It is always non-fatal to the scan result
// that has already been emitted.
type ExternalToolError struct {
	Tool string
	Args []string
	Err  error
}

func (e *ExternalToolError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Tool, strings.Join(e.Args, " "), e.Err)
}

func (e *ExternalToolError) Unwrap() error { return e.Err }

// BuildArgs assembles the nmap argument list: the user's own extra
// arguments first, then -vvv, -6 for an IPv6 target, -p <ports>, and
// finally the address, mirroring the nmap port style of a
// comma-separated list with no spaces.
func BuildArgs(extra []string, ports []uint16, ip net.IP) []string {
	args := make([]string, 0, len(extra)+5)
	args = append(args, extra...)
	args = append(args, "-vvv")

	if ip.To4() == nil {
		args = append(args, "-6")
	}

	strPorts := make([]string, len(ports))
	for i, p := range ports {
		strPorts[i] = strconv.Itoa(int(p))
	}

	args = append(args, "-p", strings.Join(strPorts, ","), ip.String())
	return args
}

// Run spawns nmapPath with args, streaming its stdout/stderr through to
// the CLI's own. A spawn failure or non-zero exit is wrapped as an
// ExternalToolError.
func Run(ctx context.Context, nmapPath string, args []string) error {
	cmd := exec.CommandContext(ctx, nmapPath, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return &ExternalToolError{Tool: nmapPath, Args: args, Err: err}
	}
	return nil
}

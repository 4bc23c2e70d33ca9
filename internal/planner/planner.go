// Package planner expands hosts and a port strategy into the flat work
// sequence the batch scheduler drives.
package planner

import (
	"net"

	"github.com/vulnverified/portsweep/internal/portspec"
)

// WorkItem is a single (host, port) pair awaiting a probe. It is transient
// and lives only within one batch window.
type WorkItem struct {
	Host net.IP
	Port uint16
}

// Plan expands hosts x strategy.Ports() into a flat, host-major sequence:
// every port for hosts[i] precedes any port for hosts[i+1]. This ordering
// is load-bearing — downstream grouping by host relies on the prefix
// structure it produces. A host with no ports contributes no work.
func Plan(hosts []net.IP, strategy portspec.PortStrategy) []WorkItem {
	ports := strategy.Ports()
	if len(hosts) == 0 || len(ports) == 0 {
		return nil
	}

	items := make([]WorkItem, 0, len(hosts)*len(ports))
	for _, h := range hosts {
		for _, p := range ports {
			items = append(items, WorkItem{Host: h, Port: p})
		}
	}
	return items
}

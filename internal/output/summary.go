package output

import (
	"fmt"
	"io"
)

// Version is set via ldflags at build time.
var Version = "dev"

// WriteBanner prints the portsweep opening banner.
func WriteBanner(w io.Writer, noColor bool) {
	if noColor {
		fmt.Fprintf(w, "portsweep %s\n\n", Version)
	} else {
		fmt.Fprintf(w, "\033[1mportsweep %s\033[0m\n\n", Version)
	}
}

// WriteSummary prints the post-scan host/port counts.
func WriteSummary(w io.Writer, grouped map[string][]uint16, elapsedMsg string, noColor bool) {
	openPorts := 0
	for _, ports := range grouped {
		openPorts += len(ports)
	}

	fmt.Fprintln(w)
	if noColor {
		fmt.Fprintf(w, "Open ports: %d across %d hosts\n", openPorts, len(grouped))
	} else {
		fmt.Fprintf(w, "\033[1mOpen ports:\033[0m %d across %d hosts\n", openPorts, len(grouped))
	}
	if elapsedMsg != "" {
		fmt.Fprintln(w, elapsedMsg)
	}
}

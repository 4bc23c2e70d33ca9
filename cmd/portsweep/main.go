package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vulnverified/portsweep/internal/config"
	"github.com/vulnverified/portsweep/internal/engine"
	"github.com/vulnverified/portsweep/internal/fingerprint"
	"github.com/vulnverified/portsweep/internal/governor"
	"github.com/vulnverified/portsweep/internal/hostinput"
	"github.com/vulnverified/portsweep/internal/logging"
	"github.com/vulnverified/portsweep/internal/output"
	"github.com/vulnverified/portsweep/internal/portspec"
	"github.com/vulnverified/portsweep/pkg/ports"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	output.Version = version

	var (
		batchSize  uint16
		timeoutMs  int
		tries      int
		portsList  string
		rangeSpec  string
		top100     bool
		scanOrder  string
		ulimit     uint64
		greppable  bool
		accessible bool
		jsonOutput bool
		noColor    bool
		verbose    bool
		nmapPath   string
		nameserver string
	)

	rootCmd := &cobra.Command{
		Use:   "portsweep <host|cidr|file> [host|cidr|file...]",
		Short: "Fast TCP connect port scanner",
		Long:  "A batched, timeout-bounded TCP connect scanner — infers a safe batch size from the process file-descriptor limit and can hand discovered ports off to nmap for fingerprinting.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := os.LookupEnv("NO_COLOR"); ok {
				noColor = true
			}

			logger := logging.Init(verbose)

			cliOpts := config.Opts{
				BatchSize:  batchSize,
				TimeoutMs:  timeoutMs,
				Tries:      tries,
				Ports:      portsList,
				Range:      rangeSpec,
				ScanOrder:  scanOrder,
				Ulimit:     ulimit,
				Greppable:  greppable,
				Accessible: accessible,
				NoColor:    noColor,
				Command:    extraNmapArgs(cmd),
				Changed:    cmd.Flags().Changed,
			}

			cfgPath, err := config.DefaultPath()
			var file *config.File
			if err == nil {
				file, err = config.Load(cfgPath)
			}
			if err != nil {
				logger.Warn().Err(err).Msg("failed to load config file")
				file = &config.File{}
			}
			opts := config.Merge(cliOpts, file)

			strategy, err := buildStrategy(opts, top100)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt)
			go func() {
				<-sigCh
				fmt.Fprintln(os.Stderr, "\nInterrupted, cleaning up...")
				cancel()
			}()

			hostArgs := args
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				hostArgs = args[:dash]
			}
			resolver := hostinput.DefaultResolver
			if nameserver != "" {
				resolver = hostinput.NewDNSResolver(nameserver)
			}
			hosts, warnings := hostinput.ParseAddresses(ctx, hostArgs, resolver)
			for _, w := range warnings {
				logger.Warn().Msg(w)
			}
			if len(hosts) == 0 {
				fmt.Fprintln(os.Stderr, "no hosts could be resolved")
				os.Exit(1)
			}

			limit, err := governor.CurrentLimit()
			if err != nil {
				logger.Warn().Err(err).Msg("failed to read file descriptor limit")
			}
			if opts.Ulimit > 0 {
				if err := governor.RaiseTo(opts.Ulimit); err != nil {
					logger.Warn().Err(err).Msg("failed to raise ulimit")
				} else if raised, err := governor.CurrentLimit(); err == nil {
					limit = raised
				}
			}

			requested := uint64(opts.BatchSize)
			if requested == 0 {
				requested = uint64(governor.AverageBatchSize)
			}
			effectiveBatch := governor.InferBatchSize(requested, limit)
			if uint64(effectiveBatch) < requested {
				logger.Warn().Uint64("limit", limit).Uint16("batch_size", effectiveBatch).Msg("file descriptor limit is below the requested batch size; batch size lowered")
			}
			if governor.ShouldAdvise(requested, limit, opts.Ulimit > 0) {
				logger.Debug().Uint64("limit", limit).Msg("file descriptor limit exceeds the requested batch size")
			}

			showProgress := !jsonOutput && !opts.Greppable && !opts.Accessible
			progress := output.NewProgress(os.Stderr, !showProgress)
			if showProgress {
				output.WriteBanner(os.Stderr, opts.NoColor)
			}

			triesCount := opts.Tries
			if triesCount < 1 {
				triesCount = 1
			}
			timeout := time.Duration(opts.TimeoutMs) * time.Millisecond
			if timeout <= 0 {
				timeout = 2 * time.Second
			}

			eng, err := engine.New(engine.Config{
				Hosts:     hosts,
				Strategy:  strategy,
				BatchSize: effectiveBatch,
				Timeout:   timeout,
				Tries:     triesCount,
			}, progress)
			if err != nil {
				return err
			}

			result, err := eng.Run(ctx)
			if err != nil && ctx.Err() == nil {
				return err
			}

			if showProgress {
				progress.Complete()
			}

			grouped := result.Grouped()

			switch {
			case jsonOutput:
				if err := output.WriteJSON(os.Stdout, grouped); err != nil {
					return err
				}
			case opts.Greppable:
				output.WriteGreppable(os.Stdout, grouped)
			default:
				output.WriteTable(os.Stdout, grouped, opts.NoColor)
				output.WriteSummary(os.Stdout, grouped, "", opts.NoColor)
			}

			if !opts.Greppable && len(grouped) > 0 && nmapPath != "" {
				for host, ports := range grouped {
					ip := net.ParseIP(host)
					if ip == nil {
						continue
					}
					nmapArgs := fingerprint.BuildArgs(opts.Command, ports, ip)
					if err := fingerprint.Run(ctx, nmapPath, nmapArgs); err != nil {
						logger.Warn().Err(err).Msg("fingerprinting failed")
					}
				}
			}

			return nil
		},
	}

	rootCmd.Flags().Uint16VarP(&batchSize, "batch-size", "b", 0, "Requested batch size (0 = infer from ulimit)")
	rootCmd.Flags().IntVarP(&timeoutMs, "timeout", "t", 2000, "Per-connection timeout in milliseconds")
	rootCmd.Flags().IntVar(&tries, "tries", 1, "Number of scan passes")
	rootCmd.Flags().StringVar(&portsList, "ports", "", "Comma-separated port list")
	rootCmd.Flags().StringVar(&rangeSpec, "range", "1-1000", "Port range, lo-hi")
	rootCmd.Flags().BoolVar(&top100, "top100", false, "Scan nmap's top 100 most common ports")
	rootCmd.Flags().StringVar(&scanOrder, "scan-order", "serial", "Port order: serial or random")
	rootCmd.Flags().Uint64Var(&ulimit, "ulimit", 0, "Raise the open-file limit to this value before scanning")
	rootCmd.Flags().BoolVar(&greppable, "greppable", false, "Greppable one-line-per-host output")
	rootCmd.Flags().BoolVar(&accessible, "accessible", false, "Reduced visual output for screen readers")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output structured JSON to stdout")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable terminal colors")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose debug logging")
	rootCmd.Flags().StringVar(&nmapPath, "nmap", "", "Path to nmap; when set, hands open ports to it after the scan")
	rootCmd.Flags().StringVar(&nameserver, "nameserver", "", "DNS server (host:port) to query directly for hostname resolution, bypassing the system resolver")
	rootCmd.MarkFlagsMutuallyExclusive("ports", "range", "top100")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("portsweep {{.Version}}\n")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// extraNmapArgs returns the raw arguments following a literal "--", the
// same passthrough convention cobra documents via ArgsLenAtDash.
func extraNmapArgs(cmd *cobra.Command) []string {
	args := cmd.Flags().Args()
	idx := cmd.ArgsLenAtDash()
	if idx < 0 || idx >= len(args) {
		return nil
	}
	return args[idx:]
}

func buildStrategy(opts config.Opts, top100 bool) (portspec.PortStrategy, error) {
	order := portspec.Serial
	if strings.EqualFold(opts.ScanOrder, "random") {
		order = portspec.Random
	}

	if top100 {
		return portspec.PickList(portspec.ListSpec{Ports: ports.Top100}, order)
	}

	if opts.Ports != "" {
		ports, err := parsePortList(opts.Ports)
		if err != nil {
			return nil, err
		}
		return portspec.PickList(portspec.ListSpec{Ports: ports}, order)
	}

	lo, hi, err := parseRange(opts.Range)
	if err != nil {
		return nil, err
	}
	return portspec.PickRange(portspec.RangeSpec{Lo: lo, Hi: hi}, order)
}

func parsePortList(s string) ([]uint16, error) {
	parts := strings.Split(s, ",")
	seen := make(map[uint16]bool, len(parts))
	var ports []uint16
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 65535 {
			return nil, fmt.Errorf("invalid port %q", p)
		}
		port := uint16(n)
		if seen[port] {
			continue
		}
		seen[port] = true
		ports = append(ports, port)
	}
	if len(ports) == 0 {
		return nil, fmt.Errorf("no valid ports specified")
	}
	return ports, nil
}

func parseRange(s string) (lo, hi uint16, err error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid port range %q, expected lo-hi", s)
	}
	loN, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || loN < 1 || loN > 65535 {
		return 0, 0, fmt.Errorf("invalid port range %q: lo out of range [1, 65535]", s)
	}
	hiN, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || hiN < 1 || hiN > 65535 {
		return 0, 0, fmt.Errorf("invalid port range %q: hi out of range [1, 65535]", s)
	}
	return uint16(loN), uint16(hiN), nil
}

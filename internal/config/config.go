// Package config loads the optional ~/.portsweep.toml file and merges it
// with CLI flags, CLI values always winning.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// File is the decoded shape of ~/.portsweep.toml. Every scalar field is
// a pointer so an absent key is distinguishable from an explicit zero
// value when merging against CLI defaults; Command is absent when empty.
type File struct {
	BatchSize  *uint16  `toml:"batch_size"`
	TimeoutMs  *int     `toml:"timeout"`
	Tries      *int     `toml:"tries"`
	Ports      *string  `toml:"ports"`
	Range      *string  `toml:"range"`
	ScanOrder  *string  `toml:"scan_order"`
	Ulimit     *uint64  `toml:"ulimit"`
	Greppable  *bool    `toml:"greppable"`
	Accessible *bool    `toml:"accessible"`
	NoColor    *bool    `toml:"no_color"`
	Command    []string `toml:"command"`
}

// Load reads and decodes path. A missing file is not an error: it
// returns a zero-value *File so Merge has nothing to override with.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &f, nil
}

// DefaultPath returns ~/.portsweep.toml, the conventional location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".portsweep.toml"), nil
}

// Opts mirrors the CLI's flag surface so Merge can apply file values
// only where the corresponding flag was left at its default.
type Opts struct {
	BatchSize  uint16
	TimeoutMs  int
	Tries      int
	Ports      string
	Range      string
	ScanOrder  string
	Ulimit     uint64
	Greppable  bool
	Accessible bool
	NoColor    bool
	Command    []string

	// Changed reports, per flag name, whether the user explicitly set it
	// on the command line (cobra's pflag.Flag.Changed).
	Changed func(name string) bool
}

// Merge layers file values under cliOpts: a field is replaced by the
// file's value only when the CLI flag was not explicitly set. Command
// (the arguments after "--") is taken from the file only when the CLI
// passed none.
func Merge(cliOpts Opts, file *File) Opts {
	if file == nil {
		return cliOpts
	}
	changed := cliOpts.Changed
	if changed == nil {
		changed = func(string) bool { return false }
	}

	merged := cliOpts
	if !changed("batch-size") && file.BatchSize != nil {
		merged.BatchSize = *file.BatchSize
	}
	if !changed("timeout") && file.TimeoutMs != nil {
		merged.TimeoutMs = *file.TimeoutMs
	}
	if !changed("tries") && file.Tries != nil {
		merged.Tries = *file.Tries
	}
	if !changed("ports") && file.Ports != nil {
		merged.Ports = *file.Ports
	}
	if !changed("range") && file.Range != nil {
		merged.Range = *file.Range
	}
	if !changed("scan-order") && file.ScanOrder != nil {
		merged.ScanOrder = *file.ScanOrder
	}
	if !changed("ulimit") && file.Ulimit != nil {
		merged.Ulimit = *file.Ulimit
	}
	if !changed("greppable") && file.Greppable != nil {
		merged.Greppable = *file.Greppable
	}
	if !changed("accessible") && file.Accessible != nil {
		merged.Accessible = *file.Accessible
	}
	if !changed("no-color") && file.NoColor != nil {
		merged.NoColor = *file.NoColor
	}
	if len(cliOpts.Command) == 0 && len(file.Command) > 0 {
		merged.Command = file.Command
	}
	return merged
}

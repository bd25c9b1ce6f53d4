// Package config resolves the simulator's CLI-facing knobs (everything
// the engine itself doesn't read straight out of the input program) from,
// lowest to highest priority: a YAML file, environment variables
// (optionally preloaded from a .env file), then CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// File is the shape of an optional --config YAML document.
type File struct {
	InputPath     string `yaml:"input"`
	RunLogPath    string `yaml:"run_log"`
	SummaryJSON   string `yaml:"summary_json"`
	TopologyOut   string `yaml:"topology_out"`
	ServeAddr     string `yaml:"serve"`
	OTel          bool   `yaml:"otel"`
	QuantumOverride int  `yaml:"quantum_override"`
}

// Resolved is the final, validated set of CLI-facing knobs, after merging
// File, environment, and flags.
type Resolved struct {
	InputPath       string
	RunLogPath      string
	SummaryJSONPath string
	TopologyOutPath string
	ServeAddr       string
	OTel            bool
	QuantumOverride int // 0 means "no override"
}

// LoadFile decodes a YAML config file. A missing path is not an error —
// it simply yields a zero File, leaving env/flags to supply everything.
func LoadFile(path string) (File, error) {
	var f File
	if path == "" {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return f, nil
}

// env holds the PROSIM_* environment variables, read with the same
// read-or-default shape as lioia-distributed-pagerank/pkg/utils/env.go.
type env struct {
	RunLogPath      string
	ServeAddr       string
	QuantumOverride int
}

// loadEnv reads PROSIM_* variables, first loading a .env file if present
// (godotenv.Load never overrides variables already set in the process
// environment).
func loadEnv() env {
	_ = godotenv.Load()
	return env{
		RunLogPath:      readStringEnvVarOr("PROSIM_RUN_LOG", ""),
		ServeAddr:       readStringEnvVarOr("PROSIM_SERVE_ADDR", ""),
		QuantumOverride: readIntEnvVarOr("PROSIM_QUANTUM_OVERRIDE", 0),
	}
}

func readStringEnvVarOr(name, or string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return or
}

func readIntEnvVarOr(name string, or int) int {
	v := os.Getenv(name)
	if v == "" {
		return or
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return or
	}
	return n
}

// Flags is the subset of CLI flags that feed config resolution; explicit
// flags always take precedence over file and environment values. A field
// left at its zero value is treated as "not explicitly set".
type Flags struct {
	InputPath       string
	RunLogPath      string
	SummaryJSONPath string
	TopologyOutPath string
	ServeAddr       string
	OTel            bool
	QuantumOverride int
}

// Resolve merges File, environment, and Flags into a Resolved config,
// flags winning over env winning over file.
func Resolve(f File, flags Flags) Resolved {
	e := loadEnv()

	r := Resolved{
		InputPath:       f.InputPath,
		RunLogPath:      f.RunLogPath,
		SummaryJSONPath: f.SummaryJSON,
		TopologyOutPath: f.TopologyOut,
		ServeAddr:       f.ServeAddr,
		OTel:            f.OTel,
		QuantumOverride: f.QuantumOverride,
	}

	if e.RunLogPath != "" {
		r.RunLogPath = e.RunLogPath
	}
	if e.ServeAddr != "" {
		r.ServeAddr = e.ServeAddr
	}
	if e.QuantumOverride != 0 {
		r.QuantumOverride = e.QuantumOverride
	}

	if flags.InputPath != "" {
		r.InputPath = flags.InputPath
	}
	if flags.RunLogPath != "" {
		r.RunLogPath = flags.RunLogPath
	}
	if flags.SummaryJSONPath != "" {
		r.SummaryJSONPath = flags.SummaryJSONPath
	}
	if flags.TopologyOutPath != "" {
		r.TopologyOutPath = flags.TopologyOutPath
	}
	if flags.ServeAddr != "" {
		r.ServeAddr = flags.ServeAddr
	}
	if flags.OTel {
		r.OTel = true
	}
	if flags.QuantumOverride != 0 {
		r.QuantumOverride = flags.QuantumOverride
	}

	return r
}

// ErrNegativeQuantumOverride rejects a config-supplied quantum override
// that could never be a valid quantum. A positive override still always
// loses to the input program's own quantum at run time (spec.md §6 defines
// quantum only through the input header); this override exists solely to
// exercise the env/file config path end-to-end and is only validated,
// never applied over the header value — see DESIGN.md.
var ErrNegativeQuantumOverride = errors.New("config: quantum_override must be >= 0")

// Validate mirrors Bladjot's ConfigSimulacion.validate: structural checks
// that return an error rather than calling log.Fatal, so the caller
// controls the process exit code.
func (r Resolved) Validate() error {
	if r.QuantumOverride < 0 {
		return ErrNegativeQuantumOverride
	}
	return nil
}

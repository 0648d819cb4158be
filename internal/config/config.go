// Package config loads and validates a node's startup configuration:
// logging, the ring's bit-width and buffer sizes, and the bootstrap
// backend used to find a known node when joining.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"chordring/internal/logger"

	"gopkg.in/yaml.v3"
)

type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // "stdout" or "otlp"
	Endpoint string `yaml:"endpoint"`
}

type TelemetryConfig struct {
	Tracing TracingConfig `yaml:"tracing"`
}

type FileLoggerConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"maxSize"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"`
	Compress   bool   `yaml:"compress"`
}

type LoggerConfig struct {
	Active   bool             `yaml:"active"`
	Level    string           `yaml:"level"`
	Encoding string           `yaml:"encoding"`
	Mode     string           `yaml:"mode"`
	File     FileLoggerConfig `yaml:"file"`
}

// Route53Config configures the optional DNS-based bootstrap backend.
type Route53Config struct {
	HostedZoneID string `yaml:"hostedZoneId"`
	DomainName   string `yaml:"domainName"`
	Region       string `yaml:"region"`
	TTL          int64  `yaml:"ttl"`
}

// BootstrapConfig selects how a joining node finds a known member of
// the ring. "static" uses the Peers list from the configuration
// (YAML or BOOTSTRAP_PEERS) directly; cmd/node takes no command-line
// known-node argument. "route53" resolves a DNS name to a peer list
// first.
type BootstrapConfig struct {
	Mode    string        `yaml:"mode"`
	Peers   []string      `yaml:"peers"`
	Route53 Route53Config `yaml:"route53"`
}

// ChordConfig holds the ring parameters from identifier
// bit-width and the transport's buffer/backlog sizes.
type ChordConfig struct {
	Bits      int `yaml:"bits"`      // M
	Backlog   int `yaml:"backlog"`   // BACKLOG
	BufSize   int `yaml:"bufSize"`   // BUF_SZ
	TestBase  int `yaml:"testBase"`  // TEST_BASE
	RPCTimeMs int `yaml:"rpcTimeMs"` // per-RPC timeout in ms; validated and logged, not applied to any RPC
}

type NodeConfig struct {
	Id   string `yaml:"id"`
	Bind string `yaml:"bind"`
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type Config struct {
	Logger    LoggerConfig    `yaml:"logger"`
	Chord     ChordConfig     `yaml:"chord"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
	Node      NodeConfig      `yaml:"node"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// Default returns a Config with own constants (M=7,
// BACKLOG=100, BUF_SZ=4096, TEST_BASE=43544) and sane ambient
// defaults, suitable when no YAML file is supplied.
func Default() Config {
	return Config{
		Logger: LoggerConfig{
			Active:   true,
			Level:    "info",
			Encoding: "console",
			Mode:     "stdout",
		},
		Chord: ChordConfig{
			Bits:      7,
			Backlog:   100,
			BufSize:   4096,
			TestBase:  43544,
			RPCTimeMs: 2000,
		},
		Bootstrap: BootstrapConfig{
			Mode:    "static",
			Route53: Route53Config{TTL: 30},
		},
		Node: NodeConfig{
			Bind: "0.0.0.0",
			Host: "127.0.0.1",
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of Default().
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyEnvOverrides overlays environment variables onto cfg, for the
// fields an operator most commonly needs to set per-process rather
// than per-deployment.
//
//	NODE_ID, NODE_BIND, NODE_HOST, NODE_PORT
//	BOOTSTRAP_MODE, BOOTSTRAP_PEERS
//	ROUTE53_ZONE_ID, ROUTE53_DOMAIN, ROUTE53_REGION
//	TRACE_ENABLED, TRACE_EXPORTER, TRACE_ENDPOINT
//	LOGGER_ENABLED, LOGGER_LEVEL, LOGGER_ENCODING, LOGGER_MODE, LOGGER_FILE_PATH
func (cfg *Config) ApplyEnvOverrides() {
	if v := os.Getenv("NODE_ID"); v != "" {
		cfg.Node.Id = v
	}
	if v := os.Getenv("NODE_BIND"); v != "" {
		cfg.Node.Bind = v
	}
	if v := os.Getenv("NODE_HOST"); v != "" {
		cfg.Node.Host = v
	}
	if v := os.Getenv("NODE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Node.Port = port
		}
	}

	if v := os.Getenv("BOOTSTRAP_MODE"); v != "" {
		cfg.Bootstrap.Mode = v
	}
	if v := os.Getenv("BOOTSTRAP_PEERS"); v != "" {
		cfg.Bootstrap.Peers = strings.Split(v, ",")
	}
	if v := os.Getenv("ROUTE53_ZONE_ID"); v != "" {
		cfg.Bootstrap.Route53.HostedZoneID = v
	}
	if v := os.Getenv("ROUTE53_DOMAIN"); v != "" {
		cfg.Bootstrap.Route53.DomainName = v
	}
	if v := os.Getenv("ROUTE53_REGION"); v != "" {
		cfg.Bootstrap.Route53.Region = v
	}

	if v := os.Getenv("TRACE_ENABLED"); v != "" {
		cfg.Telemetry.Tracing.Enabled = parseBool(v)
	}
	if v := os.Getenv("TRACE_EXPORTER"); v != "" {
		cfg.Telemetry.Tracing.Exporter = v
	}
	if v := os.Getenv("TRACE_ENDPOINT"); v != "" {
		cfg.Telemetry.Tracing.Endpoint = v
	}

	if v := os.Getenv("LOGGER_ENABLED"); v != "" {
		cfg.Logger.Active = parseBool(v)
	}
	if v := os.Getenv("LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("LOGGER_ENCODING"); v != "" {
		cfg.Logger.Encoding = v
	}
	if v := os.Getenv("LOGGER_MODE"); v != "" {
		cfg.Logger.Mode = v
	}
	if v := os.Getenv("LOGGER_FILE_PATH"); v != "" {
		cfg.Logger.File.Path = v
	}
}

func parseBool(v string) bool {
	v = strings.ToLower(v)
	return v == "true" || v == "1" || v == "yes"
}

// ValidateConfig performs structural validation, accumulating every
// problem found rather than stopping at the first one.
func (cfg *Config) ValidateConfig() error {
	var errs []string

	switch cfg.Logger.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid logger.level: %s", cfg.Logger.Level))
	}
	switch cfg.Logger.Encoding {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid logger.encoding: %s", cfg.Logger.Encoding))
	}
	switch cfg.Logger.Mode {
	case "stdout":
	case "file":
		if cfg.Logger.File.Path == "" {
			errs = append(errs, "logger.file.path is required when mode=file")
		}
		if cfg.Logger.File.MaxSize < 0 || cfg.Logger.File.MaxBackups < 0 || cfg.Logger.File.MaxAge < 0 {
			errs = append(errs, "logger.file.* values must be non-negative")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid logger.mode: %s", cfg.Logger.Mode))
	}

	if cfg.Chord.Bits <= 0 {
		errs = append(errs, "chord.bits must be > 0")
	}
	if cfg.Chord.Backlog <= 0 {
		errs = append(errs, "chord.backlog must be > 0")
	}
	if cfg.Chord.BufSize <= 0 {
		errs = append(errs, "chord.bufSize must be > 0")
	}
	if cfg.Chord.RPCTimeMs <= 0 {
		errs = append(errs, "chord.rpcTimeMs must be > 0")
	}

	switch cfg.Bootstrap.Mode {
	case "static":
		for _, p := range cfg.Bootstrap.Peers {
			if _, _, err := net.SplitHostPort(p); err != nil {
				errs = append(errs, fmt.Sprintf("invalid peer address %q in bootstrap.peers: %v", p, err))
			}
		}
	case "route53":
		if cfg.Bootstrap.Route53.HostedZoneID == "" {
			errs = append(errs, "bootstrap.route53.hostedZoneId is required when mode=route53")
		}
		if cfg.Bootstrap.Route53.DomainName == "" {
			errs = append(errs, "bootstrap.route53.domainName is required when mode=route53")
		}
	case "":
		errs = append(errs, "bootstrap.mode is required")
	default:
		errs = append(errs, fmt.Sprintf("invalid bootstrap.mode: %s (must be static or route53)", cfg.Bootstrap.Mode))
	}

	if cfg.Node.Port < 0 || cfg.Node.Port > 65535 {
		errs = append(errs, fmt.Sprintf("node.port must be in [0,65535], got %d", cfg.Node.Port))
	}

	if cfg.Telemetry.Tracing.Enabled {
		switch cfg.Telemetry.Tracing.Exporter {
		case "stdout", "otlp":
		default:
			errs = append(errs, fmt.Sprintf("invalid telemetry.tracing.exporter: %s", cfg.Telemetry.Tracing.Exporter))
		}
		if cfg.Telemetry.Tracing.Exporter == "otlp" && cfg.Telemetry.Tracing.Endpoint == "" {
			errs = append(errs, "telemetry.tracing.endpoint is required when exporter=otlp")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// LogConfig emits the resolved configuration at DEBUG level, useful
// when a node fails to start for a reason that isn't obvious from the
// YAML file alone.
func (cfg *Config) LogConfig(lgr logger.Logger) {
	lgr.Debug("loaded configuration",
		logger.F("logger.active", cfg.Logger.Active),
		logger.F("logger.level", cfg.Logger.Level),
		logger.F("logger.encoding", cfg.Logger.Encoding),
		logger.F("logger.mode", cfg.Logger.Mode),
		logger.F("logger.file.path", cfg.Logger.File.Path),

		logger.F("chord.bits", cfg.Chord.Bits),
		logger.F("chord.backlog", cfg.Chord.Backlog),
		logger.F("chord.bufSize", cfg.Chord.BufSize),
		logger.F("chord.rpcTimeMs", cfg.Chord.RPCTimeMs),

		logger.F("bootstrap.mode", cfg.Bootstrap.Mode),
		logger.F("bootstrap.peers", cfg.Bootstrap.Peers),
		logger.F("bootstrap.route53.hostedZoneId", cfg.Bootstrap.Route53.HostedZoneID),
		logger.F("bootstrap.route53.domainName", cfg.Bootstrap.Route53.DomainName),

		logger.F("node.id", cfg.Node.Id),
		logger.F("node.bind", cfg.Node.Bind),
		logger.F("node.host", cfg.Node.Host),
		logger.F("node.port", cfg.Node.Port),

		logger.F("telemetry.tracing.enabled", cfg.Telemetry.Tracing.Enabled),
		logger.F("telemetry.tracing.exporter", cfg.Telemetry.Tracing.Exporter),
		logger.F("telemetry.tracing.endpoint", cfg.Telemetry.Tracing.Endpoint),
	)
}

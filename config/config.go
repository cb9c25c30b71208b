package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/foomo/recorddescription-mcp/service"
	"github.com/foomo/recorddescription-mcp/solr"
)

const envPrefix = "RECORDDESCRIPTION_"

type Config struct {
	Server  Server  `yaml:"server"`
	Solr    Solr    `yaml:"solr"`
	SSE     SSE     `yaml:"sse"`
	Service Service `yaml:"service"`
	Logging Logging `yaml:"logging"`
}

type Server struct {
	// HTTPAddr switches from stdio to the streamable HTTP transport when set.
	HTTPAddr string `yaml:"http_addr"`
	Endpoint string `yaml:"endpoint"`
}

type Solr struct {
	solr.Settings `yaml:",inline"`
	Timeout       time.Duration `yaml:"timeout"`
}

type SSE struct {
	KeepaliveInterval time.Duration `yaml:"keepalive_interval"`
	BufferSize        int           `yaml:"buffer_size"`
	ClientTimeout     time.Duration `yaml:"client_timeout"`
}

type Service struct {
	BatchConcurrency int `yaml:"batch_concurrency"`
}

type Logging struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func Default() *Config {
	return &Config{
		Server: Server{Endpoint: "/mcp"},
		Solr: Solr{
			Settings: solr.DefaultSettings(),
			Timeout:  10 * time.Second,
		},
		SSE: SSE{
			KeepaliveInterval: 30 * time.Second,
			BufferSize:        100,
			ClientTimeout:     60 * time.Second,
		},
		Service: Service{BatchConcurrency: service.DefaultSettings().BatchConcurrency},
		Logging: Logging{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults and applies the
// environment overrides. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(envPrefix + "SOLR_URL"); v != "" {
		c.Solr.URL = v
	}
	if v := os.Getenv(envPrefix + "HTTP_ADDR"); v != "" {
		c.Server.HTTPAddr = v
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

func (c *Config) Validate() error {
	if c.Solr.URL == "" || c.Solr.Core == "" {
		return errors.New("solr url and core are required")
	}
	if c.Service.BatchConcurrency < 1 {
		return fmt.Errorf("batch_concurrency must be positive, got %d", c.Service.BatchConcurrency)
	}
	if c.SSE.KeepaliveInterval <= 0 {
		return fmt.Errorf("sse keepalive_interval must be positive, got %s", c.SSE.KeepaliveInterval)
	}
	if c.SSE.ClientTimeout <= 0 {
		return fmt.Errorf("sse client_timeout must be positive, got %s", c.SSE.ClientTimeout)
	}
	if c.SSE.BufferSize < 1 {
		return fmt.Errorf("sse buffer_size must be positive, got %d", c.SSE.BufferSize)
	}
	if !strings.HasPrefix(c.Server.Endpoint, "/") {
		return fmt.Errorf("endpoint must start with '/', got %q", c.Server.Endpoint)
	}
	return nil
}

func (c *Config) ServiceSettings() service.Settings {
	return service.Settings{BatchConcurrency: c.Service.BatchConcurrency}
}

package infra

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	defaultSparklineCapacity = 20
	defaultChartCapacity     = 300
	defaultHandshakeSec      = 10
	defaultPingIntervalSec   = 30
	defaultReadTimeoutSec    = 60
	defaultHeadlineMS        = 6000
)

// Config는 애플리케이션의 모든 설정을 담습니다.
// LoadConfig로 로드된 후에 환경 변수를 통해 일부 값을 덮어씁니다.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		WSURL               string `yaml:"ws_url"`
		HandshakeTimeoutSec int    `yaml:"handshake_timeout_sec"`
		PingIntervalSec     int    `yaml:"ping_interval_sec"`
		ReadTimeoutSec      int    `yaml:"read_timeout_sec"`
	} `yaml:"server"`

	Game struct {
		Symbols []string     `yaml:"symbols"`
		Rules   domain.Rules `yaml:"rules"`
	} `yaml:"game"`

	History struct {
		SparklineCapacity int `yaml:"sparkline_capacity"`
		ChartCapacity     int `yaml:"chart_capacity"`
	} `yaml:"history"`

	Session struct {
		PlayerName  string `yaml:"player_name"`
		JoinLobby   string `yaml:"join_lobby"`
		AutoCreate  bool   `yaml:"auto_create"`
		AutoReady   bool   `yaml:"auto_ready"`
		ChartSymbol string `yaml:"chart_symbol"`
	} `yaml:"session"`

	UI struct {
		HeadlineIntervalMS int      `yaml:"headline_interval_ms"`
		Headlines          []string `yaml:"headlines"`
	} `yaml:"ui"`

	Journal struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"journal"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig는 설정 파일을 읽고 파싱합니다.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &domain.ConfigError{Field: "path", Err: fmt.Errorf("%s: %w", path, err)}
		}
		return nil, err
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML bytes, applies env overrides and defaults, then validates.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.History.SparklineCapacity == 0 {
		c.History.SparklineCapacity = defaultSparklineCapacity
	}
	if c.History.ChartCapacity == 0 {
		c.History.ChartCapacity = defaultChartCapacity
	}
	if c.Server.HandshakeTimeoutSec == 0 {
		c.Server.HandshakeTimeoutSec = defaultHandshakeSec
	}
	if c.Server.PingIntervalSec == 0 {
		c.Server.PingIntervalSec = defaultPingIntervalSec
	}
	if c.Server.ReadTimeoutSec == 0 {
		c.Server.ReadTimeoutSec = defaultReadTimeoutSec
	}
	if c.UI.HeadlineIntervalMS == 0 {
		c.UI.HeadlineIntervalMS = defaultHeadlineMS
	}
	if c.Session.ChartSymbol == "" && len(c.Game.Symbols) > 0 {
		c.Session.ChartSymbol = c.Game.Symbols[0]
	}
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Server.WSURL, "ws://") && !strings.HasPrefix(c.Server.WSURL, "wss://") {
		return &domain.ConfigError{Field: "server.ws_url", Err: fmt.Errorf("must start with ws:// or wss://, got %q", c.Server.WSURL)}
	}

	if len(c.Game.Symbols) == 0 {
		return &domain.ConfigError{Field: "game.symbols", Err: errors.New("at least one symbol is required")}
	}
	seen := make(map[string]bool, len(c.Game.Symbols))
	for _, s := range c.Game.Symbols {
		if s == "" || seen[s] {
			return &domain.ConfigError{Field: "game.symbols", Err: fmt.Errorf("empty or duplicate symbol %q", s)}
		}
		seen[s] = true
	}
	if !seen[c.Session.ChartSymbol] {
		return &domain.ConfigError{Field: "session.chart_symbol", Err: fmt.Errorf("%w: %s", domain.ErrUnknownSymbol, c.Session.ChartSymbol)}
	}

	rules := c.Game.Rules
	if !rules.StartingCapital.GreaterThan(decimal.Zero) {
		return &domain.ConfigError{Field: "game.rules.starting_capital", Err: errors.New("must be positive")}
	}
	if rules.TickSeconds <= 0 || rules.DurationSec <= 0 {
		return &domain.ConfigError{Field: "game.rules", Err: errors.New("tick_seconds and duration_sec must be positive")}
	}

	if c.History.SparklineCapacity < 0 || c.History.ChartCapacity < 0 {
		return &domain.ConfigError{Field: "history", Err: errors.New("capacities must be positive")}
	}

	if c.Server.PingIntervalSec < 0 || c.Server.ReadTimeoutSec < 0 || c.Server.HandshakeTimeoutSec < 0 {
		return &domain.ConfigError{Field: "server", Err: errors.New("timeouts must be positive")}
	}

	if c.Journal.Enabled && c.Journal.Path == "" {
		return &domain.ConfigError{Field: "journal.path", Err: errors.New("required when journal is enabled")}
	}

	return nil
}

// HandshakeTimeout returns the websocket dial timeout.
func (c *Config) HandshakeTimeout() time.Duration {
	return time.Duration(c.Server.HandshakeTimeoutSec) * time.Second
}

// PingInterval returns the keepalive period.
func (c *Config) PingInterval() time.Duration {
	return time.Duration(c.Server.PingIntervalSec) * time.Second
}

// ReadTimeout returns the read deadline applied to every frame.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeoutSec) * time.Second
}

// HeadlineInterval returns the headline rotation period.
func (c *Config) HeadlineInterval() time.Duration {
	return time.Duration(c.UI.HeadlineIntervalMS) * time.Millisecond
}

// overrideWithEnv는 환경 변수가 존재할 경우 설정 값을 덮어씁니다.
func overrideWithEnv(cfg *Config) {
	if url := os.Getenv("TRADING_WS_URL"); url != "" {
		cfg.Server.WSURL = url
	}
	if name := os.Getenv("TRADING_PLAYER_NAME"); name != "" {
		cfg.Session.PlayerName = name
	}
	if lobby := os.Getenv("TRADING_JOIN_LOBBY"); lobby != "" {
		cfg.Session.JoinLobby = lobby
	}
	if level := os.Getenv("TRADING_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}

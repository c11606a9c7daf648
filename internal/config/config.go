package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database   DatabaseConfig          `yaml:"database"`
	LLM        LLMConfig               `yaml:"llm"`
	BrandVoice BrandVoiceConfig        `yaml:"brand_voice"`
	Platforms  map[string]PlatformRule `yaml:"platforms"`
	Schedule   ScheduleConfig          `yaml:"schedule"`
	Publish    PublishConfig           `yaml:"publish"`
	RabbitMQ   RabbitMQConfig          `yaml:"rabbitmq"`
	Metrics    MetricsConfig           `yaml:"metrics"`
	Activity   ActivityConfig          `yaml:"activity"`
	LogLevel   string                  `yaml:"log_level"`

	// Dir is the directory holding config.yaml and the optional rule files.
	Dir string `yaml:"-"`
}

type DatabaseConfig struct {
	// URL, when set, takes precedence over the individual fields.
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// MigrationURL returns the connection string in URL form as golang-migrate expects it.
func (d DatabaseConfig) MigrationURL() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// Target describes the database without credentials.
func (d DatabaseConfig) Target() string {
	if d.URL != "" {
		u, err := url.Parse(d.URL)
		if err != nil {
			return "(unparseable url)"
		}
		return u.Host + u.Path
	}
	return fmt.Sprintf("%s:%d/%s", d.Host, d.Port, d.DBName)
}

type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	Host        string        `yaml:"host"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

type BrandVoiceConfig struct {
	Avoid       []string          `yaml:"avoid"`
	Principles  []string          `yaml:"principles"`
	StreamTones map[string]string `yaml:"stream_tones"`
}

type PlatformRule struct {
	MaxChars    int    `yaml:"max_chars"`
	MaxHashtags *int   `yaml:"max_hashtags"`
	StyleNotes  string `yaml:"style_notes"`
}

type Window struct {
	Hour   int `yaml:"hour"`
	Minute int `yaml:"minute"`
}

type ScheduleConfig struct {
	Timezone string `yaml:"timezone"`
	// PostingDays are offsets from Monday (0) to Sunday (6).
	PostingDays    []int               `yaml:"posting_days"`
	PostingWindows map[string][]Window `yaml:"posting_windows"`
}

type PublishConfig struct {
	Interval        time.Duration `yaml:"interval"`
	RunTimeout      time.Duration `yaml:"run_timeout"`
	StaleClaimAfter time.Duration `yaml:"stale_claim_after"`
	BatchSize       int           `yaml:"batch_size"`
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	// RatePerMinute paces outbound calls per platform.
	RatePerMinute int `yaml:"rate_per_minute"`
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

func (r RabbitMQConfig) Enabled() bool { return r.URL != "" }

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type ActivityConfig struct {
	Feeds    []string      `yaml:"feeds"`
	Pages    []string      `yaml:"pages"`
	Timeout  time.Duration `yaml:"timeout"`
	MaxItems int           `yaml:"max_items"`
}

// DefaultDir is the configuration directory, MKEN_CONFIG_DIR or ./configs.
func DefaultDir() string {
	if dir := os.Getenv("MKEN_CONFIG_DIR"); dir != "" {
		return dir
	}
	return "configs"
}

// Load reads the YAML file at path, expands environment references, overlays the optional
// rule files found next to it and applies MKEN_* overrides. A missing file yields defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.Dir = filepath.Dir(path)
	if err := cfg.loadRuleFiles(); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// rule files mirror a single section of config.yaml and win over it when present
func (c *Config) loadRuleFiles() error {
	files := []struct {
		name string
		into any
	}{
		{"brand_voice.yaml", &c.BrandVoice},
		{"platform_rules.yaml", &c.Platforms},
		{"schedule_rules.yaml", &c.Schedule},
	}

	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(c.Dir, f.name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", f.name, err)
		}
		if err := yaml.Unmarshal(data, f.into); err != nil {
			return fmt.Errorf("parse %s: %w", f.name, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("MKEN_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("MKEN_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		c.LLM.Host = v
	}
	if v := os.Getenv("MKEN_DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("MKEN_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) setDefaults() {
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "postgres"
	}
	if c.Database.DBName == "" {
		c.Database.DBName = "marketing_engine"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "ollama"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "llama3.2"
	}
	if c.LLM.Host == "" {
		c.LLM.Host = "http://localhost:11434"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 120 * time.Second
	}
	if len(c.BrandVoice.Avoid) == 0 {
		c.BrandVoice.Avoid = []string{"excited to announce", "game-changer", "leveraging AI", "revolutionary", "synergy"}
	}
	if len(c.BrandVoice.Principles) == 0 {
		c.BrandVoice.Principles = []string{
			"Be direct and specific",
			"Show results, not promises",
			"Include a clear call to action",
			"Write like a human, not a press release",
		}
	}
	if c.Platforms == nil {
		c.Platforms = make(map[string]PlatformRule)
	}
	for name, def := range defaultPlatformRules {
		rule := c.Platforms[name]
		if rule.MaxChars == 0 {
			rule.MaxChars = def.MaxChars
		}
		if rule.MaxHashtags == nil {
			n := *def.MaxHashtags
			rule.MaxHashtags = &n
		}
		c.Platforms[name] = rule
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "America/New_York"
	}
	if len(c.Schedule.PostingDays) == 0 {
		c.Schedule.PostingDays = []int{1, 2, 3, 4, 5, 6}
	}
	if c.Publish.Interval == 0 {
		c.Publish.Interval = 5 * time.Minute
	}
	if c.Publish.RunTimeout == 0 {
		c.Publish.RunTimeout = 5 * time.Minute
	}
	if c.Publish.StaleClaimAfter == 0 {
		c.Publish.StaleClaimAfter = 30 * time.Minute
	}
	if c.Publish.BatchSize == 0 {
		c.Publish.BatchSize = 50
	}
	if c.Publish.HTTPTimeout == 0 {
		c.Publish.HTTPTimeout = 30 * time.Second
	}
	if c.Publish.RatePerMinute == 0 {
		c.Publish.RatePerMinute = 30
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "marketing_engine"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "publish_results"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "publish_results"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9090"
	}
	if c.Activity.Timeout == 0 {
		c.Activity.Timeout = 15 * time.Second
	}
	if c.Activity.MaxItems == 0 {
		c.Activity.MaxItems = 10
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) validate() error {
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule timezone %q: %w", c.Schedule.Timezone, err)
	}
	for _, d := range c.Schedule.PostingDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("schedule posting day %d out of range 0-6", d)
		}
	}
	for platform, windows := range c.Schedule.PostingWindows {
		for _, w := range windows {
			if w.Hour < 0 || w.Hour > 23 || w.Minute < 0 || w.Minute > 59 {
				return fmt.Errorf("posting window %02d:%02d for %s is not a valid time", w.Hour, w.Minute, platform)
			}
		}
	}
	switch c.LLM.Provider {
	case "ollama", "mock":
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLM.Provider)
	}
	return nil
}

func intPtr(n int) *int { return &n }

var defaultPlatformRules = map[string]PlatformRule{
	"twitter":  {MaxChars: 280, MaxHashtags: intPtr(3)},
	"linkedin": {MaxChars: 3000, MaxHashtags: intPtr(5)},
	"reddit":   {MaxChars: 10000, MaxHashtags: intPtr(0)},
	"youtube":  {MaxChars: 5000, MaxHashtags: intPtr(15)},
	"tiktok":   {MaxChars: 2200, MaxHashtags: intPtr(5)},
}

// Credentials are the platform secrets. They are only handed to the publisher layer.
type Credentials struct {
	TwitterBearerToken  string
	LinkedInAccessToken string
	LinkedInPersonID    string
	RedditClientID      string
	RedditClientSecret  string
	RedditUsername      string
	RedditPassword      string
}

func LoadCredentials() Credentials {
	_ = godotenv.Load()
	return Credentials{
		TwitterBearerToken:  os.Getenv("MKEN_TWITTER_BEARER_TOKEN"),
		LinkedInAccessToken: os.Getenv("MKEN_LINKEDIN_ACCESS_TOKEN"),
		LinkedInPersonID:    os.Getenv("MKEN_LINKEDIN_PERSON_ID"),
		RedditClientID:      os.Getenv("MKEN_REDDIT_CLIENT_ID"),
		RedditClientSecret:  os.Getenv("MKEN_REDDIT_CLIENT_SECRET"),
		RedditUsername:      os.Getenv("MKEN_REDDIT_USERNAME"),
		RedditPassword:      os.Getenv("MKEN_REDDIT_PASSWORD"),
	}
}

func (c Credentials) TwitterConfigured() bool { return c.TwitterBearerToken != "" }

func (c Credentials) LinkedInConfigured() bool {
	return c.LinkedInAccessToken != "" && c.LinkedInPersonID != ""
}

func (c Credentials) RedditConfigured() bool {
	return c.RedditClientID != "" && c.RedditClientSecret != "" && c.RedditUsername != "" && c.RedditPassword != ""
}

// LogValue reports which platforms have credentials, never the values.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("twitter", strconv.FormatBool(c.TwitterConfigured())),
		slog.String("linkedin", strconv.FormatBool(c.LinkedInConfigured())),
		slog.String("reddit", strconv.FormatBool(c.RedditConfigured())),
	)
}

func (c Credentials) String() string { return "config.Credentials{redacted}" }

func (c Credentials) GoString() string { return c.String() }

package config

import (
	"bytes"
	"fmt"
	"net"
	neturl "net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 3300
	defaultEnv        = "development"
	defaultBaseURL    = "http://localhost:3000"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "unofficial"
	defaultDBCharset  = "utf8mb4"
	defaultMailFrom   = "The UnOfficial <notifications@theunofficial.blog>"
)

// AppConfig holds runtime configuration loaded from YAML.
type AppConfig struct {
	Port           int            `yaml:"port"`
	Env            string         `yaml:"env"` // "development" | "production"
	BaseURL        string         `yaml:"base_url"`
	SiteName       string         `yaml:"site_name"`
	JWTSecret      string         `yaml:"jwt_secret"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
	Database       DatabaseConfig `yaml:"database"`
	Mail           MailConfig     `yaml:"mail"`
	SMS            SMSConfig      `yaml:"sms"`
	Contact        ContactConfig  `yaml:"contact"`
	AI             AIConfig       `yaml:"ai"`
	Owner          OwnerConfig    `yaml:"owner"`

	// TrackLinks appends utm attribution params to article links in
	// notification mails. Presentation only.
	TrackLinks bool `yaml:"track_links"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
}

// MailConfig selects Resend when an API key is present, SMTP otherwise.
type MailConfig struct {
	ResendKey string     `yaml:"resend_key"`
	From      string     `yaml:"from"`
	SMTP      SMTPConfig `yaml:"smtp"`
}

type SMTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
}

// SMSConfig carries Twilio credentials. The channel is disabled until all
// three fields are set.
type SMSConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

// OwnerConfig seeds the owner account on first boot.
type OwnerConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// ContactConfig is the contributor-inquiry relay destination.
type ContactConfig struct {
	To   string `yaml:"to"`
	From string `yaml:"from"`
}

type AIConfig struct {
	Providers []AIProvider `yaml:"providers"`
}

type AIProvider struct {
	ID           string `yaml:"id"`
	Type         string `yaml:"type"` // OpenAI | OpenAI-Compatible | Anthropic
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}

// Load reads and validates the YAML config at path.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	cfg.normalize()

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d in %q, expected 1-65535", cfg.Port, path)
	}
	if cfg.Database.DSN == "" && (cfg.Database.Port < 1 || cfg.Database.Port > 65535) {
		return nil, fmt.Errorf("invalid database.port %d in %q, expected 1-65535", cfg.Database.Port, path)
	}
	return &cfg, nil
}

// Default returns the built-in configuration defaults.
func Default() AppConfig {
	return AppConfig{
		Port:     defaultPort,
		Env:      defaultEnv,
		BaseURL:  defaultBaseURL,
		SiteName: "The UnOfficial",
		Database: DatabaseConfig{
			Host:     defaultDBHost,
			Port:     defaultDBPort,
			User:     defaultDBUser,
			Password: defaultDBPassword,
			Name:     defaultDBName,
			Charset:  defaultDBCharset,
		},
		Mail: MailConfig{From: defaultMailFrom},
	}
}

func (c *AppConfig) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env == "" {
		c.Env = defaultEnv
	}
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	c.SiteName = strings.TrimSpace(c.SiteName)
	if c.SiteName == "" {
		c.SiteName = "The UnOfficial"
	}
	if strings.TrimSpace(c.Mail.From) == "" {
		c.Mail.From = defaultMailFrom
	}
	if strings.TrimSpace(c.Contact.From) == "" {
		c.Contact.From = c.Mail.From
	}

	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.AllowedOrigins = origins
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

// DSNValue returns the MySQL DSN, built from parts unless given verbatim.
func (d DatabaseConfig) DSNValue() string {
	if v := strings.TrimSpace(d.DSN); v != "" {
		return v
	}

	host := strings.TrimSpace(d.Host)
	if host == "" {
		host = defaultDBHost
	}
	port := d.Port
	if port == 0 {
		port = defaultDBPort
	}
	user := strings.TrimSpace(d.User)
	if user == "" {
		user = defaultDBUser
	}
	password := d.Password
	if password == "" {
		password = defaultDBPassword
	}
	name := strings.TrimSpace(d.Name)
	if name == "" {
		name = defaultDBName
	}
	charset := strings.TrimSpace(d.Charset)
	if charset == "" {
		charset = defaultDBCharset
	}

	params := neturl.Values{}
	params.Set("charset", charset)
	params.Set("parseTime", strconv.FormatBool(true))
	params.Set("loc", "Local")

	return fmt.Sprintf("%s:%s@tcp(%s)/%s?%s",
		user, password, net.JoinHostPort(host, strconv.Itoa(port)), name, params.Encode())
}

// MailConfigured reports whether any outbound mail transport is usable.
func (c *AppConfig) MailConfigured() bool {
	return strings.TrimSpace(c.Mail.ResendKey) != "" || strings.TrimSpace(c.Mail.SMTP.Host) != ""
}

// SMSConfigured reports whether the Twilio channel is usable.
func (c *AppConfig) SMSConfigured() bool {
	return strings.TrimSpace(c.SMS.AccountSID) != "" &&
		strings.TrimSpace(c.SMS.AuthToken) != "" &&
		strings.TrimSpace(c.SMS.FromNumber) != ""
}

// ActiveAIProvider returns the first enabled AI provider, or nil.
func (c *AppConfig) ActiveAIProvider() *AIProvider {
	for i := range c.AI.Providers {
		if c.AI.Providers[i].Enabled {
			provider := c.AI.Providers[i]
			return &provider
		}
	}
	return nil
}

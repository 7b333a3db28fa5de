package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/codebridge"
	ConfigFileName    = "codebridge.yml"
)

// DefaultAllowedOrigins is the CORS allowlist used when none is configured:
// the storefront, the dev tunnel, and the Shopify extensions CDN.
var DefaultAllowedOrigins = []string{
	"https://vapejuicedepot.com",
	"https://lion-simple-wrongly.ngrok-free.app",
	"https://extensions.shopifycdn.com",
}

// Default product variant IDs on the ShipSec store for the two forwarding
// tiers.
const (
	DefaultSimpleVariantID    int64 = 45912383422713
	DefaultSignatureVariantID int64 = 45912390435065
)

// Config holds all codebridge configuration settings.
type Config struct {
	// Database connection parts for the application role.
	DBUser     string `yaml:"-"`
	DBPassword string `yaml:"-"`
	DBName     string `yaml:"-"`
	DBHost     string `yaml:"-"`
	DBPort     string `yaml:"-"`

	// AdminDatabaseURL is the administrative connection string used by
	// `bridgectl db provision`.
	AdminDatabaseURL string `yaml:"-"`

	// BindAddress and ServerPort control the HTTP listener.
	BindAddress string `yaml:"bind_address"`
	ServerPort  string `yaml:"server_port"`

	// ShipSec store admin API access.
	ShipSecAPIKey  string `yaml:"-"`
	ShipSecBaseURL string `yaml:"shipsec_base_url"`

	// VJD store admin API access.
	VJDAPIKey  string `yaml:"-"`
	VJDBaseURL string `yaml:"vjd_base_url"`

	// ShopifyAPIVersion pins the admin API version used on both stores.
	ShopifyAPIVersion string `yaml:"shopify_api_version"`

	// Webhook signing secrets. The per-store secrets take precedence over
	// WebhookSecret when the shop domain is recognized.
	WebhookSecret        string `yaml:"-"`
	ShipSecWebhookSecret string `yaml:"-"`
	VJDWebhookSecret     string `yaml:"-"`

	// AdminJWTSecret enables bearer-token auth on the customer CRUD API
	// when set.
	AdminJWTSecret string `yaml:"-"`

	// DevelopmentMode skips webhook signature verification.
	DevelopmentMode bool `yaml:"development_mode"`

	// AllowedOrigins is the CORS allowlist. AllowedOriginsFile, when set,
	// names a file (one origin per line) that is watched for changes.
	AllowedOrigins     []string `yaml:"allowed_origins"`
	AllowedOriginsFile string   `yaml:"allowed_origins_file"`

	// Variant IDs on the ShipSec store for the simple and signature
	// forwarding products.
	SimpleVariantID    int64 `yaml:"simple_variant_id"`
	SignatureVariantID int64 `yaml:"signature_variant_id"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		DBHost:             "localhost",
		DBPort:             "5432",
		BindAddress:        "0.0.0.0",
		ServerPort:         "8000",
		ShopifyAPIVersion:  "2024-01",
		AllowedOrigins:     append([]string(nil), DefaultAllowedOrigins...),
		SimpleVariantID:    DefaultSimpleVariantID,
		SignatureVariantID: DefaultSignatureVariantID,
		sources:            make(map[string]string),
	}
}

// Load loads configuration from .env, config file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	// Mirror the original app: a .env in the working directory feeds the
	// process environment. A missing file is not an error.
	_ = godotenv.Load()

	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("BRIDGE_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

// EnvVars lists every environment variable the application recognizes. The
// setup runbook validator checks docs against this list.
func EnvVars() []string {
	return []string{
		"DB_USER", "PASSWD", "DB_NAME", "HOST", "PORT",
		"ADMIN_DATABASE_URL",
		"BIND_ADDRESS", "SERVER_PORT",
		"SHIPSEC_API_KEY", "SHIPSEC_BASE_URL",
		"VJD_API_KEY", "VJD_BASE_URL",
		"SHOPIFY_API_VERSION",
		"WEBHOOK_SECRET", "SHIPSEC_WEBHOOK_SECRET", "VJD_WEBHOOK_SECRET",
		"ADMIN_JWT_SECRET",
		"DEVELOPMENT_MODE",
		"ALLOWED_ORIGINS", "ALLOWED_ORIGINS_FILE",
		"SIMPLE_VARIANT_ID", "SIGNATURE_VARIANT_ID",
		"BRIDGE_CONFIG_PATH", "BRIDGE_LOG_LEVEL", "BRIDGE_VERSION_DISPLAY",
	}
}

func attributeNames() []string {
	return []string{
		"db_user", "db_name", "db_host", "db_port",
		"bind_address", "server_port",
		"shipsec_base_url", "vjd_base_url", "shopify_api_version",
		"development_mode", "allowed_origins", "allowed_origins_file",
		"simple_variant_id", "signature_variant_id",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.ServerPort != "" {
		c.ServerPort = file.ServerPort
		c.sources["server_port"] = "file"
	}
	if file.ShipSecBaseURL != "" {
		c.ShipSecBaseURL = file.ShipSecBaseURL
		c.sources["shipsec_base_url"] = "file"
	}
	if file.VJDBaseURL != "" {
		c.VJDBaseURL = file.VJDBaseURL
		c.sources["vjd_base_url"] = "file"
	}
	if file.ShopifyAPIVersion != "" {
		c.ShopifyAPIVersion = file.ShopifyAPIVersion
		c.sources["shopify_api_version"] = "file"
	}
	if file.DevelopmentMode {
		c.DevelopmentMode = true
		c.sources["development_mode"] = "file"
	}
	if len(file.AllowedOrigins) > 0 {
		c.AllowedOrigins = file.AllowedOrigins
		c.sources["allowed_origins"] = "file"
	}
	if file.AllowedOriginsFile != "" {
		c.AllowedOriginsFile = file.AllowedOriginsFile
		c.sources["allowed_origins_file"] = "file"
	}
	if file.SimpleVariantID != 0 {
		c.SimpleVariantID = file.SimpleVariantID
		c.sources["simple_variant_id"] = "file"
	}
	if file.SignatureVariantID != 0 {
		c.SignatureVariantID = file.SignatureVariantID
		c.sources["signature_variant_id"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("DB_USER"); val != "" {
		c.DBUser = val
		c.sources["db_user"] = "environment"
	}
	c.DBPassword = os.Getenv("PASSWD")
	if val := os.Getenv("DB_NAME"); val != "" {
		c.DBName = val
		c.sources["db_name"] = "environment"
	}
	if val := os.Getenv("HOST"); val != "" {
		c.DBHost = val
		c.sources["db_host"] = "environment"
	}
	if val := os.Getenv("PORT"); val != "" {
		c.DBPort = val
		c.sources["db_port"] = "environment"
	}
	c.AdminDatabaseURL = os.Getenv("ADMIN_DATABASE_URL")
	if val := os.Getenv("BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		c.ServerPort = val
		c.sources["server_port"] = "environment"
	}
	c.ShipSecAPIKey = os.Getenv("SHIPSEC_API_KEY")
	if val := os.Getenv("SHIPSEC_BASE_URL"); val != "" {
		c.ShipSecBaseURL = val
		c.sources["shipsec_base_url"] = "environment"
	}
	c.VJDAPIKey = os.Getenv("VJD_API_KEY")
	if val := os.Getenv("VJD_BASE_URL"); val != "" {
		c.VJDBaseURL = val
		c.sources["vjd_base_url"] = "environment"
	}
	if val := os.Getenv("SHOPIFY_API_VERSION"); val != "" {
		c.ShopifyAPIVersion = val
		c.sources["shopify_api_version"] = "environment"
	}
	c.WebhookSecret = os.Getenv("WEBHOOK_SECRET")
	c.ShipSecWebhookSecret = os.Getenv("SHIPSEC_WEBHOOK_SECRET")
	c.VJDWebhookSecret = os.Getenv("VJD_WEBHOOK_SECRET")
	c.AdminJWTSecret = os.Getenv("ADMIN_JWT_SECRET")
	if val := os.Getenv("DEVELOPMENT_MODE"); val != "" {
		c.DevelopmentMode = val == "true" || val == "1"
		c.sources["development_mode"] = "environment"
	}
	if val := os.Getenv("ALLOWED_ORIGINS"); val != "" {
		c.AllowedOrigins = splitAndTrim(val)
		c.sources["allowed_origins"] = "environment"
	}
	if val := os.Getenv("ALLOWED_ORIGINS_FILE"); val != "" {
		c.AllowedOriginsFile = val
		c.sources["allowed_origins_file"] = "environment"
	}
	if val := os.Getenv("SIMPLE_VARIANT_ID"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			c.SimpleVariantID = i
			c.sources["simple_variant_id"] = "environment"
		}
	}
	if val := os.Getenv("SIGNATURE_VARIANT_ID"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			c.SignatureVariantID = i
			c.sources["signature_variant_id"] = "environment"
		}
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// DatabaseURL assembles the application connection string from its parts.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   c.DBHost + ":" + c.DBPort,
		Path:   "/" + c.DBName,
	}
	if c.DBUser != "" {
		if c.DBPassword != "" {
			u.User = url.UserPassword(c.DBUser, c.DBPassword)
		} else {
			u.User = url.User(c.DBUser)
		}
	}
	u.RawQuery = "sslmode=disable"
	return u.String()
}

// WebhookSecretForShop returns the signing secret for a shop domain, falling
// back to the shared secret. Empty when no secret is configured.
func (c *Config) WebhookSecretForShop(shopDomain string) string {
	switch shopDomain {
	case "shipsec.myshopify.com":
		if c.ShipSecWebhookSecret != "" {
			return c.ShipSecWebhookSecret
		}
	case "glocal-vision.myshopify.com":
		if c.VJDWebhookSecret != "" {
			return c.VJDWebhookSecret
		}
	}
	return c.WebhookSecret
}

// ValidateDatabase checks that the application database settings are usable.
func (c *Config) ValidateDatabase() error {
	var missing []string
	if c.DBUser == "" {
		missing = append(missing, "DB_USER")
	}
	if c.DBPassword == "" {
		missing = append(missing, "PASSWD")
	}
	if c.DBName == "" {
		missing = append(missing, "DB_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateServer checks everything the HTTP server needs at startup.
func (c *Config) ValidateServer() error {
	if err := c.ValidateDatabase(); err != nil {
		return err
	}

	var missing []string
	if c.ShipSecBaseURL == "" {
		missing = append(missing, "SHIPSEC_BASE_URL")
	}
	if c.ShipSecAPIKey == "" {
		missing = append(missing, "SHIPSEC_API_KEY")
	}
	if c.VJDBaseURL == "" {
		missing = append(missing, "VJD_BASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if !c.DevelopmentMode && c.WebhookSecret == "" &&
		c.ShipSecWebhookSecret == "" && c.VJDWebhookSecret == "" {
		return fmt.Errorf("WEBHOOK_SECRET is required unless DEVELOPMENT_MODE is set")
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "db_user", Value: c.DBUser, Source: c.Source("db_user")},
		{Name: "db_name", Value: c.DBName, Source: c.Source("db_name")},
		{Name: "db_host", Value: c.DBHost, Source: c.Source("db_host")},
		{Name: "db_port", Value: c.DBPort, Source: c.Source("db_port")},
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "server_port", Value: c.ServerPort, Source: c.Source("server_port")},
		{Name: "shipsec_base_url", Value: c.ShipSecBaseURL, Source: c.Source("shipsec_base_url")},
		{Name: "vjd_base_url", Value: c.VJDBaseURL, Source: c.Source("vjd_base_url")},
		{Name: "shopify_api_version", Value: c.ShopifyAPIVersion, Source: c.Source("shopify_api_version")},
		{Name: "development_mode", Value: strconv.FormatBool(c.DevelopmentMode), Source: c.Source("development_mode")},
		{Name: "allowed_origins", Value: strings.Join(c.AllowedOrigins, ","), Source: c.Source("allowed_origins")},
		{Name: "allowed_origins_file", Value: c.AllowedOriginsFile, Source: c.Source("allowed_origins_file")},
		{Name: "simple_variant_id", Value: strconv.FormatInt(c.SimpleVariantID, 10), Source: c.Source("simple_variant_id")},
		{Name: "signature_variant_id", Value: strconv.FormatInt(c.SignatureVariantID, 10), Source: c.Source("signature_variant_id")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-25s %-45s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-25s %-45s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-25s %-45s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(c.Attributes(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal configuration: %w", err)
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

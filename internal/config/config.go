package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "Asia/Seoul"
	configPathEnv   = "DRAFTFLOW_CONFIG"
	databaseDSNEnv  = "DATABASE_DSN"
	openAIAPIKeyEnv = "OPENAI_API_KEY"
	openAIModelEnv  = "OPENAI_MODEL"
	ncpAccessKeyEnv = "NCP_ACCESS_KEY"
	ncpSecretKeyEnv = "NCP_SECRET_KEY"
	ncpServiceIDEnv = "NCP_SERVICE_ID"
	kakaoChannelEnv = "KAKAO_CHANNEL_ID"
	serviceURLEnv   = "SERVICE_URL"
	templateCodeEnv = "ALIMTALK_TEMPLATE_CODE"
	cronScheduleEnv = "DRAFTFLOW_CRON"
	logLevelEnv     = "DRAFTFLOW_LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Alimtalk  AlimtalkConfig  `yaml:"alimtalk"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig describes the deployed confirmation frontend.
type ServiceConfig struct {
	BaseURL string `yaml:"baseUrl"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines when the daemon-mode daily check runs.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// OpenAIConfig defines how to contact the draft-generation API.
type OpenAIConfig struct {
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"apiKey"`
	Temperature float64 `yaml:"temperature"`
	DraftCount  int     `yaml:"draftCount"`
}

// AlimtalkConfig wires all data required to send signed SENS requests.
type AlimtalkConfig struct {
	AccessKey    string `yaml:"accessKey"`
	SecretKey    string `yaml:"secretKey"`
	ServiceID    string `yaml:"serviceId"`
	ChannelID    string `yaml:"channelId"`
	TemplateCode string `yaml:"templateCode"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

// Validate reports missing required settings. Generation and delivery each
// need their credentials; absence is a fatal setup error, not a soft one.
func (c Config) Validate() error {
	var missing []string

	if c.Database.DSN == "" {
		missing = append(missing, databaseDSNEnv)
	}
	if c.OpenAI.APIKey == "" {
		missing = append(missing, openAIAPIKeyEnv)
	}
	if c.Alimtalk.AccessKey == "" {
		missing = append(missing, ncpAccessKeyEnv)
	}
	if c.Alimtalk.SecretKey == "" {
		missing = append(missing, ncpSecretKeyEnv)
	}
	if c.Alimtalk.ServiceID == "" {
		missing = append(missing, ncpServiceIDEnv)
	}
	if c.Alimtalk.ChannelID == "" {
		missing = append(missing, kakaoChannelEnv)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}

	if v := os.Getenv(ncpAccessKeyEnv); v != "" {
		c.Alimtalk.AccessKey = v
	}
	if v := os.Getenv(ncpSecretKeyEnv); v != "" {
		c.Alimtalk.SecretKey = v
	}
	if v := os.Getenv(ncpServiceIDEnv); v != "" {
		c.Alimtalk.ServiceID = v
	}
	if v := os.Getenv(kakaoChannelEnv); v != "" {
		c.Alimtalk.ChannelID = v
	}
	if v := os.Getenv(templateCodeEnv); v != "" {
		c.Alimtalk.TemplateCode = v
	}

	if v := os.Getenv(serviceURLEnv); v != "" {
		c.Service.BaseURL = v
	}
	if v := os.Getenv(cronScheduleEnv); v != "" {
		c.Scheduler.CronExpression = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Service.BaseURL != "" {
		base.Service = override.Service
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}
	if override.OpenAI.Temperature != 0 {
		base.OpenAI.Temperature = override.OpenAI.Temperature
	}
	if override.OpenAI.DraftCount != 0 {
		base.OpenAI.DraftCount = override.OpenAI.DraftCount
	}

	if override.Alimtalk.AccessKey != "" {
		base.Alimtalk.AccessKey = override.Alimtalk.AccessKey
	}
	if override.Alimtalk.SecretKey != "" {
		base.Alimtalk.SecretKey = override.Alimtalk.SecretKey
	}
	if override.Alimtalk.ServiceID != "" {
		base.Alimtalk.ServiceID = override.Alimtalk.ServiceID
	}
	if override.Alimtalk.ChannelID != "" {
		base.Alimtalk.ChannelID = override.Alimtalk.ChannelID
	}
	if override.Alimtalk.TemplateCode != "" {
		base.Alimtalk.TemplateCode = override.Alimtalk.TemplateCode
	}

	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Service:   ServiceConfig{BaseURL: "https://blog-automation.example.com"},
		Database:  DatabaseConfig{DSN: ""},
		Scheduler: SchedulerConfig{CronExpression: "0 9 * * *", Timezone: defaultTimezone, location: tz},
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o",
			Temperature: 0.75,
			DraftCount:  3,
		},
		Alimtalk: AlimtalkConfig{TemplateCode: "wiplemarketing"},
		Logging:  LoggingConfig{Level: "info"},
	}
}

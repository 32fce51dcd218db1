package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Dividend modes
const (
	DividendModeSnapshot = "snapshot"
	DividendModeAnnual   = "annual"
	DividendModeTrailing = "trailing" // 시나 배당 이력 365일 합산
)

// PB sources
const (
	PBSourceQuote = "quote"
	PBSourceBPS   = "bps"
)

// Config holds all process configuration
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production, test

	// Run
	OutputDir    string
	StocksFile   string
	DividendMode string
	PBSource     string
	Workers      int
	ScheduleCron string

	// Rendering
	ChartFont    string
	SummaryStyle string

	HTTP      HTTPConfig
	Tencent   TencentConfig
	Eastmoney EastmoneyConfig
	Xueqiu    XueqiuConfig
	Sina      SinaConfig
	Dividend  DividendConfig

	// Logging
	LogLevel  string
	LogFormat string
	LogDir    string
}

// HTTPConfig holds outbound HTTP settings shared by all providers
type HTTPConfig struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	MaxRetries        int
	UserAgent         string
}

// TencentConfig holds the real-time quote endpoint
type TencentConfig struct {
	BaseURL string
}

// EastmoneyConfig holds the datacenter endpoints
type EastmoneyConfig struct {
	IndicatorURL string
	BonusURL     string
}

// XueqiuConfig holds the Xueqiu quote endpoints
type XueqiuConfig struct {
	BaseURL string
	HomeURL string
}

// SinaConfig holds the Sina finance corp pages endpoint
type SinaConfig struct {
	BaseURL string
}

// DividendConfig pins the report periods used by the annual-report mode.
// Zero means derive from the run date.
type DividendConfig struct {
	PriorYear          int
	CurrentInterimYear int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		OutputDir:    getEnv("OUTPUT_DIR", filepath.Join("data", "output")),
		StocksFile:   getEnv("STOCKS_FILE", "stocks.json"),
		DividendMode: getEnv("DIVIDEND_MODE", DividendModeSnapshot),
		PBSource:     getEnv("PB_SOURCE", PBSourceQuote),
		Workers:      getEnvAsInt("WORKERS", 1),
		ScheduleCron: getEnv("SCHEDULE_CRON", "30 15 * * 1-5"),

		ChartFont:    getEnv("CHART_FONT", ""),
		SummaryStyle: getEnv("SUMMARY_STYLE", "auto"),

		HTTP: HTTPConfig{
			Timeout:           getEnvAsDuration("HTTP_TIMEOUT", "10s"),
			RequestsPerSecond: getEnvAsFloat("HTTP_RPS", 5),
			MaxRetries:        getEnvAsInt("HTTP_MAX_RETRIES", 0),
			UserAgent:         getEnv("HTTP_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		},

		Tencent: TencentConfig{
			BaseURL: getEnv("TENCENT_BASE_URL", "https://qt.gtimg.cn"),
		},

		Eastmoney: EastmoneyConfig{
			IndicatorURL: getEnv("EASTMONEY_INDICATOR_URL", "https://datacenter.eastmoney.com/securities/api/data/get"),
			BonusURL:     getEnv("EASTMONEY_BONUS_URL", "https://datacenter-web.eastmoney.com/api/data/v1/get"),
		},

		Xueqiu: XueqiuConfig{
			BaseURL: getEnv("XUEQIU_BASE_URL", "https://stock.xueqiu.com"),
			HomeURL: getEnv("XUEQIU_HOME_URL", "https://xueqiu.com"),
		},

		Sina: SinaConfig{
			BaseURL: getEnv("SINA_BASE_URL", "https://vip.stock.finance.sina.com.cn"),
		},

		Dividend: DividendConfig{
			PriorYear:          getEnvAsInt("DIVIDEND_PRIOR_YEAR", 0),
			CurrentInterimYear: getEnvAsInt("DIVIDEND_CURRENT_YEAR", 0),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
		LogDir:    getEnv("LOG_DIR", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks enumerated values and ranges
func (c *Config) Validate() error {
	switch c.Env {
	case "development", "staging", "production", "test":
	default:
		return fmt.Errorf("ENV must be one of: development, staging, production, test")
	}

	switch c.DividendMode {
	case DividendModeSnapshot, DividendModeAnnual, DividendModeTrailing:
	default:
		return fmt.Errorf("DIVIDEND_MODE must be one of: %s, %s, %s, got %q",
			DividendModeSnapshot, DividendModeAnnual, DividendModeTrailing, c.DividendMode)
	}

	if c.PBSource != PBSourceQuote && c.PBSource != PBSourceBPS {
		return fmt.Errorf("PB_SOURCE must be %s or %s, got %q", PBSourceQuote, PBSourceBPS, c.PBSource)
	}

	if c.Workers < 1 {
		return fmt.Errorf("WORKERS must be >= 1, got %d", c.Workers)
	}

	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("HTTP_MAX_RETRIES must be >= 0")
	}

	if (c.Dividend.PriorYear == 0) != (c.Dividend.CurrentInterimYear == 0) {
		return fmt.Errorf("DIVIDEND_PRIOR_YEAR and DIVIDEND_CURRENT_YEAR must be set together")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	// Also try next to the executable (packaged builds)
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

package commands

import (
	"fmt"
	"time"

	"github.com/wonny/roicalc/internal/contracts"
	"github.com/wonny/roicalc/internal/dividend"
	"github.com/wonny/roicalc/internal/external/eastmoney"
	"github.com/wonny/roicalc/internal/external/sina"
	"github.com/wonny/roicalc/internal/external/tencent"
	"github.com/wonny/roicalc/internal/external/xueqiu"
	"github.com/wonny/roicalc/internal/pipeline"
	"github.com/wonny/roicalc/internal/report"
	"github.com/wonny/roicalc/internal/stockconfig"
	"github.com/wonny/roicalc/pkg/config"
	"github.com/wonny/roicalc/pkg/httputil"
	"github.com/wonny/roicalc/pkg/logger"
)

// app holds everything one command needs
// ⭐ SSOT: 의존성 조립은 여기서만
type app struct {
	cfg            *config.Config
	log            *logger.Logger
	settings       *stockconfig.Settings
	settingsSource string
	runner         *pipeline.Runner
	writer         *report.Writer
}

// newApp loads config and settings, then wires providers into a runner
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg)

	settings, source, err := stockconfig.Resolve(cfg.StocksFile)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("load stock settings: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"settings": source,
		"stocks":   len(settings.Stocks),
		"mode":     cfg.DividendMode,
	}).Info("Settings loaded")

	font, err := report.LoadFont(cfg.ChartFont)
	if err != nil {
		log.WithError(err).Warn("Chart font unavailable, using default")
	}

	quotes := tencent.NewClient(httputil.New(cfg, log), log, cfg.Tencent.BaseURL)
	em := eastmoney.NewClient(httputil.New(cfg, log).WithHeader("Referer", eastmoney.Referer),
		log, cfg.Eastmoney.IndicatorURL, cfg.Eastmoney.BonusURL)
	dividends, notes := newDividendProvider(cfg, log, em, time.Now())

	runner := pipeline.New(quotes, em, dividends, pipeline.Options{
		Mode:     cfg.DividendMode,
		PBSource: cfg.PBSource,
		Workers:  cfg.Workers,
		Notes:    notes,
	}, log)

	return &app{
		cfg:            cfg,
		log:            log,
		settings:       settings,
		settingsSource: source,
		runner:         runner,
		writer:         report.NewWriter(cfg.OutputDir, font, log),
	}, nil
}

// newDividendProvider picks the dividend source of cfg.DividendMode.
// Modes never fall back to each other: a failed source flags the row.
func newDividendProvider(cfg *config.Config, log *logger.Logger, em *eastmoney.Client, now time.Time) (contracts.DividendProvider, []string) {
	switch cfg.DividendMode {
	case config.DividendModeAnnual:
		periods := dividend.ResolvePeriods(cfg.Dividend, now)
		return dividend.NewAnnualProvider(em, periods, log), []string{"LTM dividend = " + periods.String()}
	case config.DividendModeTrailing:
		history := sina.NewClient(httputil.New(cfg, log).WithHeader("Referer", sina.Referer), log, cfg.Sina.BaseURL)
		return dividend.NewTrailingProvider(sina.Source, history, time.Now),
			[]string{"dividend = sum of ex-dates in the trailing 365 days"}
	default:
		// 세션 쿠키가 필요한 제공자는 별도 클라이언트
		session := httputil.New(cfg, log).WithCookieJar()
		return xueqiu.NewClient(session, log, cfg.Xueqiu.BaseURL, cfg.Xueqiu.HomeURL), nil
	}
}

// loadConfig reads the environment and applies the global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if configFile != "" {
		cfg.StocksFile = configFile
	}
	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if workers > 0 {
		cfg.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadSettings re-reads the settings file; used by long-running commands
func (a *app) loadSettings() (*stockconfig.Settings, error) {
	settings, _, err := stockconfig.Resolve(a.cfg.StocksFile)
	return settings, err
}

func (a *app) close() {
	a.log.Close()
}

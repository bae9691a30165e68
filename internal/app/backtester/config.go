package backtester

// Конфигурация CLI.
//
// Порядок применения (каждый следующий слой перекрывает предыдущий):
//   1) значения по умолчанию (DefaultConfig);
//   2) YAML-файл (-config);
//   3) переменные окружения BT_* (в том числе из .env);
//   4) флаги командной строки.
//
// Переменные окружения:
//   BT_FILE=candles.json
//   BT_MODE=walkforward            # backtest|walkforward
//   BT_STRATEGY=ma_cross           # пусто = весь каталог (только walkforward)
//   BT_SHORT_WINDOW=5
//   BT_LONG_WINDOW=20
//   BT_CAPITAL=100000
//   BT_TRAIN_RATIO=0.8
//   BT_OUT_DIR=.
//   BT_STOP_LOSS_PCT=0.1  BT_TRAILING_STOP_PCT=0.22  BT_RISK_PER_TRADE=0.08
//   BT_MAX_POSITION_PCT=0.95  BT_TREND_MA_LEN=20  BT_COOLDOWN_BARS=1
//   BT_LOG_LEVEL=info  BT_LOG_JSON=false
//
// Пример YAML:
// ---
// file: data/SBER.json
// mode: walkforward
// capital: 100000
// train_ratio: 0.8
// risk:
//   stop_loss_pct: 0.1
//   cooldown_bars: 1
// log:
//   level: debug

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"wfbt/internal"
	"wfbt/strategies"
)

const (
	ModeBacktest    = "backtest"
	ModeWalkForward = "walkforward"

	envPrefix = "BT_"
)

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Config — конфигурация приложения
type Config struct {
	Filename    string                 `yaml:"file"`
	Mode        string                 `yaml:"mode"`
	Strategy    string                 `yaml:"strategy"`
	ShortWindow int                    `yaml:"short_window"`
	LongWindow  int                    `yaml:"long_window"`
	Capital     float64                `yaml:"capital"`
	TrainRatio  float64                `yaml:"train_ratio"`
	OutDir      string                 `yaml:"out_dir"`
	Risk        internal.RiskOverrides `yaml:"risk"`
	Log         LogConfig              `yaml:"log"`

	CpuProfile string `yaml:"-"`
	MemProfile string `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		Filename:   "candles.json",
		Mode:       ModeWalkForward,
		Capital:    internal.DefaultCapital,
		TrainRatio: internal.DefaultTrainRatio,
		OutDir:     ".",
		Log:        LogConfig{Level: "info"},
	}
}

// LoadConfig читает .env (если есть), YAML по path (если задан) и BT_* переменные.
// Валидация выполняется отдельно, после применения флагов.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return c, errors.Wrap(err, "load .env")
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return c, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return c, errors.Wrapf(err, "parse config %s", path)
		}
	}

	c.applyEnv(envPrefix)
	return c, nil
}

func (c *Config) applyEnv(prefix string) {
	c.Filename = pickStr(os.Getenv(prefix+"FILE"), c.Filename)
	c.Mode = pickStr(os.Getenv(prefix+"MODE"), c.Mode)
	c.Strategy = pickStr(os.Getenv(prefix+"STRATEGY"), c.Strategy)
	c.ShortWindow = pickInt(os.Getenv(prefix+"SHORT_WINDOW"), c.ShortWindow)
	c.LongWindow = pickInt(os.Getenv(prefix+"LONG_WINDOW"), c.LongWindow)
	c.Capital = pickFloat(os.Getenv(prefix+"CAPITAL"), c.Capital)
	c.TrainRatio = pickFloat(os.Getenv(prefix+"TRAIN_RATIO"), c.TrainRatio)
	c.OutDir = pickStr(os.Getenv(prefix+"OUT_DIR"), c.OutDir)

	c.Risk.StopLossPct = pickFloatPtr(os.Getenv(prefix+"STOP_LOSS_PCT"), c.Risk.StopLossPct)
	c.Risk.TrailingStopPct = pickFloatPtr(os.Getenv(prefix+"TRAILING_STOP_PCT"), c.Risk.TrailingStopPct)
	c.Risk.RiskPerTrade = pickFloatPtr(os.Getenv(prefix+"RISK_PER_TRADE"), c.Risk.RiskPerTrade)
	c.Risk.MaxPositionPct = pickFloatPtr(os.Getenv(prefix+"MAX_POSITION_PCT"), c.Risk.MaxPositionPct)
	c.Risk.TrendMALen = pickIntPtr(os.Getenv(prefix+"TREND_MA_LEN"), c.Risk.TrendMALen)
	c.Risk.CooldownBars = pickIntPtr(os.Getenv(prefix+"COOLDOWN_BARS"), c.Risk.CooldownBars)

	c.Log.Level = pickStr(os.Getenv(prefix+"LOG_LEVEL"), c.Log.Level)
	c.Log.JSON = pickBool(os.Getenv(prefix+"LOG_JSON"), c.Log.JSON)
}

// BaseRisk — профиль риска, поверх которого накладываются переопределения
func (c *Config) BaseRisk() internal.RiskConfig {
	if c.Mode == ModeBacktest {
		return internal.DefaultRiskConfig()
	}
	return internal.WalkForwardRiskConfig()
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeBacktest, ModeWalkForward:
	default:
		return errors.Errorf("mode %q invalid (allowed: backtest|walkforward)", c.Mode)
	}
	if c.Filename == "" {
		return errors.New("file must not be empty")
	}
	if c.Strategy != "" {
		if _, err := internal.ParseStrategyKind(c.Strategy); err != nil {
			return err
		}
	} else if c.Mode == ModeBacktest {
		return errors.New("backtest mode requires a strategy")
	}
	if c.ShortWindow < 0 || c.LongWindow < 0 {
		return errors.New("windows must not be negative")
	}
	// явные окна проверяются генератором выбранной стратегии
	if c.Strategy != "" && (c.ShortWindow > 0 || c.LongWindow > 0) {
		gen, err := strategies.LookupName(c.Strategy)
		if err != nil {
			return err
		}
		params := internal.StrategyParams{ShortWindow: c.ShortWindow, LongWindow: c.LongWindow}
		if err := internal.ValidateParams(gen, params); err != nil {
			return err
		}
	}
	if c.Capital <= 0 {
		return errors.Errorf("capital must be positive, got %v", c.Capital)
	}
	if c.TrainRatio <= 0 || c.TrainRatio >= 1 {
		return errors.Wrapf(internal.ErrInvalidSplit, "train_ratio %v outside (0,1)", c.TrainRatio)
	}
	if err := c.BaseRisk().Merge(c.Risk).Validate(); err != nil {
		return errors.Wrap(err, "risk")
	}
	return nil
}

func pickStr(env, cur string) string {
	if strings.TrimSpace(env) != "" {
		return strings.TrimSpace(env)
	}
	return cur
}

func pickInt(env string, cur int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(env)); err == nil {
		return v
	}
	return cur
}

func pickFloat(env string, cur float64) float64 {
	if v, err := strconv.ParseFloat(strings.TrimSpace(env), 64); err == nil {
		return v
	}
	return cur
}

func pickBool(env string, cur bool) bool {
	if strings.TrimSpace(env) == "" {
		return cur
	}
	s := strings.ToLower(strings.TrimSpace(env))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

func pickIntPtr(env string, cur *int) *int {
	if v, err := strconv.Atoi(strings.TrimSpace(env)); err == nil {
		return &v
	}
	return cur
}

func pickFloatPtr(env string, cur *float64) *float64 {
	if v, err := strconv.ParseFloat(strings.TrimSpace(env), 64); err == nil {
		return &v
	}
	return cur
}

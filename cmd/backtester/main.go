// main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"wfbt/internal"
	"wfbt/internal/app/backtester"
	"wfbt/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := parseConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Запуск CPU профилирования если указано
	if cfg.CpuProfile != "" {
		f, err := os.Create(cfg.CpuProfile)
		if err != nil {
			return errors.Wrap(err, "create cpu profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return errors.Wrap(err, "start cpu profile")
		}
		defer pprof.StopCPUProfile()
	}

	bars, err := backtester.LoadBars(cfg.Filename)
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		return errors.Errorf("no bars in %s", cfg.Filename)
	}
	log.Info("✅ bars loaded", zap.Int("count", len(bars)), zap.String("file", cfg.Filename))

	runner := backtester.NewRunner(cfg, log, backtester.NewConsolePrinter())
	saver := backtester.NewFileSaver(cfg.OutDir)

	var (
		report any
		suffix string
	)
	switch cfg.Mode {
	case backtester.ModeBacktest:
		report, err = runner.RunBacktest(bars)
		suffix = "backtest_" + cfg.Strategy
	default:
		report, err = runner.RunStrategyTest(bars)
		suffix = "strategy_test"
	}
	if errors.Is(err, internal.ErrNoResult) {
		log.Warn("🔸 not enough data for a result", zap.Error(err))
		return nil
	}
	if err != nil {
		return err
	}

	path, err := saver.Save(report, cfg.Filename, suffix)
	if err != nil {
		return err
	}
	log.Info("💾 report saved", zap.String("path", path))

	// Memory профилирование
	if cfg.MemProfile != "" {
		f, err := os.Create(cfg.MemProfile)
		if err != nil {
			return errors.Wrap(err, "create memory profile")
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return errors.Wrap(err, "write memory profile")
		}
	}
	return nil
}

// parseConfig — YAML/.env/окружение, затем флаги поверх
func parseConfig() (backtester.Config, error) {
	configFile := flag.String("config", "", "Путь к YAML-файлу конфигурации (пусто = значения по умолчанию)")
	filename := flag.String("file", "", "Путь к JSON-файлу со свечами")
	mode := flag.String("mode", "", "Режим: backtest или walkforward")
	strategyName := flag.String("strategy", "", "Стратегия: ma_cross, macd, kdj, rsi, bollinger (пусто = весь каталог)")
	short := flag.Int("short", 0, "Короткое окно стратегии (0 = из каталога)")
	long := flag.Int("long", 0, "Длинное окно стратегии (0 = из каталога)")
	capital := flag.Float64("capital", 0, "Стартовый капитал")
	trainRatio := flag.Float64("train_ratio", 0, "Доля обучающего окна, (0,1)")
	outDir := flag.String("out", "", "Каталог для JSON-отчётов")
	debug := flag.Bool("debug", false, "Включить детальное логирование")
	logJSON := flag.Bool("log_json", false, "Логи в формате JSON")
	cpuProfile := flag.String("cpu_profile", "", "Файл для CPU профилирования (пусто = отключено)")
	memProfile := flag.String("mem_profile", "", "Файл для памяти профилирования (пусто = отключено)")
	flag.Parse()

	cfg, err := backtester.LoadConfig(*configFile)
	if err != nil {
		return cfg, err
	}

	// Флаги перекрывают файл и окружение только если заданы явно
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "file":
			cfg.Filename = *filename
		case "mode":
			cfg.Mode = *mode
		case "strategy":
			cfg.Strategy = *strategyName
		case "short":
			cfg.ShortWindow = *short
		case "long":
			cfg.LongWindow = *long
		case "capital":
			cfg.Capital = *capital
		case "train_ratio":
			cfg.TrainRatio = *trainRatio
		case "out":
			cfg.OutDir = *outDir
		case "log_json":
			cfg.Log.JSON = *logJSON
		}
	})
	if *debug {
		cfg.Log.Level = "debug"
	}
	cfg.CpuProfile = *cpuProfile
	cfg.MemProfile = *memProfile

	return cfg, cfg.Validate()
}

package backtester

import (
	"wfbt/internal"
)

// StrategyTestResult — сводный отчёт проверки стратегий на одном инструменте
type StrategyTestResult struct {
	Source           string                      `json:"source"`
	FullFrom         string                      `json:"full_start"`
	FullTo           string                      `json:"full_end"`
	TrainRatio       float64                     `json:"train_ratio"`
	TrainFrom        string                      `json:"train_start,omitempty"`
	TestFrom         string                      `json:"test_start,omitempty"`
	TotalStrategies  int                         `json:"total_strategies"`
	AvgConfidence    float64                     `json:"avg_confidence"`
	BestStrategy     string                      `json:"best_strategy"`
	BestLabel        string                      `json:"best_strategy_label"`
	FullBuyHoldPct   float64                     `json:"full_bnh_pct"`
	TestBuyHoldPct   float64                     `json:"test_bnh_pct"`
	TimeTakenSeconds float64                     `json:"time_taken_seconds"`
	Items            []*internal.WalkForwardItem `json:"items"`
}

// ResultSaver — интерфейс для сохранения результатов
type ResultSaver interface {
	Save(report any, inputFilename, suffix string) (string, error)
}

// ResultPrinter — интерфейс для вывода результатов
type ResultPrinter interface {
	PrintBacktest(result *internal.BacktestResult)
	PrintStrategyTest(result *StrategyTestResult)
}

package models

// SymbolReport is the per-symbol output of one pipeline run.
//
// WindowLength is the number of trading days actually used, which is smaller
// than the requested window when the provider has less history.
type SymbolReport struct {
	Symbol       string
	WindowLength int
	Metrics      SymbolMetrics
	Momentum     MomentumScore
	SkippedDays  []string
}

// SymbolFailure records a symbol whose computation stopped at Stage.
type SymbolFailure struct {
	Symbol string
	Stage  string
	Err    error
}

// Analysis is the result of running the pipeline over a batch of symbols.
//
// Reports and Failures keep the order in which symbols were requested. Winner
// is nil when no symbol produced a report; RankErr then explains why.
type Analysis struct {
	RequestedWindow int
	Source          string
	Reports         []SymbolReport
	Failures        []SymbolFailure
	Winner          *RankedResult
	RankErr         error
}

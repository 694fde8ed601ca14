package metrics

// NopRecorder discards every metric, for tests and library callers that do
// not run a registry.
type NopRecorder struct{}

func (NopRecorder) RecordFit(string, float64, bool)             {}
func (NopRecorder) RecordSelection(string)                      {}
func (NopRecorder) RecordForecastSigma(string, string, float64) {}
func (NopRecorder) RecordBacktestHitRate(string, float64)       {}
func (NopRecorder) RecordError(string)                          {}

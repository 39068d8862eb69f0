package minmax

import "time"

// SearchMetrics describes the work done by one search.
type SearchMetrics struct {
	StartTime time.Time
	Duration  time.Duration
	Passes    int

	MinMaxCalls    int64 // calls of the scalar min-max recursion
	CollectCalls   int64 // calls collecting the replies to a move
	RecursiveCalls int64 // explored leaves of the search tree
	TreeNodes      int   // nodes of the final search tree
}

// MetricsCollector collects SearchMetrics during a search.
type MetricsCollector interface {
	Start()
	AddPass()
	AddMinMaxCall()
	AddCollectCall()
	AddRecursiveCall()
	SetTreeNodes(n int)
	Complete() SearchMetrics
}

type metricsCollector struct {
	start   time.Time
	metrics SearchMetrics
}

func NewMetricsCollector() MetricsCollector { return &metricsCollector{} }

func (m *metricsCollector) Start() {
	m.start = time.Now()
	m.metrics = SearchMetrics{}
}

func (m *metricsCollector) AddPass()           { m.metrics.Passes++ }
func (m *metricsCollector) AddMinMaxCall()     { m.metrics.MinMaxCalls++ }
func (m *metricsCollector) AddCollectCall()    { m.metrics.CollectCalls++ }
func (m *metricsCollector) AddRecursiveCall()  { m.metrics.RecursiveCalls++ }
func (m *metricsCollector) SetTreeNodes(n int) { m.metrics.TreeNodes = n }

func (m *metricsCollector) Complete() SearchMetrics {
	retVal := m.metrics
	retVal.StartTime = m.start
	retVal.Duration = time.Since(m.start)
	return retVal
}

type noMetricsCollector struct{}

func NewNoMetricsCollector() MetricsCollector { return noMetricsCollector{} }

func (noMetricsCollector) Start()                  {}
func (noMetricsCollector) AddPass()                {}
func (noMetricsCollector) AddMinMaxCall()          {}
func (noMetricsCollector) AddCollectCall()         {}
func (noMetricsCollector) AddRecursiveCall()       {}
func (noMetricsCollector) SetTreeNodes(int)        {}
func (noMetricsCollector) Complete() SearchMetrics { return SearchMetrics{} }

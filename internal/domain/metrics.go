package domain

// ReportingMetrics is a snapshot of reporting-engine counters, returned by
// GET /v1/metrics/reporting.
type ReportingMetrics struct {
	TotalRequests    int64   `json:"totalRequests"`
	ErrorRate        float64 `json:"errorRate"`
	CacheHitRate     float64 `json:"cacheHitRate"`
	InvoicesComputed int64   `json:"invoicesComputed"`
	Period           string  `json:"period"`
}

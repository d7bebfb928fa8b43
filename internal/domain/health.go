package domain

// ============================================================
// Health API Responses
// ============================================================

// APIHealth is returned by GET /api/health.
type APIHealth struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Backend  string          `json:"backend"`
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
	Error       string `json:"error,omitempty"`
}

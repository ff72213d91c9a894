package models

import "time"

// ActivityMetrics summarises portal traffic since process start.
type ActivityMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	LoginsSucceeded          uint64    `json:"logins_succeeded"`
	LoginsFailed             uint64    `json:"logins_failed"`
	BatchesGenerated         uint64    `json:"batches_generated"`
	SessionEdits             uint64    `json:"session_edits"`
	ReportsRendered          uint64    `json:"reports_rendered"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// AdminDashboard is the administrator landing payload.
type AdminDashboard struct {
	Students       StudentDirectoryStats `json:"students"`
	RecentStudents []Student             `json:"recent_students"`
	Activity       ActivityMetrics       `json:"activity"`
	GeneratedAt    time.Time             `json:"generated_at"`
}

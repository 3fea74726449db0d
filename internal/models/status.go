package models

import "time"

// WorkerStatus reports the retention sweeper state
type WorkerStatus struct {
	Running          bool       `json:"running"`
	RetentionMinutes int        `json:"retention_minutes"`
	NextRun          *time.Time `json:"next_run"`
	JobCount         int        `json:"job_count"`
}

// LLMStatus reports the configured summarization backend
type LLMStatus struct {
	Available bool   `json:"available"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Host      string `json:"host"`
}

// SweepResult counts the outcome of one retention sweep
type SweepResult struct {
	Scanned int
	Deleted int
	Failed  int
}

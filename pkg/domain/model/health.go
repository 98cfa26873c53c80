package model

import "time"

// HealthStatus represents the health check status
type HealthStatus struct {
	Status    string       `json:"status"`
	Service   string       `json:"service"`
	Version   string       `json:"version"`
	LastCycle *CycleReport `json:"last_cycle,omitempty"`
}

// CycleReport summarizes one poll cycle
type CycleReport struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Repositories int       `json:"repositories"`
	Processed    int       `json:"processed"`
	Alerts       int       `json:"alerts"`
	Failures     int       `json:"failures"`
	Aborted      bool      `json:"aborted"`
}

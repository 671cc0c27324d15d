package models

import (
	"time"
)

// Boot records one process start and the version it reported.
type Boot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Version   string    `gorm:"not null" json:"version"`
	Source    string    `json:"source"` // file|git|none
	Hostname  string    `json:"hostname"`
	PID       int       `json:"pid"`
	StartedAt time.Time `gorm:"index" json:"startedAt"`
}

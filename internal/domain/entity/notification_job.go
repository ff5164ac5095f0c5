package entity

import "time"

// JobName nombres fijos de jobs de notificación.
type JobName string

const (
	JobLowStockDigest JobName = "low_stock_digest"
	JobDailySummary   JobName = "daily_summary"
)

// Valid indica si el nombre pertenece a la enumeración.
func (n JobName) Valid() bool {
	return n == JobLowStockDigest || n == JobDailySummary
}

// JobStatus último estado de ejecución de un job.
type JobStatus string

const (
	JobIdle    JobStatus = "idle"
	JobRunning JobStatus = "running"
	JobSuccess JobStatus = "success"
	JobFailed  JobStatus = "failed"
)

// Valid indica si el estado pertenece a la enumeración.
func (s JobStatus) Valid() bool {
	switch s {
	case JobIdle, JobRunning, JobSuccess, JobFailed:
		return true
	}
	return false
}

// NotificationJobStatus fila de seguimiento de un job de notificación (una por JobName).
// Los punteros nil significan "sin valor" (nunca ejecutado, sin usuario, etc.).
type NotificationJobStatus struct {
	ID             int64
	JobName        JobName
	LastRunAt      *time.Time
	NextRunAt      *time.Time
	LastStatus     JobStatus
	LastDurationMs *int
	LastMessage    string
	TriggeredBy    *string
	UpdatedAt      time.Time
}

package domain

import "time"

// QueryLog is one audited API request.
type QueryLog struct {
	ID         string    `json:"id"`
	HTTPMethod string    `json:"httpMethod"`
	URI        string    `json:"uri"`
	ClientIP   string    `json:"clientIp"`
	Username   string    `json:"username,omitempty"`
	Status     int       `json:"status"`
	DurationMs int64     `json:"durationMs"`
	ErrorMsg   string    `json:"errorMessage,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func (q *QueryLog) Failed() bool { return q.Status >= 400 }

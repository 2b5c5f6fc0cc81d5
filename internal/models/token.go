package models

import (
	"time"
)

// Layout used for RequestTime when the store keeps it as a string
// Matches JavaScript Date.toISOString(): millisecond precision, always UTC
const RequestTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Token record issued to a user and looked up by the authorizer
// Records are never updated or deleted
type TokenRecord struct {
	ReqID       string
	User        string
	RequestTime time.Time
}

// Format RequestTime the way it is persisted as a string
func (t TokenRecord) RequestTimeString() string {
	return t.RequestTime.UTC().Format(RequestTimeLayout)
}

// Parse persisted RequestTime
func ParseRequestTime(value string) (time.Time, error) {
	return time.Parse(RequestTimeLayout, value)
}

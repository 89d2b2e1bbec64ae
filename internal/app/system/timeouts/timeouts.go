// Package timeouts provides the timeout values handlers use for database
// and outbound calls. Every external call runs under one of these bounds;
// nothing in a request pipeline may block indefinitely.
//
// Guidelines:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads or lookups
//   - Medium: list queries and simple writes
//   - Long: multi-collection writes and file uploads
//   - Backend: outbound calls to the AI backend
package timeouts

import "time"

const (
	Ping    = 2 * time.Second
	Short   = 5 * time.Second
	Medium  = 10 * time.Second
	Long    = 30 * time.Second
	Backend = 20 * time.Second
)

// Package domain holds the value types the API exchanges.
package domain

// Content is a single record: an id assigned by the store,
// a name unique across all records and an optional location.
type Content struct {
	ID       uint64  `json:"id"`
	Name     string  `json:"name"`
	Location *string `json:"location"`
}


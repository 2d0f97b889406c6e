// Package handler holds what the http handlers share.
package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// SearchPath is the path of the search operation.
	SearchPath = "/search"

	// IDPath addresses a single record, ids must be integers.
	IDPath = "/:id<int>"

	// IDParam is the route parameter holding the record id.
	IDParam = "id"

	// ErrNilACDFatalLogMsg is used if app, cfg or repo is nil.
	ErrNilACDFatalLogMsg = "app, cfg or repo is nil"
)

// client visible error messages shared by handlers and middleware.
const (
	MsgNotFound       = "Not found"
	MsgDuplicateName  = "Duplicate content name"
	MsgInternalError  = "Internal server error"
	MsgRateLimitError = "Rate limit exceeded"
)

package constants

// ContextKeyUserID is the gin context key carrying the authenticated caller.
const ContextKeyUserID = "user_id"

const MinPasswordLength = 8

// Pagination bounds
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

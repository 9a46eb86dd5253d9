// Package ctxkey defines type-safe keys for context.Value.
package ctxkey

// Key avoids the built-in string type for context keys (staticcheck SA1029).
type Key string

const (
	// RequestID is the server generated (or forwarded) request ID.
	RequestID Key = "ctx_request_id"

	// TextHash is the text identifier the current request resolves to,
	// attached so access logs can correlate reads with a paste.
	TextHash Key = "ctx_text_hash"
)

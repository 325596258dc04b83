package common

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	// AuthClaimsKey holds the verified token claims in fiber locals.
	AuthClaimsKey contextKey = "auth_claims"
)

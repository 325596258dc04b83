package common

import "time"

const (
	DefaultOracleTimeout   = 25 * time.Second
	DefaultJanitorInterval = 5 * time.Minute

	RequestIDHeader = "X-Request-Id"
	UserIDHeader    = "X-User-Id"

	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "

	BotSlug = "goku"
)

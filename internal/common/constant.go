package common

const (
	// AuthorizationHeaderName carries the bearer access token.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix is the scheme prefix expected in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName is echoed back on every response.
	RequestIDHeaderName = "X-Request-ID"

	// TokenEnvName is read by the CLI when --token is not given.
	TokenEnvName = "PASSVAULT_TOKEN"
)

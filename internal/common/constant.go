package common

// AuthorizationHeaderName carries the bearer token on inbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is matched case-sensitively.
const BearerPrefix = "Bearer "

// MinCredentialLength is the minimal length of usernames and passwords.
const MinCredentialLength = 3

package common

// AuthorizationHeaderName is the HTTP header carrying the access token.
const AuthorizationHeaderName = "Authorization"

// BearerSchemePrefix is the expected scheme prefix of the Authorization header.
const BearerSchemePrefix = "Bearer "

// RefreshTokenCookieName is the cookie carrying the raw refresh secret.
const RefreshTokenCookieName = "refresh_token"

// RefreshTokenByteSize is the entropy of a refresh secret in bytes (256 bits).
const RefreshTokenByteSize = 32

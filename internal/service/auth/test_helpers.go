package auth

import "time"

// NewTestJWTService creates a JWT service with an injectable clock for
// predictable tests. All three token lifetimes use the given lifetime.
func NewTestJWTService(secret string, lifetime time.Duration, timeFunc func() time.Time) JWTService {
	return &hmacJWTService{
		signingKey:           []byte(secret),
		tokenLifetime:        lifetime,
		refreshTokenLifetime: lifetime,
		resetTokenLifetime:   lifetime,
		timeFunc:             timeFunc,
		clockSkew:            0, // exact time comparisons in tests
	}
}

package gateway

import (
	stderrors "errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skillsenselab/llmkit/errors"
)

// JWTValidator returns a token validator for middleware.Auth that accepts
// HS256 tokens signed with the given secret. Registered time claims (exp,
// nbf, iat) are enforced by the parser; the claims map is handed to the
// middleware so handlers can read the subject.
//
// Failures come back as AppErrors so the middleware can answer with the
// structured envelope: TOKEN_EXPIRED for tokens past their exp claim,
// INVALID_TOKEN for everything else.
func JWTValidator(secret []byte) func(token string) (map[string]interface{}, error) {
	return func(tokenString string) (map[string]interface{}, error) {
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
			}
			return secret, nil
		})
		switch {
		case stderrors.Is(err, jwt.ErrTokenExpired):
			return nil, errors.TokenExpired()
		case err != nil:
			return nil, errors.InvalidToken().WithCause(err)
		case !token.Valid:
			return nil, errors.InvalidToken()
		}
		return claims, nil
	}
}

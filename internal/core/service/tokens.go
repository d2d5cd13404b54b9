package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errInvalidAccessToken = errors.New("invalid access token")

// IssueAccessToken signs a short-lived HS256 token whose subject is the user
// id. It backs the bearer identity strategy; cookie sessions never use it.
func IssueAccessToken(userID int64, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	return token.SignedString(secret)
}

// ParseAccessToken validates the token signature and expiry and returns the
// user id from the subject claim.
func ParseAccessToken(tokenString string, secret []byte) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, errInvalidAccessToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, errInvalidAccessToken
	}
	return userID, nil
}

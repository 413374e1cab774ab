// Package auth implements the two credential primitives of the server:
// signing and verifying session tokens, and hashing and checking passwords.
package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nuliana/getapet/internal/common"
)

// Claims carried by a session token: the account id and display name.
//
// No expiry claim is set or checked. A token stays valid for as long as the
// signing secret is unchanged, which is a known limitation of the current
// design rather than an oversight.
type Claims struct {
	jwt.RegisteredClaims
	AccountID   string `json:"id"`
	AccountName string `json:"name"`
}

// IssueToken signs a session token over the given account identity using
// the process-wide secret (HS256).
func IssueToken(accountID, accountName string, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		AccountID:   accountID,
		AccountName: accountName,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return tokenString, nil
}

// VerifyToken checks the token signature and returns the embedded account id
// and name. Malformed or tampered tokens yield common.ErrInvalidToken.
func VerifyToken(tokenString string, secretKey []byte) (accountID, accountName string, err error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", "", common.ErrInvalidToken
	}

	return claims.AccountID, claims.AccountName, nil
}

// BearerToken extracts the credential from an Authorization header value.
// The second return is false only when the header is absent; a header that
// is present but lacks a credential yields an empty token, which later fails
// verification the same way an invalid token does.
func BearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[1]), true
	}

	return "", true
}

// Package helper signs and validates the two token kinds: a short-lived RS256
// access token carrying the user profile and an HS256 refresh token carrying
// only the user id and a rotation id.
package helper

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/tribeshub/backend/pkg/model"
)

// GenerateAccessToken signs an RS256 token with the full user under the "user"
// claim, so handlers can serve the authenticated profile without a lookup.
func GenerateAccessToken(user *model.User, key *rsa.PrivateKey, expirationInSeconds int) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		IssuedAt(now).
		Expiration(now.Add(time.Duration(expirationInSeconds) * time.Second)).
		Claim("user", user).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build access token: %v", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.RS256, key))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %v", err)
	}

	return string(signed), nil
}

type refreshToken struct {
	SignedString string
	TokenId      string
	ExpiresIn    time.Duration
}

// GenerateRefreshToken signs an HS256 token holding the user id and a fresh jti.
// The jti is what the store tracks, so rotation invalidates the previous token
// without parsing it again.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func GenerateRefreshToken(user *model.User, secretKey string, expirationInSeconds int) (*refreshToken, error) {
	now := time.Now()
	expiration := now.Add(time.Duration(expirationInSeconds) * time.Second)
	tokenId := uuid.NewString()

	token, err := jwt.NewBuilder().
		JwtID(tokenId).
		IssuedAt(now).
		Expiration(expiration).
		Claim("userId", user.ID).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build refresh token: %v", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, []byte(secretKey)))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %v", err)
	}

	return &refreshToken{
		SignedString: string(signed),
		TokenId:      tokenId,
		ExpiresIn:    expiration.Sub(now),
	}, nil
}

type refreshTokenClaims struct {
	UserId    uint
	ID        string
	ExpiresIn time.Duration
	IssuedAt  int64
}

// ValidateRefreshToken verifies the signature and returns the claims the token
// service needs to rotate the token.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func ValidateRefreshToken(tokenString string, secretKey string) (*refreshTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256, []byte(secretKey)),
	)
	if err != nil {
		return nil, err
	}

	userId, ok := token.Get("userId")
	if !ok {
		return nil, fmt.Errorf("refresh token has no userId claim")
	}

	return &refreshTokenClaims{
		UserId:    uint(userId.(float64)),
		ID:        token.JwtID(),
		ExpiresIn: time.Until(token.Expiration()),
		IssuedAt:  token.IssuedAt().Unix(),
	}, nil
}

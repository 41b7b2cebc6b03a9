package utils

import (
	"fmt"
	"time"

	"benchtime/internal/models"

	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is how long both session tokens and password-reset tokens live.
const TokenTTL = 24 * time.Hour

// ResetTokenType is the type discriminator carried by password-reset tokens
// so a session token can never be replayed as a reset token.
const ResetTokenType = "password_reset"

type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	PersonID string `json:"person_id"`
	Type     string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// GenerateSessionToken issues the signed bearer token returned by login.
func GenerateSessionToken(user *models.User, secret string) (string, error) {
	email := ""
	if user.Person != nil {
		email = user.Person.Email
	}

	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    email,
		PersonID: user.PersonID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateResetToken issues a signed password-reset token for a user.
func GenerateResetToken(userID, email, secret string) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		Type:   ResetTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken parses and validates a signed token.
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}

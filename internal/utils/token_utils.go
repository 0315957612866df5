package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AppClaims extends the registered claims with the role and campus needed to
// resolve the acting user without a user lookup per request.
type AppClaims struct {
	jwt.RegisteredClaims
	Role     string `json:"role"`
	CampusID string `json:"campus_id,omitempty"`
}

// GenerateJWT generates a new signed token for the given user.
func GenerateJWT(userID, role, campusID, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	claims := AppClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
		Role:     role,
		CampusID: campusID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a token string and validates its signature and
// standard claims, returning the app claims when valid.
func ParseAndValidateJWT(tokenString, secretKey string) (*AppClaims, error) {
	claims := &AppClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}

package jwt

import (
	"chronicles/backend/internal/config"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// ResetTokenTTL is how long a password reset token stays valid.
const ResetTokenTTL = 600 * time.Second

var ErrInvalidToken = errors.New("invalid or expired token")

func sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

func parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func uintClaim(claims jwt.MapClaims, name string) (uint, error) {
	v, ok := claims[name].(float64)
	if !ok || v <= 0 {
		return 0, ErrInvalidToken
	}
	return uint(v), nil
}

// GenerateToken creates a new JWT for a given user ID.
func GenerateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour * 24 * 7).Unix(), // Token expires in 7 days
		"iat": time.Now().Unix(),
	}
	return sign(claims)
}

// ParseToken validates an access token and returns its user ID.
func ParseToken(tokenString string) (uint, error) {
	claims, err := parse(tokenString)
	if err != nil {
		return 0, err
	}
	return uintClaim(claims, "sub")
}

// GenerateResetToken creates a short lived token authorising a password reset.
func GenerateResetToken(userID uint) (string, error) {
	return sign(jwt.MapClaims{
		"reset_password": userID,
		"exp":            time.Now().Add(ResetTokenTTL).Unix(),
	})
}

// VerifyResetToken returns the user ID a reset token was issued for.
func VerifyResetToken(tokenString string) (uint, error) {
	claims, err := parse(tokenString)
	if err != nil {
		return 0, err
	}
	return uintClaim(claims, "reset_password")
}

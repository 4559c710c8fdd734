package auth

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateAccessToken signs a short-lived access token for the user.
func GenerateAccessToken(userID, email string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = userID
	claims["email"] = email
	claims["exp"] = time.Now().Add(1 * time.Hour).Unix()
	return token.SignedString([]byte(os.Getenv("JWT_SECRET_KEY")))
}

// GenerateRefreshToken signs a long-lived refresh token for the user.
func GenerateRefreshToken(userID string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = userID
	claims["exp"] = time.Now().Add(7 * 24 * time.Hour).Unix()
	return token.SignedString([]byte(os.Getenv("JWT_REFRESH_SECRET_KEY")))
}

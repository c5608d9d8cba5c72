package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// IssueToken signs a reconnect token bound to a player id. Clients present it
// on rejoin so a new connection can be matched back to its session.
func IssueToken(secret, playerID string, ttl time.Duration) (string, error) {
	if playerID == "" {
		return "", fmt.Errorf("player id is empty")
	}
	claims := jwt.MapClaims{
		"player_id": playerID,
		"exp":       jwt.NewNumericDate(time.Now().Add(ttl)).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken validates a reconnect token and returns the player id it carries.
func VerifyToken(secret, tokenString string) (string, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	playerID, ok := claims["player_id"].(string)
	if !ok || playerID == "" {
		return "", fmt.Errorf("token missing player id")
	}
	return playerID, nil
}

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rishindra2005/techno-vidya/internal/store"
)

const tokenLifetime = 7 * 24 * time.Hour

// Claims carried in the bearer token. Only the essentials; the full user
// record is always re-read from the store.
type Claims struct {
	ID    string
	Email string
	Name  string
}

func GenerateToken(user *store.User, secret string) (string, error) {
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func VerifyToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	id, _ := mapClaims["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("token missing user id")
	}
	email, _ := mapClaims["email"].(string)
	name, _ := mapClaims["name"].(string)
	return &Claims{ID: id, Email: email, Name: name}, nil
}

package utils

import (
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/calc_backend/config"
	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

type JwtCustomClaim struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	jwt.StandardClaims
}

// JwtGenerate issues an access token for the user. Every token carries a fresh jti
// (StandardClaims.Id) so logout can revoke exactly one token via the blacklist.
func JwtGenerate(settings config.Settings, userID string, username string) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &JwtCustomClaim{
		ID:       userID,
		Username: username,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			ExpiresAt: now.Add(time.Hour * time.Duration(settings.TokenHourLifespan)).Unix(),
			IssuedAt:  now.Unix(),
		},
	})

	token, err := t.SignedString([]byte(settings.ApiSecret))
	if err != nil {
		return "", err
	}

	return token, nil
}

func JwtValidate(settings config.Settings, token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &JwtCustomClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("there's a problem with the signing method")
		}
		return []byte(settings.ApiSecret), nil
	})
}

package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

type UserType string

const (
	UserTypeClient        UserType = "Client"
	UserTypeAdministrator UserType = "Administrator"
)

// Identity is the session identity decoded from the bearer token.
type Identity struct {
	UserID   int64
	UserType UserType
	Subject  string
}

func (i Identity) IsAdmin() bool {
	return i.UserType == UserTypeAdministrator
}

// Decode extracts the identity claims from a bearer token without verifying
// its signature; verification is the backend's job, every authenticated call
// carries the token and the backend rejects forgeries with a 401. A
// malformed token fails closed: ok is false and the caller treats the
// session as logged out.
func Decode(token string) (Identity, bool) {
	if token == "" {
		return Identity{}, false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Identity{}, false
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, false
	}

	id, ok := claims["id"].(float64)
	if !ok {
		return Identity{}, false
	}

	userType, ok := claims["userType"].(string)
	if !ok {
		return Identity{}, false
	}

	subject, _ := claims["sub"].(string)

	return Identity{
		UserID:   int64(id),
		UserType: UserType(userType),
		Subject:  subject,
	}, true
}

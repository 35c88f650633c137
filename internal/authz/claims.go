package authz

import "github.com/golang-jwt/jwt/v5"

// Claims is the payload of a back-office token.
type Claims struct {
	Email  string `json:"email"`
	RoleID int    `json:"role_id"`
	jwt.RegisteredClaims
}

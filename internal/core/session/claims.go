package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/referral-dashboard/internal/core/domain"
)

// parseClaims decodes the payload segment of token without verifying its
// signature. The result is display data only and must never gate access.
func parseClaims(token string) jwt.MapClaims {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return jwt.MapClaims{}
	}
	return claims
}

func claimString(claims jwt.MapClaims, names ...string) string {
	for _, name := range names {
		switch v := claims[name].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

// actorFromClaims rebuilds a minimal profile from the token when the stored
// profile is missing.
func actorFromClaims(role domain.Role, token string) domain.Actor {
	claims := parseClaims(token)
	id := claimString(claims, "id", "_id", "userId", "sub")
	email := claimString(claims, "email")

	switch role {
	case domain.RoleAdmin:
		return domain.Admin{ID: id, Email: email, Name: claimString(claims, "name")}
	case domain.RoleSubAdmin:
		return domain.SubAdmin{ID: id, Email: email, Name: claimString(claims, "name")}
	case domain.RoleEmployee:
		return domain.Employee{ID: id, Email: email, FullName: claimString(claims, "fullName", "name")}
	default:
		return domain.EndUser{
			ID:        id,
			Email:     email,
			FirstName: claimString(claims, "firstName"),
			LastName:  claimString(claims, "lastName"),
		}
	}
}

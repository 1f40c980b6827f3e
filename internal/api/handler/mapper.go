package handler

import (
	"github.com/99minutos/referral-dashboard/internal/core/domain"
	"github.com/99minutos/referral-dashboard/internal/core/policy"
)

const defaultRegistrationMessage = "Registration successful"

func toSessionResponse(a domain.Actor) sessionResponse {
	return sessionResponse{
		Role:    a.Role().String(),
		Name:    a.DisplayName(),
		Profile: a,
	}
}

// toLoginResponse adds the landing route of the actor.
func toLoginResponse(a domain.Actor) sessionResponse {
	resp := toSessionResponse(a)
	resp.Redirect = policy.HomeRoute(a.Role())
	return resp
}

func toRegistrationResponse(reg *domain.Registration) registrationResponse {
	resp := registrationResponse{Message: defaultRegistrationMessage}
	if reg == nil {
		return resp
	}
	if reg.Message != "" {
		resp.Message = reg.Message
	}
	if reg.Credential != nil && reg.Credential.Actor != nil {
		resp.Role = reg.Credential.Actor.Role().String()
		resp.Profile = reg.Credential.Actor
	}
	return resp
}

// nonNil keeps empty listings rendered as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

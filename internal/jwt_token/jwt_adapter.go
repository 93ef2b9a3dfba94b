package jwttoken

import (
	"spearow/internal/platform/middleware"
)

// JWTServiceAdapter bridges JWTService to the middleware verifier contract.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) Verify(tokenString string) (*middleware.Claims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.Claims{
		Email: claims.Subject,
		Admin: claims.Admin,
	}, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

// GoogleIdentity is the verified subset of a Google ID token payload.
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
}

// GoogleVerifier checks a Google ID token's signature and audience.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

// ErrGoogleNotConfigured is returned when no OAuth client id is set.
var ErrGoogleNotConfigured = errors.New("google sign-in is not configured")

// IDTokenVerifier validates tokens against Google's published keys.
type IDTokenVerifier struct {
	clientID  string
	validator *idtoken.Validator
}

// NewIDTokenVerifier builds a verifier for the given OAuth client id.
func NewIDTokenVerifier(ctx context.Context, clientID string) (*IDTokenVerifier, error) {
	validator, err := idtoken.NewValidator(ctx, option.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}))
	if err != nil {
		return nil, fmt.Errorf("google: create validator: %w", err)
	}
	return &IDTokenVerifier{clientID: clientID, validator: validator}, nil
}

// Verify validates idToken and extracts the account identity.
func (v *IDTokenVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	if v.clientID == "" {
		return nil, ErrGoogleNotConfigured
	}

	payload, err := v.validator.Validate(ctx, idToken, v.clientID)
	if err != nil {
		return nil, err
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, errors.New("google: email not verified")
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	return &GoogleIdentity{Subject: payload.Subject, Email: email, Name: name}, nil
}

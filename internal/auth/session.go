package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/haianh3623/TEAManage/internal/api"
	"github.com/haianh3623/TEAManage/internal/model"
)

// Session is the authenticated user context. It is created on login (or
// restored from the keyring at startup) and disposed on logout; nothing
// else in the application holds user identity.
type Session struct {
	UserID int64
	Email  string
	Role   model.Role
	Token  string
}

// tokenClaims is the subset of JWT claims the client reads. The token
// signature is the server's concern; the client parses without
// verification only to derive the identity for API and channel calls.
type tokenClaims struct {
	UserID int64      `json:"userId"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Login authenticates against the backend, persists the token, installs
// it on the API client, and returns the new session.
func Login(
	ctx context.Context,
	client *api.Client,
	email string,
	password string,
) (*Session, error) {
	resp, err := client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	session, err := sessionFromToken(resp.Token)
	if err != nil {
		return nil, err
	}

	// A keyring failure must not block login; the session just won't
	// survive a restart.
	_ = StoreToken(resp.Token)
	client.SetToken(resp.Token)

	return session, nil
}

// Restore rebuilds a session from the token persisted in the keyring.
// Returns nil without error when no token is stored.
func Restore(client *api.Client) (*Session, error) {
	token, err := StoredToken()
	if err != nil || token == "" {
		return nil, nil
	}

	session, err := sessionFromToken(token)
	if err != nil {
		// A token we can no longer parse is useless; drop it.
		_ = ClearToken()
		return nil, nil
	}

	client.SetToken(token)
	return session, nil
}

// Logout disposes the session: the token is removed from the keyring
// and cleared from the API client.
func Logout(client *api.Client) {
	_ = ClearToken()
	client.SetToken("")
}

// sessionFromToken decodes the identity claims from a bearer token.
func sessionFromToken(token string) (*Session, error) {
	claims := &tokenClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decoding token claims: %w", err)
	}

	if claims.UserID == 0 {
		return nil, fmt.Errorf("token carries no user identity")
	}

	role := claims.Role
	if role == "" {
		role = model.RoleMember
	}

	return &Session{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   role,
		Token:  token,
	}, nil
}

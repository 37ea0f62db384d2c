package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/haianh3623/TEAManage/internal/model"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestSessionFromToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"userId": 42,
		"email":  "lead@example.com",
		"role":   "LEADER",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	session, err := sessionFromToken(token)
	if err != nil {
		t.Fatalf("sessionFromToken: %v", err)
	}
	if session.UserID != 42 {
		t.Errorf("UserID = %d, want 42", session.UserID)
	}
	if session.Email != "lead@example.com" {
		t.Errorf("Email = %q", session.Email)
	}
	if session.Role != model.RoleLeader {
		t.Errorf("Role = %s, want LEADER", session.Role)
	}
	if session.Token != token {
		t.Error("session does not carry the original token")
	}
}

func TestSessionFromTokenDefaultsRole(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"userId": 7,
		"email":  "member@example.com",
	})

	session, err := sessionFromToken(token)
	if err != nil {
		t.Fatalf("sessionFromToken: %v", err)
	}
	if session.Role != model.RoleMember {
		t.Errorf("Role = %s, want MEMBER default", session.Role)
	}
}

func TestSessionFromTokenRejectsMissingIdentity(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"email": "nobody@example.com",
	})

	if _, err := sessionFromToken(token); err == nil {
		t.Error("sessionFromToken accepted a token without userId")
	}
}

func TestSessionFromTokenRejectsGarbage(t *testing.T) {
	if _, err := sessionFromToken("not-a-jwt"); err == nil {
		t.Error("sessionFromToken accepted a malformed token")
	}
}

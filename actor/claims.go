package actor

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the platform session token shape. Mirrors what the
// identity service issues; unknown claims are ignored.
type SessionClaims struct {
	jwt.RegisteredClaims
	AccountName string `json:"account_name"`
	UserID      int64  `json:"user_id"`
	RoleID      int64  `json:"role_id"`
	RoleName    string `json:"role_name"`
	OrgID       int64  `json:"org_id"`
	OrgName     string `json:"org_name"`
	ActorType   string `json:"actor_type,omitempty"`
}

func (c *SessionClaims) ActorKind() Kind {
	if c.ActorType == "system" {
		return KindSystem
	}
	return KindUser
}

type tokenKey struct{}

// WithToken attaches the raw session token to the context. The HTTP and
// gRPC surfaces do this once per request.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// ClaimsProvider builds actor snapshots from the verified session token
// found in the context.
type ClaimsProvider struct {
	keyFunc jwt.Keyfunc
	host    Host
}

func NewClaimsProvider(keyFunc jwt.Keyfunc) *ClaimsProvider {
	return &ClaimsProvider{
		keyFunc: keyFunc,
		host:    DetectHost(),
	}
}

func (p *ClaimsProvider) Snapshot(ctx context.Context) (Snapshot, error) {
	raw, ok := ctx.Value(tokenKey{}).(string)
	if !ok || raw == "" {
		return Snapshot{}, fmt.Errorf("actor: no session token in context")
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, p.keyFunc)
	if err != nil {
		return Snapshot{}, fmt.Errorf("actor: parse session token: %w", err)
	}
	if !token.Valid {
		return Snapshot{}, fmt.Errorf("actor: session token invalid")
	}

	return Snapshot{
		Kind:        claims.ActorKind(),
		AccountName: claims.AccountName,
		UserID:      claims.UserID,
		RoleID:      claims.RoleID,
		RoleName:    claims.RoleName,
		OrgID:       claims.OrgID,
		OrgName:     claims.OrgName,
		Origin:      p.host,
	}, nil
}

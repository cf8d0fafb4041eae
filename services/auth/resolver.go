package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"cayo/errs"
	"cayo/models"
	"cayo/services/throttle"
	"cayo/store"

	"go.uber.org/zap"
)

// Session is what a successful login hands back.
type Session struct {
	Token     string    `json:"accessToken"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      Identity  `json:"user"`
}

type Resolver struct {
	store   store.Store
	hasher  Hasher
	codec   *Codec
	limiter throttle.Limiter
	log     *zap.Logger

	// compared against when the username is unknown so both paths pay for a hash
	dummyDigest string
}

func NewResolver(st store.Store, hasher Hasher, codec *Codec, limiter throttle.Limiter, log *zap.Logger) *Resolver {
	if limiter == nil {
		limiter = throttle.Noop{}
	}
	dummy, _ := hasher.Hash("cayo-unknown-account")
	return &Resolver{
		store:       st,
		hasher:      hasher,
		codec:       codec,
		limiter:     limiter,
		log:         log,
		dummyDigest: dummy,
	}
}

// Authenticate fails with the same InvalidCredentials error whether the
// username is unknown, the secret is wrong, the account is disabled or the
// username is locked out.
func (r *Resolver) Authenticate(ctx context.Context, username, secret string) (Session, error) {
	username = strings.TrimSpace(username)

	locked, err := r.limiter.Locked(ctx, username)
	if err != nil {
		r.log.Warn("login throttle unavailable", zap.Error(err))
	}
	if locked {
		r.log.Info("login rejected", zap.String("username", username), zap.String("reason", "locked"))
		return Session{}, errs.NewInvalidCredentials()
	}

	snap, err := r.store.LoadAll(ctx)
	if err != nil {
		return Session{}, err
	}

	acc, found := snap.AccountByUsername(username)
	digest := r.dummyDigest
	if found {
		digest = acc.PasswordHash
	}
	match := r.hasher.Verify(secret, digest)

	if !found || !match || !acc.Active || !acc.Role.Valid() {
		if err := r.limiter.Fail(ctx, username); err != nil {
			r.log.Warn("login throttle unavailable", zap.Error(err))
		}
		r.log.Info("login rejected", zap.String("username", username), zap.String("reason", rejectReason(found, match, acc)))
		return Session{}, errs.NewInvalidCredentials()
	}
	if err := r.limiter.Reset(ctx, username); err != nil {
		r.log.Warn("login throttle unavailable", zap.Error(err))
	}

	id := IdentityOf(*acc)
	tok, exp, err := r.codec.Issue(id)
	if err != nil {
		return Session{}, errs.Wrap(errs.Internal, "TOKEN_ISSUE_FAILED", err)
	}
	return Session{Token: tok, ExpiresAt: exp, User: id}, nil
}

// Verify decodes a bearer credential. Invalid and expired credentials are
// both Unauthenticated; the cause stays reachable through errors.Is.
func (r *Resolver) Verify(token string) (Identity, error) {
	id, err := r.codec.Parse(token)
	if err != nil {
		if errors.Is(err, ErrExpired) {
			return Identity{}, errs.Wrap(errs.Unauthenticated, "UNAUTHENTICATED", ErrExpired)
		}
		return Identity{}, errs.Wrap(errs.Unauthenticated, "UNAUTHENTICATED", ErrInvalid)
	}
	return id, nil
}

// Hash exposes the hasher to account management.
func (r *Resolver) Hash(secret string) (string, error) {
	return r.hasher.Hash(secret)
}

func IdentityOf(a models.Account) Identity {
	return Identity{ID: a.ID, Role: a.Role, Username: a.Username, Name: a.DisplayName}
}

// rejectReason is for logs only, never for responses.
func rejectReason(found, match bool, acc *models.Account) string {
	switch {
	case !found:
		return "unknown_username"
	case !match:
		return "bad_secret"
	case !acc.Active:
		return "disabled"
	default:
		return "bad_role"
	}
}

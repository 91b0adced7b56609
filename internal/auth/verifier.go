package auth

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/gravadigital/encuentro-api/internal/apperror"
	"github.com/gravadigital/encuentro-api/internal/domain/user"
	"github.com/gravadigital/encuentro-api/internal/logger"
)

// UserStore is the slice of the user repository the verifier needs. Lookup
// misses are reported as user.ErrNotFound and unique-index violations on
// insert as user.ErrEmailExists.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
}

// IdentityVerifier resolves credentials (local password or federated id
// token) to a Principal. It is only used by the login and registration
// paths, never by the per-request gateway.
type IdentityVerifier struct {
	users  UserStore
	google GoogleVerifier
	log    *log.Logger
}

// NewIdentityVerifier creates an identity verifier.
func NewIdentityVerifier(users UserStore, google GoogleVerifier) *IdentityVerifier {
	return &IdentityVerifier{
		users:  users,
		google: google,
		log:    logger.Auth(),
	}
}

// VerifyLocal checks an email/password pair against the stored digest and
// returns the account's principal. The caller must collapse NotFound and
// BadCredentials into one client-visible message to avoid email enumeration.
func (v *IdentityVerifier) VerifyLocal(ctx context.Context, email, password string) (*user.User, error) {
	u, err := v.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperror.New(apperror.KindNotFound, "user not found")
		}
		return nil, apperror.Wrap(apperror.KindStoreUnavailable, err, "failed to look up user")
	}

	if u.PasswordHash == "" {
		// Federated-only account, it has no local password to check.
		return nil, apperror.New(apperror.KindBadCredentials, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.New(apperror.KindBadCredentials, "invalid credentials")
	}

	return u, nil
}

// VerifyFederated validates a third-party identity token and returns the
// matching local account, creating it on first login. Creation is idempotent
// on email: a concurrent first login that loses the insert race falls back
// to the row the winner created.
func (v *IdentityVerifier) VerifyFederated(ctx context.Context, idToken string) (*user.User, error) {
	identity, err := v.google.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	if !identity.EmailVerified {
		return nil, apperror.New(apperror.KindUnverifiedEmail, "email is not verified by the identity provider")
	}

	u, err := v.users.GetByEmail(ctx, identity.Email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, apperror.Wrap(apperror.KindStoreUnavailable, err, "failed to look up user")
	}

	created := user.NewFederated(identity.Name, identity.Email)
	if err := v.users.Create(ctx, created); err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			// Lost the race against a concurrent first login. The unique
			// index guarantees exactly one row exists, so use it.
			v.log.Debug("federated first login lost insert race, reusing existing account", "email", identity.Email)
			existing, lookupErr := v.users.GetByEmail(ctx, identity.Email)
			if lookupErr != nil {
				return nil, apperror.Wrap(apperror.KindStoreUnavailable, lookupErr, "failed to look up user after insert race")
			}
			return existing, nil
		}
		return nil, apperror.Wrap(apperror.KindStoreUnavailable, err, "failed to create user")
	}

	v.log.Info("created account for first federated login", "user_id", created.ID, "email", created.Email)
	return created, nil
}

// HashPassword hashes a local password for storage.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

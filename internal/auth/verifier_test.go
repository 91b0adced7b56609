package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/encuentro-api/internal/apperror"
	"github.com/gravadigital/encuentro-api/internal/domain/user"
)

type fakeUserStore struct {
	byEmail   map[string]*user.User
	createErr error
	created   []*user.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*user.User)}
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (s *fakeUserStore) Create(ctx context.Context, u *user.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.byEmail[u.Email]; ok {
		return user.ErrEmailExists
	}
	s.byEmail[u.Email] = u
	s.created = append(s.created, u)
	return nil
}

type fakeGoogle struct {
	identity Identity
	err      error
	calls    int
}

func (g *fakeGoogle) VerifyIDToken(ctx context.Context, idToken string) (Identity, error) {
	g.calls++
	if g.err != nil {
		return Identity{}, g.err
	}
	return g.identity, nil
}

func TestVerifyLocal(t *testing.T) {
	digest, err := HashPassword("correct horse")
	require.NoError(t, err)

	store := newFakeUserStore()
	store.byEmail["ana@example.com"] = user.New("Ana", "ana@example.com", digest)
	store.byEmail["federated@example.com"] = user.NewFederated("Fede", "federated@example.com")

	v := NewIdentityVerifier(store, &fakeGoogle{})

	t.Run("valid credentials", func(t *testing.T) {
		u, err := v.VerifyLocal(context.Background(), "ana@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", u.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := v.VerifyLocal(context.Background(), "ana@example.com", "wrong")
		require.Error(t, err)
		assert.Equal(t, apperror.KindBadCredentials, apperror.KindOf(err))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := v.VerifyLocal(context.Background(), "nobody@example.com", "whatever")
		require.Error(t, err)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("federated account has no local password", func(t *testing.T) {
		_, err := v.VerifyLocal(context.Background(), "federated@example.com", "anything")
		require.Error(t, err)
		assert.Equal(t, apperror.KindBadCredentials, apperror.KindOf(err))
	})
}

func TestVerifyFederatedFirstLoginCreatesAccount(t *testing.T) {
	store := newFakeUserStore()
	google := &fakeGoogle{identity: Identity{
		Email:         "nuevo@example.com",
		EmailVerified: true,
		Name:          "Nuevo",
	}}
	v := NewIdentityVerifier(store, google)

	u, err := v.VerifyFederated(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, "nuevo@example.com", u.Email)
	assert.Empty(t, u.PasswordHash)
	require.Len(t, store.created, 1)

	// A second login reuses the row instead of creating another.
	again, err := v.VerifyFederated(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.Len(t, store.created, 1)
}

func TestVerifyFederatedUnverifiedEmailRejected(t *testing.T) {
	store := newFakeUserStore()
	google := &fakeGoogle{identity: Identity{Email: "x@example.com", EmailVerified: false}}
	v := NewIdentityVerifier(store, google)

	_, err := v.VerifyFederated(context.Background(), "id-token")
	require.Error(t, err)
	assert.Equal(t, apperror.KindUnverifiedEmail, apperror.KindOf(err))
	assert.Empty(t, store.created)
}

func TestVerifyFederatedInsertRaceFallsBackToWinner(t *testing.T) {
	winner := user.NewFederated("Winner", "race@example.com")
	store := &racingUserStore{winner: winner}

	google := &fakeGoogle{identity: Identity{Email: "race@example.com", EmailVerified: true, Name: "Racer"}}
	v := NewIdentityVerifier(store, google)

	u, err := v.VerifyFederated(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, u.ID)
	assert.Equal(t, 2, store.lookups)
}

// racingUserStore misses on the first lookup and returns the winner's row on
// the second, mimicking a concurrent first login that wins the insert.
type racingUserStore struct {
	winner  *user.User
	lookups int
}

func (s *racingUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.lookups++
	if s.lookups == 1 {
		return nil, user.ErrNotFound
	}
	return s.winner, nil
}

func (s *racingUserStore) Create(ctx context.Context, u *user.User) error {
	return user.ErrEmailExists
}

func TestVerifyFederatedProviderErrorPropagates(t *testing.T) {
	providerErr := apperror.New(apperror.KindMalformedToken, "identity token was rejected by the provider")
	v := NewIdentityVerifier(newFakeUserStore(), &fakeGoogle{err: providerErr})

	_, err := v.VerifyFederated(context.Background(), "bad-token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, providerErr) || apperror.KindOf(err) == apperror.KindMalformedToken)
}

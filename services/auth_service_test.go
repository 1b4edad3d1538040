package services_test

import (
	"context"
	"testing"

	"github.com/Dosada05/pickleball-portal/models"
	"github.com/Dosada05/pickleball-portal/repositories"
	"github.com/Dosada05/pickleball-portal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users  map[string]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if _, exists := f.users[user.Username]; exists {
		return repositories.ErrUsernameConflict
	}
	user.ID = f.nextID
	f.nextID++
	stored := *user
	f.users[user.Username] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func TestRegister_HashesPasswordAndDefaultsRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := services.NewAuthService(repo)

	user, err := svc.Register(context.Background(), "alice", "secret-pass")
	require.NoError(t, err)

	assert.Equal(t, "user", user.Role)
	assert.NotEqual(t, "secret-pass", user.PasswordHash)

	stored := repo.users["alice"]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret-pass")))
}

func TestRegister_RejectsShortPasswordAndEmptyUsername(t *testing.T) {
	svc := services.NewAuthService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), "alice", "short")
	assert.ErrorIs(t, err, services.ErrPasswordTooShort)

	_, err = svc.Register(context.Background(), "", "long-enough")
	assert.ErrorIs(t, err, services.ErrUsernameRequired)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	svc := services.NewAuthService(repo)

	_, err := svc.Register(context.Background(), "alice", "secret-pass")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice", "other-pass")
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := services.NewAuthService(repo)

	_, err := svc.Register(context.Background(), "alice", "secret-pass")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Login(context.Background(), "alice", "secret-pass")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "alice", "wrong")
		assert.ErrorIs(t, err, services.ErrAuthInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody", "whatever")
		assert.ErrorIs(t, err, services.ErrAuthInvalidCredentials)
	})
}

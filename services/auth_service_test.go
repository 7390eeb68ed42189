package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/padelops/club-system/models"
	"github.com/padelops/club-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return repositories.ErrUserEmailConflict
	}
	user.ID = f.nextID
	f.nextID++
	clone := *user
	f.byEmail[user.Email] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret")

	user, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ana",
		LastName:  "García",
		Email:     "ana@example.com",
		Password:  "correct horse",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RolePlayer, user.Role)
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse")))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), "test-secret")

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ana", LastName: "García", Email: "ana@example.com", Password: "short",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret")

	input := RegisterInput{FirstName: "Ana", LastName: "García", Email: "ana@example.com", Password: "correct horse"}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrAuthEmailTaken)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret")

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ana", LastName: "García", Email: "ana@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), LoginInput{
		Email: "ana@example.com", Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash, "password hash must not leak out of login")

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, float64(user.ID), claims["user_id"])
	assert.Equal(t, string(models.RolePlayer), claims["role"])
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret")

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ana", LastName: "García", Email: "ana@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), LoginInput{Email: "ana@example.com", Password: "wrong horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

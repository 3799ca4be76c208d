package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"catalog_service/internal/domain"
)

const testJWTSecret = "test-secret-key-for-unit-tests"

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string) int64 {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := domain.User{
		ID:           repo.nextID,
		FirstName:    "Alex",
		Email:        email,
		PasswordHash: string(hash),
	}
	repo.users[user.ID] = user
	repo.nextID++
	return user.ID
}

func TestAuthUseCase_Login_Success(t *testing.T) {
	repo := newFakeUserRepo()
	userID := seedUser(t, repo, "a@x.com", "Secret123")
	uc := NewAuthUseCase(repo, testJWTSecret, testLogger())

	token, err := uc.Login(context.Background(), "a@x.com", "Secret123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	validatedID, err := uc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, validatedID)
}

func TestAuthUseCase_Login_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "a@x.com", "Secret123")
	uc := NewAuthUseCase(repo, testJWTSecret, testLogger())

	_, err := uc.Login(context.Background(), "a@x.com", "wrong")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthUseCase_Login_UnknownEmail(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewAuthUseCase(repo, testJWTSecret, testLogger())

	_, err := uc.Login(context.Background(), "nobody@x.com", "Secret123")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthUseCase_ValidateToken_Garbage(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewAuthUseCase(repo, testJWTSecret, testLogger())

	_, err := uc.ValidateToken("not-a-token")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthUseCase_ValidateToken_WrongSecret(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "a@x.com", "Secret123")
	issuer := NewAuthUseCase(repo, "another-secret", testLogger())
	verifier := NewAuthUseCase(repo, testJWTSecret, testLogger())

	token, err := issuer.Login(context.Background(), "a@x.com", "Secret123")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"catalog_service/internal/domain"
)

const tokenTTL = 24 * time.Hour

type AuthUseCase interface {
	// Login verifies the credentials and returns a signed bearer token.
	Login(ctx context.Context, email, password string) (string, error)
	// ValidateToken checks a bearer token and returns the user id it was
	// issued for.
	ValidateToken(token string) (int64, error)
}

type authUseCase struct {
	users     domain.UserRepository
	jwtSecret []byte
	log       *logrus.Logger
}

func NewAuthUseCase(users domain.UserRepository, jwtSecret string, logger *logrus.Logger) AuthUseCase {
	return &authUseCase{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		log:       logger,
	}
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			uc.log.Warnf("Use Case: Login failed, unknown email: %s", email)
			return "", domain.ErrUnauthorized
		}
		uc.log.Errorf("Use Case: Failed to load user %s during login: %v", email, err)
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		uc.log.Warnf("Use Case: Login failed, wrong password for user ID %d", user.ID)
		return "", domain.ErrUnauthorized
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.jwtSecret)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to sign token for user ID %d: %v", user.ID, err)
		return "", fmt.Errorf("could not sign token: %w", err)
	}

	uc.log.Infof("Use Case: User ID %d logged in", user.ID)
	return token, nil
}

func (uc *authUseCase) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return uc.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, domain.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, domain.ErrUnauthorized
	}
	return userID, nil
}

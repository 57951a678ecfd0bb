package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Fanyuxuan0817/StudySync/internal/domain/apperr"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/models"
	"github.com/Fanyuxuan0817/StudySync/internal/infra/adapters/postgres/repository"
)

const tokenTTL = 72 * time.Hour

type UserUsecase interface {
	Register(ctx context.Context, username, password string, avatarURL *string) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)

	// VerifyToken validates a signed token and returns the user id it carries.
	VerifyToken(tokenString string) (int64, error)
}

type userUsecase struct {
	jwtSecret []byte

	userRepo repository.UserRepository
}

func NewUserUsecase(jwtSecret []byte, userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{
		jwtSecret: jwtSecret,
		userRepo:  userRepo,
	}
}

func (uc *userUsecase) Register(ctx context.Context, username, password string, avatarURL *string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 32 {
		return nil, "", apperr.New(apperr.InvalidArgument, "username must be between 3 and 32 characters")
	}
	if len(password) < 8 {
		return nil, "", apperr.New(apperr.InvalidArgument, "password must be at least 8 characters")
	}

	if _, err := uc.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, "", apperr.New(apperr.Conflict, "username already taken")
	} else if !apperr.IsKind(err, apperr.NotFound) {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Username:  username,
		Password:  string(hashed),
		AvatarURL: avatarURL,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := uc.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	user.Password = ""

	return user, token, nil
}

func (uc *userUsecase) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if apperr.IsKind(err, apperr.NotFound) {
		return nil, "", apperr.New(apperr.Unauthenticated, "invalid username or password")
	}
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperr.New(apperr.Unauthenticated, "invalid username or password")
	}

	token, err := uc.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	user.Password = ""

	return user, token, nil
}

func (uc *userUsecase) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Password = ""

	return user, nil
}

func (uc *userUsecase) issueToken(userID int64) (string, error) {
	claims := &jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(uc.jwtSecret)
}

func (uc *userUsecase) VerifyToken(tokenString string) (int64, error) {
	claims := new(jwt.RegisteredClaims)

	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, apperr.New(apperr.Unauthenticated, "unexpected signing method")
			}
			return uc.jwtSecret, nil
		},
	)
	if err != nil || !token.Valid {
		return 0, apperr.New(apperr.Unauthenticated, "invalid or expired token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, apperr.New(apperr.Unauthenticated, "invalid token subject")
	}

	return userID, nil
}

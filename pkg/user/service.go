package user

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/tribeshub/backend/internal/errdef"

	"github.com/tribeshub/backend/pkg/model"
	"golang.org/x/crypto/scrypt"
)

func NewService(repository userRepository, activityService activityService) *Service {
	return &Service{
		repository:      repository,
		activityService: activityService,
	}
}

type userRepository interface {
	create(ctx context.Context, user *model.User) error
	findById(ctx context.Context, id uint) (*model.User, error)
	findByEmailOrUsername(ctx context.Context, emailOrUsername string) (*model.User, error)
	search(ctx context.Context, query string, limit int) ([]model.User, error)
	updateLastLoginTime(ctx context.Context, id uint, lastLoginTime time.Time) error
}

type activityService interface {
	Record(ctx context.Context, entryType string, actorID *uint, targetID *uint, details string)
}

type Service struct {
	repository      userRepository
	activityService activityService
}

func (s Service) SignUp(ctx context.Context, name, username, email, password, bio string) (*model.User, error) {
	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("password hashing failed: %s", err)
	}

	user := &model.User{
		Name:     name,
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Bio:      bio,
	}

	err = s.repository.create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.activityService.Record(ctx, model.ActivitySignup, &user.ID, nil, "New user registration")

	return user, nil
}

func hashPassword(password string) (string, error) {
	// example for making salt - https://play.golang.org/p/_Aw6WeWC42I
	salt := make([]byte, 32)
	_, err := rand.Read(salt)
	if err != nil {
		return "", err
	}

	// using recommended cost parameters from - https://godoc.org/golang.org/x/crypto/scrypt
	hash, err := scrypt.Key([]byte(password), salt, 32768, 8, 1, 32)
	if err != nil {
		return "", err
	}

	hashedPassword := fmt.Sprintf("%s.%s", hex.EncodeToString(hash), hex.EncodeToString(salt))

	return hashedPassword, nil
}

func (s Service) SignIn(ctx context.Context, emailOrUsername string, password string) (*model.User, error) {
	unauthorizedError := "invalid email and password combination"

	user, err := s.repository.findByEmailOrUsername(ctx, emailOrUsername)
	if err != nil {
		if errdef.IsNotFound(err) {
			return nil, errdef.NewUnauthorized("%s", unauthorizedError)
		}
		return nil, err
	}

	match, err := comparePasswords(user.Password, password)
	if err != nil {
		return nil, fmt.Errorf("password hashing failed: %s", err)
	}

	if !match {
		return nil, errdef.NewUnauthorized("%s", unauthorizedError)
	}

	now := time.Now()
	err = s.repository.updateLastLoginTime(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}
	user.LastLoginTime = sql.NullTime{Time: now, Valid: true}

	s.activityService.Record(ctx, model.ActivityLogin, &user.ID, nil, "User logged in")

	return user, nil
}

func comparePasswords(storedPassword string, suppliedPassword string) (bool, error) {
	passwordAndSalt := strings.Split(storedPassword, ".")
	if len(passwordAndSalt) != 2 {
		return false, fmt.Errorf("wrong password/salt format: %s", storedPassword)
	}

	salt, err := hex.DecodeString(passwordAndSalt[1])
	if err != nil {
		return false, fmt.Errorf("unable to verify user password")
	}

	hash, err := scrypt.Key([]byte(suppliedPassword), salt, 32768, 8, 1, 32)
	if err != nil {
		return false, err
	}

	return hex.EncodeToString(hash) == passwordAndSalt[0], nil
}

func (s Service) FindById(ctx context.Context, id uint) (*model.User, error) {
	return s.repository.findById(ctx, id)
}

// Search matches users on username or name, limited to the first results.
func (s Service) Search(ctx context.Context, query string, limit int) ([]model.User, error) {
	return s.repository.search(ctx, query, limit)
}

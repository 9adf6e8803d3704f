package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bmw-wellness/apiserver/internal/mq"
	"github.com/bmw-wellness/apiserver/internal/store"
	"github.com/bmw-wellness/apiserver/types"
)

// DefaultBcryptCost is the work factor used for stored password hashes.
const DefaultBcryptCost = 12

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	AppendScore(ctx context.Context, id int64, score float64) (types.Scores, error)
}

// UserService encapsulates account and score ledger use-cases.
type UserService struct {
	repo       UserRepository
	events     *mq.Events
	bcryptCost int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewUserService(repo UserRepository, events *mq.Events, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = DefaultBcryptCost
	}
	return &UserService{
		repo:       repo,
		events:     events,
		bcryptCost: bcryptCost,
	}
}

// Register hashes the password and stores a new user under the lowercased
// email. A taken email yields store.ErrConflict.
func (s *UserService) Register(ctx context.Context, name, email, password string) (types.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hashed),
		Scores:       types.Scores{},
	})
	if err != nil {
		return types.User{}, err
	}

	s.events.UserRegistered(ctx, mq.UserRegistered{
		UserID:       user.ID,
		Email:        user.Email,
		RegisteredAt: user.CreatedAt,
	})
	return user, nil
}

// Authenticate returns the user when password matches the stored hash. An
// unknown email still pays for one bcrypt comparison so both failures take
// comparable time.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (types.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			_ = bcrypt.CompareHashAndPassword(s.placeholderHash(), []byte(password))
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// RecordScore appends score to the user's ledger.
func (s *UserService) RecordScore(ctx context.Context, id int64, score float64) (types.Scores, error) {
	scores, err := s.repo.AppendScore(ctx, id, score)
	if err != nil {
		return nil, err
	}

	s.events.ScoreRecorded(ctx, mq.ScoreRecorded{
		UserID:     id,
		Score:      score,
		Entries:    len(scores),
		RecordedAt: time.Now().UTC(),
	})
	return scores, nil
}

func (s *UserService) placeholderHash() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("placeholder-password"), s.bcryptCost)
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// Package gormstore persists users and the catalog on PostgreSQL with native
// JSONB columns, through gorm.
package gormstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bmw-wellness/apiserver/internal/store"
	"github.com/bmw-wellness/apiserver/types"
)

type userRecord struct {
	ID           int64        `gorm:"primaryKey"`
	Email        string       `gorm:"uniqueIndex;not null"`
	PasswordHash string       `gorm:"not null"`
	Name         string       `gorm:"not null"`
	Scores       types.Scores `gorm:"type:jsonb;not null"`
	CreatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

func (u userRecord) toUser() types.User {
	return types.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Scores:       u.Scores,
		CreatedAt:    u.CreatedAt,
	}
}

type activityRecord struct {
	ID       int64        `gorm:"primaryKey;autoIncrement:false"`
	Activity string       `gorm:"not null"`
	Source   string       `gorm:"not null"`
	Priority types.Levels `gorm:"type:jsonb;not null"`
}

func (activityRecord) TableName() string { return "ra_wellness" }

// UserRepository handles persistence for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (types.User, error) {
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return types.User{}, translate(err)
	}
	return record.toUser(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	var record userRecord
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&record).Error
	if err != nil {
		return types.User{}, translate(err)
	}
	return record.toUser(), nil
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	record := userRecord{
		Email:        strings.ToLower(strings.TrimSpace(user.Email)),
		PasswordHash: user.PasswordHash,
		Name:         user.Name,
		Scores:       user.Scores,
		CreatedAt:    time.Now().UTC(),
	}
	if record.Scores == nil {
		record.Scores = types.Scores{}
	}

	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return types.User{}, translate(err)
	}
	return record.toUser(), nil
}

// AppendScore appends score to the JSONB ledger in a single statement and
// returns the updated ledger.
func (r *UserRepository) AppendScore(ctx context.Context, id int64, score float64) (types.Scores, error) {
	var updated []userRecord
	result := r.db.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "scores"}}}).
		Where("id = ?", id).
		Update("scores", gorm.Expr("scores || jsonb_build_array(?::float8)", score))
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 || len(updated) == 0 {
		return nil, store.ErrNotFound
	}
	return updated[0].Scores, nil
}

// ActivityRepository handles the wellness catalog table.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// List returns the catalog in ascending ID order.
func (r *ActivityRepository) List(ctx context.Context) ([]types.WellnessActivity, error) {
	var records []activityRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}

	activities := make([]types.WellnessActivity, 0, len(records))
	for _, record := range records {
		activities = append(activities, types.WellnessActivity{
			ID:       record.ID,
			Activity: record.Activity,
			Source:   record.Source,
			Priority: record.Priority,
		})
	}
	return activities, nil
}

// Seed inserts activities whose IDs are not present yet and reports how many
// rows were added.
func (r *ActivityRepository) Seed(ctx context.Context, activities []types.WellnessActivity) (int, error) {
	if len(activities) == 0 {
		return 0, nil
	}

	records := make([]activityRecord, 0, len(activities))
	for _, activity := range activities {
		records = append(records, activityRecord{
			ID:       activity.ID,
			Activity: activity.Activity,
			Source:   activity.Source,
			Priority: activity.Priority,
		})
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&records)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrConflict
	default:
		return err
	}
}

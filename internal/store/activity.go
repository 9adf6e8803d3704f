package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/bmw-wellness/apiserver/types"
)

// ActivityRepository handles the wellness catalog table.
type ActivityRepository struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// List returns the catalog in ascending ID order.
func (r *ActivityRepository) List(ctx context.Context) ([]types.WellnessActivity, error) {
	const query = `
		SELECT id, activity, source, priority
		FROM ra_wellness
		ORDER BY id`
	activities := make([]types.WellnessActivity, 0)
	if err := r.db.SelectContext(ctx, &activities, query); err != nil {
		return nil, err
	}
	return activities, nil
}

// Seed inserts activities whose IDs are not present yet and reports how many
// rows were added.
func (r *ActivityRepository) Seed(ctx context.Context, activities []types.WellnessActivity) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := tx.Rebind(`
		INSERT INTO ra_wellness (id, activity, source, priority)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`)

	inserted := 0
	for _, activity := range activities {
		result, err := tx.ExecContext(ctx, query, activity.ID, activity.Activity, activity.Source, activity.Priority)
		if err != nil {
			return 0, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

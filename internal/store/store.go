package store

import (
	"context"

	"github.com/habitline/habitline/server/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (sqlite, postgres), both
// backed by internal/store/sqlstore.
//
// Lookups by id return model.NotFoundError when the row is missing; unique
// violations surface as model.ConflictError naming the offending field.
type Store interface {
	Users() Users
	Categories() Categories
	Habits() Habits
	Records() Records
	Achievements() Achievements
	Slugs() Slugs
	Close() error
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	GetByAuthSubject(ctx context.Context, subject string) (*model.User, error)
	List(ctx context.Context, opts model.ListOptions) ([]*model.User, error)
	Update(ctx context.Context, u *model.User) (*model.User, error)
	Delete(ctx context.Context, id int64) error
}

type Categories interface {
	Create(ctx context.Context, c *model.Category) (*model.Category, error)
	Get(ctx context.Context, id int64) (*model.Category, error)
	List(ctx context.Context, userID int64, opts model.ListOptions) ([]*model.Category, error)
	Update(ctx context.Context, c *model.Category) (*model.Category, error)
	Delete(ctx context.Context, id int64) error
}

type Habits interface {
	Create(ctx context.Context, h *model.Habit) (*model.Habit, error)
	Get(ctx context.Context, id int64) (*model.Habit, error)
	List(ctx context.Context, userID int64, includeArchived bool, opts model.ListOptions) ([]*model.Habit, error)
	Update(ctx context.Context, h *model.Habit) (*model.Habit, error)
	Delete(ctx context.Context, id int64) error
}

type Records interface {
	Create(ctx context.Context, r *model.DateRecord) (*model.DateRecord, error)
	Get(ctx context.Context, id int64) (*model.DateRecord, error)
	// List returns records ordered by habit_date then id.
	List(ctx context.Context, req model.ListRecordsRequest) ([]*model.DateRecord, error)
	Update(ctx context.Context, r *model.DateRecord) (*model.DateRecord, error)
	Delete(ctx context.Context, id int64) error
}

type Achievements interface {
	Create(ctx context.Context, a *model.Achievement) (*model.Achievement, error)
	Get(ctx context.Context, id int64) (*model.Achievement, error)
	List(ctx context.Context, opts model.ListOptions) ([]*model.Achievement, error)
	Update(ctx context.Context, a *model.Achievement) (*model.Achievement, error)
	Delete(ctx context.Context, id int64) error
	// Award links a user to an achievement; awarding twice is a no-op.
	Award(ctx context.Context, userID, achievementID int64) error
	Revoke(ctx context.Context, userID, achievementID int64) error
	ListForUser(ctx context.Context, userID int64) ([]*model.Achievement, error)
}

// Slugs answers identifier collision checks for the assigner.
type Slugs interface {
	// Exists reports whether slug is taken in scope by a row other than excludeID.
	// Pass excludeID 0 for entities that are not persisted yet.
	Exists(ctx context.Context, scope model.SlugScope, slug string, excludeID int64) (bool, error)
}

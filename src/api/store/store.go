package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stake-plus/memberhub/src/api/apperr"
	"github.com/stake-plus/memberhub/src/api/types"
)

// Store wires one repository per entity over a shared pool.
type Store struct {
	db *gorm.DB

	Members    *Repo[types.Member]
	Events     *Repo[types.Event]
	Notices    *Repo[types.Notice]
	Feedback   *Repo[types.Feedback]
	Leadership *Repo[types.Leadership]
	Users      *Users
	Stats      *Stats
}

func New(db *gorm.DB, timeout time.Duration) *Store {
	return &Store{
		db: db,
		Members: NewRepo[types.Member](db, Options{
			Entity: "members", Order: []string{"created_at DESC", "id"}, Timeout: timeout,
		}),
		Events: NewRepo[types.Event](db, Options{
			Entity: "events", Order: []string{"created_at DESC", "id"}, Timeout: timeout,
		}),
		Notices: NewRepo[types.Notice](db, Options{
			Entity: "notices", Order: []string{"is_pinned DESC", "published_at DESC", "id"}, Timeout: timeout,
		}),
		Feedback: NewRepo[types.Feedback](db, Options{
			Entity: "feedback", Order: []string{"created_at DESC", "id"}, Timeout: timeout,
		}),
		Leadership: NewRepo[types.Leadership](db, Options{
			Entity: "leadership", Order: []string{"priority ASC", "display_order ASC", "id"}, Timeout: timeout,
		}),
		Users: &Users{db: db, timeout: timeout},
		Stats: NewStats(db, timeout),
	}
}

// Ping checks the pool can reach the database.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperr.Classify("ping", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return apperr.Classify("ping", sqlDB.PingContext(ctx))
}

// Users keeps the local mirror of identities issued by the auth provider.
type Users struct {
	db      *gorm.DB
	timeout time.Duration
}

// Upsert inserts u or refreshes its profile and role from newer claims.
func (u *Users) Upsert(ctx context.Context, user *types.User) (*types.User, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	err := u.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "first_name", "last_name", "role", "profile_image_url", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return nil, apperr.Classify("users.upsert", err)
	}
	return u.Get(ctx, user.ID)
}

func (u *Users) Get(ctx context.Context, id string) (*types.User, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	var out types.User
	err := u.db.WithContext(ctx).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Entity: "users", ID: id}
	}
	if err != nil {
		return nil, apperr.Classify("users.get", err)
	}
	return &out, nil
}

// SetRole changes a mirrored user's role.
func (u *Users) SetRole(ctx context.Context, id string, role types.Role) (*types.User, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	res := u.db.WithContext(ctx).Model(&types.User{}).Where("id = ?", id).
		Updates(map[string]any{"role": string(role), "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, apperr.Classify("users.set_role", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &apperr.NotFoundError{Entity: "users", ID: id}
	}
	return u.Get(ctx, id)
}

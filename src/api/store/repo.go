// Package store is the repository layer: one generic Repo per entity plus
// the dashboard aggregates.
package store

import (
	"context"
	"errors"
	"maps"
	"time"

	"gorm.io/gorm"

	"github.com/stake-plus/memberhub/src/api/apperr"
)

const (
	DefaultLimit   = 20
	MaxLimit       = 100
	DefaultTimeout = 10 * time.Second
)

// Page is a 1-based page request. Zero values take the defaults.
type Page struct {
	Page  int `form:"page" json:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" json:"limit" binding:"omitempty,min=1"`
}

// Normalize fills defaults and clamps Limit to MaxLimit.
func (p Page) Normalize() (Page, error) {
	if p.Page < 0 {
		return p, apperr.Invalid("page", "must be at least 1")
	}
	if p.Limit < 0 {
		return p, apperr.Invalid("limit", "must be at least 1")
	}
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p, nil
}

func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

// Result is one page of items and the unpaged match count.
type Result[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

type Options struct {
	Entity  string
	Order   []string
	Timeout time.Duration
}

// Repo is the CRUD surface shared by every entity table.
type Repo[T any] struct {
	db      *gorm.DB
	entity  string
	order   []string
	timeout time.Duration
	now     func() time.Time
}

func NewRepo[T any](db *gorm.DB, opts Options) *Repo[T] {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Repo[T]{
		db:      db,
		entity:  opts.Entity,
		order:   opts.Order,
		timeout: opts.Timeout,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *Repo[T]) Entity() string { return r.entity }

func (r *Repo[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *Repo[T]) op(name string) string { return r.entity + "." + name }

// List returns the requested page of rows matching f, in the repo's fixed
// order, with the total match count.
func (r *Repo[T]) List(ctx context.Context, f Filter, p Page) (*Result[T], error) {
	p, err := p.Normalize()
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int64
	if err := r.db.WithContext(ctx).Model(new(T)).Scopes(scope(f)).Count(&total).Error; err != nil {
		return nil, apperr.Classify(r.op("list"), err)
	}

	items := make([]T, 0)
	if total > int64(p.Offset()) {
		q := r.db.WithContext(ctx).Model(new(T)).Scopes(scope(f))
		for _, o := range r.order {
			q = q.Order(o)
		}
		if err := q.Limit(p.Limit).Offset(p.Offset()).Find(&items).Error; err != nil {
			return nil, apperr.Classify(r.op("list"), err)
		}
	}
	return &Result[T]{Items: items, Total: total}, nil
}

func (r *Repo[T]) Get(ctx context.Context, id string) (*T, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var out T
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Entity: r.entity, ID: id}
	}
	if err != nil {
		return nil, apperr.Classify(r.op("get"), err)
	}
	return &out, nil
}

// Create inserts v; the id and timestamps are filled in place.
func (r *Repo[T]) Create(ctx context.Context, v *T) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return apperr.Classify(r.op("create"), err)
	}
	return nil
}

// Update merges changes (keyed by field name) into the row and refreshes
// UpdatedAt, then returns the stored row.
func (r *Repo[T]) Update(ctx context.Context, id string, changes map[string]any) (*T, error) {
	set := maps.Clone(changes)
	if set == nil {
		set = map[string]any{}
	}
	set["UpdatedAt"] = r.now()

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(set).Error; err != nil {
		return nil, apperr.Classify(r.op("update"), err)
	}
	return r.Get(ctx, id)
}

// Delete hard-deletes the row. Deleting a missing id succeeds.
func (r *Repo[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T)).Error; err != nil {
		return apperr.Classify(r.op("delete"), err)
	}
	return nil
}

// Increment adds one to an integer column in a single statement.
func (r *Repo[T]) Increment(ctx context.Context, id, column string) (*T, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return nil, apperr.Classify(r.op("increment"), res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &apperr.NotFoundError{Entity: r.entity, ID: id}
	}
	return r.Get(ctx, id)
}

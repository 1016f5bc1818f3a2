package store

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Predicate is one filter condition expressed as a GORM scope. A nil
// Predicate means the filter field was not supplied.
type Predicate func(*gorm.DB) *gorm.DB

// Filter yields the predicates for a list query; they are ANDed.
type Filter interface {
	Predicates() []Predicate
}

// NoFilter matches every row.
type NoFilter struct{}

func (NoFilter) Predicates() []Predicate { return nil }

func scope(f Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f == nil {
			return db
		}
		for _, p := range f.Predicates() {
			if p != nil {
				db = p(db)
			}
		}
		return db
	}
}

// Equal matches col = v when v is non-empty.
func Equal(col, v string) Predicate {
	if v == "" {
		return nil
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(col+" = ?", v)
	}
}

func EqualBool(col string, v *bool) Predicate {
	if v == nil {
		return nil
	}
	want := *v
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(col+" = ?", want)
	}
}

// Search ORs a case-insensitive substring match across cols.
func Search(term string, cols ...string) Predicate {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return nil
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	return func(db *gorm.DB) *gorm.DB {
		parts := make([]string, len(cols))
		args := make([]any, len(cols))
		for i, col := range cols {
			parts[i] = "LOWER(" + col + ") LIKE ? ESCAPE '!'"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
}

func OnOrAfter(col string, t *time.Time) Predicate {
	if t == nil {
		return nil
	}
	at := t.UTC()
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(col+" >= ?", at)
	}
}

func OnOrBefore(col string, t *time.Time) Predicate {
	if t == nil {
		return nil
	}
	at := t.UTC()
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(col+" <= ?", at)
	}
}

// NotExpired keeps rows whose col is unset or later than now.
func NotExpired(col string, now time.Time) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("("+col+" IS NULL OR "+col+" > ?)", now)
	}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string { return likeEscaper.Replace(s) }

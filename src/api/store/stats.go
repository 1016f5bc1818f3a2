package store

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/stake-plus/memberhub/src/api/apperr"
	"github.com/stake-plus/memberhub/src/api/types"
)

const recentWindow = 30 * 24 * time.Hour

// Dashboard is the headline counters block.
type Dashboard struct {
	TotalMembers   int64   `json:"totalMembers"`
	ActiveEvents   int64   `json:"activeEvents"`
	Constituencies int64   `json:"constituencies"`
	RecentNotices  int64   `json:"recentNotices"`
	MemberGrowth   float64 `json:"memberGrowth"`
}

type DistrictCount struct {
	District string `json:"district"`
	Count    int64  `gorm:"column:total" json:"count"`
}

type MemberStats struct {
	Total      int64           `json:"total"`
	Verified   int64           `json:"verified"`
	Active     int64           `json:"active"`
	ByDistrict []DistrictCount `json:"byDistrict"`
}

// Stats computes read-only aggregates from scratch on every call.
type Stats struct {
	db      *gorm.DB
	timeout time.Duration
	now     func() time.Time
}

func NewStats(db *gorm.DB, timeout time.Duration) *Stats {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Stats{db: db, timeout: timeout, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Stats) count(ctx context.Context, model any, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(model).Scopes(scopes...).Count(&n).Error
	return n, err
}

func where(query string, args ...any) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Where(query, args...) }
}

// Growth compares recent sign-ups with everything before the window, in
// percent. With no earlier members it reports 100.
func Growth(recent, before int64) float64 {
	if before == 0 {
		return 100
	}
	return math.Round(float64(recent)/float64(before)*1000) / 10
}

func (s *Stats) Dashboard(ctx context.Context) (*Dashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := s.now()
	cutoff := now.Add(-recentWindow)
	var (
		out    Dashboard
		recent int64
		before int64
		err    error
	)
	if out.TotalMembers, err = s.count(ctx, &types.Member{}); err != nil {
		return nil, apperr.Classify("stats.dashboard", err)
	}
	if out.ActiveEvents, err = s.count(ctx, &types.Event{}, where("status = ?", string(types.EventPublished))); err != nil {
		return nil, apperr.Classify("stats.dashboard", err)
	}
	if err = s.db.WithContext(ctx).Model(&types.Member{}).
		Where("constituency <> ''").Distinct("constituency").Count(&out.Constituencies).Error; err != nil {
		return nil, apperr.Classify("stats.dashboard", err)
	}
	if out.RecentNotices, err = s.count(ctx, &types.Notice{}, where("published_at >= ?", cutoff)); err != nil {
		return nil, apperr.Classify("stats.dashboard", err)
	}
	if recent, err = s.count(ctx, &types.Member{}, where("created_at >= ?", cutoff)); err != nil {
		return nil, apperr.Classify("stats.dashboard", err)
	}
	if before, err = s.count(ctx, &types.Member{}, where("created_at < ?", cutoff)); err != nil {
		return nil, apperr.Classify("stats.dashboard", err)
	}
	out.MemberGrowth = Growth(recent, before)
	return &out, nil
}

func (s *Stats) Members(ctx context.Context) (*MemberStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		out MemberStats
		err error
	)
	if out.Total, err = s.count(ctx, &types.Member{}); err != nil {
		return nil, apperr.Classify("stats.members", err)
	}
	if out.Verified, err = s.count(ctx, &types.Member{}, where("is_verified = ?", true)); err != nil {
		return nil, apperr.Classify("stats.members", err)
	}
	if out.Active, err = s.count(ctx, &types.Member{}, where("is_active = ?", true)); err != nil {
		return nil, apperr.Classify("stats.members", err)
	}
	out.ByDistrict = make([]DistrictCount, 0)
	if err = s.db.WithContext(ctx).Model(&types.Member{}).
		Select("district, COUNT(*) AS total").
		Group("district").
		Order("total DESC").Order("district").
		Scan(&out.ByDistrict).Error; err != nil {
		return nil, apperr.Classify("stats.members", err)
	}
	return &out, nil
}

// UpcomingEvents returns published events that have not started yet,
// soonest first.
func (s *Stats) UpcomingEvents(ctx context.Context, limit int) ([]types.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out := make([]types.Event, 0)
	err := s.db.WithContext(ctx).
		Where("status = ? AND start_date >= ?", string(types.EventPublished), s.now()).
		Order("start_date ASC").Limit(clampLimit(limit)).
		Find(&out).Error
	if err != nil {
		return nil, apperr.Classify("stats.upcoming_events", err)
	}
	return out, nil
}

// RecentNotices returns unexpired notices in listing order.
func (s *Stats) RecentNotices(ctx context.Context, limit int) ([]types.Notice, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out := make([]types.Notice, 0)
	err := s.db.WithContext(ctx).
		Scopes(NotExpired("expires_at", s.now())).
		Order("is_pinned DESC").Order("published_at DESC").Limit(clampLimit(limit)).
		Find(&out).Error
	if err != nil {
		return nil, apperr.Classify("stats.recent_notices", err)
	}
	return out, nil
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return 5
	case n > MaxLimit:
		return MaxLimit
	default:
		return n
	}
}

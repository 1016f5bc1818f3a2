package store

import (
	"time"

	"github.com/stake-plus/memberhub/src/api/types"
)

type MemberFilter struct {
	Search       string `form:"search" binding:"max=100"`
	Constituency string `form:"constituency"`
	District     string `form:"district"`
	Division     string `form:"division"`
	Verified     *bool  `form:"verified"`
	Active       *bool  `form:"active"`
}

func (f MemberFilter) Predicates() []Predicate {
	return []Predicate{
		Search(f.Search, "full_name", "city", "constituency", "profession"),
		Equal("constituency", f.Constituency),
		Equal("district", f.District),
		Equal("division", f.Division),
		EqualBool("is_verified", f.Verified),
		EqualBool("is_active", f.Active),
	}
}

type EventFilter struct {
	Search       string            `form:"search" binding:"max=100"`
	Type         types.EventType   `form:"type" binding:"omitempty,oneof=offline online hybrid"`
	Status       types.EventStatus `form:"status" binding:"omitempty,oneof=draft published cancelled completed"`
	Constituency string            `form:"constituency"`
	District     string            `form:"district"`
	From         *time.Time        `form:"from"`
	To           *time.Time        `form:"to"`
}

func (f EventFilter) Predicates() []Predicate {
	return []Predicate{
		Search(f.Search, "title", "description", "venue"),
		Equal("type", string(f.Type)),
		Equal("status", string(f.Status)),
		Equal("constituency", f.Constituency),
		Equal("district", f.District),
		OnOrAfter("start_date", f.From),
		OnOrBefore("start_date", f.To),
	}
}

type NoticeFilter struct {
	Search         string               `form:"search" binding:"max=100"`
	Priority       types.NoticePriority `form:"priority" binding:"omitempty,oneof=urgent high medium low"`
	Category       string               `form:"category"`
	TargetAudience types.NoticeTarget   `form:"targetAudience" binding:"omitempty,oneof=all leadership constituency"`
	Constituency   string               `form:"constituency"`
	District       string               `form:"district"`
	Pinned         *bool                `form:"pinned"`
	ActiveOnly     bool                 `form:"active"`

	now time.Time
}

func (f NoticeFilter) Predicates() []Predicate {
	ps := []Predicate{
		Search(f.Search, "title", "content"),
		Equal("priority", string(f.Priority)),
		Equal("category", f.Category),
		Equal("target_audience", string(f.TargetAudience)),
		Equal("constituency", f.Constituency),
		Equal("district", f.District),
		EqualBool("is_pinned", f.Pinned),
	}
	if f.ActiveOnly {
		now := f.now
		if now.IsZero() {
			now = time.Now().UTC()
		}
		ps = append(ps, NotExpired("expires_at", now))
	}
	return ps
}

type FeedbackFilter struct {
	Search       string                 `form:"search" binding:"max=100"`
	Category     types.FeedbackCategory `form:"category" binding:"omitempty,oneof=suggestion complaint appreciation meeting_request event_feedback technical_issue"`
	Status       types.FeedbackStatus   `form:"status" binding:"omitempty,oneof=pending in_progress resolved"`
	Priority     string                 `form:"priority" binding:"omitempty,oneof=low medium high"`
	UserType     types.UserType         `form:"userType" binding:"omitempty,oneof=member leader"`
	District     string                 `form:"district"`
	Constituency string                 `form:"constituency"`
	EventID      string                 `form:"eventId"`
}

func (f FeedbackFilter) Predicates() []Predicate {
	return []Predicate{
		Search(f.Search, "subject", "message", "name"),
		Equal("category", string(f.Category)),
		Equal("status", string(f.Status)),
		Equal("priority", f.Priority),
		Equal("user_type", string(f.UserType)),
		Equal("district", f.District),
		Equal("constituency", f.Constituency),
		Equal("event_id", f.EventID),
	}
}

type LeadershipFilter struct {
	Search   string `form:"search" binding:"max=100"`
	Category string `form:"category"`
	Region   string `form:"region"`
}

func (f LeadershipFilter) Predicates() []Predicate {
	return []Predicate{
		Search(f.Search, "name", "designation", "region"),
		Equal("category", f.Category),
		Equal("region", f.Region),
	}
}

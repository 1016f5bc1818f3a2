package types

import (
	"time"

	"github.com/stake-plus/memberhub/src/api/apperr"
)

type EventType string

const (
	EventOffline EventType = "offline"
	EventOnline  EventType = "online"
	EventHybrid  EventType = "hybrid"
)

// EventStatus values may overwrite each other in any order.
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventCancelled EventStatus = "cancelled"
	EventCompleted EventStatus = "completed"
)

type Event struct {
	Base
	Title        string      `gorm:"size:255;not null" json:"title"`
	Description  string      `gorm:"type:text" json:"description"`
	Type         EventType   `gorm:"size:16;not null;index" json:"type"`
	StartDate    time.Time   `gorm:"not null;index" json:"startDate"`
	EndDate      *time.Time  `json:"endDate"`
	Venue        string      `gorm:"size:255" json:"venue"`
	MeetingLink  string      `gorm:"size:512" json:"meetingLink"`
	MaxAttendees *int        `json:"maxAttendees"`
	Status       EventStatus `gorm:"size:16;not null;index" json:"status"`
	OrganizerID  string      `gorm:"size:64;index" json:"organizerId"`
	Constituency string      `gorm:"size:128;index" json:"constituency"`
	District     string      `gorm:"size:128;index" json:"district"`
}

type EventInput struct {
	Title        string      `json:"title" binding:"required,min=3,max=255"`
	Description  string      `json:"description" binding:"max=10000"`
	Type         EventType   `json:"type" binding:"required,oneof=offline online hybrid"`
	StartDate    time.Time   `json:"startDate" binding:"required"`
	EndDate      *time.Time  `json:"endDate" binding:"omitempty,gtefield=StartDate"`
	Venue        string      `json:"venue" binding:"max=255"`
	MeetingLink  string      `json:"meetingLink" binding:"omitempty,url,max=512"`
	MaxAttendees *int        `json:"maxAttendees" binding:"omitempty,min=1"`
	Status       EventStatus `json:"status" binding:"omitempty,oneof=draft published cancelled completed"`
	OrganizerID  string      `json:"organizerId" binding:"max=64"`
	Constituency string      `json:"constituency" binding:"max=128"`
	District     string      `json:"district" binding:"max=128"`
}

// ToModel builds an Event; a missing status defaults to draft.
func (in EventInput) ToModel() *Event {
	status := in.Status
	if status == "" {
		status = EventDraft
	}
	return &Event{
		Title:        in.Title,
		Description:  in.Description,
		Type:         in.Type,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Venue:        in.Venue,
		MeetingLink:  in.MeetingLink,
		MaxAttendees: in.MaxAttendees,
		Status:       status,
		OrganizerID:  in.OrganizerID,
		Constituency: in.Constituency,
		District:     in.District,
	}
}

func (in *EventInput) Sanitize(clean func(string) string) {
	in.Title = clean(in.Title)
	in.Description = clean(in.Description)
	in.Venue = clean(in.Venue)
}

type EventPatch struct {
	Title        *string      `json:"title" binding:"omitempty,min=3,max=255"`
	Description  *string      `json:"description" binding:"omitempty,max=10000"`
	Type         *EventType   `json:"type" binding:"omitempty,oneof=offline online hybrid"`
	StartDate    *time.Time   `json:"startDate"`
	EndDate      *time.Time   `json:"endDate"`
	Venue        *string      `json:"venue" binding:"omitempty,max=255"`
	MeetingLink  *string      `json:"meetingLink" binding:"omitempty,url,max=512"`
	MaxAttendees *int         `json:"maxAttendees" binding:"omitempty,min=1"`
	Status       *EventStatus `json:"status" binding:"omitempty,oneof=draft published cancelled completed"`
	Constituency *string      `json:"constituency" binding:"omitempty,max=128"`
	District     *string      `json:"district" binding:"omitempty,max=128"`
}

func (p *EventPatch) Sanitize(clean func(string) string) {
	cleanPtr(p.Title, clean)
	cleanPtr(p.Description, clean)
	cleanPtr(p.Venue, clean)
}

// Reconcile checks the merged dates, so a patch cannot leave an event
// ending before it starts.
func (p *EventPatch) Reconcile(current *Event) error {
	if p.StartDate == nil && p.EndDate == nil {
		return nil
	}
	start, end := current.StartDate, current.EndDate
	if p.StartDate != nil {
		start = *p.StartDate
	}
	if p.EndDate != nil {
		end = p.EndDate
	}
	if end != nil && end.Before(start) {
		return apperr.Invalid("endDate", "must not be before startDate")
	}
	return nil
}

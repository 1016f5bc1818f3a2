package types

import "time"

type FeedbackCategory string

const (
	FeedbackSuggestion     FeedbackCategory = "suggestion"
	FeedbackComplaint      FeedbackCategory = "complaint"
	FeedbackAppreciation   FeedbackCategory = "appreciation"
	FeedbackMeetingRequest FeedbackCategory = "meeting_request"
	FeedbackEvent          FeedbackCategory = "event_feedback"
	FeedbackTechnical      FeedbackCategory = "technical_issue"
)

type FeedbackStatus string

const (
	FeedbackPending    FeedbackStatus = "pending"
	FeedbackInProgress FeedbackStatus = "in_progress"
	FeedbackResolved   FeedbackStatus = "resolved"
)

type UserType string

const (
	UserTypeMember UserType = "member"
	UserTypeLeader UserType = "leader"
)

type Feedback struct {
	Base
	Name          string           `gorm:"size:128;not null" json:"name"`
	Phone         string           `gorm:"size:20" json:"phone"`
	Email         string           `gorm:"size:255" json:"email"`
	UserType      UserType         `gorm:"size:16;not null" json:"userType"`
	Subject       string           `gorm:"size:255;not null" json:"subject"`
	Message       string           `gorm:"type:text;not null" json:"message"`
	Category      FeedbackCategory `gorm:"size:32;not null;index" json:"category"`
	Priority      string           `gorm:"size:16;not null" json:"priority"`
	Status        FeedbackStatus   `gorm:"size:16;not null;index" json:"status"`
	AdminResponse string           `gorm:"type:text" json:"adminResponse"`
	RespondedAt   *time.Time       `json:"respondedAt"`
	EventID       string           `gorm:"size:36;index" json:"eventId"`
	District      string           `gorm:"size:128" json:"district"`
	Constituency  string           `gorm:"size:128" json:"constituency"`
}

// TableName keeps the table name singular; "feedback" has no plural.
func (Feedback) TableName() string { return "feedback" }

type FeedbackInput struct {
	Name         string           `json:"name" binding:"required,min=2,max=128"`
	Phone        string           `json:"phone" binding:"omitempty,min=10,max=20"`
	Email        string           `json:"email" binding:"omitempty,email,max=255"`
	UserType     UserType         `json:"userType" binding:"omitempty,oneof=member leader"`
	Subject      string           `json:"subject" binding:"required,min=3,max=255"`
	Message      string           `json:"message" binding:"required,min=10,max=10000"`
	Category     FeedbackCategory `json:"category" binding:"required,oneof=suggestion complaint appreciation meeting_request event_feedback technical_issue"`
	Priority     string           `json:"priority" binding:"omitempty,oneof=low medium high"`
	EventID      string           `json:"eventId" binding:"max=36"`
	District     string           `json:"district" binding:"max=128"`
	Constituency string           `json:"constituency" binding:"max=128"`
}

// ToModel builds a pending Feedback with member/medium defaults.
func (in FeedbackInput) ToModel() *Feedback {
	f := &Feedback{
		Name:         in.Name,
		Phone:        in.Phone,
		Email:        in.Email,
		UserType:     in.UserType,
		Subject:      in.Subject,
		Message:      in.Message,
		Category:     in.Category,
		Priority:     in.Priority,
		Status:       FeedbackPending,
		EventID:      in.EventID,
		District:     in.District,
		Constituency: in.Constituency,
	}
	if f.UserType == "" {
		f.UserType = UserTypeMember
	}
	if f.Priority == "" {
		f.Priority = "medium"
	}
	return f
}

func (in *FeedbackInput) Sanitize(clean func(string) string) {
	in.Name = clean(in.Name)
	in.Subject = clean(in.Subject)
	in.Message = clean(in.Message)
}

type FeedbackPatch struct {
	Subject      *string           `json:"subject" binding:"omitempty,min=3,max=255"`
	Message      *string           `json:"message" binding:"omitempty,min=10,max=10000"`
	Category     *FeedbackCategory `json:"category" binding:"omitempty,oneof=suggestion complaint appreciation meeting_request event_feedback technical_issue"`
	Priority     *string           `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status       *FeedbackStatus   `json:"status" binding:"omitempty,oneof=pending in_progress resolved"`
	District     *string           `json:"district" binding:"omitempty,max=128"`
	Constituency *string           `json:"constituency" binding:"omitempty,max=128"`
}

func (p *FeedbackPatch) Sanitize(clean func(string) string) {
	cleanPtr(p.Subject, clean)
	cleanPtr(p.Message, clean)
}

// FeedbackResponse is an admin reply. Status defaults to resolved.
type FeedbackResponse struct {
	Response string         `json:"response" binding:"required,min=2,max=10000"`
	Status   FeedbackStatus `json:"status" binding:"omitempty,oneof=pending in_progress resolved"`
}

func (r *FeedbackResponse) Sanitize(clean func(string) string) {
	r.Response = clean(r.Response)
}

// Changes returns the columns a response writes.
func (r FeedbackResponse) Changes(now time.Time) map[string]any {
	status := r.Status
	if status == "" {
		status = FeedbackResolved
	}
	return map[string]any{
		"AdminResponse": r.Response,
		"RespondedAt":   now,
		"Status":        status,
	}
}

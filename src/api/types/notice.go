package types

import "time"

type NoticePriority string

const (
	PriorityUrgent NoticePriority = "urgent"
	PriorityHigh   NoticePriority = "high"
	PriorityMedium NoticePriority = "medium"
	PriorityLow    NoticePriority = "low"
)

type NoticeTarget string

const (
	TargetAll          NoticeTarget = "all"
	TargetLeadership   NoticeTarget = "leadership"
	TargetConstituency NoticeTarget = "constituency"
)

// Notice listings put pinned rows first; there is no stored rank.
type Notice struct {
	Base
	Title          string         `gorm:"size:255;not null" json:"title"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	Priority       NoticePriority `gorm:"size:16;not null;index" json:"priority"`
	Category       string         `gorm:"size:64;index" json:"category"`
	TargetAudience NoticeTarget   `gorm:"size:16;not null" json:"targetAudience"`
	Constituency   string         `gorm:"size:128" json:"constituency"`
	District       string         `gorm:"size:128" json:"district"`
	IsPinned       bool           `gorm:"not null;index" json:"isPinned"`
	ExpiresAt      *time.Time     `json:"expiresAt"`
	Attachments    StringList     `gorm:"type:text" json:"attachments"`
	PublishedAt    time.Time      `gorm:"not null;index" json:"publishedAt"`
	ViewCount      int            `gorm:"not null" json:"viewCount"`
	AuthorID       string         `gorm:"size:64" json:"authorId"`
}

type NoticeInput struct {
	Title          string         `json:"title" binding:"required,min=3,max=255"`
	Content        string         `json:"content" binding:"required,max=20000"`
	Priority       NoticePriority `json:"priority" binding:"omitempty,oneof=urgent high medium low"`
	Category       string         `json:"category" binding:"max=64"`
	TargetAudience NoticeTarget   `json:"targetAudience" binding:"omitempty,oneof=all leadership constituency"`
	Constituency   string         `json:"constituency" binding:"max=128"`
	District       string         `json:"district" binding:"max=128"`
	IsPinned       bool           `json:"isPinned"`
	ExpiresAt      *time.Time     `json:"expiresAt"`
	Attachments    []string       `json:"attachments" binding:"max=20,dive,max=512"`
	PublishedAt    *time.Time     `json:"publishedAt"`
}

// ToModel builds a Notice. Priority defaults to medium, the audience to
// all, and the publish time to now.
func (in NoticeInput) ToModel() *Notice {
	n := &Notice{
		Title:          in.Title,
		Content:        in.Content,
		Priority:       in.Priority,
		Category:       in.Category,
		TargetAudience: in.TargetAudience,
		Constituency:   in.Constituency,
		District:       in.District,
		IsPinned:       in.IsPinned,
		ExpiresAt:      in.ExpiresAt,
		Attachments:    StringList(in.Attachments),
		PublishedAt:    time.Now().UTC(),
	}
	if n.Priority == "" {
		n.Priority = PriorityMedium
	}
	if n.TargetAudience == "" {
		n.TargetAudience = TargetAll
	}
	if in.PublishedAt != nil {
		n.PublishedAt = *in.PublishedAt
	}
	return n
}

func (in *NoticeInput) Sanitize(clean func(string) string) {
	in.Title = clean(in.Title)
	in.Content = clean(in.Content)
	in.Category = clean(in.Category)
}

type NoticePatch struct {
	Title          *string         `json:"title" binding:"omitempty,min=3,max=255"`
	Content        *string         `json:"content" binding:"omitempty,max=20000"`
	Priority       *NoticePriority `json:"priority" binding:"omitempty,oneof=urgent high medium low"`
	Category       *string         `json:"category" binding:"omitempty,max=64"`
	TargetAudience *NoticeTarget   `json:"targetAudience" binding:"omitempty,oneof=all leadership constituency"`
	Constituency   *string         `json:"constituency" binding:"omitempty,max=128"`
	District       *string         `json:"district" binding:"omitempty,max=128"`
	IsPinned       *bool           `json:"isPinned"`
	ExpiresAt      *time.Time      `json:"expiresAt"`
	Attachments    *StringList     `json:"attachments" binding:"omitempty,max=20,dive,max=512"`
	PublishedAt    *time.Time      `json:"publishedAt"`
}

func (p *NoticePatch) Sanitize(clean func(string) string) {
	cleanPtr(p.Title, clean)
	cleanPtr(p.Content, clean)
	cleanPtr(p.Category, clean)
}

package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identity and timestamps shared by every managed entity.
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a fresh UUID unless the caller supplied one.
func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (b Base) EntityID() string { return b.ID }

// Models lists every table the API owns, in migration order.
func Models() []any {
	return []any{
		&User{}, &Member{}, &Event{}, &Notice{}, &Feedback{}, &Leadership{},
	}
}

// ContactInfo is stored as a JSON text column on members.
type ContactInfo struct {
	Address          string `json:"address,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty" binding:"omitempty,min=10,max=20"`
}

func (c ContactInfo) Value() (driver.Value, error) { return jsonValue(c) }
func (c *ContactInfo) Scan(src any) error          { return jsonScan(src, c) }

// SocialMedia holds optional social handles.
type SocialMedia struct {
	Whatsapp  string `json:"whatsapp,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

func (s SocialMedia) Value() (driver.Value, error) { return jsonValue(s) }
func (s *SocialMedia) Scan(src any) error          { return jsonScan(src, s) }

// StringList is a JSON-encoded list of strings, used for attachments.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return jsonValue([]string(l))
}

func (l *StringList) Scan(src any) error { return jsonScan(src, (*[]string)(l)) }

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(src any, dst any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", src)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}

func cleanPtr(p *string, clean func(string) string) {
	if p != nil {
		*p = clean(*p)
	}
}

package types

import (
	"encoding/json"
	"time"
)

// Member is an entry in the party member directory.
type Member struct {
	Base
	FullName       string      `gorm:"size:128;not null" json:"fullName"`
	Phone          string      `gorm:"size:20;not null;index" json:"phone"`
	Email          string      `gorm:"size:255" json:"email"`
	Constituency   string      `gorm:"size:128;index" json:"constituency"`
	District       string      `gorm:"size:128;index" json:"district"`
	Division       string      `gorm:"size:128" json:"division"`
	City           string      `gorm:"size:128" json:"city"`
	Profession     string      `gorm:"size:128" json:"profession"`
	Designation    string      `gorm:"size:128" json:"designation"`
	Achievements   string      `gorm:"type:text" json:"achievements"`
	ContactInfo    ContactInfo `gorm:"type:text" json:"contactInfo"`
	SocialMedia    SocialMedia `gorm:"type:text" json:"socialMedia"`
	IsVerified     bool        `gorm:"not null" json:"isVerified"`
	IsActive       bool        `gorm:"not null" json:"isActive"`
	MembershipDate *time.Time  `json:"membershipDate"`
}

// MarshalJSON also exposes the contact fields at the top level, the shape
// clients submit them in.
func (m Member) MarshalJSON() ([]byte, error) {
	type plain Member
	return json.Marshal(struct {
		plain
		Address          string `json:"address"`
		EmergencyContact string `json:"emergencyContact"`
	}{plain(m), m.ContactInfo.Address, m.ContactInfo.EmergencyContact})
}

// MemberInput is the create payload for a member. Address and
// EmergencyContact may be sent flat or inside contactInfo; flat wins.
type MemberInput struct {
	FullName         string      `json:"fullName" binding:"required,min=2,max=128"`
	Phone            string      `json:"phone" binding:"required,min=10,max=20"`
	Email            string      `json:"email" binding:"omitempty,email,max=255"`
	Constituency     string      `json:"constituency" binding:"required,max=128"`
	District         string      `json:"district" binding:"required,max=128"`
	Division         string      `json:"division" binding:"max=128"`
	City             string      `json:"city" binding:"max=128"`
	Profession       string      `json:"profession" binding:"max=128"`
	Designation      string      `json:"designation" binding:"max=128"`
	Achievements     string      `json:"achievements" binding:"max=5000"`
	Address          string      `json:"address" binding:"max=512"`
	EmergencyContact string      `json:"emergencyContact" binding:"omitempty,min=10,max=20"`
	ContactInfo      ContactInfo `json:"contactInfo"`
	SocialMedia      SocialMedia `json:"socialMedia"`
	IsVerified       bool        `json:"isVerified"`
	IsActive         *bool       `json:"isActive"`
	MembershipDate   *time.Time  `json:"membershipDate"`
}

// ToModel builds a Member; IsActive defaults to true.
func (in MemberInput) ToModel() *Member {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	contact := in.ContactInfo
	if in.Address != "" {
		contact.Address = in.Address
	}
	if in.EmergencyContact != "" {
		contact.EmergencyContact = in.EmergencyContact
	}
	return &Member{
		FullName:       in.FullName,
		Phone:          in.Phone,
		Email:          in.Email,
		Constituency:   in.Constituency,
		District:       in.District,
		Division:       in.Division,
		City:           in.City,
		Profession:     in.Profession,
		Designation:    in.Designation,
		Achievements:   in.Achievements,
		ContactInfo:    contact,
		SocialMedia:    in.SocialMedia,
		IsVerified:     in.IsVerified,
		IsActive:       active,
		MembershipDate: in.MembershipDate,
	}
}

func (in *MemberInput) Sanitize(clean func(string) string) {
	in.FullName = clean(in.FullName)
	in.Profession = clean(in.Profession)
	in.Designation = clean(in.Designation)
	in.Achievements = clean(in.Achievements)
	in.Address = clean(in.Address)
	in.ContactInfo.Address = clean(in.ContactInfo.Address)
}

// MemberPatch is a partial update; nil fields are left untouched. The flat
// Address and EmergencyContact are folded into ContactInfo by Reconcile.
type MemberPatch struct {
	FullName         *string      `json:"fullName" binding:"omitempty,min=2,max=128"`
	Phone            *string      `json:"phone" binding:"omitempty,min=10,max=20"`
	Email            *string      `json:"email" binding:"omitempty,email,max=255"`
	Constituency     *string      `json:"constituency" binding:"omitempty,max=128"`
	District         *string      `json:"district" binding:"omitempty,max=128"`
	Division         *string      `json:"division" binding:"omitempty,max=128"`
	City             *string      `json:"city" binding:"omitempty,max=128"`
	Profession       *string      `json:"profession" binding:"omitempty,max=128"`
	Designation      *string      `json:"designation" binding:"omitempty,max=128"`
	Achievements     *string      `json:"achievements" binding:"omitempty,max=5000"`
	Address          *string      `json:"address" binding:"omitempty,max=512"`
	EmergencyContact *string      `json:"emergencyContact" binding:"omitempty,min=10,max=20"`
	ContactInfo      *ContactInfo `json:"contactInfo"`
	SocialMedia      *SocialMedia `json:"socialMedia"`
	IsVerified       *bool        `json:"isVerified"`
	IsActive         *bool        `json:"isActive"`
	MembershipDate   *time.Time   `json:"membershipDate"`
}

func (p *MemberPatch) Sanitize(clean func(string) string) {
	cleanPtr(p.FullName, clean)
	cleanPtr(p.Profession, clean)
	cleanPtr(p.Designation, clean)
	cleanPtr(p.Achievements, clean)
	cleanPtr(p.Address, clean)
	if p.ContactInfo != nil {
		p.ContactInfo.Address = clean(p.ContactInfo.Address)
	}
}

// Reconcile merges the flat contact fields over the stored contact block,
// or over a contactInfo sent in the same patch.
func (p *MemberPatch) Reconcile(current *Member) error {
	if p.Address == nil && p.EmergencyContact == nil {
		return nil
	}
	contact := current.ContactInfo
	if p.ContactInfo != nil {
		contact = *p.ContactInfo
	}
	if p.Address != nil {
		contact.Address = *p.Address
	}
	if p.EmergencyContact != nil {
		contact.EmergencyContact = *p.EmergencyContact
	}
	p.ContactInfo = &contact
	p.Address, p.EmergencyContact = nil, nil
	return nil
}

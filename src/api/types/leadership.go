package types

// Leadership is a roster entry. Priority encodes hierarchy, lower is more
// senior; DisplayOrder only breaks ties in the UI.
type Leadership struct {
	Base
	Name            string      `gorm:"size:128;not null" json:"name"`
	Designation     string      `gorm:"size:128;not null" json:"designation"`
	Category        string      `gorm:"size:64;index" json:"category"`
	Region          string      `gorm:"size:128;index" json:"region"`
	Bio             string      `gorm:"type:text" json:"bio"`
	ProfileImageURL string      `gorm:"size:512" json:"profileImageUrl"`
	Email           string      `gorm:"size:255" json:"email"`
	SocialMedia     SocialMedia `gorm:"type:text" json:"socialMedia"`
	DisplayOrder    int         `gorm:"not null" json:"displayOrder"`
	Priority        int         `gorm:"not null;index" json:"priority"`
}

func (Leadership) TableName() string { return "leadership" }

type LeadershipInput struct {
	Name            string      `json:"name" binding:"required,min=2,max=128"`
	Designation     string      `json:"designation" binding:"required,max=128"`
	Category        string      `json:"category" binding:"max=64"`
	Region          string      `json:"region" binding:"max=128"`
	Bio             string      `json:"bio" binding:"max=10000"`
	ProfileImageURL string      `json:"profileImageUrl" binding:"omitempty,url,max=512"`
	Email           string      `json:"email" binding:"omitempty,email,max=255"`
	SocialMedia     SocialMedia `json:"socialMedia"`
	DisplayOrder    int         `json:"displayOrder" binding:"min=0"`
	Priority        int         `json:"priority" binding:"min=0"`
}

func (in LeadershipInput) ToModel() *Leadership {
	return &Leadership{
		Name:            in.Name,
		Designation:     in.Designation,
		Category:        in.Category,
		Region:          in.Region,
		Bio:             in.Bio,
		ProfileImageURL: in.ProfileImageURL,
		Email:           in.Email,
		SocialMedia:     in.SocialMedia,
		DisplayOrder:    in.DisplayOrder,
		Priority:        in.Priority,
	}
}

func (in *LeadershipInput) Sanitize(clean func(string) string) {
	in.Name = clean(in.Name)
	in.Designation = clean(in.Designation)
	in.Bio = clean(in.Bio)
}

type LeadershipPatch struct {
	Name            *string      `json:"name" binding:"omitempty,min=2,max=128"`
	Designation     *string      `json:"designation" binding:"omitempty,max=128"`
	Category        *string      `json:"category" binding:"omitempty,max=64"`
	Region          *string      `json:"region" binding:"omitempty,max=128"`
	Bio             *string      `json:"bio" binding:"omitempty,max=10000"`
	ProfileImageURL *string      `json:"profileImageUrl" binding:"omitempty,url,max=512"`
	Email           *string      `json:"email" binding:"omitempty,email,max=255"`
	SocialMedia     *SocialMedia `json:"socialMedia"`
	DisplayOrder    *int         `json:"displayOrder" binding:"omitempty,min=0"`
	Priority        *int         `json:"priority" binding:"omitempty,min=0"`
}

func (p *LeadershipPatch) Sanitize(clean func(string) string) {
	cleanPtr(p.Name, clean)
	cleanPtr(p.Designation, clean)
	cleanPtr(p.Bio, clean)
}

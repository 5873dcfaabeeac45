package models

import "time"

type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

// Empty reports whether no link is set.
func (s SocialLinks) Empty() bool {
	return s == SocialLinks{}
}

type CompanyProfile struct {
	ID               int64        `json:"id"`
	OwnerID          int64        `json:"owner_id"`
	CompanyName      string       `json:"company_name"`
	Address          string       `json:"address,omitempty"`
	City             string       `json:"city,omitempty"`
	State            string       `json:"state,omitempty"`
	Country          string       `json:"country,omitempty"`
	PostalCode       string       `json:"postal_code,omitempty"`
	Website          string       `json:"website,omitempty"`
	LogoURL          *string      `json:"logo_url"`
	BannerURL        *string      `json:"banner_url"`
	Industry         string       `json:"industry,omitempty"`
	FoundedDate      *string      `json:"founded_date,omitempty"` // YYYY-MM-DD
	Description      string       `json:"description,omitempty"`
	SocialLinks      *SocialLinks `json:"social_links,omitempty"`
	OrganizationType string       `json:"organization_type,omitempty"`
	TeamSize         string       `json:"team_size,omitempty"`
	Vision           string       `json:"vision,omitempty"`
	PhoneCountryCode string       `json:"phone_country_code,omitempty"`
	Phone            string       `json:"phone,omitempty"`
	ContactEmail     string       `json:"contact_email,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// CompanyRequest is the body of POST /api/company/register.
type CompanyRequest struct {
	CompanyName      string       `json:"company_name" binding:"required"`
	Address          string       `json:"address" binding:"required"`
	City             string       `json:"city" binding:"required"`
	State            string       `json:"state" binding:"required"`
	Country          string       `json:"country" binding:"required"`
	PostalCode       string       `json:"postal_code" binding:"required"`
	Industry         string       `json:"industry" binding:"required"`
	Website          string       `json:"website,omitempty"`
	FoundedDate      *string      `json:"founded_date,omitempty"`
	Description      string       `json:"description,omitempty"`
	SocialLinks      *SocialLinks `json:"social_links,omitempty"`
	LogoURL          *string      `json:"logo_url,omitempty"`
	BannerURL        *string      `json:"banner_url,omitempty"`
	OrganizationType string       `json:"organization_type,omitempty"`
	TeamSize         string       `json:"team_size,omitempty"`
	Vision           string       `json:"vision,omitempty"`
	PhoneCountryCode string       `json:"phone_country_code,omitempty"`
	Phone            string       `json:"phone,omitempty"`
	ContactEmail     string       `json:"contact_email,omitempty"`
}

// CompanyPatch is the body of PUT /api/company/profile; nil fields are left
// unchanged.
type CompanyPatch struct {
	CompanyName      *string      `json:"company_name,omitempty"`
	Address          *string      `json:"address,omitempty"`
	City             *string      `json:"city,omitempty"`
	State            *string      `json:"state,omitempty"`
	Country          *string      `json:"country,omitempty"`
	PostalCode       *string      `json:"postal_code,omitempty"`
	Website          *string      `json:"website,omitempty"`
	Industry         *string      `json:"industry,omitempty"`
	FoundedDate      *string      `json:"founded_date,omitempty"`
	Description      *string      `json:"description,omitempty"`
	SocialLinks      *SocialLinks `json:"social_links,omitempty"`
	LogoURL          *string      `json:"logo_url,omitempty"`
	BannerURL        *string      `json:"banner_url,omitempty"`
	OrganizationType *string      `json:"organization_type,omitempty"`
	TeamSize         *string      `json:"team_size,omitempty"`
	Vision           *string      `json:"vision,omitempty"`
	PhoneCountryCode *string      `json:"phone_country_code,omitempty"`
	Phone            *string      `json:"phone,omitempty"`
	ContactEmail     *string      `json:"contact_email,omitempty"`
}

// Patch converts a full registration request into an equivalent patch.
func (r CompanyRequest) Patch() CompanyPatch {
	return CompanyPatch{
		CompanyName:      &r.CompanyName,
		Address:          &r.Address,
		City:             &r.City,
		State:            &r.State,
		Country:          &r.Country,
		PostalCode:       &r.PostalCode,
		Website:          &r.Website,
		Industry:         &r.Industry,
		FoundedDate:      r.FoundedDate,
		Description:      &r.Description,
		SocialLinks:      r.SocialLinks,
		LogoURL:          r.LogoURL,
		BannerURL:        r.BannerURL,
		OrganizationType: &r.OrganizationType,
		TeamSize:         &r.TeamSize,
		Vision:           &r.Vision,
		PhoneCountryCode: &r.PhoneCountryCode,
		Phone:            &r.Phone,
		ContactEmail:     &r.ContactEmail,
	}
}

// Apply copies every set field of p onto c.
func (p CompanyPatch) Apply(c *CompanyProfile) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&c.CompanyName, p.CompanyName)
	setString(&c.Address, p.Address)
	setString(&c.City, p.City)
	setString(&c.State, p.State)
	setString(&c.Country, p.Country)
	setString(&c.PostalCode, p.PostalCode)
	setString(&c.Website, p.Website)
	setString(&c.Industry, p.Industry)
	setString(&c.Description, p.Description)
	setString(&c.OrganizationType, p.OrganizationType)
	setString(&c.TeamSize, p.TeamSize)
	setString(&c.Vision, p.Vision)
	setString(&c.PhoneCountryCode, p.PhoneCountryCode)
	setString(&c.Phone, p.Phone)
	setString(&c.ContactEmail, p.ContactEmail)
	if p.FoundedDate != nil {
		c.FoundedDate = nullable(*p.FoundedDate)
	}
	if p.LogoURL != nil {
		c.LogoURL = nullable(*p.LogoURL)
	}
	if p.BannerURL != nil {
		c.BannerURL = nullable(*p.BannerURL)
	}
	if p.SocialLinks != nil {
		links := *p.SocialLinks
		c.SocialLinks = &links
	}
}

// Empty reports whether the patch changes nothing.
func (p CompanyPatch) Empty() bool {
	return p == CompanyPatch{}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

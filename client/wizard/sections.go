package wizard

import (
	"fmt"
	"strings"
)

// DefaultPhoneCountryCode prefills the contact step.
const DefaultPhoneCountryCode = "+91"

// Section is the form data of one step.
type Section interface {
	Step() Step
	// Missing lists the required fields that are blank.
	Missing() []string
}

type CompanyInfo struct {
	LogoURL     string `json:"logoUrl,omitempty"`
	BannerURL   string `json:"bannerUrl,omitempty"`
	CompanyName string `json:"companyName"`
	About       string `json:"about"`
}

func (CompanyInfo) Step() Step { return StepCompany }

func (c CompanyInfo) Missing() []string {
	return blank(field{"companyName", c.CompanyName})
}

type FoundingInfo struct {
	OrganizationType string `json:"organizationType"`
	IndustryType     string `json:"industryType"`
	TeamSize         string `json:"teamSize"`
	// YearOfEstablishment is YYYY-MM-DD or empty.
	YearOfEstablishment string `json:"yearOfEstablishment,omitempty"`
	Website             string `json:"website"`
	Vision              string `json:"vision"`
}

func (FoundingInfo) Step() Step { return StepFounding }

func (f FoundingInfo) Missing() []string {
	return blank(field{"industryType", f.IndustryType})
}

type SocialMediaInfo struct {
	LinkedIn  string `json:"linkedin"`
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	YouTube   string `json:"youtube"`
}

func (SocialMediaInfo) Step() Step { return StepSocial }

func (SocialMediaInfo) Missing() []string { return nil }

type ContactInfo struct {
	MapLocation      string `json:"mapLocation"`
	Phone            string `json:"phone"`
	PhoneCountryCode string `json:"phoneCountryCode"`
	Email            string `json:"email"`
	City             string `json:"city"`
	State            string `json:"state"`
	Country          string `json:"country"`
	PostalCode       string `json:"postalCode"`
}

func (ContactInfo) Step() Step { return StepContact }

func (c ContactInfo) Missing() []string {
	return blank(
		field{"mapLocation", c.MapLocation},
		field{"city", c.City},
		field{"state", c.State},
		field{"country", c.Country},
		field{"postalCode", c.PostalCode},
	)
}

type field struct{ name, value string }

func blank(fields ...field) []string {
	var out []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	return out
}

// ValidationError reports a section that cannot be saved.
type ValidationError struct {
	Step    Step
	Missing []string
	// Reason is set instead of Missing when the section does not belong to Step.
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Step, e.Reason)
	}
	return fmt.Sprintf("%s: missing required fields: %s", e.Step, strings.Join(e.Missing, ", "))
}

// Validate checks that section belongs to step and has its required fields.
func Validate(step Step, section Section) error {
	if !step.Valid() {
		return fmt.Errorf("unknown step %q", step)
	}
	if section == nil || section.Step() != step {
		return &ValidationError{Step: step, Reason: "section does not match step"}
	}
	if missing := section.Missing(); len(missing) > 0 {
		return &ValidationError{Step: step, Missing: missing}
	}
	return nil
}

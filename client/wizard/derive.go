package wizard

import (
	"slices"
	"strings"

	"company-onboarding/app/models"
)

// NextStep returns the step after the current one, or false on the last step.
func NextStep(p Progress) (Step, bool) {
	return after(p.CurrentStep)
}

// PercentComplete is the share of the step order up to and including the
// current step, or 100 once the wizard is complete.
func PercentComplete(p Progress) int {
	if p.IsComplete {
		return 100
	}
	i := p.CurrentStep.Index()
	if i < 0 {
		return 0
	}
	return (i + 1) * 100 / len(StepOrder)
}

func IsCompleted(p Progress, step Step) bool {
	return slices.Contains(p.CompletedSteps, step)
}

// BuildPayload maps the four sections onto the company profile body. Blank
// values are left out.
func BuildPayload(p Progress) models.CompanyPatch {
	out := models.CompanyPatch{
		CompanyName:      opt(p.Company.CompanyName),
		Description:      opt(p.Company.About),
		LogoURL:          opt(p.Company.LogoURL),
		BannerURL:        opt(p.Company.BannerURL),
		OrganizationType: opt(p.Founding.OrganizationType),
		Industry:         opt(p.Founding.IndustryType),
		TeamSize:         opt(p.Founding.TeamSize),
		FoundedDate:      opt(p.Founding.YearOfEstablishment),
		Website:          opt(p.Founding.Website),
		Vision:           opt(p.Founding.Vision),
		Address:          opt(p.Contact.MapLocation),
		Phone:            opt(p.Contact.Phone),
		PhoneCountryCode: opt(p.Contact.PhoneCountryCode),
		ContactEmail:     opt(p.Contact.Email),
		City:             opt(p.Contact.City),
		State:            opt(p.Contact.State),
		Country:          opt(p.Contact.Country),
		PostalCode:       opt(p.Contact.PostalCode),
	}
	links := models.SocialLinks{
		LinkedIn:  strings.TrimSpace(p.Social.LinkedIn),
		Facebook:  strings.TrimSpace(p.Social.Facebook),
		Twitter:   strings.TrimSpace(p.Social.Twitter),
		Instagram: strings.TrimSpace(p.Social.Instagram),
		YouTube:   strings.TrimSpace(p.Social.YouTube),
	}
	if !links.Empty() {
		out.SocialLinks = &links
	}
	return out
}

func opt(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

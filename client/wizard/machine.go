package wizard

import (
	"fmt"
	"slices"
	"sync"

	"company-onboarding/app/models"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Progress is a value snapshot of the wizard.
type Progress struct {
	CurrentStep    Step
	CompletedSteps []Step
	IsComplete     bool
	CompanyID      *int64

	Company  CompanyInfo
	Founding FoundingInfo
	Social   SocialMediaInfo
	Contact  ContactInfo

	Status Status
	Error  string
}

// Initial returns the state of a fresh wizard.
func Initial() Progress {
	return Progress{
		CurrentStep: StepCompany,
		Contact:     ContactInfo{PhoneCountryCode: DefaultPhoneCountryCode},
		Status:      StatusIdle,
	}
}

func (p Progress) clone() Progress {
	p.CompletedSteps = slices.Clone(p.CompletedSteps)
	if p.CompanyID != nil {
		id := *p.CompanyID
		p.CompanyID = &id
	}
	return p
}

// WithSection returns a copy of p holding section in place of its step's
// current data. Completion is not touched.
func (p Progress) WithSection(section Section) Progress {
	p = p.clone()
	switch s := section.(type) {
	case CompanyInfo:
		p.Company = s
	case *CompanyInfo:
		p.Company = *s
	case FoundingInfo:
		p.Founding = s
	case *FoundingInfo:
		p.Founding = *s
	case SocialMediaInfo:
		p.Social = s
	case *SocialMediaInfo:
		p.Social = *s
	case ContactInfo:
		p.Contact = s
	case *ContactInfo:
		p.Contact = *s
	}
	return p
}

// Machine guards a Progress; every transition is atomic.
type Machine struct {
	mu sync.Mutex
	p  Progress
}

func NewMachine() *Machine {
	return &Machine{p: Initial()}
}

// Snapshot returns a deep copy of the current state.
func (m *Machine) Snapshot() Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.p.clone()
}

// SaveStep stores section and marks step completed, moving to the step after
// it or marking the wizard complete after the last one. An invalid section
// leaves the state untouched.
func (m *Machine) SaveStep(step Step, section Section) error {
	if err := Validate(step, section); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.p = m.p.WithSection(section)
	if !slices.Contains(m.p.CompletedSteps, step) {
		m.p.CompletedSteps = append(m.p.CompletedSteps, step)
	}
	next, ok := after(step)
	switch {
	case m.p.IsComplete:
		// Edits after completion keep the wizard on its last step.
	case ok:
		m.p.CurrentStep = next
	default:
		m.p.CurrentStep = step
		m.p.IsComplete = true
	}
	return nil
}

// SetCurrentStep moves to step without changing completed steps.
func (m *Machine) SetCurrentStep(step Step) error {
	if !step.Valid() {
		return fmt.Errorf("unknown step %q", step)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.p.CurrentStep = step
	return nil
}

// ApplyServerProfile replaces the sections with the server's canonical
// profile. A stored profile only exists once the whole wizard was submitted,
// so it also completes every step. A nil profile changes nothing.
func (m *Machine) ApplyServerProfile(profile *models.CompanyProfile) {
	if profile == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := profile.ID
	m.p.CompanyID = &id
	m.p.Company = CompanyInfo{
		LogoURL:     deref(profile.LogoURL),
		BannerURL:   deref(profile.BannerURL),
		CompanyName: profile.CompanyName,
		About:       profile.Description,
	}
	m.p.Founding = FoundingInfo{
		OrganizationType:    profile.OrganizationType,
		IndustryType:        profile.Industry,
		TeamSize:            profile.TeamSize,
		YearOfEstablishment: deref(profile.FoundedDate),
		Website:             profile.Website,
		Vision:              profile.Vision,
	}
	var links models.SocialLinks
	if profile.SocialLinks != nil {
		links = *profile.SocialLinks
	}
	m.p.Social = SocialMediaInfo{
		LinkedIn:  links.LinkedIn,
		Facebook:  links.Facebook,
		Twitter:   links.Twitter,
		Instagram: links.Instagram,
		YouTube:   links.YouTube,
	}
	code := profile.PhoneCountryCode
	if code == "" {
		code = DefaultPhoneCountryCode
	}
	m.p.Contact = ContactInfo{
		MapLocation:      profile.Address,
		Phone:            profile.Phone,
		PhoneCountryCode: code,
		Email:            profile.ContactEmail,
		City:             profile.City,
		State:            profile.State,
		Country:          profile.Country,
		PostalCode:       profile.PostalCode,
	}
	for _, s := range StepOrder {
		if !slices.Contains(m.p.CompletedSteps, s) {
			m.p.CompletedSteps = append(m.p.CompletedSteps, s)
		}
	}
	m.p.CurrentStep = lastStep()
	m.p.IsComplete = true
}

// SetAsset stores an uploaded logo or banner URL and returns the previous
// one so a failed upload can be rolled back.
func (m *Machine) SetAsset(kind AssetKind, url string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch kind {
	case AssetLogo:
		prev := m.p.Company.LogoURL
		m.p.Company.LogoURL = url
		return prev, nil
	case AssetBanner:
		prev := m.p.Company.BannerURL
		m.p.Company.BannerURL = url
		return prev, nil
	}
	return "", fmt.Errorf("unknown asset kind %q", kind)
}

// SetStatus records the outcome of the last remote operation.
func (m *Machine) SetStatus(status Status, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.p.Status = status
	m.p.Error = errMsg
}

func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.p = Initial()
}

type AssetKind string

const (
	AssetLogo   AssetKind = "logo"
	AssetBanner AssetKind = "banner"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package store

import (
	"context"
	"sync"
	"time"

	"company-onboarding/app/models"
)

// Memory keeps users and companies in process memory. It backs the API when
// no database is configured and in tests.
type Memory struct {
	mu        sync.RWMutex
	users     map[int64]models.User
	companies map[int64]models.CompanyProfile
	nextUser  int64
	nextComp  int64
	now       func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		users:     map[int64]models.User{},
		companies: map[int64]models.CompanyProfile{},
		now:       time.Now,
	}
}

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	m.nextUser++
	now := m.now()
	u.ID = m.nextUser
	u.CreatedAt, u.UpdatedAt = now, now
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return u.Email == email })
}

func (m *Memory) FindUserByMobile(_ context.Context, mobile string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return u.MobileNo == mobile })
}

func (m *Memory) findUser(match func(models.User) bool) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) UpdateUser(_ context.Context, id int64, patch UserPatch) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.IsEmailVerified != nil {
		u.IsEmailVerified = *patch.IsEmailVerified
	}
	if patch.IsMobileVerified != nil {
		u.IsMobileVerified = *patch.IsMobileVerified
	}
	u.UpdatedAt = m.now()
	m.users[id] = u
	return &u, nil
}

func (m *Memory) CreateCompany(_ context.Context, ownerID int64, req models.CompanyRequest) (*models.CompanyProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.companies {
		if c.OwnerID == ownerID {
			return nil, ErrCompanyExists
		}
	}
	m.nextComp++
	now := m.now()
	c := models.CompanyProfile{ID: m.nextComp, OwnerID: ownerID, CreatedAt: now, UpdatedAt: now}
	req.Patch().Apply(&c)
	m.companies[c.ID] = c
	return cloneCompany(c), nil
}

func (m *Memory) FindCompanyByOwner(_ context.Context, ownerID int64) (*models.CompanyProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.companies {
		if c.OwnerID == ownerID {
			return cloneCompany(c), nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) UpdateCompany(_ context.Context, id int64, patch models.CompanyPatch) (*models.CompanyProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&c)
	c.UpdatedAt = m.now()
	m.companies[id] = c
	return cloneCompany(c), nil
}

// cloneCompany detaches the pointer fields from the stored record.
func cloneCompany(c models.CompanyProfile) *models.CompanyProfile {
	if c.SocialLinks != nil {
		links := *c.SocialLinks
		c.SocialLinks = &links
	}
	c.LogoURL = cloneString(c.LogoURL)
	c.BannerURL = cloneString(c.BannerURL)
	c.FoundedDate = cloneString(c.FoundedDate)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// Package store persists users and company profiles.
package store

import (
	"context"
	"errors"

	"company-onboarding/app/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrCompanyExists = errors.New("company already registered for this user")
)

// UserPatch carries the mutable user fields; nil fields are left unchanged.
type UserPatch struct {
	IsEmailVerified  *bool
	IsMobileVerified *bool
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByMobile(ctx context.Context, mobile string) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, patch UserPatch) (*models.User, error)
}

type CompanyStore interface {
	CreateCompany(ctx context.Context, ownerID int64, req models.CompanyRequest) (*models.CompanyProfile, error)
	FindCompanyByOwner(ctx context.Context, ownerID int64) (*models.CompanyProfile, error)
	UpdateCompany(ctx context.Context, id int64, patch models.CompanyPatch) (*models.CompanyProfile, error)
}

// Store is the full persistence surface used by the API.
type Store interface {
	UserStore
	CompanyStore
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"company-onboarding/app/models"
)

const userColumns = `id, email, password, full_name, signup_type, gender, mobile_no,
is_email_verified, is_mobile_verified, created_at, updated_at`

const companyColumns = `id, owner_id, company_name, COALESCE(address,''), COALESCE(city,''),
COALESCE(state,''), COALESCE(country,''), COALESCE(postal_code,''), COALESCE(website,''),
logo_url, banner_url, COALESCE(industry,''), to_char(founded_date, 'YYYY-MM-DD'),
COALESCE(description,''), social_links, COALESCE(organization_type,''), COALESCE(team_size,''),
COALESCE(vision,''), COALESCE(phone_country_code,''), COALESCE(phone,''),
COALESCE(contact_email,''), created_at, updated_at`

// Postgres implements Store over a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.SignupType, &u.Gender, &u.MobileNo,
		&u.IsEmailVerified, &u.IsMobileVerified, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (p *Postgres) CreateUser(ctx context.Context, u *models.User) error {
	err := p.pool.QueryRow(ctx, `INSERT INTO users(email, password, full_name, signup_type, gender, mobile_no)
VALUES($1,$2,$3,$4,$5,$6)
RETURNING id, created_at, updated_at`,
		u.Email, u.PasswordHash, u.FullName, u.SignupType, u.Gender, u.MobileNo,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (p *Postgres) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

func (p *Postgres) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email))
}

func (p *Postgres) FindUserByMobile(ctx context.Context, mobile string) (*models.User, error) {
	return scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE mobile_no=$1 ORDER BY id LIMIT 1`, mobile))
}

func (p *Postgres) UpdateUser(ctx context.Context, id int64, patch UserPatch) (*models.User, error) {
	set := &setList{}
	if patch.IsEmailVerified != nil {
		set.add("is_email_verified", *patch.IsEmailVerified)
	}
	if patch.IsMobileVerified != nil {
		set.add("is_mobile_verified", *patch.IsMobileVerified)
	}
	if set.empty() {
		return p.FindUserByID(ctx, id)
	}
	q := fmt.Sprintf(`UPDATE users SET %s, updated_at = now() WHERE id = $%d RETURNING `+userColumns,
		set.clause(), set.next())
	return scanUser(p.pool.QueryRow(ctx, q, append(set.values, id)...))
}

func scanCompany(row pgx.Row) (*models.CompanyProfile, error) {
	var c models.CompanyProfile
	var links []byte
	err := row.Scan(&c.ID, &c.OwnerID, &c.CompanyName, &c.Address, &c.City, &c.State, &c.Country,
		&c.PostalCode, &c.Website, &c.LogoURL, &c.BannerURL, &c.Industry, &c.FoundedDate,
		&c.Description, &links, &c.OrganizationType, &c.TeamSize, &c.Vision,
		&c.PhoneCountryCode, &c.Phone, &c.ContactEmail, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(links) > 0 && string(links) != "null" {
		var s models.SocialLinks
		if err := json.Unmarshal(links, &s); err != nil {
			return nil, fmt.Errorf("decode social_links: %w", err)
		}
		c.SocialLinks = &s
	}
	return &c, nil
}

func (p *Postgres) CreateCompany(ctx context.Context, ownerID int64, req models.CompanyRequest) (*models.CompanyProfile, error) {
	links, err := encodeLinks(req.SocialLinks)
	if err != nil {
		return nil, err
	}
	row := p.pool.QueryRow(ctx, `INSERT INTO company_profile (
    owner_id, company_name, address, city, state, country, postal_code,
    website, logo_url, banner_url, industry, founded_date, description, social_links,
    organization_type, team_size, vision, phone_country_code, phone, contact_email
) VALUES (
    $1,$2,$3,$4,$5,$6,$7,NULLIF($8,''),NULLIF($9,''),NULLIF($10,''),$11,NULLIF($12,'')::date,NULLIF($13,''),$14::jsonb,
    NULLIF($15,''),NULLIF($16,''),NULLIF($17,''),NULLIF($18,''),NULLIF($19,''),NULLIF($20,'')
) RETURNING `+companyColumns,
		ownerID, req.CompanyName, req.Address, req.City, req.State, req.Country, req.PostalCode,
		req.Website, deref(req.LogoURL), deref(req.BannerURL), req.Industry, deref(req.FoundedDate),
		req.Description, links, req.OrganizationType, req.TeamSize, req.Vision,
		req.PhoneCountryCode, req.Phone, req.ContactEmail)
	c, err := scanCompany(row)
	if isUniqueViolation(err) {
		return nil, ErrCompanyExists
	}
	return c, err
}

func (p *Postgres) FindCompanyByOwner(ctx context.Context, ownerID int64) (*models.CompanyProfile, error) {
	return scanCompany(p.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM company_profile WHERE owner_id=$1`, ownerID))
}

func (p *Postgres) UpdateCompany(ctx context.Context, id int64, patch models.CompanyPatch) (*models.CompanyProfile, error) {
	set := &setList{}
	if patch.CompanyName != nil {
		set.add("company_name", *patch.CompanyName)
	}
	set.addString("address", patch.Address)
	set.addString("city", patch.City)
	set.addString("state", patch.State)
	set.addString("country", patch.Country)
	set.addString("postal_code", patch.PostalCode)
	set.addString("website", patch.Website)
	set.addString("industry", patch.Industry)
	set.addString("description", patch.Description)
	set.addString("logo_url", patch.LogoURL)
	set.addString("banner_url", patch.BannerURL)
	set.addString("organization_type", patch.OrganizationType)
	set.addString("team_size", patch.TeamSize)
	set.addString("vision", patch.Vision)
	set.addString("phone_country_code", patch.PhoneCountryCode)
	set.addString("phone", patch.Phone)
	set.addString("contact_email", patch.ContactEmail)
	if patch.FoundedDate != nil {
		set.addExpr("founded_date", "NULLIF(%s,'')::date", *patch.FoundedDate)
	}
	if patch.SocialLinks != nil {
		links, err := encodeLinks(patch.SocialLinks)
		if err != nil {
			return nil, err
		}
		set.addExpr("social_links", "%s::jsonb", links)
	}
	if set.empty() {
		return scanCompany(p.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM company_profile WHERE id=$1`, id))
	}
	q := fmt.Sprintf(`UPDATE company_profile SET %s, updated_at = now() WHERE id = $%d RETURNING `+companyColumns,
		set.clause(), set.next())
	return scanCompany(p.pool.QueryRow(ctx, q, append(set.values, id)...))
}

// setList builds the SET clause of a partial UPDATE.
type setList struct {
	fields []string
	values []any
}

func (s *setList) next() int { return len(s.values) + 1 }

func (s *setList) add(col string, v any) {
	s.addExpr(col, "%s", v)
}

// addString stores empty strings as NULL.
func (s *setList) addString(col string, v *string) {
	if v != nil {
		s.addExpr(col, "NULLIF(%s,'')", *v)
	}
}

func (s *setList) addExpr(col, expr string, v any) {
	s.fields = append(s.fields, col+" = "+fmt.Sprintf(expr, fmt.Sprintf("$%d", s.next())))
	s.values = append(s.values, v)
}

func (s *setList) empty() bool { return len(s.fields) == 0 }

func (s *setList) clause() string { return strings.Join(s.fields, ", ") }

func encodeLinks(l *models.SocialLinks) (*string, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

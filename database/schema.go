package database

import (
	"context"
	"log"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            full_name TEXT NOT NULL DEFAULT '',
            signup_type CHAR(1) NOT NULL DEFAULT 'e',
            gender CHAR(1) NOT NULL DEFAULT 'o',
            mobile_no TEXT NOT NULL DEFAULT '',
            is_email_verified BOOLEAN NOT NULL DEFAULT FALSE,
            is_mobile_verified BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
	`CREATE INDEX IF NOT EXISTS users_mobile_no_idx ON users(mobile_no)`,
	`CREATE TABLE IF NOT EXISTS company_profile (
            id BIGSERIAL PRIMARY KEY,
            owner_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
            company_name TEXT NOT NULL,
            address TEXT,
            city TEXT,
            state TEXT,
            country TEXT,
            postal_code TEXT,
            website TEXT,
            logo_url TEXT,
            banner_url TEXT,
            industry TEXT,
            founded_date DATE,
            description TEXT,
            social_links JSONB,
            organization_type TEXT,
            team_size TEXT,
            vision TEXT,
            phone_country_code TEXT,
            phone TEXT,
            contact_email TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
}

// EnsureSchema creates the users and company_profile tables if they do not exist.
func EnsureSchema() {
	if Pool == nil {
		return
	}
	ctx := context.Background()
	for _, s := range schema {
		if _, err := Pool.Exec(ctx, s); err != nil {
			log.Printf("schema ensure error: %v in stmt: %s", err, s)
		}
	}
}

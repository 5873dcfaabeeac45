package controllers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"company-onboarding/app/assets"
	"company-onboarding/app/middlewares"
	"company-onboarding/app/models"
	"company-onboarding/app/store"
	"company-onboarding/app/utils"
)

// Drafter writes suggested profile text.
type Drafter interface {
	Draft(ctx context.Context, field string, facts utils.CompanyFacts) (string, error)
}

func RegisterCompany(companies store.CompanyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CompanyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, bindMessage(err))
			return
		}
		sanitizeRequest(&req)
		if req.CompanyName == "" {
			fail(c, http.StatusBadRequest, "Company name required")
			return
		}
		if req.FoundedDate != nil {
			d, ok := normalizeDate(*req.FoundedDate)
			if !ok {
				fail(c, http.StatusBadRequest, "Invalid founded date")
				return
			}
			req.FoundedDate = &d
		}

		uid := c.GetInt64(middlewares.UserIDKey)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if _, err := companies.FindCompanyByOwner(ctx, uid); err == nil {
			fail(c, http.StatusBadRequest, "Company already registered for this user")
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			serverError(c, "company lookup", err)
			return
		}
		p, err := companies.CreateCompany(ctx, uid, req)
		if errors.Is(err, store.ErrCompanyExists) {
			fail(c, http.StatusBadRequest, "Company already registered for this user")
			return
		}
		if err != nil {
			serverError(c, "company insert", err)
			return
		}
		c.JSON(http.StatusOK, models.Envelope[*models.CompanyProfile]{Success: true, Message: "Company registered", Data: p})
	}
}

// GetProfile answers data:null while the user has no profile yet.
func GetProfile(companies store.CompanyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		p, err := companies.FindCompanyByOwner(ctx, c.GetInt64(middlewares.UserIDKey))
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			serverError(c, "profile lookup", err)
			return
		}
		c.JSON(http.StatusOK, models.Envelope[*models.CompanyProfile]{Success: true, Data: p})
	}
}

func UpdateProfile(companies store.CompanyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch models.CompanyPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			fail(c, http.StatusBadRequest, bindMessage(err))
			return
		}
		sanitizePatch(&patch)
		if patch.CompanyName != nil && *patch.CompanyName == "" {
			fail(c, http.StatusBadRequest, "Company name required")
			return
		}
		if patch.FoundedDate != nil && *patch.FoundedDate != "" {
			d, ok := normalizeDate(*patch.FoundedDate)
			if !ok {
				fail(c, http.StatusBadRequest, "Invalid founded date")
				return
			}
			patch.FoundedDate = &d
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		current, err := companies.FindCompanyByOwner(ctx, c.GetInt64(middlewares.UserIDKey))
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusNotFound, "Profile not found")
			return
		}
		if err != nil {
			serverError(c, "profile lookup", err)
			return
		}
		p, err := companies.UpdateCompany(ctx, current.ID, patch)
		if err != nil {
			serverError(c, "profile update", err)
			return
		}
		c.JSON(http.StatusOK, models.Envelope[*models.CompanyProfile]{Success: true, Message: "Profile updated", Data: p})
	}
}

// UploadImage stores the multipart "file" field as a logo or banner and
// returns its public URL. The profile itself is not modified.
func UploadImage(kind assets.Kind, host assets.Store, maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			fail(c, http.StatusBadRequest, "File required")
			return
		}
		defer file.Close()
		if maxBytes > 0 && header.Size > maxBytes {
			fail(c, http.StatusBadRequest, "File too large")
			return
		}

		head := make([]byte, 512)
		n, err := io.ReadFull(file, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			fail(c, http.StatusBadRequest, "Failed to read file")
			return
		}
		head = head[:n]
		contentType := http.DetectContentType(head)
		if !strings.HasPrefix(contentType, "image/") {
			fail(c, http.StatusBadRequest, "Only image uploads are allowed")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		res, err := host.Put(ctx, kind, header.Filename, contentType, io.MultiReader(bytes.NewReader(head), file))
		if err != nil {
			serverError(c, "upload "+string(kind), err)
			return
		}
		c.JSON(http.StatusOK, models.Envelope[models.UploadResult]{Success: true, Data: res})
	}
}

func Suggest(companies store.CompanyStore, drafter Drafter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if drafter == nil {
			fail(c, http.StatusNotImplemented, "Text suggestions are not configured")
			return
		}
		var req models.SuggestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, bindMessage(err))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		facts := utils.CompanyFacts{
			Name:             utils.Sanitize(req.CompanyName),
			Industry:         utils.Sanitize(req.Industry),
			OrganizationType: utils.Sanitize(req.OrganizationType),
			TeamSize:         utils.Sanitize(req.TeamSize),
			Description:      utils.Sanitize(req.Description),
		}
		p, err := companies.FindCompanyByOwner(ctx, c.GetInt64(middlewares.UserIDKey))
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			serverError(c, "suggest lookup", err)
			return
		}
		if p != nil {
			fillFacts(&facts, p)
		}
		if facts.Name == "" {
			fail(c, http.StatusBadRequest, "Company name required")
			return
		}

		text, err := drafter.Draft(ctx, req.Field, facts)
		if err != nil {
			serverError(c, "suggest draft", err)
			return
		}
		c.JSON(http.StatusOK, models.Envelope[models.Suggestion]{
			Success: true,
			Data:    models.Suggestion{Field: req.Field, Text: text},
		})
	}
}

// fillFacts completes unset facts from the stored profile.
func fillFacts(f *utils.CompanyFacts, p *models.CompanyProfile) {
	orDefault := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	orDefault(&f.Name, p.CompanyName)
	orDefault(&f.Industry, p.Industry)
	orDefault(&f.OrganizationType, p.OrganizationType)
	orDefault(&f.TeamSize, p.TeamSize)
	orDefault(&f.Description, p.Description)
}

// normalizeDate accepts YYYY-MM-DD, an RFC 3339 timestamp or a bare year and
// returns YYYY-MM-DD.
func normalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339, time.RFC3339Nano, "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

func sanitizeRequest(r *models.CompanyRequest) {
	for _, s := range []*string{
		&r.CompanyName, &r.Address, &r.City, &r.State, &r.Country, &r.PostalCode,
		&r.Website, &r.Industry, &r.Description, &r.OrganizationType, &r.TeamSize,
		&r.Vision, &r.PhoneCountryCode, &r.Phone, &r.ContactEmail,
	} {
		*s = utils.Sanitize(*s)
	}
	r.LogoURL = utils.SanitizePtr(r.LogoURL)
	r.BannerURL = utils.SanitizePtr(r.BannerURL)
	r.FoundedDate = utils.SanitizePtr(r.FoundedDate)
	if r.FoundedDate != nil && *r.FoundedDate == "" {
		r.FoundedDate = nil
	}
	sanitizeLinks(r.SocialLinks)
}

func sanitizePatch(p *models.CompanyPatch) {
	for _, s := range []**string{
		&p.CompanyName, &p.Address, &p.City, &p.State, &p.Country, &p.PostalCode,
		&p.Website, &p.Industry, &p.FoundedDate, &p.Description, &p.LogoURL, &p.BannerURL,
		&p.OrganizationType, &p.TeamSize, &p.Vision, &p.PhoneCountryCode, &p.Phone, &p.ContactEmail,
	} {
		*s = utils.SanitizePtr(*s)
	}
	sanitizeLinks(p.SocialLinks)
}

func sanitizeLinks(l *models.SocialLinks) {
	if l == nil {
		return
	}
	l.LinkedIn = utils.Sanitize(l.LinkedIn)
	l.Twitter = utils.Sanitize(l.Twitter)
	l.Facebook = utils.Sanitize(l.Facebook)
	l.Instagram = utils.Sanitize(l.Instagram)
	l.YouTube = utils.Sanitize(l.YouTube)
}

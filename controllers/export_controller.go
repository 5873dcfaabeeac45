package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"company-onboarding/app/middlewares"
	"company-onboarding/app/models"
	"company-onboarding/app/store"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportSheet     = "Company Profile"
)

// ExportProfile returns the caller's profile as a two-column XLSX workbook.
func ExportProfile(companies store.CompanyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		p, err := companies.FindCompanyByOwner(ctx, c.GetInt64(middlewares.UserIDKey))
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusNotFound, "Profile not found")
			return
		}
		if err != nil {
			serverError(c, "export lookup", err)
			return
		}
		f, err := profileWorkbook(p)
		if err != nil {
			serverError(c, "export build", err)
			return
		}
		defer f.Close()
		buf, err := f.WriteToBuffer()
		if err != nil {
			serverError(c, "export write", err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+exportFilename(p.CompanyName)+`"`)
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}

func profileWorkbook(p *models.CompanyProfile) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	rows := profileRows(p)
	if err := f.SetSheetRow(exportSheet, "A1", &[]any{"Field", "Value"}); err != nil {
		return nil, err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &[]any{r[0], r[1]}); err != nil {
			return nil, err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", "B1", bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "A", "A", 22); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "B", "B", 60); err != nil {
		return nil, err
	}
	return f, nil
}

func profileRows(p *models.CompanyProfile) [][2]string {
	links := models.SocialLinks{}
	if p.SocialLinks != nil {
		links = *p.SocialLinks
	}
	return [][2]string{
		{"Company name", p.CompanyName},
		{"About", p.Description},
		{"Logo URL", deref(p.LogoURL)},
		{"Banner URL", deref(p.BannerURL)},
		{"Organization type", p.OrganizationType},
		{"Industry", p.Industry},
		{"Team size", p.TeamSize},
		{"Founded", deref(p.FoundedDate)},
		{"Website", p.Website},
		{"Vision", p.Vision},
		{"LinkedIn", links.LinkedIn},
		{"Facebook", links.Facebook},
		{"Twitter", links.Twitter},
		{"Instagram", links.Instagram},
		{"YouTube", links.YouTube},
		{"Address", p.Address},
		{"Phone", strings.TrimSpace(p.PhoneCountryCode + " " + p.Phone)},
		{"Email", p.ContactEmail},
		{"City", p.City},
		{"State", p.State},
		{"Country", p.Country},
		{"Postal code", p.PostalCode},
	}
}

func exportFilename(name string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, name)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "company"
	}
	return slug + "-profile.xlsx"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

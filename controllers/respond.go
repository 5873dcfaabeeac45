package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "message": msg})
}

// serverError logs err and answers 500 without leaking detail.
func serverError(c *gin.Context, where string, err error) {
	log.Printf("%s: %v", where, err)
	fail(c, http.StatusInternalServerError, "Internal Server Error")
}

// bindMessage turns a binding failure into a readable message such as
// "Invalid email, Password min 8 chars".
func bindMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return "Invalid request body"
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, ", ")
}

func fieldMessage(fe validator.FieldError) string {
	name := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " required"
	case "email":
		return "Invalid email"
	case "min":
		return name + " min " + fe.Param() + " chars"
	case "max":
		return name + " max " + fe.Param() + " chars"
	default:
		return "Invalid " + strings.ToLower(name)
	}
}

// label splits a Go field name into words: "FullName" becomes "Full name".
func label(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

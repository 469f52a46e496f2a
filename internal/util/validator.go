package util

import (
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"exusiai.dev/drawbank/internal/constant"
)

func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterValidation("caseinsensitiveoneof", caseInsensitiveOneOf)
	validate.RegisterValidation("section", section)
	validate.RegisterValidation("format", format)
	validate.RegisterValidation("basename", basename)

	return validate
}

func caseInsensitiveOneOf(fl validator.FieldLevel) bool {
	val := strings.ToLower(fl.Field().String())
	candidates := strings.Split(strings.ToLower(fl.Param()), " ")
	for _, v := range candidates {
		if val == v {
			return true
		}
	}
	return false
}

func section(fl validator.FieldLevel) bool {
	return lo.Contains(constant.Sections, strings.ToLower(fl.Field().String()))
}

func format(fl validator.FieldLevel) bool {
	return lo.Contains(constant.Formats, strings.ToLower(fl.Field().String()))
}

// basename accepts a bare file name without any directory part.
func basename(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	return val != "." && val != ".." && filepath.Base(val) == val && !strings.ContainsAny(val, `/\`)
}

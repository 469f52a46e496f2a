package rekuest

import (
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"exusiai.dev/drawbank/internal/constant"
	"exusiai.dev/drawbank/internal/pkg/bankerr"
	"exusiai.dev/drawbank/internal/util"
)

var (
	Validate   = util.NewValidator()
	Translator ut.Translator
)

func init() {
	english := en.New()
	Translator, _ = ut.New(english, english).GetTranslator("en")

	if err := enTranslations.RegisterDefaultTranslations(Validate, Translator); err != nil {
		log.Warn().Err(err).Str("locale", "en").Msg("could not register translation")
	}

	oneOf := func(tag, param string) {
		err := Validate.RegisterTranslation(tag, Translator, func(ut ut.Translator) error {
			return nil
		}, func(ut ut.Translator, fe validator.FieldError) string {
			p := param
			if p == "" {
				p = fe.Param()
			}
			t, _ := ut.T("oneof", fe.Field(), p)
			return t
		})
		if err != nil {
			log.Warn().Err(err).Str("tag", tag).Msg("could not register translation")
		}
	}
	oneOf("caseinsensitiveoneof", "")
	oneOf("section", constant.SectionGenBank+" "+constant.SectionRefSeq)
	oneOf("format", constant.FormatHTML+" "+constant.FormatJSON+" "+constant.FormatCSV+" "+constant.FormatXLSX)

	err := Validate.RegisterTranslation("basename", Translator, func(ut ut.Translator) error {
		return ut.Add("basename", "{0} must be a file name without a directory", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("basename", fe.Field())
		return t
	})
	if err != nil {
		log.Warn().Err(err).Str("tag", "basename").Msg("could not register translation")
	}
}

type Violation struct {
	Field     string `json:"field,omitempty"`
	Violation string `json:"violation"`
	Message   string `json:"message"`
}

func translate(ve validator.ValidationErrors) []*Violation {
	trans := make([]*Violation, 0, len(ve))
	for _, fe := range ve {
		trans = append(trans, &Violation{
			Field:     fe.Namespace(),
			Violation: fe.Tag(),
			Message:   fe.Translate(Translator),
		})
	}
	return trans
}

// ValidStruct validates dest and returns an INVALID_OPTIONS error carrying every
// violation, translated to English, when it does not pass.
func ValidStruct(dest any) error {
	err := Validate.Struct(dest)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return bankerr.ErrInvalidOptions.Msg("%v", err)
	}
	violations := translate(errs)
	e := bankerr.NewInvalidViolations(violations)
	return e.Msg("%s", Summarize(violations))
}

// ValidQuery parses the query string of ctx into dest and validates it.
func ValidQuery(ctx *fiber.Ctx, dest any) error {
	if err := ctx.QueryParser(dest); err != nil {
		return bankerr.ErrInvalidOptions.Msg("invalid query: %s", err)
	}
	return ValidStruct(dest)
}

// Summarize joins violation messages into one line.
func Summarize(violations []*Violation) string {
	return strings.Join(lo.Map(violations, func(v *Violation, _ int) string {
		return v.Message
	}), "; ")
}

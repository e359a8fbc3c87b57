package book

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rule names the validation rule that rejected a payload.
type Rule string

const (
	RulePresence Rule = "presence"
	RulePattern  Rule = "pattern"
	RuleType     Rule = "type"
	RuleRange    Rule = "range"
	RuleLength   Rule = "length"
	RuleEnum     Rule = "enum"
)

// ValidationError reports the first rule a payload failed.
type ValidationError struct {
	Field   string
	Rule    Rule
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// injectionPattern is a denylist heuristic only; every query binds its
// arguments, which is the actual protection.
var injectionPattern = regexp.MustCompile(`(?i)('|--|;|/\*|\*/|drop|select|insert|delete|update)`)

const (
	titleMinLen = 2
	maxTextLen  = 100
)

// Validator enforces the payload rules in a fixed order and stops at the first failure.
type Validator struct {
	v        *validator.Validate
	genreTag string
}

func NewValidator() *Validator {
	v := validator.New()

	// RegisterValidation only fails on an empty tag or nil func.
	_ = v.RegisterValidation("nosqlmeta", validateNoSQLMeta)
	_ = v.RegisterValidation("finite", validateFinite)

	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, string(g))
	}

	return &Validator{
		v:        v,
		genreTag: "oneof=" + strings.Join(names, " "),
	}
}

func validateNoSQLMeta(fl validator.FieldLevel) bool {
	return !injectionPattern.MatchString(fl.Field().String())
}

func validateFinite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Validate checks presence, pattern, type and range, length, then genre.
func (v *Validator) Validate(p Payload) error {
	return firstFailure(
		func() error { return v.check(p.Title, "required", "title", RulePresence, "title is required") },
		func() error { return v.check(p.Author, "required", "author", RulePresence, "author is required") },
		func() error {
			if p.PublicationYear == nil || (p.PublicationYear.Numeric && p.PublicationYear.Value == 0) {
				return fail("publicationYear", RulePresence, "publicationYear is required")
			}
			return nil
		},
		func() error { return v.check(p.Genre, "required", "genre", RulePresence, "genre is required") },
		func() error {
			if p.Price == nil {
				return fail("price", RulePresence, "price is required")
			}
			return nil
		},

		func() error { return v.check(p.Title, "nosqlmeta", "title", RulePattern, "invalid title") },
		func() error { return v.check(p.Author, "nosqlmeta", "author", RulePattern, "invalid author") },

		func() error {
			if !p.Price.Numeric {
				return fail("price", RuleType, "price must be a number")
			}
			return nil
		},
		func() error {
			return v.check(p.Price.Value, "finite,gt=0", "price", RuleRange, "price must be greater than zero")
		},
		func() error {
			if !p.PublicationYear.Numeric {
				return fail("publicationYear", RuleType, "publicationYear must be a number")
			}
			return v.check(p.PublicationYear.Value, "finite", "publicationYear", RuleType, "publicationYear must be a number")
		},
		func() error {
			y := p.PublicationYear.Value
			if y != math.Trunc(y) {
				return fail("publicationYear", RuleType, "publicationYear must be an integer")
			}
			// column is a 32-bit INTEGER
			if y > math.MaxInt32 || y < math.MinInt32 {
				return fail("publicationYear", RuleRange, "publicationYear is out of range")
			}
			return nil
		},

		func() error {
			return v.check(p.Title, fmt.Sprintf("min=%d", titleMinLen), "title", RuleLength,
				fmt.Sprintf("title must have at least %d characters", titleMinLen))
		},
		func() error {
			return v.check(p.Title, fmt.Sprintf("max=%d", maxTextLen), "title", RuleLength,
				fmt.Sprintf("title must have at most %d characters", maxTextLen))
		},
		func() error {
			return v.check(p.Author, fmt.Sprintf("max=%d", maxTextLen), "author", RuleLength,
				fmt.Sprintf("author must have at most %d characters", maxTextLen))
		},

		func() error { return v.check(p.Genre, v.genreTag, "genre", RuleEnum, "invalid genre") },
	)
}

// CheckSearchTerm applies the presence and pattern rules to a title search term.
func (v *Validator) CheckSearchTerm(term string) error {
	return firstFailure(
		func() error { return v.check(term, "required", "title", RulePresence, `parameter "title" is required`) },
		func() error { return v.check(term, "nosqlmeta", "title", RulePattern, "invalid title") },
	)
}

func (v *Validator) check(value any, tag, field string, rule Rule, msg string) error {
	if err := v.v.Var(value, tag); err != nil {
		return fail(field, rule, msg)
	}
	return nil
}

func fail(field string, rule Rule, msg string) *ValidationError {
	return &ValidationError{Field: field, Rule: rule, Message: msg}
}

func firstFailure(checks ...func() error) error {
	for _, c := range checks {
		if err := c(); err != nil {
			return err
		}
	}
	return nil
}

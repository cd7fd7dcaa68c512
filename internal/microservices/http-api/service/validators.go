package service

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"yamdb/internal/config"

	"github.com/go-playground/validator/v10"
)

const (
	maxUsernameLength = 150
	maxEmailLength    = 254
	maxNameLength     = 256
	maxSlugLength     = 50
	minScore          = 1
	maxScore          = 10
)

var validate = validator.New()

// compiledPattern is a config.UsernamePattern ready for matching.
type compiledPattern struct {
	re      *regexp.Regexp
	inverse bool
}

func compilePatterns(patterns []config.UsernamePattern) ([]compiledPattern, error) {
	out := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, fmt.Errorf("username pattern %q: %w", p.Regex, err)
		}
		out = append(out, compiledPattern{re: re, inverse: p.InverseMatch})
	}
	return out, nil
}

// UsernameValidator checks usernames against an ordered pattern list. A
// normal pattern rejects names it matches; an inverse pattern rejects names
// it does not match.
type UsernameValidator struct {
	patterns []compiledPattern
}

func NewUsernameValidator(patterns []config.UsernamePattern) (*UsernameValidator, error) {
	compiled, err := compilePatterns(patterns)
	if err != nil {
		return nil, err
	}
	return &UsernameValidator{patterns: compiled}, nil
}

// Validate returns a *FieldError for the "username" field when the name is
// rejected.
func (v *UsernameValidator) Validate(username string) error {
	if username == "" {
		return invalid("username", "this field may not be blank")
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return invalid("username", "ensure this field has no more than %d characters", maxUsernameLength)
	}
	for _, p := range v.patterns {
		if p.re.MatchString(username) == p.inverse {
			return invalid("username", "username %q is not allowed", username)
		}
	}
	return nil
}

// ValidateYear rejects release years in the future relative to now.
func ValidateYear(year int, now time.Time) error {
	if year > now.Year() {
		return invalid("year", "year %d is later than the current year", year)
	}
	return nil
}

// ValidateScore rejects scores outside 1..10.
func ValidateScore(score int) error {
	if score < minScore || score > maxScore {
		return invalid("score", "score must be between %d and %d", minScore, maxScore)
	}
	return nil
}

// Mean is the arithmetic mean of scores, nil when there are none.
func Mean(scores []int) *float64 {
	if len(scores) == 0 {
		return nil
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	m := float64(sum) / float64(len(scores))
	return &m
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("email", "this field may not be blank")
	}
	if len(email) > maxEmailLength {
		return invalid("email", "ensure this field has no more than %d characters", maxEmailLength)
	}
	if err := validate.Var(email, "email"); err != nil {
		return invalid("email", "enter a valid email address")
	}
	return nil
}

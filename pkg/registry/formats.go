package registry

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

const (
	FormatPhoneDigits  = "phone-digits"
	FormatCalendarDate = "calendar-date"
	FormatContactEmail = "contact-email"
	FormatProfileURL   = "profile-url"

	MinPhoneDigits = 7
	MaxPhoneDigits = 15

	DateLayout = "2006-01-02"
)

// Local part: dot-separated atoms, no leading, trailing or doubled dots.
// Domain: labels that neither start nor end with a hyphen.
var emailRegex = regexp.MustCompile(
	`^[a-zA-Z0-9_%+'-]+(\.[a-zA-Z0-9_%+'-]+)*@([a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`,
)

func init() {
	gojsonschema.FormatCheckers.Add(FormatPhoneDigits, phoneDigitsChecker{})
	gojsonschema.FormatCheckers.Add(FormatCalendarDate, calendarDateChecker{})
	gojsonschema.FormatCheckers.Add(FormatContactEmail, contactEmailChecker{})
	gojsonschema.FormatCheckers.Add(FormatProfileURL, profileURLChecker{})
}

type phoneDigitsChecker struct{}

func (phoneDigitsChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return true
	}
	n := DigitCount(s)
	return n >= MinPhoneDigits && n <= MaxPhoneDigits
}

type calendarDateChecker struct{}

func (calendarDateChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return true
	}
	_, err := ParseBirthDate(s)
	return err == nil
}

type contactEmailChecker struct{}

func (contactEmailChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return true
	}
	return emailRegex.MatchString(s)
}

type profileURLChecker struct{}

// IsFormat accepts absolute URLs; http and https must name a host.
func (profileURLChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return true
	}
	u, err := url.ParseRequestURI(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Hostname() != ""
	}
	return true
}

// DigitCount counts the ASCII digits in s, ignoring every formatting character.
func DigitCount(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}

// ParseBirthDate accepts a calendar date (2006-01-02) or an RFC 3339
// timestamp and returns the date at midnight UTC.
func ParseBirthDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

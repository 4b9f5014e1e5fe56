package domain

import (
	"fmt"
	"strings"
)

// Style is the preferred way of travelling.
type Style string

const (
	StyleLuxury      Style = "Luxury"
	StyleAdventure   Style = "Adventure"
	StyleFamily      Style = "Family"
	StyleBackpacking Style = "Backpacking"
)

// Styles lists the accepted travel styles in display order.
var Styles = []Style{StyleLuxury, StyleAdventure, StyleFamily, StyleBackpacking}

// ParseStyle matches s case-insensitively against the known styles.
func ParseStyle(s string) (Style, error) {
	s = strings.TrimSpace(s)
	for _, st := range Styles {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown travel style %q", ErrInvalidProfile, s)
}

// UserProfile is the planner input collected from the user.
type UserProfile struct {
	Budget    string
	Interests []string
	Duration  string
	Style     Style
	City      string
}

// ProfileInput is the raw, untrimmed form input.
type ProfileInput struct {
	Budget    string
	Interests string
	Duration  string
	Style     string
	City      string
}

// ParseProfile trims every field, splits interests on commas and checks that
// nothing required is missing.
func ParseProfile(in ProfileInput) (UserProfile, error) {
	p := UserProfile{
		Budget:    strings.TrimSpace(in.Budget),
		Interests: SplitInterests(in.Interests),
		Duration:  strings.TrimSpace(in.Duration),
		City:      strings.TrimSpace(in.City),
	}
	style, err := ParseStyle(in.Style)
	if err != nil {
		return UserProfile{}, err
	}
	p.Style = style

	var missing []string
	if p.Budget == "" {
		missing = append(missing, "budget")
	}
	if len(p.Interests) == 0 {
		missing = append(missing, "interests")
	}
	if p.Duration == "" {
		missing = append(missing, "duration")
	}
	if p.City == "" {
		missing = append(missing, "city")
	}
	if len(missing) > 0 {
		return UserProfile{}, fmt.Errorf("%w: missing %s", ErrInvalidProfile, strings.Join(missing, ", "))
	}
	return p, nil
}

// SplitInterests splits a comma separated list, dropping blank entries.
func SplitInterests(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// InterestList joins interests the way prompts expect them.
func (p UserProfile) InterestList() string {
	return strings.Join(p.Interests, ", ")
}

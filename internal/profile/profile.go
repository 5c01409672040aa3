package profile

import (
	"net/mail"
	"slices"
	"strings"

	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
)

const (
	DefaultName   = "Utilisateur"
	DefaultAvatar = "https://images.unsplash.com/photo-1535713875002-d1d0cf377fde?w=400&q=80"
)

// Profile is the user-facing account data of a session.
type Profile struct {
	Name          string   `json:"name"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	Avatar        string   `json:"avatar"`
	Preferences   []string `json:"preferences"`
	LoyaltyPoints int      `json:"loyalty_points"`
}

// Defaults returns the profile a fresh session starts with.
func Defaults(startingPoints int) Profile {
	return Profile{
		Name:          DefaultName,
		Avatar:        DefaultAvatar,
		Preferences:   []string{},
		LoyaltyPoints: startingPoints,
	}
}

// Update is a partial profile edit; nil fields are left untouched.
type Update struct {
	Name        *string
	Phone       *string
	Email       *string
	Avatar      *string
	Preferences []string
}

// Apply merges the update into the profile. Validation happens before any
// field is written.
func (p *Profile) Apply(u Update) error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty").
			WithDetails(map[string]string{"name": "is required"})
	}
	if u.Email != nil && strings.TrimSpace(*u.Email) != "" {
		if _, err := mail.ParseAddress(strings.TrimSpace(*u.Email)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid email").
				WithDetails(map[string]string{"email": "must be a valid email"})
		}
	}

	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.Phone != nil {
		p.Phone = strings.TrimSpace(*u.Phone)
	}
	if u.Email != nil {
		p.Email = strings.TrimSpace(*u.Email)
	}
	if u.Avatar != nil {
		p.Avatar = strings.TrimSpace(*u.Avatar)
	}
	if u.Preferences != nil {
		p.SetPreferences(u.Preferences)
	}
	return nil
}

// SetPreferences replaces the onboarding tags. Blank and repeated tags are
// dropped; comparison ignores case.
func (p *Profile) SetPreferences(tags []string) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	p.Preferences = out
}

// IncrementLoyaltyPoints credits points earned by an order.
func (p *Profile) IncrementLoyaltyPoints(amount int) error {
	if amount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "loyalty award must not be negative")
	}
	p.LoyaltyPoints += amount
	return nil
}

// Reset restores default data with no loyalty points.
func (p *Profile) Reset() {
	*p = Defaults(0)
}

func (p Profile) clone() Profile {
	out := p
	out.Preferences = slices.Clone(p.Preferences)
	if out.Preferences == nil {
		out.Preferences = []string{}
	}
	return out
}

// Account pairs the profile with the login flag.
type Account struct {
	Profile  Profile `json:"profile"`
	LoggedIn bool    `json:"logged_in"`
}

// NewAccount returns a logged-out account with default profile data.
func NewAccount(startingPoints int) Account {
	return Account{Profile: Defaults(startingPoints)}
}

// Login marks the account as signed in and merges the supplied data.
func (a *Account) Login(u Update) error {
	next := a.Profile.clone()
	if err := next.Apply(u); err != nil {
		return err
	}
	a.Profile = next
	a.LoggedIn = true
	return nil
}

// Logout resets the profile and signs the account out.
func (a *Account) Logout() {
	a.Profile.Reset()
	a.LoggedIn = false
}

// Snapshot returns a copy safe to hand to callers.
func (a Account) Snapshot() Account {
	a.Profile = a.Profile.clone()
	return a
}

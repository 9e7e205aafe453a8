package identity

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/timebill/backend/internal/domain/shared"
)

const (
	minUsernameLength = 2
	maxUsernameLength = 180
	maxTitleLength    = 50
	maxAliasLength    = 60
)

// Email only requires local@domain; intranet domains without a TLD are accepted.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// Well-known preference names
const (
	PreferenceHourlyRate = "hourly_rate"
	PreferenceLanguage   = "language"
	PreferenceTimezone   = "timezone"
)

// UserPreference is a named user setting
type UserPreference struct {
	Name  string
	Value string
}

// User is the person who tracks time and issues invoices
type User struct {
	shared.TenantAggregateRoot
	Username    string
	Title       string
	Alias       string
	Email       string
	Enabled     bool
	Preferences []UserPreference
}

// NewUser creates an enabled user with the given username
func NewUser(tenantID uuid.UUID, username string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	return &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            username,
		Enabled:             true,
		Preferences:         make([]UserPreference, 0),
	}, nil
}

// SetTitle sets the job title printed on invoices
func (u *User) SetTitle(title string) error {
	if utf8.RuneCountInString(title) > maxTitleLength {
		return shared.NewInvalidArgument("Title cannot exceed 50 characters")
	}
	u.Title = title
	u.touch()
	return nil
}

// SetAlias sets the display alias
func (u *User) SetAlias(alias string) error {
	if utf8.RuneCountInString(alias) > maxAliasLength {
		return shared.NewInvalidArgument("Alias cannot exceed 60 characters")
	}
	u.Alias = alias
	u.touch()
	return nil
}

// SetEmail sets the user's email address
func (u *User) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if email != "" && !emailRegex.MatchString(email) {
		return shared.NewInvalidArgument("Invalid email format")
	}
	u.Email = email
	u.touch()
	return nil
}

// Enable allows the user to log time
func (u *User) Enable() {
	u.Enabled = true
	u.touch()
}

// Disable prevents the user from logging time
func (u *User) Disable() {
	u.Enabled = false
	u.touch()
}

// AddPreference adds a preference or replaces the one with the same name
func (u *User) AddPreference(pref UserPreference) error {
	pref.Name = strings.TrimSpace(pref.Name)
	if pref.Name == "" {
		return shared.NewInvalidArgument("Preference name cannot be empty")
	}
	for i := range u.Preferences {
		if u.Preferences[i].Name == pref.Name {
			u.Preferences[i].Value = pref.Value
			u.touch()
			return nil
		}
	}
	u.Preferences = append(u.Preferences, pref)
	u.touch()
	return nil
}

// PreferenceValue returns the value of the named preference, or fallback
func (u *User) PreferenceValue(name, fallback string) string {
	for _, p := range u.Preferences {
		if p.Name == name {
			return p.Value
		}
	}
	return fallback
}

// DisplayName returns the alias if set, otherwise the username
func (u *User) DisplayName() string {
	if u.Alias != "" {
		return u.Alias
	}
	return u.Username
}

func (u *User) touch() {
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

func validateUsername(username string) error {
	if username == "" {
		return shared.NewInvalidArgument("Username cannot be empty")
	}
	n := utf8.RuneCountInString(username)
	if n < minUsernameLength {
		return shared.NewInvalidArgument("Username must be at least 2 characters")
	}
	if n > maxUsernameLength {
		return shared.NewInvalidArgument("Username cannot exceed 180 characters")
	}
	return nil
}

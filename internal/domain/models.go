// Package domain holds the flat view-model records the dashboard works
// with. The graph backend owns all data; these are transient,
// request-scoped copies shaped for display and editing.
package domain

import (
	"strings"
	"time"
)

// Role is the single enum a user's many-to-many roles relation collapses to.
type Role string

const (
	RoleUser         Role = "user"
	RoleCoach        Role = "coach"
	RoleCoachManager Role = "coach_manager"
	RoleSuperAdmin   Role = "super_admin"
)

// rolePrecedence is the documented first-match order for collapsing a
// roles relation to a single Role. A user carrying both "coach" and
// "user" is a coach.
var rolePrecedence = []Role{RoleSuperAdmin, RoleCoachManager, RoleCoach, RoleUser}

// roleAliases maps each canonical role to the spellings seen in the
// backend's roles table across its lifetime. Matching is
// case-insensitive.
var roleAliases = map[Role][]string{
	RoleSuperAdmin:   {"super_admin", "superadmin", "admin"},
	RoleCoachManager: {"coach_manager", "coach manager", "manager"},
	RoleCoach:        {"coach", "coaches"},
	RoleUser:         {"user", "users", "student", "students"},
}

// ResolveRole collapses a list of role names from the backend into a
// single Role by precedence, first match wins. Unknown or empty lists
// resolve to RoleUser.
func ResolveRole(roleNames []string) Role {
	for _, role := range rolePrecedence {
		for _, name := range roleNames {
			if RoleMatches(role, name) {
				return role
			}
		}
	}
	return RoleUser
}

// RoleMatches reports whether a backend role name spells the given
// canonical role, case-insensitively.
func RoleMatches(role Role, name string) bool {
	for _, alias := range roleAliases[role] {
		if strings.EqualFold(alias, name) {
			return true
		}
	}
	return false
}

// RoleAliases returns the accepted backend spellings for a role, exact
// name first. Used when resolving a requested role string to a
// role-relation id.
func RoleAliases(role Role) []string {
	return roleAliases[role]
}

// ParseRole maps a requested role string (lower- or mixed-case, alias or
// canonical) to its canonical Role. ok is false for unknown names.
func ParseRole(s string) (Role, bool) {
	for _, role := range rolePrecedence {
		if RoleMatches(role, s) {
			return role, true
		}
	}
	return "", false
}

// BackendRole is one row of the backend's roles table.
type BackendRole struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User is the authentication anchor record. Business data lives on the
// role-specific profile record, never here.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          Role   `json:"role"`
	Paid          bool   `json:"paid"`
	AccessStarts  string `json:"access_starts"`
	AccessExpires string `json:"access_expires"`

	// Denormalized from the student profile's coach connection, for
	// display only.
	CoachID   string `json:"coach_id,omitempty"`
	CoachName string `json:"coach_name,omitempty"`

	ProfileID string `json:"profile_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// AccessActive reports whether the user's access window covers now.
// Empty bounds are open bounds.
func (u *User) AccessActive(now time.Time) bool {
	if u.AccessStarts != "" {
		if t, err := time.Parse("2006-01-02", u.AccessStarts); err == nil && now.Before(t) {
			return false
		}
	}
	if u.AccessExpires != "" {
		if t, err := time.Parse("2006-01-02", u.AccessExpires); err == nil && now.After(t.Add(24*time.Hour)) {
			return false
		}
	}
	return true
}

// StudentProfile is the system of record for the coaching relationship
// and all student-side business fields. Linked 1:1 to a User and 0:1 to
// a Coach.
type StudentProfile struct {
	ID                string `json:"id"`
	UserID            string `json:"user_id"`
	BusinessName      string `json:"business_name"`
	Location          string `json:"location"`
	TargetMarket      string `json:"target_market"`
	Strengths         string `json:"strengths"`
	Challenges        string `json:"challenges"`
	Goals             string `json:"goals"`
	ContactPreference string `json:"contact_preference"`
	Phone             string `json:"phone"`
	Notes             string `json:"notes"`
	CoachID           string `json:"coach_id,omitempty"`
	CoachName         string `json:"coach_name,omitempty"`
	CreatedAt         string `json:"created_at,omitempty"`
}

// CoachProfile is the coach-side profile record, linked 1:1 to a User.
type CoachProfile struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Bio          string `json:"bio"`
	StudentCount int    `json:"student_count"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// CreateUserRequest is the payload for the user+profile creation workflow.
type CreateUserRequest struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Password      string `json:"password"`
	Role          string `json:"role"`
	Paid          bool   `json:"paid"`
	AccessStarts  string `json:"access_starts,omitempty"`
	AccessExpires string `json:"access_expires,omitempty"`

	// Optional student-profile seed fields
	BusinessName string `json:"business_name,omitempty"`
	Location     string `json:"location,omitempty"`

	// Optional coach-profile seed field
	Bio string `json:"bio,omitempty"`
}

// CreateUserResult reports the outcome of the two-step creation. The
// user is always created when err is nil; the profile is best-effort.
type CreateUserResult struct {
	User           *User  `json:"user"`
	ProfileID      string `json:"profile_id,omitempty"`
	ProfileCreated bool   `json:"profile_created"`
	ProfileError   string `json:"profile_error,omitempty"`
}

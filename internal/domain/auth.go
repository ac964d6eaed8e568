package domain

import "time"

// LoginRequest is the credential payload for the dashboard login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed access token and the resolved user.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	User        *User  `json:"user"`
}

// UserCredentials is the login-relevant slice of a user record.
type UserCredentials struct {
	UserID       string
	Email        string
	PasswordHash string
}

// Impersonation records a privileged user temporarily viewing the
// dashboard as a specific student. Tracked on this side only, never
// written to the backend.
type Impersonation struct {
	ID           string    `json:"id"`
	TargetUserID string    `json:"target_user_id"`
	AdminUserID  string    `json:"admin_user_id"`
	StartedAt    time.Time `json:"started_at"`
}

// ImpersonationWindow is the hard validity window for an impersonation
// record. Expired records are treated as absent.
const ImpersonationWindow = 120 * time.Minute

// Valid reports whether the impersonation is still inside its window.
func (i *Impersonation) Valid(now time.Time) bool {
	return i != nil && now.Sub(i.StartedAt) < ImpersonationWindow
}

// ActivityEntry is one row of a user's rolling activity log.
type ActivityEntry struct {
	At      time.Time `json:"at"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
}

// Notification is a client-facing nudge derived from activity gaps or a
// stored schedule.
type Notification struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	ScheduledAt string `json:"scheduled_at,omitempty"`
}

// ActivitySummary reports how stale a student's data is. -1 means no
// record of that kind exists yet.
type ActivitySummary struct {
	DaysSinceLastReport int `json:"days_since_last_report"`
	DaysSinceLastLead   int `json:"days_since_last_lead"`
}

// BulkAssignResult aggregates a bulk coach-assignment run. SuccessRate
// is the percentage of attempted items that succeeded; a run stopped
// early reports the rate over Items, not Total.
type BulkAssignResult struct {
	Total       int              `json:"total"`
	Succeeded   int              `json:"succeeded"`
	Failed      int              `json:"failed"`
	SuccessRate float64          `json:"success_rate"`
	Items       []BulkAssignItem `json:"items"`
}

// BulkAssignItem is the independent outcome for one student in a bulk run.
type BulkAssignItem struct {
	StudentID string `json:"student_id"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

package domain

// Goal types.
const (
	GoalTypeRevenue = "revenue"
	GoalTypeClients = "clients"
	GoalTypeShoots  = "shoots"
	GoalTypeOther   = "other"
)

// Goal is a target/current value pair owned by a student.
type Goal struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Type         string  `json:"type"`
	TargetValue  float64 `json:"target_value"`
	CurrentValue float64 `json:"current_value"`
	Deadline     string  `json:"deadline"`
	Priority     string  `json:"priority"`
	Status       string  `json:"status"`
	StudentID    string  `json:"student_id,omitempty"`
	UserID       string  `json:"user_id,omitempty"`
	CreatedAt    string  `json:"created_at,omitempty"`
}

// Note is a free-text record pinned to a user.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Pinned    bool   `json:"pinned"`
	UserID    string `json:"user_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CallLog records one coaching call between a coach and a student.
type CallLog struct {
	ID              string `json:"id"`
	CallDate        string `json:"call_date"`
	DurationMinutes int    `json:"duration_minutes"`
	Summary         string `json:"summary"`
	Outcome         string `json:"outcome"`
	StudentID       string `json:"student_id,omitempty"`
	CoachID         string `json:"coach_id,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
}

// PricingPackage is one row of a student's pricing table.
type PricingPackage struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	TurnaroundHours int     `json:"turnaround_hours"`
	Active          bool    `json:"active"`
	UserID          string  `json:"user_id,omitempty"`
	CreatedAt       string  `json:"created_at,omitempty"`
}

// Product is a catalog entry with its 1:many subitems flattened in.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Subitems    []Subitem `json:"subitems"`
	UserID      string    `json:"user_id,omitempty"`
	CreatedAt   string    `json:"created_at,omitempty"`
}

// Subitem is one component of a product (e.g. a photo package tier).
type Subitem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	PhotoCount int     `json:"photo_count"`
	ProductID  string  `json:"product_id,omitempty"`
}

// MessageTemplate is a reusable outreach message owned by a user.
type MessageTemplate struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Channel   string `json:"channel"`
	Body      string `json:"body"`
	UserID    string `json:"user_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

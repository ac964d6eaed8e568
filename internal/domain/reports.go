package domain

import "math"

// WeeklyReport is a dated performance snapshot for one student business.
type WeeklyReport struct {
	ID            string  `json:"id"`
	WeekEnding    string  `json:"week_ending"`
	Revenue       float64 `json:"revenue"`
	Expenses      float64 `json:"expenses"`
	EditingCost   float64 `json:"editing_cost"`
	NetProfit     float64 `json:"net_profit"`
	Shoots        int     `json:"shoots"`
	NewClients    int     `json:"new_clients"`
	UniqueClients int     `json:"unique_clients"`
	AvgOrderValue float64 `json:"avg_order_value"`
	UserID        string  `json:"user_id,omitempty"`
	StudentID     string  `json:"student_id,omitempty"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

// ComputeNetProfit returns revenue − expenses − editingCost, cent-exact.
// The creation path always recomputes this; client-supplied net profit is
// never trusted.
func ComputeNetProfit(revenue, expenses, editingCost float64) float64 {
	cents := math.Round(revenue*100) - math.Round(expenses*100) - math.Round(editingCost*100)
	return cents / 100
}

// CreateReportRequest carries the fields for a new weekly report.
// StudentID is optional: when absent the report connects only to the
// user record (the legacy relation) and the profile connection is
// omitted, never guessed.
type CreateReportRequest struct {
	WeekEnding    string  `json:"week_ending"`
	Revenue       float64 `json:"revenue"`
	Expenses      float64 `json:"expenses"`
	EditingCost   float64 `json:"editing_cost"`
	Shoots        int     `json:"shoots"`
	NewClients    int     `json:"new_clients"`
	UniqueClients int     `json:"unique_clients"`
	AvgOrderValue float64 `json:"avg_order_value"`
	UserID        string  `json:"user_id"`
	StudentID     string  `json:"student_id,omitempty"`
}

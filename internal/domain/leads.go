package domain

// Lead statuses. The backend does not enforce transition legality; any
// status may be written directly.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"
)

// Lead is a prospective client record with its nested script components
// and engagement tags flattened for display.
type Lead struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Company     string `json:"company"`
	Source      string `json:"source"`
	Status      string `json:"status"`
	CallOutcome string `json:"call_outcome"`
	Notes       string `json:"notes"`
	UserID      string `json:"user_id,omitempty"`

	Script *ScriptComponents `json:"script,omitempty"`
	Tags   []EngagementTag   `json:"tags"`

	CreatedAt string `json:"created_at,omitempty"`
}

// ScriptComponents is the 1:1 call-script record nested under a lead.
type ScriptComponents struct {
	ID         string `json:"id"`
	Opener     string `json:"opener"`
	PainPoint  string `json:"pain_point"`
	ValueProp  string `json:"value_prop"`
	CallToAct  string `json:"call_to_action"`
	Objections string `json:"objections"`
}

// EngagementTag is one row of a lead's 1:many tag collection.
type EngagementTag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// CreateLeadRequest carries the fields for a new lead. Script fields,
// when present, create the nested script-components record in the same
// mutation.
type CreateLeadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Source  string `json:"source,omitempty"`
	Status  string `json:"status,omitempty"`
	Notes   string `json:"notes,omitempty"`
	UserID  string `json:"user_id"`

	Script *ScriptComponents `json:"script,omitempty"`
}

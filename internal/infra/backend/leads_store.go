package backend

import (
	"context"
	"fmt"

	"github.com/mhalvorsen/coachdesk/internal/domain"

	"github.com/google/uuid"
)

// ============================================================
// Leads, nested script components and engagement tags
// ============================================================

const leadFields = `id name email phone company source status callOutcome notes createdAt
	user { id }
	scriptComponents { id opener painPoint valueProp callToAction objections }
	engagementTags { items { id label } }`

const (
	leadsListDoc = `query Leads($filter: JSON) { leads(filter: $filter) { items { ` + leadFields + ` } } }`

	leadGetDoc = `query Lead($id: ID!) { lead(id: $id) { ` + leadFields + ` } }`

	leadCreateDoc = `mutation LeadCreate($data: JSON!) { leadCreate(data: $data) { ` + leadFields + ` } }`

	leadDeleteDoc = `mutation LeadDelete($id: ID!) { leadDelete(id: $id) { success } }`

	tagCreateDoc = `mutation EngagementTagCreate($data: JSON!) { engagementTagCreate(data: $data) { id label } }`

	tagDeleteDoc = `mutation EngagementTagDelete($id: ID!) { engagementTagDelete(id: $id) { success } }`
)

// leadFilterStrategies scope the lead list to one owner: relation
// filter first, bare column second.
var leadFilterStrategies = []FilterStrategy{
	{Name: "user-relation", Build: func(ownerID string) map[string]any {
		return relEq("user", ownerID)
	}},
	{Name: "user-field", Build: func(ownerID string) map[string]any {
		return map[string]any{"userId": eq(ownerID)}
	}},
}

type rawLead struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Company     string `json:"company"`
	Source      string `json:"source"`
	Status      string `json:"status"`
	CallOutcome string `json:"callOutcome"`
	Notes       string `json:"notes"`
	CreatedAt   string `json:"createdAt"`
	User        *struct {
		ID string `json:"id"`
	} `json:"user"`
	ScriptComponents *struct {
		ID           string `json:"id"`
		Opener       string `json:"opener"`
		PainPoint    string `json:"painPoint"`
		ValueProp    string `json:"valueProp"`
		CallToAction string `json:"callToAction"`
		Objections   string `json:"objections"`
	} `json:"scriptComponents"`
	EngagementTags *struct {
		Items []domain.EngagementTag `json:"items"`
	} `json:"engagementTags"`
}

func transformLead(r rawLead) domain.Lead {
	l := domain.Lead{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		Company:     r.Company,
		Source:      r.Source,
		Status:      r.Status,
		CallOutcome: r.CallOutcome,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
		Tags:        []domain.EngagementTag{},
	}
	if l.Status == "" {
		l.Status = domain.LeadStatusNew
	}
	if r.User != nil {
		l.UserID = r.User.ID
	}
	if sc := r.ScriptComponents; sc != nil {
		l.Script = &domain.ScriptComponents{
			ID:         sc.ID,
			Opener:     sc.Opener,
			PainPoint:  sc.PainPoint,
			ValueProp:  sc.ValueProp,
			CallToAct:  sc.CallToAction,
			Objections: sc.Objections,
		}
	}
	if r.EngagementTags != nil && r.EngagementTags.Items != nil {
		l.Tags = r.EngagementTags.Items
	}
	return l
}

// ListLeads fetches the leads owned by one user.
func (s *Store) ListLeads(ctx context.Context, ownerID string) ([]domain.Lead, error) {
	ctx, span := tracer.Start(ctx, "Store.ListLeads")
	defer span.End()

	data, err := s.listWithFallback(ctx, "lead", "Leads", leadsListDoc, leadFilterStrategies, ownerID)
	if err != nil {
		return nil, err
	}

	rows, err := decodeList[rawLead](data, "leads")
	if err != nil {
		return nil, err
	}

	leads := make([]domain.Lead, 0, len(rows))
	for _, r := range rows {
		leads = append(leads, transformLead(r))
	}
	return leads, nil
}

// GetLead fetches one lead by id.
func (s *Store) GetLead(ctx context.Context, leadID string) (*domain.Lead, error) {
	ctx, span := tracer.Start(ctx, "Store.GetLead")
	defer span.End()

	data, err := s.g.Query(ctx, "Lead", leadGetDoc, map[string]any{"id": leadID})
	if err != nil {
		return nil, err
	}

	raw, err := decodeOne[rawLead](data, "lead", leadID)
	if err != nil {
		return nil, err
	}
	l := transformLead(*raw)
	return &l, nil
}

// CreateLead creates a lead connected to its owner. Script fields, when
// supplied, create the nested script-components record inside the same
// mutation.
func (s *Store) CreateLead(ctx context.Context, req *domain.CreateLeadRequest) (*domain.Lead, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateLead")
	defer span.End()

	status := req.Status
	if status == "" {
		status = domain.LeadStatusNew
	}

	data := map[string]any{
		"id":      uuid.New().String(),
		"name":    req.Name,
		"email":   req.Email,
		"phone":   req.Phone,
		"company": req.Company,
		"source":  req.Source,
		"status":  status,
		"notes":   req.Notes,
		"user":    connect(req.UserID),
	}
	if sc := req.Script; sc != nil {
		data["scriptComponents"] = map[string]any{
			"create": map[string]any{
				"id":           uuid.New().String(),
				"opener":       sc.Opener,
				"painPoint":    sc.PainPoint,
				"valueProp":    sc.ValueProp,
				"callToAction": sc.CallToAct,
				"objections":   sc.Objections,
			},
		}
	}

	resp, err := s.g.Mutate(ctx, "LeadCreate", leadCreateDoc, map[string]any{"data": data})
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}

	raw, err := decodeOne[rawLead](resp, "leadCreate", req.Name)
	if err != nil {
		return nil, err
	}
	l := transformLead(*raw)
	return &l, nil
}

// UpdateLead patches lead fields through the drift-tolerant shapes and
// re-fetches. Status writes go through here unvalidated; the pipeline
// stages carry no transition rules.
func (s *Store) UpdateLead(ctx context.Context, leadID string, fields map[string]any) (*domain.Lead, error) {
	ctx, span := tracer.Start(ctx, "Store.UpdateLead")
	defer span.End()

	if err := s.mutateWithShapes(ctx, "lead", "LeadUpdate", updateShapes("LeadUpdate", "leadUpdate"), leadID, fields); err != nil {
		return nil, err
	}
	return s.GetLead(ctx, leadID)
}

// DeleteLead deletes a lead record. The backend cascades the nested
// script and tag records.
func (s *Store) DeleteLead(ctx context.Context, leadID string) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteLead")
	defer span.End()

	_, err := s.g.Mutate(ctx, "LeadDelete", leadDeleteDoc, map[string]any{"id": leadID})
	return err
}

// AddEngagementTag attaches a tag row to a lead.
func (s *Store) AddEngagementTag(ctx context.Context, leadID, label string) (*domain.EngagementTag, error) {
	ctx, span := tracer.Start(ctx, "Store.AddEngagementTag")
	defer span.End()

	data := map[string]any{
		"id":    uuid.New().String(),
		"label": label,
		"lead":  connect(leadID),
	}
	resp, err := s.g.Mutate(ctx, "EngagementTagCreate", tagCreateDoc, map[string]any{"data": data})
	if err != nil {
		return nil, fmt.Errorf("create engagement tag: %w", err)
	}
	return decodeOne[domain.EngagementTag](resp, "engagementTagCreate", label)
}

// RemoveEngagementTag deletes a tag row.
func (s *Store) RemoveEngagementTag(ctx context.Context, tagID string) error {
	ctx, span := tracer.Start(ctx, "Store.RemoveEngagementTag")
	defer span.End()

	_, err := s.g.Mutate(ctx, "EngagementTagDelete", tagDeleteDoc, map[string]any{"id": tagID})
	return err
}

package backend

import (
	"context"
	"fmt"

	"github.com/mhalvorsen/coachdesk/internal/domain"

	"github.com/google/uuid"
)

// ============================================================
// The flat CRM records: goals, notes, call logs, pricing packages,
// products with subitems, and message templates. All owner-scoped
// through the user relation with a bare-column fallback.
// ============================================================

// ownerStrategies builds the standard two-step owner scoping for a flat
// record type: relation filter first, bare column second.
func ownerStrategies(relation, column string) []FilterStrategy {
	return []FilterStrategy{
		{Name: relation + "-relation", Build: func(ownerID string) map[string]any {
			return relEq(relation, ownerID)
		}},
		{Name: column + "-field", Build: func(ownerID string) map[string]any {
			return map[string]any{column: eq(ownerID)}
		}},
	}
}

var userOwnerStrategies = ownerStrategies("user", "userId")

// --- Goals ---

const goalFields = `id title type targetValue currentValue deadline priority status createdAt
	student { id } user { id }`

const (
	goalsListDoc   = `query Goals($filter: JSON) { goals(filter: $filter) { items { ` + goalFields + ` } } }`
	goalCreateDoc  = `mutation GoalCreate($data: JSON!) { goalCreate(data: $data) { ` + goalFields + ` } }`
	goalDeleteDoc  = `mutation GoalDelete($id: ID!) { goalDelete(id: $id) { success } }`
	goalGetDoc     = `query Goal($id: ID!) { goal(id: $id) { ` + goalFields + ` } }`
	goalUpdateName = "GoalUpdate"
)

type rawGoal struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Type         string  `json:"type"`
	TargetValue  float64 `json:"targetValue"`
	CurrentValue float64 `json:"currentValue"`
	Deadline     string  `json:"deadline"`
	Priority     string  `json:"priority"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
	Student      *struct {
		ID string `json:"id"`
	} `json:"student"`
	User *struct {
		ID string `json:"id"`
	} `json:"user"`
}

func transformGoal(r rawGoal) domain.Goal {
	g := domain.Goal{
		ID:           r.ID,
		Title:        r.Title,
		Type:         r.Type,
		TargetValue:  r.TargetValue,
		CurrentValue: r.CurrentValue,
		Deadline:     r.Deadline,
		Priority:     r.Priority,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
	}
	if g.Type == "" {
		g.Type = domain.GoalTypeOther
	}
	if r.Student != nil {
		g.StudentID = r.Student.ID
	}
	if r.User != nil {
		g.UserID = r.User.ID
	}
	return g
}

// ListGoals fetches the goals owned by one user.
func (s *Store) ListGoals(ctx context.Context, ownerID string) ([]domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "Store.ListGoals")
	defer span.End()

	data, err := s.listWithFallback(ctx, "goal", "Goals", goalsListDoc, userOwnerStrategies, ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := decodeList[rawGoal](data, "goals")
	if err != nil {
		return nil, err
	}
	goals := make([]domain.Goal, 0, len(rows))
	for _, r := range rows {
		goals = append(goals, transformGoal(r))
	}
	return goals, nil
}

// CreateGoal creates a goal connected to its owner, and to the student
// profile when a profile id is known.
func (s *Store) CreateGoal(ctx context.Context, userID, studentID string, g *domain.Goal) (*domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateGoal")
	defer span.End()

	data := map[string]any{
		"id":           uuid.New().String(),
		"title":        g.Title,
		"type":         g.Type,
		"targetValue":  g.TargetValue,
		"currentValue": g.CurrentValue,
		"deadline":     g.Deadline,
		"priority":     g.Priority,
		"status":       g.Status,
		"user":         connect(userID),
	}
	if studentID != "" {
		data["student"] = connect(studentID)
	}

	resp, err := s.g.Mutate(ctx, "GoalCreate", goalCreateDoc, map[string]any{"data": data})
	if err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	raw, err := decodeOne[rawGoal](resp, "goalCreate", g.Title)
	if err != nil {
		return nil, err
	}
	out := transformGoal(*raw)
	return &out, nil
}

// UpdateGoal patches goal fields and re-fetches.
func (s *Store) UpdateGoal(ctx context.Context, goalID string, fields map[string]any) (*domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "Store.UpdateGoal")
	defer span.End()

	if err := s.mutateWithShapes(ctx, "goal", goalUpdateName, updateShapes(goalUpdateName, "goalUpdate"), goalID, fields); err != nil {
		return nil, err
	}
	data, err := s.g.Query(ctx, "Goal", goalGetDoc, map[string]any{"id": goalID})
	if err != nil {
		return nil, err
	}
	raw, err := decodeOne[rawGoal](data, "goal", goalID)
	if err != nil {
		return nil, err
	}
	out := transformGoal(*raw)
	return &out, nil
}

// DeleteGoal deletes a goal record.
func (s *Store) DeleteGoal(ctx context.Context, goalID string) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteGoal")
	defer span.End()

	_, err := s.g.Mutate(ctx, "GoalDelete", goalDeleteDoc, map[string]any{"id": goalID})
	return err
}

// --- Notes ---

const noteFields = `id title content pinned createdAt user { id }`

const (
	notesListDoc  = `query Notes($filter: JSON) { notes(filter: $filter) { items { ` + noteFields + ` } } }`
	noteCreateDoc = `mutation NoteCreate($data: JSON!) { noteCreate(data: $data) { ` + noteFields + ` } }`
	noteDeleteDoc = `mutation NoteDelete($id: ID!) { noteDelete(id: $id) { success } }`
)

type rawNote struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Pinned    bool   `json:"pinned"`
	CreatedAt string `json:"createdAt"`
	User      *struct {
		ID string `json:"id"`
	} `json:"user"`
}

func transformNote(r rawNote) domain.Note {
	n := domain.Note{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Pinned:    r.Pinned,
		CreatedAt: r.CreatedAt,
	}
	if r.User != nil {
		n.UserID = r.User.ID
	}
	return n
}

// ListNotes fetches the notes owned by one user.
func (s *Store) ListNotes(ctx context.Context, ownerID string) ([]domain.Note, error) {
	ctx, span := tracer.Start(ctx, "Store.ListNotes")
	defer span.End()

	data, err := s.listWithFallback(ctx, "note", "Notes", notesListDoc, userOwnerStrategies, ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := decodeList[rawNote](data, "notes")
	if err != nil {
		return nil, err
	}
	notes := make([]domain.Note, 0, len(rows))
	for _, r := range rows {
		notes = append(notes, transformNote(r))
	}
	return notes, nil
}

// CreateNote creates a note connected to its owner.
func (s *Store) CreateNote(ctx context.Context, userID string, n *domain.Note) (*domain.Note, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateNote")
	defer span.End()

	data := map[string]any{
		"id":      uuid.New().String(),
		"title":   n.Title,
		"content": n.Content,
		"pinned":  n.Pinned,
		"user":    connect(userID),
	}
	resp, err := s.g.Mutate(ctx, "NoteCreate", noteCreateDoc, map[string]any{"data": data})
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	raw, err := decodeOne[rawNote](resp, "noteCreate", n.Title)
	if err != nil {
		return nil, err
	}
	out := transformNote(*raw)
	return &out, nil
}

// UpdateNote patches note fields.
func (s *Store) UpdateNote(ctx context.Context, noteID string, fields map[string]any) error {
	ctx, span := tracer.Start(ctx, "Store.UpdateNote")
	defer span.End()

	return s.mutateWithShapes(ctx, "note", "NoteUpdate", updateShapes("NoteUpdate", "noteUpdate"), noteID, fields)
}

// DeleteNote deletes a note record.
func (s *Store) DeleteNote(ctx context.Context, noteID string) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteNote")
	defer span.End()

	_, err := s.g.Mutate(ctx, "NoteDelete", noteDeleteDoc, map[string]any{"id": noteID})
	return err
}

// --- Call logs ---

const callLogFields = `id callDate durationMinutes summary outcome createdAt
	student { id } coach { id }`

const (
	callLogsListDoc  = `query CallLogs($filter: JSON) { callLogs(filter: $filter) { items { ` + callLogFields + ` } } }`
	callLogCreateDoc = `mutation CallLogCreate($data: JSON!) { callLogCreate(data: $data) { ` + callLogFields + ` } }`
	callLogDeleteDoc = `mutation CallLogDelete($id: ID!) { callLogDelete(id: $id) { success } }`
)

// callLogStrategies scope the call-log list to a student profile.
var callLogStrategies = ownerStrategies("student", "studentId")

type rawCallLog struct {
	ID              string `json:"id"`
	CallDate        string `json:"callDate"`
	DurationMinutes int    `json:"durationMinutes"`
	Summary         string `json:"summary"`
	Outcome         string `json:"outcome"`
	CreatedAt       string `json:"createdAt"`
	Student         *struct {
		ID string `json:"id"`
	} `json:"student"`
	Coach *struct {
		ID string `json:"id"`
	} `json:"coach"`
}

func transformCallLog(r rawCallLog) domain.CallLog {
	c := domain.CallLog{
		ID:              r.ID,
		CallDate:        r.CallDate,
		DurationMinutes: r.DurationMinutes,
		Summary:         r.Summary,
		Outcome:         r.Outcome,
		CreatedAt:       r.CreatedAt,
	}
	if r.Student != nil {
		c.StudentID = r.Student.ID
	}
	if r.Coach != nil {
		c.CoachID = r.Coach.ID
	}
	return c
}

// ListCallLogs fetches the call logs for one student profile.
func (s *Store) ListCallLogs(ctx context.Context, studentID string) ([]domain.CallLog, error) {
	ctx, span := tracer.Start(ctx, "Store.ListCallLogs")
	defer span.End()

	data, err := s.listWithFallback(ctx, "callLog", "CallLogs", callLogsListDoc, callLogStrategies, studentID)
	if err != nil {
		return nil, err
	}
	rows, err := decodeList[rawCallLog](data, "callLogs")
	if err != nil {
		return nil, err
	}
	logs := make([]domain.CallLog, 0, len(rows))
	for _, r := range rows {
		logs = append(logs, transformCallLog(r))
	}
	return logs, nil
}

// CreateCallLog creates a call log connected to the student profile and
// the coach profile.
func (s *Store) CreateCallLog(ctx context.Context, c *domain.CallLog) (*domain.CallLog, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateCallLog")
	defer span.End()

	data := map[string]any{
		"id":              uuid.New().String(),
		"callDate":        c.CallDate,
		"durationMinutes": c.DurationMinutes,
		"summary":         c.Summary,
		"outcome":         c.Outcome,
		"student":         connect(c.StudentID),
	}
	if c.CoachID != "" {
		data["coach"] = connect(c.CoachID)
	}
	resp, err := s.g.Mutate(ctx, "CallLogCreate", callLogCreateDoc, map[string]any{"data": data})
	if err != nil {
		return nil, fmt.Errorf("create call log: %w", err)
	}
	raw, err := decodeOne[rawCallLog](resp, "callLogCreate", c.StudentID)
	if err != nil {
		return nil, err
	}
	out := transformCallLog(*raw)
	return &out, nil
}

// UpdateCallLog patches call-log fields.
func (s *Store) UpdateCallLog(ctx context.Context, callLogID string, fields map[string]any) error {
	ctx, span := tracer.Start(ctx, "Store.UpdateCallLog")
	defer span.End()

	return s.mutateWithShapes(ctx, "callLog", "CallLogUpdate", updateShapes("CallLogUpdate", "callLogUpdate"), callLogID, fields)
}

// DeleteCallLog deletes a call-log record.
func (s *Store) DeleteCallLog(ctx context.Context, callLogID string) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteCallLog")
	defer span.End()

	_, err := s.g.Mutate(ctx, "CallLogDelete", callLogDeleteDoc, map[string]any{"id": callLogID})
	return err
}

// --- Pricing packages ---

const pricingFields = `id name description price turnaroundHours active createdAt user { id }`

const (
	pricingListDoc   = `query PricingPackages($filter: JSON) { pricingPackages(filter: $filter) { items { ` + pricingFields + ` } } }`
	pricingCreateDoc = `mutation PricingPackageCreate($data: JSON!) { pricingPackageCreate(data: $data) { ` + pricingFields + ` } }`
	pricingDeleteDoc = `mutation PricingPackageDelete($id: ID!) { pricingPackageDelete(id: $id) { success } }`
)

type rawPricing struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	TurnaroundHours int     `json:"turnaroundHours"`
	Active          bool    `json:"active"`
	CreatedAt       string  `json:"createdAt"`
	User            *struct {
		ID string `json:"id"`
	} `json:"user"`
}

func transformPricing(r rawPricing) domain.PricingPackage {
	p := domain.PricingPackage{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		TurnaroundHours: r.TurnaroundHours,
		Active:          r.Active,
		CreatedAt:       r.CreatedAt,
	}
	if r.User != nil {
		p.UserID = r.User.ID
	}
	return p
}

// ListPricingPackages fetches the pricing table for one user.
func (s *Store) ListPricingPackages(ctx context.Context, ownerID string) ([]domain.PricingPackage, error) {
	ctx, span := tracer.Start(ctx, "Store.ListPricingPackages")
	defer span.End()

	data, err := s.listWithFallback(ctx, "pricingPackage", "PricingPackages", pricingListDoc, userOwnerStrategies, ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := decodeList[rawPricing](data, "pricingPackages")
	if err != nil {
		return nil, err
	}
	pkgs := make([]domain.PricingPackage, 0, len(rows))
	for _, r := range rows {
		pkgs = append(pkgs, transformPricing(r))
	}
	return pkgs, nil
}

// CreatePricingPackage creates a pricing row connected to its owner.
func (s *Store) CreatePricingPackage(ctx context.Context, userID string, p *domain.PricingPackage) (*domain.PricingPackage, error) {
	ctx, span := tracer.Start(ctx, "Store.CreatePricingPackage")
	defer span.End()

	data := map[string]any{
		"id":              uuid.New().String(),
		"name":            p.Name,
		"description":     p.Description,
		"price":           p.Price,
		"turnaroundHours": p.TurnaroundHours,
		"active":          p.Active,
		"user":            connect(userID),
	}
	resp, err := s.g.Mutate(ctx, "PricingPackageCreate", pricingCreateDoc, map[string]any{"data": data})
	if err != nil {
		return nil, fmt.Errorf("create pricing package: %w", err)
	}
	raw, err := decodeOne[rawPricing](resp, "pricingPackageCreate", p.Name)
	if err != nil {
		return nil, err
	}
	out := transformPricing(*raw)
	return &out, nil
}

// UpdatePricingPackage patches pricing fields.
func (s *Store) UpdatePricingPackage(ctx context.Context, packageID string, fields map[string]any) error {
	ctx, span := tracer.Start(ctx, "Store.UpdatePricingPackage")
	defer span.End()

	return s.mutateWithShapes(ctx, "pricingPackage", "PricingPackageUpdate", updateShapes("PricingPackageUpdate", "pricingPackageUpdate"), packageID, fields)
}

// DeletePricingPackage deletes a pricing row.
func (s *Store) DeletePricingPackage(ctx context.Context, packageID string) error {
	ctx, span := tracer.Start(ctx, "Store.DeletePricingPackage")
	defer span.End()

	_, err := s.g.Mutate(ctx, "PricingPackageDelete", pricingDeleteDoc, map[string]any{"id": packageID})
	return err
}

// --- Products and subitems ---

const productFields = `id name description price createdAt user { id }
	subitems { items { id name price photoCount } }`

const (
	productsListDoc  = `query Products($filter: JSON) { products(filter: $filter) { items { ` + productFields + ` } } }`
	productCreateDoc = `mutation ProductCreate($data: JSON!) { productCreate(data: $data) { ` + productFields + ` } }`
	productDeleteDoc = `mutation ProductDelete($id: ID!) { productDelete(id: $id) { success } }`

	subitemCreateDoc = `mutation SubitemCreate($data: JSON!) { subitemCreate(data: $data) { id name price photoCount } }`
	subitemDeleteDoc = `mutation SubitemDelete($id: ID!) { subitemDelete(id: $id) { success } }`
)

type rawProduct struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CreatedAt   string  `json:"createdAt"`
	User        *struct {
		ID string `json:"id"`
	} `json:"user"`
	Subitems *struct {
		Items []domain.Subitem `json:"items"`
	} `json:"subitems"`
}

func transformProduct(r rawProduct) domain.Product {
	p := domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		CreatedAt:   r.CreatedAt,
		Subitems:    []domain.Subitem{},
	}
	if r.User != nil {
		p.UserID = r.User.ID
	}
	if r.Subitems != nil && r.Subitems.Items != nil {
		p.Subitems = r.Subitems.Items
	}
	return p
}

// ListProducts fetches the product catalog for one user.
func (s *Store) ListProducts(ctx context.Context, ownerID string) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "Store.ListProducts")
	defer span.End()

	data, err := s.listWithFallback(ctx, "product", "Products", productsListDoc, userOwnerStrategies, ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := decodeList[rawProduct](data, "products")
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		products = append(products, transformProduct(r))
	}
	return products, nil
}

// CreateProduct creates a product connected to its owner. Subitems, when
// supplied, create inside the same mutation.
func (s *Store) CreateProduct(ctx context.Context, userID string, p *domain.Product) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateProduct")
	defer span.End()

	data := map[string]any{
		"id":          uuid.New().String(),
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"user":        connect(userID),
	}
	if len(p.Subitems) > 0 {
		rows := make([]map[string]any, 0, len(p.Subitems))
		for _, sub := range p.Subitems {
			rows = append(rows, map[string]any{
				"id":         uuid.New().String(),
				"name":       sub.Name,
				"price":      sub.Price,
				"photoCount": sub.PhotoCount,
			})
		}
		data["subitems"] = map[string]any{"create": rows}
	}

	resp, err := s.g.Mutate(ctx, "ProductCreate", productCreateDoc, map[string]any{"data": data})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	raw, err := decodeOne[rawProduct](resp, "productCreate", p.Name)
	if err != nil {
		return nil, err
	}
	out := transformProduct(*raw)
	return &out, nil
}

// UpdateProduct patches product fields.
func (s *Store) UpdateProduct(ctx context.Context, productID string, fields map[string]any) error {
	ctx, span := tracer.Start(ctx, "Store.UpdateProduct")
	defer span.End()

	return s.mutateWithShapes(ctx, "product", "ProductUpdate", updateShapes("ProductUpdate", "productUpdate"), productID, fields)
}

// DeleteProduct deletes a product. The backend cascades the subitems.
func (s *Store) DeleteProduct(ctx context.Context, productID string) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteProduct")
	defer span.End()

	_, err := s.g.Mutate(ctx, "ProductDelete", productDeleteDoc, map[string]any{"id": productID})
	return err
}

// AddSubitem attaches a subitem row to a product.
func (s *Store) AddSubitem(ctx context.Context, productID string, sub *domain.Subitem) (*domain.Subitem, error) {
	ctx, span := tracer.Start(ctx, "Store.AddSubitem")
	defer span.End()

	data := map[string]any{
		"id":         uuid.New().String(),
		"name":       sub.Name,
		"price":      sub.Price,
		"photoCount": sub.PhotoCount,
		"product":    connect(productID),
	}
	resp, err := s.g.Mutate(ctx, "SubitemCreate", subitemCreateDoc, map[string]any{"data": data})
	if err != nil {
		return nil, fmt.Errorf("create subitem: %w", err)
	}
	return decodeOne[domain.Subitem](resp, "subitemCreate", sub.Name)
}

// RemoveSubitem deletes a subitem row.
func (s *Store) RemoveSubitem(ctx context.Context, subitemID string) error {
	ctx, span := tracer.Start(ctx, "Store.RemoveSubitem")
	defer span.End()

	_, err := s.g.Mutate(ctx, "SubitemDelete", subitemDeleteDoc, map[string]any{"id": subitemID})
	return err
}

// --- Message templates ---

const templateFields = `id name channel body createdAt user { id }`

const (
	templatesListDoc  = `query MessageTemplates($filter: JSON) { messageTemplates(filter: $filter) { items { ` + templateFields + ` } } }`
	templateCreateDoc = `mutation MessageTemplateCreate($data: JSON!) { messageTemplateCreate(data: $data) { ` + templateFields + ` } }`
	templateDeleteDoc = `mutation MessageTemplateDelete($id: ID!) { messageTemplateDelete(id: $id) { success } }`
)

type rawTemplate struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Channel   string `json:"channel"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
	User      *struct {
		ID string `json:"id"`
	} `json:"user"`
}

func transformTemplate(r rawTemplate) domain.MessageTemplate {
	t := domain.MessageTemplate{
		ID:        r.ID,
		Name:      r.Name,
		Channel:   r.Channel,
		Body:      r.Body,
		CreatedAt: r.CreatedAt,
	}
	if r.User != nil {
		t.UserID = r.User.ID
	}
	return t
}

// ListMessageTemplates fetches the templates owned by one user.
func (s *Store) ListMessageTemplates(ctx context.Context, ownerID string) ([]domain.MessageTemplate, error) {
	ctx, span := tracer.Start(ctx, "Store.ListMessageTemplates")
	defer span.End()

	data, err := s.listWithFallback(ctx, "messageTemplate", "MessageTemplates", templatesListDoc, userOwnerStrategies, ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := decodeList[rawTemplate](data, "messageTemplates")
	if err != nil {
		return nil, err
	}
	templates := make([]domain.MessageTemplate, 0, len(rows))
	for _, r := range rows {
		templates = append(templates, transformTemplate(r))
	}
	return templates, nil
}

// CreateMessageTemplate creates a template connected to its owner.
func (s *Store) CreateMessageTemplate(ctx context.Context, userID string, t *domain.MessageTemplate) (*domain.MessageTemplate, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateMessageTemplate")
	defer span.End()

	data := map[string]any{
		"id":      uuid.New().String(),
		"name":    t.Name,
		"channel": t.Channel,
		"body":    t.Body,
		"user":    connect(userID),
	}
	resp, err := s.g.Mutate(ctx, "MessageTemplateCreate", templateCreateDoc, map[string]any{"data": data})
	if err != nil {
		return nil, fmt.Errorf("create message template: %w", err)
	}
	raw, err := decodeOne[rawTemplate](resp, "messageTemplateCreate", t.Name)
	if err != nil {
		return nil, err
	}
	out := transformTemplate(*raw)
	return &out, nil
}

// UpdateMessageTemplate patches template fields.
func (s *Store) UpdateMessageTemplate(ctx context.Context, templateID string, fields map[string]any) error {
	ctx, span := tracer.Start(ctx, "Store.UpdateMessageTemplate")
	defer span.End()

	return s.mutateWithShapes(ctx, "messageTemplate", "MessageTemplateUpdate", updateShapes("MessageTemplateUpdate", "messageTemplateUpdate"), templateID, fields)
}

// DeleteMessageTemplate deletes a template record.
func (s *Store) DeleteMessageTemplate(ctx context.Context, templateID string) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteMessageTemplate")
	defer span.End()

	_, err := s.g.Mutate(ctx, "MessageTemplateDelete", templateDeleteDoc, map[string]any{"id": templateID})
	return err
}

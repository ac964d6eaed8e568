package backend

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/mhalvorsen/coachdesk/internal/domain"

	"github.com/google/uuid"
)

// ============================================================
// Users + roles — the authentication anchor records
// ============================================================

const userFields = `id email name paid accessStarts accessExpires createdAt
	roles { items { id name } }
	studentProfile { id coach { id name } }
	coachProfile { id }`

const (
	rolesDoc = `query Roles { roles { items { id name } } }`

	usersListDoc = `query Users($filter: JSON) { users(filter: $filter) { items { ` + userFields + ` } } }`

	userGetDoc = `query User($id: ID!) { user(id: $id) { ` + userFields + ` } }`

	userByEmailDoc = `query UserByEmail($filter: JSON) { users(filter: $filter) { items { ` + userFields + ` passwordHash } } }`

	userCreateDoc = `mutation UserCreate($data: JSON!) { userCreate(data: $data) { ` + userFields + ` } }`

	userDeleteDoc = `mutation UserDelete($id: ID!) { userDelete(id: $id) { success } }`
)

// rawUser maps the backend's nested user payload.
type rawUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Paid          bool   `json:"paid"`
	AccessStarts  string `json:"accessStarts"`
	AccessExpires string `json:"accessExpires"`
	PasswordHash  string `json:"passwordHash"`
	CreatedAt     string `json:"createdAt"`
	Roles         struct {
		Items []domain.BackendRole `json:"items"`
	} `json:"roles"`
	StudentProfile *struct {
		ID    string `json:"id"`
		Coach *struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"coach"`
	} `json:"studentProfile"`
	CoachProfile *struct {
		ID string `json:"id"`
	} `json:"coachProfile"`
}

// transformUser flattens a raw user into the dashboard view model.
// Absent optional fields default to empty values; the roles relation
// collapses to a single enum.
func transformUser(r rawUser) domain.User {
	names := make([]string, 0, len(r.Roles.Items))
	for _, role := range r.Roles.Items {
		names = append(names, role.Name)
	}

	u := domain.User{
		ID:            r.ID,
		Email:         r.Email,
		Name:          r.Name,
		Paid:          r.Paid,
		AccessStarts:  r.AccessStarts,
		AccessExpires: r.AccessExpires,
		Role:          domain.ResolveRole(names),
		CreatedAt:     r.CreatedAt,
	}

	if r.StudentProfile != nil {
		u.ProfileID = r.StudentProfile.ID
		if r.StudentProfile.Coach != nil {
			u.CoachID = r.StudentProfile.Coach.ID
			u.CoachName = r.StudentProfile.Coach.Name
		}
	}
	if u.ProfileID == "" && r.CoachProfile != nil {
		u.ProfileID = r.CoachProfile.ID
	}

	return u
}

// ListRoles fetches the backend roles table.
func (s *Store) ListRoles(ctx context.Context) ([]domain.BackendRole, error) {
	ctx, span := tracer.Start(ctx, "Store.ListRoles")
	defer span.End()

	data, err := s.g.Query(ctx, "Roles", rolesDoc, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[domain.BackendRole](data, "roles")
}

// ListUsers fetches all users.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	ctx, span := tracer.Start(ctx, "Store.ListUsers")
	defer span.End()

	data, err := s.g.Query(ctx, "Users", usersListDoc, map[string]any{"filter": map[string]any{}})
	if err != nil {
		return nil, err
	}

	rows, err := decodeList[rawUser](data, "users")
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, transformUser(r))
	}
	return users, nil
}

// GetUser fetches one user by id.
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Store.GetUser")
	defer span.End()

	data, err := s.g.Query(ctx, "User", userGetDoc, map[string]any{"id": userID})
	if err != nil {
		return nil, err
	}

	raw, err := decodeOne[rawUser](data, "user", userID)
	if err != nil {
		return nil, err
	}
	u := transformUser(*raw)
	return &u, nil
}

// GetUserByEmail fetches one user by email. Not found is not an error
// for lookups; the caller gets nil.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	raw, err := s.fetchUserByEmail(ctx, email)
	if err != nil || raw == nil {
		return nil, err
	}
	u := transformUser(*raw)
	return &u, nil
}

// GetUserCredentials fetches the login credentials for an email.
func (s *Store) GetUserCredentials(ctx context.Context, email string) (*domain.UserCredentials, error) {
	raw, err := s.fetchUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, &domain.ErrNotFound{Resource: "user", ID: email}
	}
	return &domain.UserCredentials{
		UserID:       raw.ID,
		Email:        raw.Email,
		PasswordHash: raw.PasswordHash,
	}, nil
}

func (s *Store) fetchUserByEmail(ctx context.Context, email string) (*rawUser, error) {
	ctx, span := tracer.Start(ctx, "Store.fetchUserByEmail")
	defer span.End()

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &domain.ErrValidation{Field: "email", Message: "invalid email address"}
	}

	data, err := s.g.Query(ctx, "UserByEmail", userByEmailDoc, map[string]any{
		"filter": map[string]any{"email": eq(strings.ToLower(email))},
	})
	if err != nil {
		return nil, err
	}

	rows, err := decodeList[rawUser](data, "users")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// CreateUser creates the user record connected to its role relation.
// The profile record is a separate, later step owned by the service
// layer — the user must exist even if that step fails.
func (s *Store) CreateUser(ctx context.Context, req *domain.CreateUserRequest, roleID, passwordHash string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateUser")
	defer span.End()

	data := map[string]any{
		"id":           uuid.New().String(),
		"email":        strings.ToLower(req.Email),
		"name":         req.Name,
		"passwordHash": passwordHash,
		"paid":         req.Paid,
		"roles":        connect(roleID),
	}
	if req.AccessStarts != "" {
		data["accessStarts"] = req.AccessStarts
	}
	if req.AccessExpires != "" {
		data["accessExpires"] = req.AccessExpires
	}

	resp, err := s.g.Mutate(ctx, "UserCreate", userCreateDoc, map[string]any{"data": data})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	raw, err := decodeOne[rawUser](resp, "userCreate", req.Email)
	if err != nil {
		return nil, err
	}
	u := transformUser(*raw)
	return &u, nil
}

// UpdateUser patches user fields through the drift-tolerant shapes and
// re-fetches the updated record.
func (s *Store) UpdateUser(ctx context.Context, userID string, fields map[string]any) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Store.UpdateUser")
	defer span.End()

	if err := s.mutateWithShapes(ctx, "user", "UserUpdate", updateShapes("UserUpdate", "userUpdate"), userID, fields); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, userID)
}

// DeleteUser deletes the user record. Profile cleanup is the service
// layer's concern; the backend cascade is not assumed.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteUser")
	defer span.End()

	_, err := s.g.Mutate(ctx, "UserDelete", userDeleteDoc, map[string]any{"id": userID})
	return err
}

package backend

import (
	"context"
	"fmt"

	"github.com/mhalvorsen/coachdesk/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Student + coach profile records
//
// The profile tables own all business-domain fields. The user record
// is never the target of profile-field writes, and the student
// profile's coach relation is the system of record for the coaching
// assignment.
// ============================================================

const studentFields = `id businessName location targetMarket strengths challenges goals
	contactPreference phone notes createdAt
	user { id } coach { id name }`

const coachFields = `id name email bio createdAt user { id } students { count }`

const (
	studentsListDoc = `query StudentProfiles($filter: JSON) { studentProfiles(filter: $filter) { items { ` + studentFields + ` } } }`

	studentGetDoc = `query StudentProfile($id: ID!) { studentProfile(id: $id) { ` + studentFields + ` } }`

	studentCreateDoc = `mutation StudentProfileCreate($data: JSON!) { studentProfileCreate(data: $data) { ` + studentFields + ` } }`

	studentCoachDoc = `mutation StudentProfileCoach($id: ID!, $data: JSON!) { studentProfileUpdate(id: $id, data: $data) { ` + studentFields + ` } }`

	studentDeleteDoc = `mutation StudentProfileDelete($id: ID!) { studentProfileDelete(id: $id) { success } }`

	coachesListDoc = `query CoachProfiles($filter: JSON) { coachProfiles(filter: $filter) { items { ` + coachFields + ` } } }`

	coachCreateDoc = `mutation CoachProfileCreate($data: JSON!) { coachProfileCreate(data: $data) { ` + coachFields + ` } }`

	coachDeleteDoc = `mutation CoachProfileDelete($id: ID!) { coachProfileDelete(id: $id) { success } }`
)

type rawStudent struct {
	ID                string `json:"id"`
	BusinessName      string `json:"businessName"`
	Location          string `json:"location"`
	TargetMarket      string `json:"targetMarket"`
	Strengths         string `json:"strengths"`
	Challenges        string `json:"challenges"`
	Goals             string `json:"goals"`
	ContactPreference string `json:"contactPreference"`
	Phone             string `json:"phone"`
	Notes             string `json:"notes"`
	CreatedAt         string `json:"createdAt"`
	User              *struct {
		ID string `json:"id"`
	} `json:"user"`
	Coach *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"coach"`
}

func transformStudent(r rawStudent) domain.StudentProfile {
	p := domain.StudentProfile{
		ID:                r.ID,
		BusinessName:      r.BusinessName,
		Location:          r.Location,
		TargetMarket:      r.TargetMarket,
		Strengths:         r.Strengths,
		Challenges:        r.Challenges,
		Goals:             r.Goals,
		ContactPreference: r.ContactPreference,
		Phone:             r.Phone,
		Notes:             r.Notes,
		CreatedAt:         r.CreatedAt,
	}
	if r.User != nil {
		p.UserID = r.User.ID
	}
	if r.Coach != nil {
		p.CoachID = r.Coach.ID
		p.CoachName = r.Coach.Name
	}
	return p
}

type rawCoach struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Bio       string `json:"bio"`
	CreatedAt string `json:"createdAt"`
	User      *struct {
		ID string `json:"id"`
	} `json:"user"`
	Students *struct {
		Count int `json:"count"`
	} `json:"students"`
}

func transformCoach(r rawCoach) domain.CoachProfile {
	p := domain.CoachProfile{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Bio:       r.Bio,
		CreatedAt: r.CreatedAt,
	}
	if r.User != nil {
		p.UserID = r.User.ID
	}
	if r.Students != nil {
		p.StudentCount = r.Students.Count
	}
	return p
}

// --- Students ---

// ListStudents fetches all student profiles.
func (s *Store) ListStudents(ctx context.Context) ([]domain.StudentProfile, error) {
	return s.listStudents(ctx, map[string]any{})
}

// ListStudentsByCoach fetches the student profiles connected to a coach.
func (s *Store) ListStudentsByCoach(ctx context.Context, coachID string) ([]domain.StudentProfile, error) {
	return s.listStudents(ctx, relEq("coach", coachID))
}

func (s *Store) listStudents(ctx context.Context, filter map[string]any) ([]domain.StudentProfile, error) {
	ctx, span := tracer.Start(ctx, "Store.ListStudents")
	defer span.End()

	data, err := s.g.Query(ctx, "StudentProfiles", studentsListDoc, map[string]any{"filter": filter})
	if err != nil {
		return nil, err
	}

	rows, err := decodeList[rawStudent](data, "studentProfiles")
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.StudentProfile, 0, len(rows))
	for _, r := range rows {
		profiles = append(profiles, transformStudent(r))
	}
	return profiles, nil
}

// GetStudent fetches one student profile by id.
func (s *Store) GetStudent(ctx context.Context, profileID string) (*domain.StudentProfile, error) {
	ctx, span := tracer.Start(ctx, "Store.GetStudent")
	defer span.End()

	data, err := s.g.Query(ctx, "StudentProfile", studentGetDoc, map[string]any{"id": profileID})
	if err != nil {
		return nil, err
	}

	raw, err := decodeOne[rawStudent](data, "studentProfile", profileID)
	if err != nil {
		return nil, err
	}
	p := transformStudent(*raw)
	return &p, nil
}

// GetStudentByUserID fetches the student profile connected to a user.
// Not found is not an error; the caller gets nil.
func (s *Store) GetStudentByUserID(ctx context.Context, userID string) (*domain.StudentProfile, error) {
	rows, err := s.listStudents(ctx, relEq("user", userID))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// CreateStudentProfile creates a student profile connected to its user.
func (s *Store) CreateStudentProfile(ctx context.Context, userID string, seed *domain.StudentProfile) (*domain.StudentProfile, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateStudentProfile")
	defer span.End()

	data := map[string]any{
		"id":   uuid.New().String(),
		"user": connect(userID),
	}
	if seed != nil {
		data["businessName"] = seed.BusinessName
		data["location"] = seed.Location
		data["targetMarket"] = seed.TargetMarket
		data["contactPreference"] = seed.ContactPreference
		data["phone"] = seed.Phone
	}

	resp, err := s.g.Mutate(ctx, "StudentProfileCreate", studentCreateDoc, map[string]any{"data": data})
	if err != nil {
		return nil, fmt.Errorf("create student profile: %w", err)
	}

	raw, err := decodeOne[rawStudent](resp, "studentProfileCreate", userID)
	if err != nil {
		return nil, err
	}
	p := transformStudent(*raw)
	return &p, nil
}

// UpdateStudent patches student-profile fields through the
// drift-tolerant shapes and re-fetches the record.
func (s *Store) UpdateStudent(ctx context.Context, profileID string, fields map[string]any) (*domain.StudentProfile, error) {
	ctx, span := tracer.Start(ctx, "Store.UpdateStudent")
	defer span.End()

	if err := s.mutateWithShapes(ctx, "studentProfile", "StudentProfileUpdate", updateShapes("StudentProfileUpdate", "studentProfileUpdate"), profileID, fields); err != nil {
		return nil, err
	}
	return s.GetStudent(ctx, profileID)
}

// ConnectCoach attaches a coach to a student profile. The backend
// replaces any existing connection, which makes repeat connects of the
// same coach idempotent.
func (s *Store) ConnectCoach(ctx context.Context, profileID, coachID string) error {
	ctx, span := tracer.Start(ctx, "Store.ConnectCoach")
	defer span.End()

	_, err := s.g.Mutate(ctx, "StudentProfileCoach", studentCoachDoc, map[string]any{
		"id":   profileID,
		"data": map[string]any{"coach": connect(coachID)},
	})
	if err != nil {
		s.logger.Warn("connect coach failed",
			zap.String("student_profile_id", profileID),
			zap.String("coach_id", coachID),
			zap.Error(err),
		)
	}
	return err
}

// DisconnectCoach detaches a coach from a student profile. The caller
// must supply the currently-connected coach id.
func (s *Store) DisconnectCoach(ctx context.Context, profileID, coachID string) error {
	ctx, span := tracer.Start(ctx, "Store.DisconnectCoach")
	defer span.End()

	_, err := s.g.Mutate(ctx, "StudentProfileCoach", studentCoachDoc, map[string]any{
		"id":   profileID,
		"data": map[string]any{"coach": disconnect(coachID)},
	})
	return err
}

// DeleteStudentProfile deletes a student profile record.
func (s *Store) DeleteStudentProfile(ctx context.Context, profileID string) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteStudentProfile")
	defer span.End()

	_, err := s.g.Mutate(ctx, "StudentProfileDelete", studentDeleteDoc, map[string]any{"id": profileID})
	return err
}

// --- Coaches ---

// ListCoaches fetches all coach profiles.
func (s *Store) ListCoaches(ctx context.Context) ([]domain.CoachProfile, error) {
	return s.listCoaches(ctx, map[string]any{})
}

// GetCoachByUserID fetches the coach profile connected to a user.
// Not found is not an error; the caller gets nil.
func (s *Store) GetCoachByUserID(ctx context.Context, userID string) (*domain.CoachProfile, error) {
	rows, err := s.listCoaches(ctx, relEq("user", userID))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *Store) listCoaches(ctx context.Context, filter map[string]any) ([]domain.CoachProfile, error) {
	ctx, span := tracer.Start(ctx, "Store.ListCoaches")
	defer span.End()

	data, err := s.g.Query(ctx, "CoachProfiles", coachesListDoc, map[string]any{"filter": filter})
	if err != nil {
		return nil, err
	}

	rows, err := decodeList[rawCoach](data, "coachProfiles")
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.CoachProfile, 0, len(rows))
	for _, r := range rows {
		profiles = append(profiles, transformCoach(r))
	}
	return profiles, nil
}

// CreateCoachProfile creates a coach profile connected to its user.
func (s *Store) CreateCoachProfile(ctx context.Context, userID, name, email, bio string) (*domain.CoachProfile, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateCoachProfile")
	defer span.End()

	data := map[string]any{
		"id":    uuid.New().String(),
		"name":  name,
		"email": email,
		"bio":   bio,
		"user":  connect(userID),
	}

	resp, err := s.g.Mutate(ctx, "CoachProfileCreate", coachCreateDoc, map[string]any{"data": data})
	if err != nil {
		return nil, fmt.Errorf("create coach profile: %w", err)
	}

	raw, err := decodeOne[rawCoach](resp, "coachProfileCreate", userID)
	if err != nil {
		return nil, err
	}
	p := transformCoach(*raw)
	return &p, nil
}

// UpdateCoach patches coach-profile fields through the drift-tolerant
// shapes.
func (s *Store) UpdateCoach(ctx context.Context, profileID string, fields map[string]any) error {
	ctx, span := tracer.Start(ctx, "Store.UpdateCoach")
	defer span.End()

	return s.mutateWithShapes(ctx, "coachProfile", "CoachProfileUpdate", updateShapes("CoachProfileUpdate", "coachProfileUpdate"), profileID, fields)
}

// DeleteCoachProfile deletes a coach profile record.
func (s *Store) DeleteCoachProfile(ctx context.Context, profileID string) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteCoachProfile")
	defer span.End()

	_, err := s.g.Mutate(ctx, "CoachProfileDelete", coachDeleteDoc, map[string]any{"id": profileID})
	return err
}

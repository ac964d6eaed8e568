// Package service — AccountService handles the user lifecycle: role
// resolution, the two-step user+profile creation, updates and the
// profile-first deletion order.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/infra/observability"
	"github.com/mhalvorsen/coachdesk/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var accountTracer = otel.Tracer("service/accounts")

// AccountService orchestrates user and profile operations.
type AccountService struct {
	store   port.AccountStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(store port.AccountStore, metrics *observability.Metrics, logger *zap.Logger) *AccountService {
	return &AccountService{store: store, metrics: metrics, logger: logger}
}

// ============================================================
// Users
// ============================================================

func (s *AccountService) ListUsers(ctx context.Context) ([]domain.User, error) {
	ctx, span := accountTracer.Start(ctx, "AccountService.ListUsers")
	defer span.End()

	return s.store.ListUsers(ctx)
}

func (s *AccountService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	ctx, span := accountTracer.Start(ctx, "AccountService.GetUser")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	return s.store.GetUser(ctx, userID)
}

// resolveRoleID maps a requested role to a backend role-relation id.
// The roles table has drifted alongside everything else, so each
// accepted spelling of the role is tried against the table,
// case-insensitively, exact name first.
func (s *AccountService) resolveRoleID(ctx context.Context, role domain.Role) (string, error) {
	roles, err := s.store.ListRoles(ctx)
	if err != nil {
		return "", fmt.Errorf("list roles: %w", err)
	}

	for _, alias := range domain.RoleAliases(role) {
		for _, r := range roles {
			if strings.EqualFold(r.Name, alias) {
				return r.ID, nil
			}
		}
	}
	return "", &domain.ErrNotFound{Resource: "role", ID: string(role)}
}

// CreateUser runs the two-step creation workflow: the user record with
// its role connection first, then the role-specific profile. The
// profile step is best-effort — a failure there is logged, reported and
// swallowed, and the user is returned as created so the caller is never
// left with a half-error for a committed record. The reconciliation
// sweep repairs the missing profile later.
func (s *AccountService) CreateUser(ctx context.Context, req *domain.CreateUserRequest) (*domain.CreateUserResult, error) {
	ctx, span := accountTracer.Start(ctx, "AccountService.CreateUser")
	defer span.End()

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return nil, &domain.ErrValidation{Field: "role", Message: "unknown role: " + req.Role}
	}

	if existing, err := s.store.GetUserByEmail(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	} else if existing != nil {
		return nil, &domain.ErrConflict{Message: "email already registered"}
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	roleID, err := s.resolveRoleID(ctx, role)
	if err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, req, roleID, hash)
	if err != nil {
		return nil, err
	}

	result := &domain.CreateUserResult{User: user}

	profileID, perr := s.createProfile(ctx, user.ID, role, req)
	if perr != nil {
		// The user exists; surfacing this as a failure would invite a
		// duplicate-creating retry of the whole workflow.
		s.logger.Error("profile creation failed after user create, continuing",
			zap.String("user_id", user.ID),
			zap.String("role", string(role)),
			zap.Error(perr),
		)
		observability.CaptureErr(perr)
		s.metrics.IncrSwallowed("create_profile")
		result.ProfileError = perr.Error()
		return result, nil
	}

	result.ProfileID = profileID
	result.ProfileCreated = profileID != ""
	user.ProfileID = profileID

	s.logger.Info("user created",
		zap.String("user_id", user.ID),
		zap.String("role", string(role)),
		zap.Bool("profile_created", result.ProfileCreated),
	)
	return result, nil
}

// createProfile creates the role-specific profile record. Manager and
// super-admin accounts carry no profile.
func (s *AccountService) createProfile(ctx context.Context, userID string, role domain.Role, req *domain.CreateUserRequest) (string, error) {
	switch role {
	case domain.RoleUser:
		seed := &domain.StudentProfile{
			BusinessName: req.BusinessName,
			Location:     req.Location,
		}
		p, err := s.store.CreateStudentProfile(ctx, userID, seed)
		if err != nil {
			return "", err
		}
		return p.ID, nil
	case domain.RoleCoach:
		p, err := s.store.CreateCoachProfile(ctx, userID, req.Name, req.Email, req.Bio)
		if err != nil {
			return "", err
		}
		return p.ID, nil
	default:
		return "", nil
	}
}

func (s *AccountService) UpdateUser(ctx context.Context, userID string, fields map[string]any) (*domain.User, error) {
	ctx, span := accountTracer.Start(ctx, "AccountService.UpdateUser")
	defer span.End()

	// Password changes come in plaintext and leave as a hash.
	if pw, ok := fields["password"].(string); ok {
		hash, err := HashPassword(pw)
		if err != nil {
			return nil, err
		}
		delete(fields, "password")
		fields["passwordHash"] = hash
	}

	return s.store.UpdateUser(ctx, userID, fields)
}

// DeleteUser removes a user and its profile, profile first. An orphaned
// profile without a user is invisible to every list the dashboard
// shows; a user without a profile is not, so the user record goes last.
func (s *AccountService) DeleteUser(ctx context.Context, userID string) error {
	ctx, span := accountTracer.Start(ctx, "AccountService.DeleteUser")
	defer span.End()

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	switch user.Role {
	case domain.RoleUser:
		if profile, err := s.store.GetStudentByUserID(ctx, userID); err == nil && profile != nil {
			if err := s.store.DeleteStudentProfile(ctx, profile.ID); err != nil {
				return fmt.Errorf("delete student profile: %w", err)
			}
		}
	case domain.RoleCoach:
		if profile, err := s.store.GetCoachByUserID(ctx, userID); err == nil && profile != nil {
			if err := s.store.DeleteCoachProfile(ctx, profile.ID); err != nil {
				return fmt.Errorf("delete coach profile: %w", err)
			}
		}
	}

	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info("user deleted",
		zap.String("user_id", userID),
		zap.String("role", string(user.Role)),
	)
	return nil
}

// ============================================================
// Profiles
// ============================================================

func (s *AccountService) ListStudents(ctx context.Context) ([]domain.StudentProfile, error) {
	ctx, span := accountTracer.Start(ctx, "AccountService.ListStudents")
	defer span.End()

	return s.store.ListStudents(ctx)
}

func (s *AccountService) GetStudent(ctx context.Context, profileID string) (*domain.StudentProfile, error) {
	ctx, span := accountTracer.Start(ctx, "AccountService.GetStudent")
	defer span.End()

	return s.store.GetStudent(ctx, profileID)
}

// GetStudentForUser resolves a user id to its student profile.
func (s *AccountService) GetStudentForUser(ctx context.Context, userID string) (*domain.StudentProfile, error) {
	ctx, span := accountTracer.Start(ctx, "AccountService.GetStudentForUser")
	defer span.End()

	profile, err := s.store.GetStudentByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, &domain.ErrNotFound{Resource: "studentProfile", ID: userID}
	}
	return profile, nil
}

func (s *AccountService) UpdateStudent(ctx context.Context, profileID string, fields map[string]any) (*domain.StudentProfile, error) {
	ctx, span := accountTracer.Start(ctx, "AccountService.UpdateStudent")
	defer span.End()

	return s.store.UpdateStudent(ctx, profileID, fields)
}

// ListStudentsForCoachUser resolves a coach's user id to their coach
// profile and returns the students connected to it.
func (s *AccountService) ListStudentsForCoachUser(ctx context.Context, userID string) ([]domain.StudentProfile, error) {
	ctx, span := accountTracer.Start(ctx, "AccountService.ListStudentsForCoachUser")
	defer span.End()

	coach, err := s.store.GetCoachByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if coach == nil {
		return nil, &domain.ErrNotFound{Resource: "coachProfile", ID: userID}
	}
	return s.store.ListStudentsByCoach(ctx, coach.ID)
}

func (s *AccountService) ListCoaches(ctx context.Context) ([]domain.CoachProfile, error) {
	ctx, span := accountTracer.Start(ctx, "AccountService.ListCoaches")
	defer span.End()

	return s.store.ListCoaches(ctx)
}

func (s *AccountService) UpdateCoach(ctx context.Context, profileID string, fields map[string]any) error {
	ctx, span := accountTracer.Start(ctx, "AccountService.UpdateCoach")
	defer span.End()

	return s.store.UpdateCoach(ctx, profileID, fields)
}

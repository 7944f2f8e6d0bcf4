package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthsys/clinic-api/internal/domain"
)

// UserService handles administrative user provisioning. Users are never
// deleted; deactivation is the only removal path.
type UserService struct {
	repo     UserRepository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewUserService(repo UserRepository, auditSvc *AuditService, log *zap.Logger) *UserService {
	return &UserService{repo: repo, auditSvc: auditSvc, log: log}
}

type CreateUserCommand struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

func (s *UserService) CreateUser(ctx context.Context, cmd *CreateUserCommand, callerID uuid.UUID, callerRole string, ip string) (*domain.User, error) {
	var errs []string
	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(cmd.Email) == "" {
		errs = append(errs, "email is required")
	}
	if !cmd.Role.IsValid() {
		errs = append(errs, "role is invalid")
	}
	if len(cmd.Password) < 12 {
		errs = append(errs, "password must be at least 12 characters")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &domain.User{
		Name:         strings.TrimSpace(cmd.Name),
		Email:        strings.ToLower(strings.TrimSpace(cmd.Email)),
		PasswordHash: string(hash),
		Role:         cmd.Role,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "user",
		ResourceID:   u.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("user provisioned",
		zap.String("user_id", u.ID.String()),
		zap.String("role", string(u.Role)),
		zap.String("created_by", callerID.String()),
	)

	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

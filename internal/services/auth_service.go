package services

import (
	"net/http"
	"strings"

	"easybuk_backend/internal/auth"
	"easybuk_backend/internal/email"
	"easybuk_backend/internal/logger"
	"easybuk_backend/internal/models"
	"easybuk_backend/internal/repositories"
	"easybuk_backend/internal/services/dto"
	"easybuk_backend/pkg/apperrors"

	"github.com/google/uuid"
)

var (
	errEmailAlreadyExists = apperrors.New(apperrors.CodeAlreadyExists, "auth", "Email is already registered", http.StatusConflict)
	errInvalidCredentials = apperrors.New(apperrors.CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)
	errAccountSuspended   = apperrors.New(apperrors.CodeForbidden, "auth", "Account is suspended", http.StatusForbidden)
)

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req *dto.LoginRequest) (*dto.AuthResponse, error)
	VerifyEmail(token string) error
}

type AuthServiceImpl struct {
	userRepo        repositories.UserRepository
	entityRepo      repositories.EntityRepository
	notificationSvc NotificationService
	emailProvider   email.Provider
}

func NewAuthService(
	userRepo repositories.UserRepository,
	entityRepo repositories.EntityRepository,
	notificationSvc NotificationService,
	emailProvider email.Provider,
) AuthService {
	return &AuthServiceImpl{
		userRepo:        userRepo,
		entityRepo:      entityRepo,
		notificationSvc: notificationSvc,
		emailProvider:   emailProvider,
	}
}

func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	role := models.UserRole(req.Role)
	if role != models.UserRoleClient && role != models.UserRoleProvider {
		return nil, apperrors.ErrInvalidUserRole
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:             strings.ToLower(req.Email),
		PasswordHash:      hashedPassword,
		Role:              role,
		Status:            models.UserStatusPending,
		VerificationToken: uuid.NewString(),
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, errEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	entityID, err := s.createDomainEntity(user, req)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Welcome notification and mail are best-effort; registration already
	// succeeded. The verification mail carries the token VerifyEmail expects.
	if err := s.notificationSvc.NotifyWelcome(&dto.WelcomeEvent{
		AccountID: user.ID,
		Role:      string(role),
		Name:      req.Name,
	}); err != nil {
		logger.WithError(err).Warn("welcome notification not recorded", "user_id", user.ID)
	}
	if err := s.emailProvider.SendWelcome(user.Email, req.Name, string(role)); err != nil {
		logger.WithError(err).Warn("welcome email not sent", "user_id", user.ID)
	}
	if err := s.emailProvider.SendVerification(user.Email, user.VerificationToken); err != nil {
		logger.WithError(err).Warn("verification email not sent", "user_id", user.ID)
	}

	accessToken, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken: accessToken,
		User: dto.UserResponse{
			ID:         user.ID,
			Email:      user.Email,
			Role:       string(user.Role),
			Name:       req.Name,
			EntityID:   entityID,
			IsVerified: user.IsVerified,
		},
	}, nil
}

func (s *AuthServiceImpl) createDomainEntity(user *models.User, req *dto.RegisterRequest) (string, error) {
	switch user.Role {
	case models.UserRoleProvider:
		provider := &models.ServiceProvider{
			UserID:   user.ID,
			Name:     req.Name,
			Category: req.Category,
			City:     req.City,
		}
		if err := s.entityRepo.CreateProvider(provider); err != nil {
			return "", err
		}
		return provider.ID, nil
	default:
		client := &models.Client{
			UserID: user.ID,
			Name:   req.Name,
			Phone:  req.Phone,
			City:   req.City,
		}
		if err := s.entityRepo.CreateClient(client); err != nil {
			return "", err
		}
		return client.ID, nil
	}
}

func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(req.Email))
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, errInvalidCredentials
	}

	if user.Status == models.UserStatusSuspended || user.Status == models.UserStatusBanned {
		return nil, errAccountSuspended
	}

	accessToken, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	name := ""
	entityID := ""
	if ids := s.notificationSvc.ResolveEntityIDs(user.ID); len(ids) > 0 {
		entityID = ids[0]
	}
	switch user.Role {
	case models.UserRoleClient:
		if client, err := s.entityRepo.FindClientByUserID(user.ID); err == nil {
			name = client.Name
		}
	case models.UserRoleProvider:
		if provider, err := s.entityRepo.FindProviderByUserID(user.ID); err == nil {
			name = provider.Name
		}
	case models.UserRoleAdmin:
		if admin, err := s.entityRepo.FindAdminByUserID(user.ID); err == nil {
			name = admin.Name
		}
	}

	return &dto.AuthResponse{
		AccessToken: accessToken,
		User: dto.UserResponse{
			ID:         user.ID,
			Email:      user.Email,
			Role:       string(user.Role),
			Name:       name,
			EntityID:   entityID,
			IsVerified: user.IsVerified,
		},
	}, nil
}

func (s *AuthServiceImpl) VerifyEmail(token string) error {
	if token == "" {
		return apperrors.NewBadRequestError("Verification token is required")
	}
	user, err := s.userRepo.FindByVerificationToken(token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.VerifyUser(user.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

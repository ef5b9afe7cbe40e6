package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/tarpaulin-edu/course-service/internal/auth"
	"github.com/tarpaulin-edu/course-service/internal/models"
	"github.com/tarpaulin-edu/course-service/internal/repositories"
	"github.com/tarpaulin-edu/course-service/internal/validator"
)

// PNG file signature; avatar uploads must carry it.
var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

type userService struct {
	repo        repositories.Repository
	avatarStore repositories.AvatarStore
	provider    CredentialExchanger
	logger      *slog.Logger
	validator   *validator.Validator
}

func NewUserService(
	repo repositories.Repository,
	avatarStore repositories.AvatarStore,
	provider CredentialExchanger,
	logger *slog.Logger,
	validator *validator.Validator,
) UserService {
	return &userService{
		repo:        repo,
		avatarStore: avatarStore,
		provider:    provider,
		logger:      logger,
		validator:   validator,
	}
}

func (s *userService) List(ctx context.Context, actor *models.User) ([]*models.User, error) {
	if err := CanListUsers(actor); err != nil {
		return nil, err
	}
	return s.repo.User().List(ctx, repositories.UserFilters{})
}

func (s *userService) Get(ctx context.Context, actor *models.User, id uint) (*UserDetail, error) {
	if err := CanViewUser(actor, id); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	hasAvatar, err := s.repo.Avatar().Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("check avatar: %w", err)
	}

	detail := &UserDetail{User: user, HasAvatar: hasAvatar}

	// Admins are never enrolled or assigned; their detail carries no
	// course membership.
	switch user.Role {
	case models.RoleStudent:
		detail.CourseIDs, err = s.repo.Course().GetCourseIDsByStudent(ctx, id)
	case models.RoleInstructor:
		detail.CourseIDs, err = s.repo.Course().GetCourseIDsByInstructor(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve courses for user %d: %w", id, err)
	}

	return detail, nil
}

func (s *userService) Login(ctx context.Context, req *LoginRequest) (string, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidField, errs.Error())
	}

	token, err := s.provider.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthenticated) {
			return "", ErrUnauthenticated
		}
		return "", fmt.Errorf("exchange credentials: %w", err)
	}
	return token, nil
}

// ===== AVATARS =====

func (s *userService) GetAvatar(ctx context.Context, actor *models.User, userID uint) ([]byte, error) {
	if err := CanAccessAvatar(actor, userID); err != nil {
		return nil, err
	}

	exists, err := s.repo.Avatar().Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check avatar: %w", err)
	}
	if !exists {
		return nil, ErrAvatarNotFound
	}

	data, err := s.avatarStore.Download(ctx, models.AvatarObjectKey(userID))
	if err != nil {
		if errors.Is(err, repositories.ErrObjectNotFound) {
			// Presence record without a blob; treat as absent.
			return nil, ErrAvatarNotFound
		}
		return nil, fmt.Errorf("download avatar: %w", err)
	}
	return data, nil
}

func (s *userService) UploadAvatar(ctx context.Context, actor *models.User, userID uint, data []byte) error {
	if err := CanAccessAvatar(actor, userID); err != nil {
		return err
	}
	if len(data) < len(pngSignature) || !bytes.HasPrefix(data, pngSignature) {
		return ErrInvalidAvatar
	}

	if err := s.avatarStore.Upload(ctx, models.AvatarObjectKey(userID), data); err != nil {
		return fmt.Errorf("upload avatar: %w", err)
	}
	if err := s.repo.Avatar().Create(ctx, userID); err != nil {
		return fmt.Errorf("record avatar: %w", err)
	}
	return nil
}

func (s *userService) DeleteAvatar(ctx context.Context, actor *models.User, userID uint) error {
	if err := CanAccessAvatar(actor, userID); err != nil {
		return err
	}

	exists, err := s.repo.Avatar().Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check avatar: %w", err)
	}
	if !exists {
		return ErrAvatarNotFound
	}

	if err := s.avatarStore.Delete(ctx, models.AvatarObjectKey(userID)); err != nil {
		if !errors.Is(err, repositories.ErrObjectNotFound) {
			return fmt.Errorf("delete avatar blob: %w", err)
		}
		// Record without a blob: clean up the record anyway.
		s.logger.Warn("avatar record had no blob", "user_id", userID)
	}
	return s.repo.Avatar().Delete(ctx, userID)
}

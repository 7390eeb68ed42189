package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/padelops/club-system/billing"
	"github.com/padelops/club-system/models"
	"github.com/padelops/club-system/repositories"
	"github.com/padelops/club-system/storage"
)

var allowedLogoContentTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

type CreateClubInput struct {
	Name              string  `json:"name" validate:"required"`
	Email             string  `json:"email" validate:"required,email"`
	City              *string `json:"city"`
	CommissionRateBPS *int    `json:"commission_rate_bps"`
	ProviderAccountID *string `json:"provider_account_id"`
}

type ClubService interface {
	CreateClub(ctx context.Context, input CreateClubInput) (*models.Club, error)
	GetClub(ctx context.Context, id int) (*models.Club, error)
	ListClubs(ctx context.Context, limit, offset int) ([]models.Club, error)
	UploadLogo(ctx context.Context, clubID int, contentType string, file io.Reader) (*models.Club, error)
}

type clubService struct {
	clubRepo repositories.ClubRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewClubService(clubRepo repositories.ClubRepository, uploader storage.FileUploader, logger *slog.Logger) ClubService {
	return &clubService{clubRepo: clubRepo, uploader: uploader, logger: logger}
}

func (s *clubService) CreateClub(ctx context.Context, input CreateClubInput) (*models.Club, error) {
	if input.CommissionRateBPS != nil {
		if err := billing.ValidateRate(*input.CommissionRateBPS); err != nil {
			return nil, err
		}
	}

	club := &models.Club{
		Name:              strings.TrimSpace(input.Name),
		Email:             input.Email,
		City:              input.City,
		CommissionRateBPS: input.CommissionRateBPS,
		ProviderAccountID: input.ProviderAccountID,
	}
	if err := s.clubRepo.Create(ctx, club); err != nil {
		if errors.Is(err, repositories.ErrClubNameConflict) {
			return nil, ErrClubNameTaken
		}
		return nil, err
	}
	return club, nil
}

func (s *clubService) GetClub(ctx context.Context, id int) (*models.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	s.populateLogoURL(club)
	return club, nil
}

func (s *clubService) ListClubs(ctx context.Context, limit, offset int) ([]models.Club, error) {
	if limit <= 0 {
		limit = 20
	}
	clubs, err := s.clubRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range clubs {
		s.populateLogoURL(&clubs[i])
	}
	return clubs, nil
}

// UploadLogo stores the new logo, points the club at it and removes the
// previous object. A failed delete of the old object is logged and
// otherwise ignored.
func (s *clubService) UploadLogo(ctx context.Context, clubID int, contentType string, file io.Reader) (*models.Club, error) {
	ext, ok := allowedLogoContentTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported logo content type %q", ErrValidationFailed, contentType)
	}

	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("clubs/%d/logo-%s.%s", clubID, uuid.NewString(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload club logo: %w", err)
	}

	oldKey := club.LogoKey
	if err := s.clubRepo.UpdateLogoKey(ctx, clubID, &result.Key); err != nil {
		return nil, err
	}

	if oldKey != nil && *oldKey != result.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous club logo",
				slog.Int("club_id", clubID),
				slog.String("key", *oldKey),
				slog.Any("error", err))
		}
	}

	club.LogoKey = &result.Key
	s.populateLogoURL(club)
	return club, nil
}

func (s *clubService) populateLogoURL(club *models.Club) {
	if s.uploader == nil || club.LogoKey == nil {
		return
	}
	url := s.uploader.GetPublicURL(*club.LogoKey)
	club.LogoURL = &url
}

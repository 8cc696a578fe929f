package amenities

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/Domenick1991/hallbooking/internal/logging"
	"github.com/Domenick1991/hallbooking/internal/repository"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const maxNameLength = 100

type AmenityUseCase interface {
	CreateAmenity(ctx context.Context, admin domain.Principal, name string) (*domain.Amenity, error)
	AssignToHall(ctx context.Context, admin domain.Principal, hallID int64, amenityIDs []int64) ([]domain.Amenity, error)
	List(ctx context.Context) ([]domain.Amenity, error)
	ListByHall(ctx context.Context, hallID int64) ([]domain.Amenity, error)
}

// HallReader resolves the owner of a hall.
type HallReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Hall, error)
}

type AmenityService struct {
	repo   repository.AmenityRepository
	halls  HallReader
	logger zerolog.Logger
}

func NewAmenityService(repo repository.AmenityRepository, halls HallReader, logger zerolog.Logger) *AmenityService {
	return &AmenityService{
		repo:   repo,
		halls:  halls,
		logger: logging.Category(logger, logging.TypeAdmin),
	}
}

// CreateAmenity adds a catalogue entry. Names are compared ignoring case, so
// "Parking" and "parking" collide with domain.ErrAlreadyExists.
func (s *AmenityService) CreateAmenity(ctx context.Context, admin domain.Principal, name string) (*domain.Amenity, error) {
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return nil, fmt.Errorf("%w: amenity name must be 1 to %d characters", domain.ErrInvalidInput, maxNameLength)
	}

	amenity := &domain.Amenity{Name: name}
	if err := s.repo.Create(ctx, amenity); err != nil {
		return nil, fmt.Errorf("create amenity %q: %w", name, err)
	}
	s.logger.Info().Int64("admin_id", admin.ID).Int64("amenity_id", amenity.ID).Str("name", name).Msg("amenity created")
	return amenity, nil
}

// AssignToHall attaches amenities to a hall owned by admin and returns the
// hall's full amenity list. Already attached amenities are skipped.
func (s *AmenityService) AssignToHall(ctx context.Context, admin domain.Principal, hallID int64, amenityIDs []int64) ([]domain.Amenity, error) {
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	amenityIDs = lo.Uniq(amenityIDs)
	if len(amenityIDs) == 0 {
		return nil, fmt.Errorf("%w: amenity_ids is required", domain.ErrInvalidInput)
	}
	if lo.SomeBy(amenityIDs, func(id int64) bool { return id <= 0 }) {
		return nil, fmt.Errorf("%w: amenity ids must be positive", domain.ErrInvalidInput)
	}

	hall, err := s.halls.GetByID(ctx, hallID)
	if err != nil {
		return nil, err
	}
	if hall.AdminID != admin.ID {
		return nil, fmt.Errorf("%w: hall %d belongs to another admin", domain.ErrForbidden, hallID)
	}

	if err := s.repo.Assign(ctx, hallID, amenityIDs); err != nil {
		return nil, fmt.Errorf("assign amenities to hall %d: %w", hallID, err)
	}
	s.logger.Info().Int64("admin_id", admin.ID).Int64("hall_id", hallID).Ints64("amenity_ids", amenityIDs).Msg("amenities assigned")

	return s.repo.ListByHall(ctx, hallID)
}

func (s *AmenityService) List(ctx context.Context) ([]domain.Amenity, error) {
	return s.repo.List(ctx)
}

func (s *AmenityService) ListByHall(ctx context.Context, hallID int64) ([]domain.Amenity, error) {
	return s.repo.ListByHall(ctx, hallID)
}

var _ AmenityUseCase = (*AmenityService)(nil)

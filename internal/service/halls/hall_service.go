package halls

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/hallbooking/internal/cache"
	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/Domenick1991/hallbooking/internal/logging"
	"github.com/Domenick1991/hallbooking/internal/repository"
	"github.com/rs/zerolog"
)

type HallUseCase interface {
	CreateHall(ctx context.Context, admin domain.Principal, input HallInput) (*domain.Hall, error)
	UpdateHall(ctx context.Context, admin domain.Principal, id int64, input HallInput) (*domain.Hall, error)
	DeleteHall(ctx context.Context, admin domain.Principal, id int64) error
	List(ctx context.Context, page domain.Page) ([]domain.Hall, error)
	GetByID(ctx context.Context, id int64) (*domain.Hall, error)
	SearchByName(ctx context.Context, query string) ([]domain.Hall, error)
	FilterByLocation(ctx context.Context, location string) ([]domain.Hall, error)
	ListOwned(ctx context.Context, admin domain.Principal) ([]domain.Hall, error)
}

type HallCache interface {
	GetHalls(ctx context.Context, key string) ([]domain.Hall, bool, error)
	SetHalls(ctx context.Context, key string, halls []domain.Hall) error
	GetHall(ctx context.Context, id int64) (*domain.Hall, bool, error)
	SetHall(ctx context.Context, hall *domain.Hall) error
	InvalidateHall(ctx context.Context, id int64) error
}

type HallInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"`
	Address     string `json:"address"`
	Location    string `json:"location"`
	domain.RateCard
}

// Validate checks the fields an admin must provide for a hall.
func (in HallInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	case strings.TrimSpace(in.Address) == "":
		return fmt.Errorf("%w: address is required", domain.ErrInvalidInput)
	case strings.TrimSpace(in.Location) == "":
		return fmt.Errorf("%w: location is required", domain.ErrInvalidInput)
	case in.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	case in.PricePerHour < 0 || in.PricePerDay < 0 || in.SecurityDeposit < 0:
		return fmt.Errorf("%w: prices cannot be negative", domain.ErrInvalidInput)
	case in.WeekendPriceMultiplier < 1:
		return fmt.Errorf("%w: weekend price multiplier must be at least 1", domain.ErrInvalidInput)
	}
	return nil
}

func (in HallInput) apply(h *domain.Hall) {
	h.Name = strings.TrimSpace(in.Name)
	h.Description = in.Description
	h.Capacity = in.Capacity
	h.Address = strings.TrimSpace(in.Address)
	h.Location = strings.TrimSpace(in.Location)
	h.RateCard = in.RateCard
}

type HallService struct {
	repo   repository.HallRepository
	cache  HallCache
	logger zerolog.Logger
}

type HallServiceOption func(*HallService)

// WithCache enables the read-through cache. A nil cache is ignored.
func WithCache(c HallCache) HallServiceOption {
	return func(s *HallService) {
		s.cache = c
	}
}

func WithLogger(logger zerolog.Logger) HallServiceOption {
	return func(s *HallService) {
		s.logger = logger
	}
}

func NewHallService(repo repository.HallRepository, opts ...HallServiceOption) *HallService {
	s := &HallService{repo: repo, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.Category(s.logger, logging.TypeAdmin)
	return s
}

func (s *HallService) CreateHall(ctx context.Context, admin domain.Principal, input HallInput) (*domain.Hall, error) {
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	hall := &domain.Hall{AdminID: admin.ID}
	input.apply(hall)
	if err := s.repo.Create(ctx, hall); err != nil {
		return nil, fmt.Errorf("create hall: %w", err)
	}
	s.invalidate(ctx, hall.ID)

	s.logger.Info().Int64("admin_id", admin.ID).Int64("hall_id", hall.ID).Msg("hall created")
	return hall, nil
}

func (s *HallService) UpdateHall(ctx context.Context, admin domain.Principal, id int64, input HallInput) (*domain.Hall, error) {
	hall, err := s.owned(ctx, admin, id)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	input.apply(hall)
	if err := s.repo.Update(ctx, hall); err != nil {
		return nil, fmt.Errorf("update hall %d: %w", id, err)
	}
	s.invalidate(ctx, id)

	s.logger.Info().Int64("admin_id", admin.ID).Int64("hall_id", id).Msg("hall updated")
	return hall, nil
}

func (s *HallService) DeleteHall(ctx context.Context, admin domain.Principal, id int64) error {
	if _, err := s.owned(ctx, admin, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("delete hall %d: %w", id, err)
	}
	s.invalidate(ctx, id)

	s.logger.Info().Int64("admin_id", admin.ID).Int64("hall_id", id).Msg("hall deleted")
	return nil
}

func (s *HallService) List(ctx context.Context, page domain.Page) ([]domain.Hall, error) {
	if page.Number < 1 || page.Limit < 1 || page.Limit > 100 {
		return nil, fmt.Errorf("%w: page must be >= 1 and limit in [1, 100]", domain.ErrInvalidInput)
	}
	return s.cachedList(ctx, cache.ListKey(page), func() ([]domain.Hall, error) {
		return s.repo.List(ctx, page)
	})
}

func (s *HallService) GetByID(ctx context.Context, id int64) (*domain.Hall, error) {
	if s.cache != nil {
		hall, ok, err := s.cache.GetHall(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Int64("hall_id", id).Msg("hall cache read failed")
		} else if ok {
			return hall, nil
		}
	}

	hall, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetHall(ctx, hall); err != nil {
			s.logger.Warn().Err(err).Int64("hall_id", id).Msg("hall cache write failed")
		}
	}
	return hall, nil
}

func (s *HallService) SearchByName(ctx context.Context, query string) ([]domain.Hall, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", domain.ErrInvalidInput)
	}
	return s.cachedList(ctx, cache.SearchKey(query), func() ([]domain.Hall, error) {
		return s.repo.SearchByName(ctx, query)
	})
}

func (s *HallService) FilterByLocation(ctx context.Context, location string) ([]domain.Hall, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: location is required", domain.ErrInvalidInput)
	}
	return s.cachedList(ctx, cache.LocationKey(location), func() ([]domain.Hall, error) {
		return s.repo.FilterByLocation(ctx, location)
	})
}

func (s *HallService) ListOwned(ctx context.Context, admin domain.Principal) ([]domain.Hall, error) {
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListByAdmin(ctx, admin.ID)
}

func (s *HallService) owned(ctx context.Context, admin domain.Principal, id int64) (*domain.Hall, error) {
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	hall, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if hall.AdminID != admin.ID {
		return nil, fmt.Errorf("%w: hall %d belongs to another admin", domain.ErrForbidden, id)
	}
	return hall, nil
}

// cachedList serves key from the cache, falling back to load on a miss or
// cache failure.
func (s *HallService) cachedList(ctx context.Context, key string, load func() ([]domain.Hall, error)) ([]domain.Hall, error) {
	if s.cache != nil {
		halls, ok, err := s.cache.GetHalls(ctx, key)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("hall cache read failed")
		} else if ok {
			return halls, nil
		}
	}

	halls, err := load()
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetHalls(ctx, key, halls); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("hall cache write failed")
		}
	}
	return halls, nil
}

func (s *HallService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateHall(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int64("hall_id", id).Msg("hall cache invalidation failed")
	}
}

var _ HallUseCase = (*HallService)(nil)

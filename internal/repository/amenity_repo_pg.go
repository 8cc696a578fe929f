package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
)

type AmenityRepository interface {
	Create(ctx context.Context, amenity *domain.Amenity) error
	List(ctx context.Context) ([]domain.Amenity, error)
	ListByHall(ctx context.Context, hallID int64) ([]domain.Amenity, error)
	// Assign attaches amenityIDs to a live hall. Pairs that already exist are
	// left alone, so assigning twice is a no-op.
	Assign(ctx context.Context, hallID int64, amenityIDs []int64) error
}

type PGAmenityRepository struct {
	db *pgxpool.Pool
}

func NewAmenityRepository(db *pgxpool.Pool) AmenityRepository {
	return &PGAmenityRepository{db: db}
}

func (r *PGAmenityRepository) Create(ctx context.Context, amenity *domain.Amenity) error {
	err := r.db.QueryRow(ctx, `INSERT INTO amenities (name) VALUES ($1) RETURNING id`,
		strings.TrimSpace(amenity.Name)).Scan(&amenity.ID)
	return mapError(err)
}

func (r *PGAmenityRepository) List(ctx context.Context) ([]domain.Amenity, error) {
	return r.query(ctx, `SELECT id, name FROM amenities ORDER BY lower(name)`)
}

func (r *PGAmenityRepository) ListByHall(ctx context.Context, hallID int64) ([]domain.Amenity, error) {
	if err := hallExists(ctx, r.db, hallID); err != nil {
		return nil, err
	}
	return r.query(ctx, `SELECT a.id, a.name FROM amenities a
		JOIN hall_amenities ha ON ha.amenity_id = a.id
		WHERE ha.hall_id=$1 ORDER BY lower(a.name)`, hallID)
}

func (r *PGAmenityRepository) Assign(ctx context.Context, hallID int64, amenityIDs []int64) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := hallExists(ctx, tx, hallID); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `SELECT id FROM amenities WHERE id = ANY($1)`, amenityIDs)
		if err != nil {
			return err
		}
		found, err := pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			return err
		}
		if missing := lo.Without(amenityIDs, found...); len(missing) > 0 {
			return fmt.Errorf("%w: amenity %d", domain.ErrNotFound, missing[0])
		}

		_, err = tx.Exec(ctx, `INSERT INTO hall_amenities (hall_id, amenity_id)
			SELECT $1, unnest($2::bigint[])
			ON CONFLICT (hall_id, amenity_id) DO NOTHING`, hallID, amenityIDs)
		return mapError(err)
	})
}

func (r *PGAmenityRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Amenity, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Amenity])
}

func hallExists(ctx context.Context, q querier, hallID int64) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM halls WHERE id=$1 AND NOT deleted)`, hallID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: hall %d", domain.ErrNotFound, hallID)
	}
	return nil
}

var _ AmenityRepository = (*PGAmenityRepository)(nil)

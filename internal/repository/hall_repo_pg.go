package repository

import (
	"context"

	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HallRepository interface {
	Create(ctx context.Context, hall *domain.Hall) error
	Update(ctx context.Context, hall *domain.Hall) error
	SoftDelete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Hall, error)
	List(ctx context.Context, page domain.Page) ([]domain.Hall, error)
	SearchByName(ctx context.Context, query string) ([]domain.Hall, error)
	FilterByLocation(ctx context.Context, location string) ([]domain.Hall, error)
	ListByAdmin(ctx context.Context, adminID int64) ([]domain.Hall, error)
	ListActive(ctx context.Context) ([]domain.Hall, error)
}

type PGHallRepository struct {
	db *pgxpool.Pool
}

func NewHallRepository(db *pgxpool.Pool) HallRepository {
	return &PGHallRepository{db: db}
}

const hallColumns = `id, admin_id, name, description, capacity, address, location,
	price_per_hour, price_per_day, weekend_price_multiplier, security_deposit,
	deleted, created_at, updated_at`

func (r *PGHallRepository) Create(ctx context.Context, hall *domain.Hall) error {
	err := r.db.QueryRow(ctx, `INSERT INTO halls (admin_id, name, description, capacity, address, location,
			price_per_hour, price_per_day, weekend_price_multiplier, security_deposit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		hall.AdminID, hall.Name, hall.Description, hall.Capacity, hall.Address, hall.Location,
		hall.PricePerHour, hall.PricePerDay, hall.WeekendPriceMultiplier, hall.SecurityDeposit).
		Scan(&hall.ID, &hall.CreatedAt, &hall.UpdatedAt)
	return mapError(err)
}

func (r *PGHallRepository) Update(ctx context.Context, hall *domain.Hall) error {
	err := r.db.QueryRow(ctx, `UPDATE halls SET name=$2, description=$3, capacity=$4, address=$5, location=$6,
			price_per_hour=$7, price_per_day=$8, weekend_price_multiplier=$9, security_deposit=$10, updated_at=now()
		WHERE id=$1 AND NOT deleted
		RETURNING updated_at`,
		hall.ID, hall.Name, hall.Description, hall.Capacity, hall.Address, hall.Location,
		hall.PricePerHour, hall.PricePerDay, hall.WeekendPriceMultiplier, hall.SecurityDeposit).
		Scan(&hall.UpdatedAt)
	return mapError(err)
}

func (r *PGHallRepository) SoftDelete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE halls SET deleted = TRUE, updated_at = now() WHERE id=$1 AND NOT deleted`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGHallRepository) GetByID(ctx context.Context, id int64) (*domain.Hall, error) {
	row := r.db.QueryRow(ctx, `SELECT `+hallColumns+` FROM halls WHERE id=$1 AND NOT deleted`, id)
	h, err := scanHall(row)
	if err != nil {
		return nil, mapError(err)
	}
	return h, nil
}

func (r *PGHallRepository) List(ctx context.Context, page domain.Page) ([]domain.Hall, error) {
	return r.query(ctx, `SELECT `+hallColumns+` FROM halls WHERE NOT deleted ORDER BY id LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset())
}

func (r *PGHallRepository) SearchByName(ctx context.Context, query string) ([]domain.Hall, error) {
	return r.query(ctx, `SELECT `+hallColumns+` FROM halls WHERE NOT deleted AND name ILIKE '%' || $1 || '%' ORDER BY id`, query)
}

func (r *PGHallRepository) FilterByLocation(ctx context.Context, location string) ([]domain.Hall, error) {
	return r.query(ctx, `SELECT `+hallColumns+` FROM halls WHERE NOT deleted AND location ILIKE '%' || $1 || '%' ORDER BY id`, location)
}

func (r *PGHallRepository) ListByAdmin(ctx context.Context, adminID int64) ([]domain.Hall, error) {
	return r.query(ctx, `SELECT `+hallColumns+` FROM halls WHERE NOT deleted AND admin_id=$1 ORDER BY id`, adminID)
}

func (r *PGHallRepository) ListActive(ctx context.Context) ([]domain.Hall, error) {
	return r.query(ctx, `SELECT `+hallColumns+` FROM halls WHERE NOT deleted ORDER BY id`)
}

func (r *PGHallRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Hall, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	halls := make([]domain.Hall, 0)
	for rows.Next() {
		h, err := scanHall(rows)
		if err != nil {
			return nil, err
		}
		halls = append(halls, *h)
	}
	return halls, rows.Err()
}

func scanHall(row pgx.Row) (*domain.Hall, error) {
	var h domain.Hall
	if err := row.Scan(&h.ID, &h.AdminID, &h.Name, &h.Description, &h.Capacity, &h.Address, &h.Location,
		&h.PricePerHour, &h.PricePerDay, &h.WeekendPriceMultiplier, &h.SecurityDeposit,
		&h.Deleted, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	return &h, nil
}

var _ HallRepository = (*PGHallRepository)(nil)

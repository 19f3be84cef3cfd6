package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"DraftFlow/internal/domain"
	"DraftFlow/internal/ports"
)

// CustomerRepository reads the customer roster from Postgres.
type CustomerRepository struct {
	db *sql.DB
}

var _ ports.CustomerRepository = (*CustomerRepository)(nil)

// NewCustomerRepository wires a sql.DB implementation.
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

var customerColumns = []string{
	"id", "name", "phone", "business_type", "keywords", "tone", "confirm_token",
	"is_active", "specialty", "target_audience", "brand_concept", "main_services",
	"price_range", "location_info", "preferred_expressions", "avoided_expressions",
	"created_at",
}

// ActiveCustomers lists every customer not deactivated by the admin flow.
func (r *CustomerRepository) ActiveCustomers(ctx context.Context) ([]domain.Customer, error) {
	query, args, err := builder.
		Select(customerColumns...).
		From("customers").
		Where(sq.Eq{"is_active": true}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build active customers query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query active customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}

	return customers, nil
}

// CustomerByID loads a single customer regardless of active flag.
func (r *CustomerRepository) CustomerByID(ctx context.Context, id string) (domain.Customer, error) {
	query, args, err := builder.
		Select(customerColumns...).
		From("customers").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Customer{}, fmt.Errorf("build customer query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("query customer %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.Customer{}, fmt.Errorf("iterate customer %s: %w", id, err)
		}
		return domain.Customer{}, fmt.Errorf("customer %s not found", id)
	}

	return scanCustomer(rows)
}

func scanCustomer(rows *sql.Rows) (domain.Customer, error) {
	var c domain.Customer
	err := rows.Scan(
		&c.ID,
		&c.Name,
		&c.Phone,
		&c.BusinessType,
		pq.Array(&c.Keywords),
		&c.Tone,
		&c.ConfirmToken,
		&c.IsActive,
		&c.Specialty,
		&c.TargetAudience,
		&c.BrandConcept,
		pq.Array(&c.MainServices),
		&c.PriceRange,
		&c.LocationInfo,
		pq.Array(&c.PreferredExpressions),
		pq.Array(&c.AvoidedExpressions),
		&c.CreatedAt,
	)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("scan customer: %w", err)
	}
	return c, nil
}

package database

import (
	"context"
	"database/sql"

	"github.com/cazehq/bizcon/internal/entity"
)

// OwnerRepository reads the responsible-person side table mapping product
// names to their human owner.
type OwnerRepository struct {
	DB *sql.DB
}

func NewOwnerRepository(db *sql.DB) *OwnerRepository {
	return &OwnerRepository{DB: db}
}

// FindByProduct returns (nil, nil) when no owner is configured for the
// product.
func (r *OwnerRepository) FindByProduct(ctx context.Context, product string) (*entity.Owner, error) {
	query := `SELECT name, email FROM responsible_persons WHERE product_name = $1`

	var owner entity.Owner
	err := r.DB.QueryRowContext(ctx, query, product).Scan(&owner.Name, &owner.Email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

package wishlist

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-storefront.git/internal/catalog"
)

var ErrAlreadyListed = errors.New("Item already in wishlist")

type Repo struct {
	DB      *pgxpool.Pool
	Catalog *catalog.Repo
}

func (r *Repo) Add(ctx context.Context, userID, productID string) error {
	// verify the product is real before listing it
	if _, err := r.Catalog.ByID(ctx, productID); err != nil {
		return err
	}
	ct, err := r.DB.Exec(ctx, `
		INSERT INTO wishlist_items(user_id, product_id) VALUES ($1,$2)
		ON CONFLICT DO NOTHING`, userID, productID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrAlreadyListed
	}
	return nil
}

func (r *Repo) Remove(ctx context.Context, userID, productID string) error {
	_, err := r.DB.Exec(ctx,
		`DELETE FROM wishlist_items WHERE user_id=$1 AND product_id=$2`, userID, productID)
	return err
}

// List returns the wished products with full catalog details.
func (r *Repo) List(ctx context.Context, userID string) ([]catalog.Product, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT product_id FROM wishlist_items WHERE user_id=$1 ORDER BY added_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		p, err := r.Catalog.ByID(ctx, id)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

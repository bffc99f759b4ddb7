package cart

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Data is the nested shape the storefront expects:
// {productId: {size: qty}}.
type Data map[string]map[string]int

type Repo struct{ DB *pgxpool.Pool }

// Add increments the quantity for a (product, size) line, starting at 1.
func (r *Repo) Add(ctx context.Context, userID, productID, size string) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO cart_items(user_id, product_id, size, qty)
		VALUES ($1,$2,$3,1)
		ON CONFLICT (user_id, product_id, size) DO UPDATE SET qty = cart_items.qty + 1`,
		userID, productID, size)
	return err
}

// Set pins a line to an exact quantity; zero or below removes the line.
func (r *Repo) Set(ctx context.Context, userID, productID, size string, qty int) error {
	if qty <= 0 {
		_, err := r.DB.Exec(ctx,
			`DELETE FROM cart_items WHERE user_id=$1 AND product_id=$2 AND size=$3`,
			userID, productID, size)
		return err
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO cart_items(user_id, product_id, size, qty)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id, product_id, size) DO UPDATE SET qty = EXCLUDED.qty`,
		userID, productID, size, qty)
	return err
}

func (r *Repo) Get(ctx context.Context, userID string) (Data, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT product_id, size, qty FROM cart_items WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	data := Data{}
	for rows.Next() {
		var pid, size string
		var qty int
		if err := rows.Scan(&pid, &size, &qty); err != nil {
			return nil, err
		}
		if data[pid] == nil {
			data[pid] = map[string]int{}
		}
		data[pid][size] = qty
	}
	return data, rows.Err()
}

// Clear empties the cart, called once an order is durably recorded.
func (r *Repo) Clear(ctx context.Context, userID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID)
	return err
}

package catalog

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("Product not found")

type Repo struct{ DB *pgxpool.Pool }

// ProductInput is the admin-facing create/update shape. Nil fields on update
// mean "leave unchanged".
type ProductInput struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	PriceCents  *int64         `json:"price"`
	Images      []string       `json:"image"`
	Category    *string        `json:"category"`
	SubCategory *string        `json:"subCategory"`
	Bestseller  *bool          `json:"bestseller"`
	SKU         *string        `json:"sku"`
	SizeStock   map[string]int `json:"sizeStock"`
	MinStock    *int           `json:"minStock"`
	IsActive    *bool          `json:"isActive"`
}

func (r *Repo) Create(ctx context.Context, in ProductInput) (*Product, error) {
	id := uuid.NewString()
	minStock := 5
	if in.MinStock != nil {
		minStock = *in.MinStock
	}
	var sku any
	if in.SKU != nil && *in.SKU != "" {
		sku = *in.SKU
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO products(id, name, description, price_cents, images, category,
		                     sub_category, bestseller, sku, min_stock, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		id, deref(in.Name), deref(in.Description), derefI64(in.PriceCents), in.Images,
		deref(in.Category), deref(in.SubCategory), in.Bestseller != nil && *in.Bestseller,
		sku, minStock, time.Now()); err != nil {
		return nil, err
	}
	for size, stock := range in.SizeStock {
		if _, err := tx.Exec(ctx, `
			INSERT INTO product_sizes(product_id, size, stock) VALUES ($1,$2,$3)`,
			id, size, stock); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.ByID(ctx, id)
}

func (r *Repo) Update(ctx context.Context, id string, in ProductInput) (*Product, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx, `
		UPDATE products SET
			name         = COALESCE($2, name),
			description  = COALESCE($3, description),
			price_cents  = COALESCE($4, price_cents),
			images       = COALESCE($5, images),
			category     = COALESCE($6, category),
			sub_category = COALESCE($7, sub_category),
			bestseller   = COALESCE($8, bestseller),
			sku          = COALESCE($9, sku),
			min_stock    = COALESCE($10, min_stock),
			is_active    = COALESCE($11, is_active)
		WHERE id=$1`,
		id, in.Name, in.Description, in.PriceCents, nilSlice(in.Images), in.Category,
		in.SubCategory, in.Bestseller, in.SKU, in.MinStock, in.IsActive)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	// A sizeStock map replaces the whole size set.
	if in.SizeStock != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM product_sizes WHERE product_id=$1`, id); err != nil {
			return nil, err
		}
		for size, stock := range in.SizeStock {
			if _, err := tx.Exec(ctx, `
				INSERT INTO product_sizes(product_id, size, stock) VALUES ($1,$2,$3)`,
				id, size, stock); err != nil {
				return nil, err
			}
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.ByID(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const selectProducts = `
	SELECT id, name, description, price_cents, images, category, sub_category,
	       bestseller, COALESCE(sku,''), min_stock, is_active, rating, review_count, created_at
	FROM products`

func (r *Repo) ByID(ctx context.Context, id string) (*Product, error) {
	rows, err := r.DB.Query(ctx, selectProducts+` WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	out, err := r.collect(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

// List returns products newest first, plus the total count. A limit below 1
// means no paging: the storefront catalog loads everything in one call.
func (r *Repo) List(ctx context.Context, page, limit int) ([]Product, int, error) {
	if page < 1 {
		page = 1
	}
	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := selectProducts + ` ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, (page-1)*limit)
	}
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	out, err := r.collect(ctx, rows)
	return out, total, err
}

// LowStock lists active products whose derived total stock has fallen to the
// reorder threshold.
func (r *Repo) LowStock(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, selectProducts+`
		WHERE is_active
		  AND (SELECT COALESCE(SUM(stock),0) FROM product_sizes ps WHERE ps.product_id = products.id) <= min_stock
		ORDER BY (SELECT COALESCE(SUM(stock),0) FROM product_sizes ps WHERE ps.product_id = products.id)`)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *Repo) collect(ctx context.Context, rows pgx.Rows) ([]Product, error) {
	defer rows.Close()

	var out []Product
	idx := map[string]int{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Images,
			&p.Category, &p.SubCategory, &p.Bestseller, &p.SKU, &p.MinStock,
			&p.IsActive, &p.Rating, &p.ReviewCount, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.SizeStock = map[string]int{}
		idx[p.ID] = len(out)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(out))
	for _, p := range out {
		ids = append(ids, p.ID)
	}
	sizeRows, err := r.DB.Query(ctx,
		`SELECT product_id, size, stock FROM product_sizes WHERE product_id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer sizeRows.Close()
	for sizeRows.Next() {
		var pid, size string
		var stock int
		if err := sizeRows.Scan(&pid, &size, &stock); err != nil {
			return nil, err
		}
		if i, ok := idx[pid]; ok {
			out[i].SizeStock[size] = stock
		}
	}
	if err := sizeRows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		total := 0
		sizes := make([]string, 0, len(out[i].SizeStock))
		for size, stock := range out[i].SizeStock {
			total += stock
			sizes = append(sizes, size)
		}
		sort.Strings(sizes)
		out[i].Stock = total
		out[i].Sizes = sizes
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefI64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func nilSlice(s []string) any {
	if s == nil {
		return nil
	}
	return s
}

package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// Place validates and reserves stock for every requested line, then records
// the order, all inside one transaction. Each (product,size) row is locked
// with FOR UPDATE before the availability check, so two concurrent checkouts
// for the same last units serialize and exactly one succeeds. If any line is
// short the whole transaction rolls back and no decrement is observable.
func (r *Repo) Place(ctx context.Context, userID string, reqItems []PlaceItem, address json.RawMessage, amountCents int64, method string) (*Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	items := make([]Item, 0, len(reqItems))
	for _, it := range sortForLocking(reqItems) {
		if it.Qty <= 0 {
			return nil, fmt.Errorf("invalid quantity for product %s", it.ProductID)
		}

		var name string
		var price int64
		err := tx.QueryRow(ctx,
			`SELECT name, price_cents FROM products WHERE id=$1 AND is_active`,
			it.ProductID).Scan(&name, &price)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		if err != nil {
			return nil, err
		}

		stock := 0
		err = tx.QueryRow(ctx,
			`SELECT stock FROM product_sizes WHERE product_id=$1 AND size=$2 FOR UPDATE`,
			it.ProductID, it.Size).Scan(&stock)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if stock < it.Qty {
			return nil, &InsufficientStockError{ProductName: name, Size: it.Size, Available: stock, Requested: it.Qty}
		}

		if _, err := tx.Exec(ctx,
			`UPDATE product_sizes SET stock = stock - $3 WHERE product_id=$1 AND size=$2`,
			it.ProductID, it.Size, it.Qty); err != nil {
			return nil, err
		}

		items = append(items, Item{
			ProductID:  it.ProductID,
			Name:       name,
			Size:       it.Size,
			Qty:        it.Qty,
			PriceCents: price,
		})
	}

	now := time.Now()
	o := &Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Items:         items,
		AmountCents:   amountCents,
		Address:       address,
		PaymentMethod: method,
		Status:        StatusPlaced,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO orders(id, user_id, amount_cents, address, payment_method, paid, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,FALSE,$6,$7,$7)`,
		o.ID, o.UserID, o.AmountCents, o.Address, o.PaymentMethod, o.Status, now); err != nil {
		return nil, err
	}
	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, name, size, qty, price_cents)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			o.ID, it.ProductID, it.Name, it.Size, it.Qty, it.PriceCents); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

// sortForLocking fixes the row-lock order: two concurrent multi-item orders
// naming the same products in opposite request order would otherwise take the
// FOR UPDATE locks in opposite order and deadlock.
func sortForLocking(items []PlaceItem) []PlaceItem {
	out := make([]PlaceItem, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].Size < out[j].Size
	})
	return out
}

// releaseStockTx puts an order's reserved quantities back. The stock_released
// guard makes release idempotent: it runs at most once per order even if both
// a cancellation and a payment-failure path reach it.
func releaseStockTx(ctx context.Context, tx pgx.Tx, orderID string) (bool, error) {
	ct, err := tx.Exec(ctx,
		`UPDATE orders SET stock_released=TRUE, updated_at=now() WHERE id=$1 AND NOT stock_released`,
		orderID)
	if err != nil {
		return false, err
	}
	if ct.RowsAffected() == 0 {
		return false, nil
	}

	rows, err := tx.Query(ctx,
		`SELECT product_id, size, qty FROM order_items WHERE order_id=$1`, orderID)
	if err != nil {
		return false, err
	}
	type rec struct {
		pid, size string
		qty       int
	}
	var recs []rec
	for rows.Next() {
		var x rec
		if err := rows.Scan(&x.pid, &x.size, &x.qty); err != nil {
			rows.Close()
			return false, err
		}
		recs = append(recs, x)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return false, err
	}

	for _, x := range recs {
		// Skip lines whose product has since been removed from the catalog.
		if _, err := tx.Exec(ctx, `
			INSERT INTO product_sizes(product_id, size, stock)
			SELECT id, $2, $3 FROM products WHERE id=$1
			ON CONFLICT (product_id, size) DO UPDATE SET stock = product_sizes.stock + EXCLUDED.stock`,
			x.pid, x.size, x.qty); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Cancel lets the owning user cancel a pre-shipment order and releases its
// reserved stock.
func (r *Repo) Cancel(ctx context.Context, orderID, userID, reason string) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var owner string
	var cancelled bool
	var status Status
	err = tx.QueryRow(ctx,
		`SELECT user_id, cancelled, status FROM orders WHERE id=$1 FOR UPDATE`,
		orderID).Scan(&owner, &cancelled, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrNotOwner
	}
	if cancelled {
		return ErrAlreadyCancelled
	}
	if !Cancellable(status) {
		return ErrNotCancellable
	}

	if _, err := tx.Exec(ctx, `
		UPDATE orders SET cancelled=TRUE, cancel_reason=$2, cancelled_at=now(),
		       status=$3, updated_at=now()
		WHERE id=$1`,
		orderID, reason, StatusCanceled); err != nil {
		return err
	}
	if _, err := releaseStockTx(ctx, tx, orderID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// UpdateStatus moves an order along the fulfilment state machine. A COD order
// reaching Delivered is marked paid in the same update. Returns whether that
// COD payment flip happened.
func (r *Repo) UpdateStatus(ctx context.Context, orderID string, to Status) (codPaid bool, err error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cur Status
	var method string
	var paid bool
	err = tx.QueryRow(ctx,
		`SELECT status, payment_method, paid FROM orders WHERE id=$1 FOR UPDATE`,
		orderID).Scan(&cur, &method, &paid)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}
	if !CanTransition(cur, to) {
		return false, fmt.Errorf("cannot move order from %s to %s", cur, to)
	}

	codPaid = to == StatusDelivered && method == MethodCOD && !paid

	if to == StatusCanceled {
		if _, err := tx.Exec(ctx, `
			UPDATE orders SET status=$2, cancelled=TRUE, cancelled_at=now(), updated_at=now()
			WHERE id=$1`, orderID, to); err != nil {
			return false, err
		}
		if _, err := releaseStockTx(ctx, tx, orderID); err != nil {
			return false, err
		}
	} else {
		if _, err := tx.Exec(ctx, `
			UPDATE orders SET status=$2, paid = paid OR $3, updated_at=now()
			WHERE id=$1`, orderID, to, codPaid); err != nil {
			return false, err
		}
	}
	return codPaid, tx.Commit(ctx)
}

// MarkPaid flips the payment flag after gateway confirmation.
func (r *Repo) MarkPaid(ctx context.Context, orderID string) error {
	ct, err := r.DB.Exec(ctx,
		`UPDATE orders SET paid=TRUE, updated_at=now() WHERE id=$1`, orderID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FailPayment rolls back a gateway order: reserved stock goes back and the
// order row is deleted, as one unit.
func (r *Repo) FailPayment(ctx context.Context, orderID string) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE id=$1)`, orderID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	if _, err := releaseStockTx(ctx, tx, orderID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, orderID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) SetGatewayRef(ctx context.Context, orderID, ref string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE orders SET gateway_ref=$2, updated_at=now() WHERE id=$1`, orderID, ref)
	return err
}

// Owner returns the id of the user an order belongs to.
func (r *Repo) Owner(ctx context.Context, orderID string) (string, error) {
	var owner string
	err := r.DB.QueryRow(ctx,
		`SELECT user_id FROM orders WHERE id=$1`, orderID).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return owner, err
}

func (r *Repo) Get(ctx context.Context, orderID string) (*Order, error) {
	rows, err := r.DB.Query(ctx, selectOrders+` WHERE id=$1`, orderID)
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

func (r *Repo) ListAll(ctx context.Context) ([]Order, error) {
	rows, err := r.DB.Query(ctx, selectOrders+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, selectOrders+` WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

const selectOrders = `
	SELECT id, user_id, amount_cents, address, payment_method, paid, status,
	       cancelled, COALESCE(cancel_reason,''), cancelled_at, COALESCE(gateway_ref,''),
	       created_at, updated_at
	FROM orders`

func (r *Repo) collect(ctx context.Context, rows pgx.Rows) ([]Order, error) {
	defer rows.Close()

	var out []Order
	idx := map[string]int{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.AmountCents, &o.Address, &o.PaymentMethod,
			&o.Paid, &o.Status, &o.Cancelled, &o.CancelReason, &o.CancelledAt, &o.GatewayRef,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		o.Items = []Item{}
		idx[o.ID] = len(out)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(out))
	for _, o := range out {
		ids = append(ids, o.ID)
	}
	itemRows, err := r.DB.Query(ctx, `
		SELECT order_id, product_id, name, size, qty, price_cents
		FROM order_items WHERE order_id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var oid string
		var it Item
		if err := itemRows.Scan(&oid, &it.ProductID, &it.Name, &it.Size, &it.Qty, &it.PriceCents); err != nil {
			return nil, err
		}
		if i, ok := idx[oid]; ok {
			out[i].Items = append(out[i].Items, it)
		}
	}
	return out, itemRows.Err()
}

package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrAlreadyReviewed = errors.New("You have already reviewed this product")
	ErrReviewNotFound  = errors.New("Review not found")
	ErrAlreadyVoted    = errors.New("You have already voted for this review")
)

type ReviewInput struct {
	Rating    int      `json:"rating"`
	Comment   string   `json:"comment"`
	Images    []string `json:"images"`
	Recommend bool     `json:"recommend"`
}

// ReviewFilter narrows the admin review listing.
type ReviewFilter struct {
	Search       string
	Rating       int
	ReportedOnly bool
	Page         int
	Limit        int
}

// AddReview records one review per user per product. The verified flag marks
// a purchase-backed review: the user has a prior paid order containing the
// product.
func (r *Repo) AddReview(ctx context.Context, userID, productID string, in ReviewInput) (*Review, error) {
	var exists bool
	if err := r.DB.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE user_id=$1 AND product_id=$2)`,
		userID, productID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	var verified bool
	if err := r.DB.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.user_id=$1 AND oi.product_id=$2 AND o.paid
		)`, userID, productID).Scan(&verified); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	images := in.Images
	if images == nil {
		images = []string{}
	}
	if _, err := r.DB.Exec(ctx, `
		INSERT INTO reviews(id, user_id, product_id, rating, comment, images, recommend, verified, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		id, userID, productID, in.Rating, in.Comment, images, in.Recommend, verified, time.Now()); err != nil {
		return nil, err
	}
	if err := r.RefreshRating(ctx, productID); err != nil {
		return nil, err
	}
	return r.reviewByID(ctx, id)
}

// UpdateReview lets the author revise their review; new images replace the
// old set only when supplied.
func (r *Repo) UpdateReview(ctx context.Context, reviewID, userID string, in ReviewInput) (*Review, error) {
	var productID string
	err := r.DB.QueryRow(ctx, `
		UPDATE reviews SET rating=$3, comment=$4, recommend=$5,
		       images = CASE WHEN $6::text[] IS NULL THEN images ELSE $6 END
		WHERE id=$1 AND user_id=$2
		RETURNING product_id`,
		reviewID, userID, in.Rating, in.Comment, in.Recommend, nilSlice(in.Images)).Scan(&productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.RefreshRating(ctx, productID); err != nil {
		return nil, err
	}
	return r.reviewByID(ctx, reviewID)
}

func (r *Repo) DeleteReview(ctx context.Context, reviewID, userID string) error {
	var productID string
	err := r.DB.QueryRow(ctx,
		`DELETE FROM reviews WHERE id=$1 AND user_id=$2 RETURNING product_id`,
		reviewID, userID).Scan(&productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrReviewNotFound
	}
	if err != nil {
		return err
	}
	return r.RefreshRating(ctx, productID)
}

// AdminDeleteReview removes any review regardless of author.
func (r *Repo) AdminDeleteReview(ctx context.Context, reviewID string) error {
	var productID string
	err := r.DB.QueryRow(ctx,
		`DELETE FROM reviews WHERE id=$1 RETURNING product_id`, reviewID).Scan(&productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrReviewNotFound
	}
	if err != nil {
		return err
	}
	return r.RefreshRating(ctx, productID)
}

// AdminBulkDeleteReviews removes a batch and refreshes every touched product.
func (r *Repo) AdminBulkDeleteReviews(ctx context.Context, reviewIDs []string) (int, error) {
	rows, err := r.DB.Query(ctx,
		`DELETE FROM reviews WHERE id = ANY($1) RETURNING product_id`, reviewIDs)
	if err != nil {
		return 0, err
	}
	touched := map[string]bool{}
	deleted := 0
	for rows.Next() {
		var pid string
		if err := rows.Scan(&pid); err != nil {
			rows.Close()
			return 0, err
		}
		touched[pid] = true
		deleted++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	for pid := range touched {
		if err := r.RefreshRating(ctx, pid); err != nil {
			return deleted, err
		}
	}
	return deleted, nil
}

// AdminUpdateReview moderates any review's content or reported flag.
func (r *Repo) AdminUpdateReview(ctx context.Context, reviewID string, rating *int, comment *string, recommend, reported *bool) (*Review, error) {
	var productID string
	err := r.DB.QueryRow(ctx, `
		UPDATE reviews SET
			rating    = COALESCE($2, rating),
			comment   = COALESCE($3, comment),
			recommend = COALESCE($4, recommend),
			reported  = COALESCE($5, reported)
		WHERE id=$1
		RETURNING product_id`,
		reviewID, rating, comment, recommend, reported).Scan(&productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.RefreshRating(ctx, productID); err != nil {
		return nil, err
	}
	return r.reviewByID(ctx, reviewID)
}

// MarkHelpful records one helpful vote per user per review.
func (r *Repo) MarkHelpful(ctx context.Context, reviewID, userID string) (*Review, error) {
	var exists bool
	if err := r.DB.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE id=$1)`, reviewID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrReviewNotFound
	}
	ct, err := r.DB.Exec(ctx, `
		INSERT INTO review_votes(review_id, user_id) VALUES ($1,$2)
		ON CONFLICT DO NOTHING`, reviewID, userID)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrAlreadyVoted
	}
	if _, err := r.DB.Exec(ctx,
		`UPDATE reviews SET helpful = helpful + 1 WHERE id=$1`, reviewID); err != nil {
		return nil, err
	}
	return r.reviewByID(ctx, reviewID)
}

func (r *Repo) UserReview(ctx context.Context, userID, productID string) (*Review, error) {
	rows, err := r.DB.Query(ctx, selectReviews+` WHERE r.user_id=$1 AND r.product_id=$2`, userID, productID)
	if err != nil {
		return nil, err
	}
	out, err := collectReviews(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrReviewNotFound
	}
	return &out[0], nil
}

// ProductReviews pages through a product's reviews, newest first.
func (r *Repo) ProductReviews(ctx context.Context, productID string, page, limit int) ([]Review, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	var total int
	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE product_id=$1`, productID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.Query(ctx,
		selectReviews+` WHERE r.product_id=$1 ORDER BY r.created_at DESC LIMIT $2 OFFSET $3`,
		productID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	out, err := collectReviews(rows)
	return out, total, err
}

// AllReviews is the admin listing with optional search, rating and reported
// filters, plus global stats.
func (r *Repo) AllReviews(ctx context.Context, f ReviewFilter) ([]Review, int, *ReviewStats, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	where := ` WHERE ($1 = '' OR r.comment ILIKE '%' || $1 || '%')
	             AND ($2 = 0 OR r.rating = $2)
	             AND (NOT $3::bool OR r.reported)`

	var total int
	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews r`+where,
		f.Search, f.Rating, f.ReportedOnly).Scan(&total); err != nil {
		return nil, 0, nil, err
	}

	rows, err := r.DB.Query(ctx,
		selectReviews+where+` ORDER BY r.created_at DESC LIMIT $4 OFFSET $5`,
		f.Search, f.Rating, f.ReportedOnly, f.Limit, (f.Page-1)*f.Limit)
	if err != nil {
		return nil, 0, nil, err
	}
	out, err := collectReviews(rows)
	if err != nil {
		return nil, 0, nil, err
	}

	stats := &ReviewStats{RatingBreakdown: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	statRows, err := r.DB.Query(ctx, `
		SELECT rating, COUNT(*), COUNT(*) FILTER (WHERE reported), COUNT(*) FILTER (WHERE verified)
		FROM reviews GROUP BY rating`)
	if err != nil {
		return nil, 0, nil, err
	}
	defer statRows.Close()
	for statRows.Next() {
		var rating, count, reported, verified int
		if err := statRows.Scan(&rating, &count, &reported, &verified); err != nil {
			return nil, 0, nil, err
		}
		stats.RatingBreakdown[rating] = count
		stats.Total += count
		stats.Reported += reported
		stats.Verified += verified
	}
	if err := statRows.Err(); err != nil {
		return nil, 0, nil, err
	}
	return out, total, stats, nil
}

// RefreshRating recomputes the stored average rating and review count for a
// product from its current reviews.
func (r *Repo) RefreshRating(ctx context.Context, productID string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE products SET
			rating = COALESCE((SELECT ROUND(AVG(rating)::numeric, 1) FROM reviews WHERE product_id=$1), 0),
			review_count = (SELECT COUNT(*) FROM reviews WHERE product_id=$1)
		WHERE id=$1`, productID)
	return err
}

const selectReviews = `
	SELECT r.id, r.user_id, u.name, r.product_id, p.name, r.rating, r.comment,
	       r.images, r.recommend, r.verified, r.helpful, r.reported, r.created_at
	FROM reviews r
	JOIN users u ON u.id = r.user_id
	JOIN products p ON p.id = r.product_id`

func (r *Repo) reviewByID(ctx context.Context, id string) (*Review, error) {
	rows, err := r.DB.Query(ctx, selectReviews+` WHERE r.id=$1`, id)
	if err != nil {
		return nil, err
	}
	out, err := collectReviews(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrReviewNotFound
	}
	return &out[0], nil
}

func collectReviews(rows pgx.Rows) ([]Review, error) {
	defer rows.Close()
	var out []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.UserName, &rv.ProductID, &rv.ProductName,
			&rv.Rating, &rv.Comment, &rv.Images, &rv.Recommend, &rv.Verified,
			&rv.Helpful, &rv.Reported, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

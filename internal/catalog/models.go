package catalog

import "time"

// Product carries the per-size stock map; the total is derived from it on
// read, there is no separately stored total to drift.
type Product struct {
	ID          string         `json:"_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	PriceCents  int64          `json:"price"`
	Images      []string       `json:"image"`
	Category    string         `json:"category"`
	SubCategory string         `json:"subCategory"`
	Sizes       []string       `json:"sizes"`
	Bestseller  bool           `json:"bestseller"`
	SKU         string         `json:"sku,omitempty"`
	SizeStock   map[string]int `json:"sizeStock"`
	Stock       int            `json:"stock"` // SUM of SizeStock, computed on read
	MinStock    int            `json:"minStock"`
	IsActive    bool           `json:"isActive"`
	Rating      float32        `json:"rating"`
	ReviewCount int            `json:"reviewCount"`
	CreatedAt   time.Time      `json:"date"`
}

type Review struct {
	ID          string    `json:"_id"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName,omitempty"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName,omitempty"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	Images      []string  `json:"images"`
	Recommend   bool      `json:"recommend"`
	Verified    bool      `json:"verified"`
	Helpful     int       `json:"helpful"`
	Reported    bool      `json:"reported"`
	CreatedAt   time.Time `json:"date"`
}

type ReviewStats struct {
	Total           int         `json:"total"`
	Reported        int         `json:"reported"`
	Verified        int         `json:"verified"`
	RatingBreakdown map[int]int `json:"ratingBreakdown"`
}

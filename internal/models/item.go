package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

type Item struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Brand string    `json:"brand"`
	Size  string    `json:"size"`
	Price float64   `json:"price"`
	Sold  bool      `json:"sold"`
	Photo *PhotoRef `json:"photo,omitempty"`
	Added time.Time `json:"added"`
}

// PhotoRef describes an item's photo without carrying its bytes.
type PhotoRef struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// PhotoData is a photo upload or a copy of the stored bytes.
type PhotoData struct {
	Filename    string
	ContentType string
	Data        []byte
}

type CreateItemRequest struct {
	Name  string     `json:"name"`
	Brand string     `json:"brand"`
	Size  string     `json:"size"`
	Price float64    `json:"price"`
	Photo *PhotoData `json:"-"`
}

// Normalize trims the free-text fields in place.
func (r *CreateItemRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Brand = strings.TrimSpace(r.Brand)
	r.Size = strings.TrimSpace(r.Size)
}

func (r *CreateItemRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Name) == "" {
		errors["name"] = "Item name is required"
	}
	if math.IsNaN(r.Price) || math.IsInf(r.Price, 0) {
		errors["price"] = "Price must be a number"
	} else if r.Price < 0 {
		errors["price"] = "Price cannot be negative"
	}

	return errors
}

// StatusFilter selects items by their sold flag.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusAvailable StatusFilter = "available"
	StatusSold      StatusFilter = "sold"
)

// ParseStatusFilter maps user input to a filter. Empty input means StatusAll.
func ParseStatusFilter(s string) (StatusFilter, bool) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, true
	case StatusAvailable, "unsold":
		return StatusAvailable, true
	case StatusSold:
		return StatusSold, true
	}
	return "", false
}

// Matches reports whether an item with the given sold flag passes the filter.
func (f StatusFilter) Matches(sold bool) bool {
	switch f {
	case StatusAvailable:
		return !sold
	case StatusSold:
		return sold
	default:
		return true
	}
}

type ListQuery struct {
	Status StatusFilter `json:"status"`
	Query  string       `json:"q"` // case-insensitive substring of the name
}

type Summary struct {
	Total       int     `json:"total"`
	Sold        int     `json:"sold"`
	Available   int     `json:"available"`
	UnsoldValue float64 `json:"unsold_value"`
}

// ExportHeader is the fixed column order of every export and sync snapshot.
var ExportHeader = []string{"name", "brand", "size", "price", "sold", "added", "photo_name"}

// ExportRow is the flat, photo-free projection of an Item.
type ExportRow struct {
	Name      string    `json:"name" bson:"name"`
	Brand     string    `json:"brand" bson:"brand"`
	Size      string    `json:"size" bson:"size"`
	Price     float64   `json:"price" bson:"price"`
	Sold      bool      `json:"sold" bson:"sold"`
	Added     time.Time `json:"added" bson:"added"`
	PhotoName string    `json:"photo_name" bson:"photo_name"`
}

func NewExportRow(item Item) ExportRow {
	row := ExportRow{
		Name:  item.Name,
		Brand: item.Brand,
		Size:  item.Size,
		Price: item.Price,
		Sold:  item.Sold,
		Added: item.Added,
	}
	if item.Photo != nil {
		row.PhotoName = item.Photo.Filename
	}
	return row
}

// Record renders the row as text cells in ExportHeader order.
func (r ExportRow) Record() []string {
	return []string{
		r.Name,
		r.Brand,
		r.Size,
		strconv.FormatFloat(r.Price, 'f', 2, 64),
		strconv.FormatBool(r.Sold),
		r.Added.UTC().Format(time.RFC3339),
		r.PhotoName,
	}
}

// RoundCents rounds a money amount to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// ItemList is a filtered listing plus the unfiltered store summary.
type ItemList struct {
	Items   []Item  `json:"items"`
	Summary Summary `json:"summary"`
}

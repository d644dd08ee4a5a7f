package domain

import "time"

// Stall is a vendor in the marketplace. Items and reviews refer to it by id.
type Stall struct {
	ID           int64     `json:"id"`
	StallName    string    `json:"stall_name"`
	OwnerName    string    `json:"owner_name"`
	ThumbnailURL *string   `json:"thumbnail_URL"`
	CreatedAt    time.Time `json:"created_at"`
}

// Item is a product listed under a stall. Price is an opaque integer amount
// with no currency attached.
type Item struct {
	ID        int64     `json:"id"`
	StallID   int64     `json:"stall_id"`
	ItemName  string    `json:"item_name"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

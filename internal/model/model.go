package model

import (
	"io"
	"time"
)

// Post is a shared photo with its caption metadata. Image holds either a
// local filename or a URL returned by a hosted media store.
type Post struct {
	ID          string    `json:"_id"`
	Author      string    `json:"author"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Upload is an image file received from a client.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

package storage

import "time"

// ID is the opaque identifier shared by every entity. Each adapter renders
// its native key (integer surrogate, ObjectID) as a string at the boundary.
type ID string

func (id ID) String() string { return string(id) }

type VanSize string

const (
	VanSmall  VanSize = "small"
	VanMedium VanSize = "medium"
	VanLarge  VanSize = "large"
	VanXL     VanSize = "xl"
)

func (s VanSize) Valid() bool {
	switch s {
	case VanSmall, VanMedium, VanLarge, VanXL:
		return true
	}
	return false
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Valid reports membership in the fixed status list. Any status may follow
// any other; there is no transition graph.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

type User struct {
	ID         ID        `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	FullName   string    `json:"fullName"`
	Phone      string    `json:"phone,omitempty"`
	IsVanOwner bool      `json:"isVanOwner"`
	IsAdmin    bool      `json:"isAdmin"`
	CreatedAt  time.Time `json:"createdAt"`
}

type VanListing struct {
	ID               ID        `json:"id"`
	UserID           ID        `json:"userId"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	VanSize          VanSize   `json:"vanSize"`
	HourlyRate       float64   `json:"hourlyRate"`
	Location         string    `json:"location"`
	Postcode         string    `json:"postcode"`
	HelpersCount     int       `json:"helpersCount"`
	IsAvailableToday bool      `json:"isAvailableToday"`
	ImageURL         string    `json:"imageUrl,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// VanListingPatch carries a partial update. Nil fields are left untouched.
type VanListingPatch struct {
	Title            *string
	Description      *string
	VanSize          *VanSize
	HourlyRate       *float64
	Location         *string
	Postcode         *string
	HelpersCount     *int
	IsAvailableToday *bool
	ImageURL         *string
}

func (p VanListingPatch) Apply(l *VanListing) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.VanSize != nil {
		l.VanSize = *p.VanSize
	}
	if p.HourlyRate != nil {
		l.HourlyRate = *p.HourlyRate
	}
	if p.Location != nil {
		l.Location = *p.Location
	}
	if p.Postcode != nil {
		l.Postcode = *p.Postcode
	}
	if p.HelpersCount != nil {
		l.HelpersCount = *p.HelpersCount
	}
	if p.IsAvailableToday != nil {
		l.IsAvailableToday = *p.IsAvailableToday
	}
	if p.ImageURL != nil {
		l.ImageURL = *p.ImageURL
	}
}

type Service struct {
	ID           ID     `json:"id"`
	VanListingID ID     `json:"vanListingId"`
	ServiceName  string `json:"serviceName"`
}

type Booking struct {
	ID           ID            `json:"id"`
	UserID       ID            `json:"userId"`
	VanListingID ID            `json:"vanListingId"`
	BookingDate  time.Time     `json:"bookingDate"`
	Duration     int           `json:"duration"`
	FromLocation string        `json:"fromLocation"`
	ToLocation   string        `json:"toLocation"`
	Status       BookingStatus `json:"status"`
	TotalPrice   float64       `json:"totalPrice"`
	Notes        string        `json:"notes,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

type Review struct {
	ID           ID        `json:"id"`
	UserID       ID        `json:"userId"`
	VanListingID ID        `json:"vanListingId"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Message struct {
	ID        ID        `json:"id"`
	BookingID ID        `json:"bookingId"`
	SenderID  ID        `json:"senderId"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

type TrackingPoint struct {
	ID           ID        `json:"id"`
	BookingID    ID        `json:"bookingId"`
	VanListingID ID        `json:"vanListingId"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Accuracy     *float64  `json:"accuracy,omitempty"`
	Speed        *float64  `json:"speed,omitempty"`
	Heading      *float64  `json:"heading,omitempty"`
	Status       string    `json:"status,omitempty"`
	RecordedAt   time.Time `json:"recordedAt"`
}

// ReviewDetails is a review with the reviewer's display name.
type ReviewDetails struct {
	Review
	ReviewerName string `json:"reviewerName"`
}

// VanListingDetails is the denormalized read of a listing.
type VanListingDetails struct {
	VanListing
	Services      []Service       `json:"services"`
	OwnerName     string          `json:"ownerName"`
	Reviews       []ReviewDetails `json:"reviews"`
	AverageRating float64         `json:"averageRating"`
	ReviewCount   int             `json:"reviewCount"`
}

// ListingSummary is the slice of a listing embedded into booking reads.
type ListingSummary struct {
	ID         ID      `json:"id"`
	Title      string  `json:"title"`
	VanSize    VanSize `json:"vanSize"`
	Location   string  `json:"location"`
	HourlyRate float64 `json:"hourlyRate"`
	OwnerID    ID      `json:"ownerId"`
}

type BookingDetails struct {
	Booking
	Listing      *ListingSummary `json:"vanListing,omitempty"`
	OwnerName    string          `json:"ownerName"`
	CustomerName string          `json:"customerName"`
}

type SearchParams struct {
	Location string
	// Date is accepted for API compatibility and not applied as a filter.
	Date    string
	VanSize VanSize
}

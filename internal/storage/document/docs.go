package document

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"manvan/internal/storage"
)

const (
	colUsers    = "users"
	colListings = "vanListings"
	colServices = "services"
	colBookings = "bookings"
	colReviews  = "reviews"
	colMessages = "messages"
	colTracking = "vanTracking"
)

type userDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Username   string             `bson:"username"`
	Email      string             `bson:"email"`
	Password   string             `bson:"password"`
	FullName   string             `bson:"fullName"`
	Phone      string             `bson:"phone,omitempty"`
	IsVanOwner bool               `bson:"isVanOwner"`
	IsAdmin    bool               `bson:"isAdmin"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

type vanListingDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	UserID           primitive.ObjectID `bson:"userId"`
	Title            string             `bson:"title"`
	Description      string             `bson:"description"`
	VanSize          string             `bson:"vanSize"`
	HourlyRate       float64            `bson:"hourlyRate"`
	Location         string             `bson:"location"`
	Postcode         string             `bson:"postcode"`
	HelpersCount     int                `bson:"helpersCount"`
	IsAvailableToday bool               `bson:"isAvailableToday"`
	ImageURL         string             `bson:"imageUrl,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt"`
}

type serviceDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	VanListingID primitive.ObjectID `bson:"vanListingId"`
	ServiceName  string             `bson:"serviceName"`
}

type bookingDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       primitive.ObjectID `bson:"userId"`
	VanListingID primitive.ObjectID `bson:"vanListingId"`
	BookingDate  time.Time          `bson:"bookingDate"`
	Duration     int                `bson:"duration"`
	FromLocation string             `bson:"fromLocation"`
	ToLocation   string             `bson:"toLocation"`
	Status       string             `bson:"status"`
	TotalPrice   float64            `bson:"totalPrice"`
	Notes        string             `bson:"notes,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

type reviewDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       primitive.ObjectID `bson:"userId"`
	VanListingID primitive.ObjectID `bson:"vanListingId"`
	Rating       int                `bson:"rating"`
	Comment      string             `bson:"comment,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

type messageDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	BookingID primitive.ObjectID `bson:"bookingId"`
	SenderID  primitive.ObjectID `bson:"senderId"`
	Content   string             `bson:"content"`
	IsRead    bool               `bson:"isRead"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type trackingPointDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	BookingID    primitive.ObjectID `bson:"bookingId"`
	VanListingID primitive.ObjectID `bson:"vanListingId"`
	Latitude     float64            `bson:"latitude"`
	Longitude    float64            `bson:"longitude"`
	Accuracy     *float64           `bson:"accuracy,omitempty"`
	Speed        *float64           `bson:"speed,omitempty"`
	Heading      *float64           `bson:"heading,omitempty"`
	Status       string             `bson:"status,omitempty"`
	RecordedAt   time.Time          `bson:"recordedAt"`
}

func formatID(id primitive.ObjectID) storage.ID {
	return storage.ID(id.Hex())
}

func parseID(id storage.ID) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// now truncates to milliseconds, the resolution BSON dates keep.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return now()
	}
	return t.UTC().Truncate(time.Millisecond)
}

func (d userDoc) toDomain() *storage.User {
	return &storage.User{
		ID:         formatID(d.ID),
		Username:   d.Username,
		Email:      d.Email,
		Password:   d.Password,
		FullName:   d.FullName,
		Phone:      d.Phone,
		IsVanOwner: d.IsVanOwner,
		IsAdmin:    d.IsAdmin,
		CreatedAt:  d.CreatedAt,
	}
}

func (d vanListingDoc) toDomain() *storage.VanListing {
	return &storage.VanListing{
		ID:               formatID(d.ID),
		UserID:           formatID(d.UserID),
		Title:            d.Title,
		Description:      d.Description,
		VanSize:          storage.VanSize(d.VanSize),
		HourlyRate:       d.HourlyRate,
		Location:         d.Location,
		Postcode:         d.Postcode,
		HelpersCount:     d.HelpersCount,
		IsAvailableToday: d.IsAvailableToday,
		ImageURL:         d.ImageURL,
		CreatedAt:        d.CreatedAt,
	}
}

func (d serviceDoc) toDomain() storage.Service {
	return storage.Service{
		ID:           formatID(d.ID),
		VanListingID: formatID(d.VanListingID),
		ServiceName:  d.ServiceName,
	}
}

func (d bookingDoc) toDomain() *storage.Booking {
	return &storage.Booking{
		ID:           formatID(d.ID),
		UserID:       formatID(d.UserID),
		VanListingID: formatID(d.VanListingID),
		BookingDate:  d.BookingDate,
		Duration:     d.Duration,
		FromLocation: d.FromLocation,
		ToLocation:   d.ToLocation,
		Status:       storage.BookingStatus(d.Status),
		TotalPrice:   d.TotalPrice,
		Notes:        d.Notes,
		CreatedAt:    d.CreatedAt,
	}
}

func (d reviewDoc) toDomain() storage.Review {
	return storage.Review{
		ID:           formatID(d.ID),
		UserID:       formatID(d.UserID),
		VanListingID: formatID(d.VanListingID),
		Rating:       d.Rating,
		Comment:      d.Comment,
		CreatedAt:    d.CreatedAt,
	}
}

func (d messageDoc) toDomain() storage.Message {
	return storage.Message{
		ID:        formatID(d.ID),
		BookingID: formatID(d.BookingID),
		SenderID:  formatID(d.SenderID),
		Content:   d.Content,
		IsRead:    d.IsRead,
		CreatedAt: d.CreatedAt,
	}
}

func (d trackingPointDoc) toDomain() storage.TrackingPoint {
	return storage.TrackingPoint{
		ID:           formatID(d.ID),
		BookingID:    formatID(d.BookingID),
		VanListingID: formatID(d.VanListingID),
		Latitude:     d.Latitude,
		Longitude:    d.Longitude,
		Accuracy:     d.Accuracy,
		Speed:        d.Speed,
		Heading:      d.Heading,
		Status:       d.Status,
		RecordedAt:   d.RecordedAt,
	}
}

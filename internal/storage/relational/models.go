package relational

import (
	"strconv"
	"time"

	"manvan/internal/storage"
)

type userModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	Username   string    `gorm:"column:username;size:64;uniqueIndex;not null"`
	Email      string    `gorm:"column:email;size:255;uniqueIndex;not null"`
	Password   string    `gorm:"column:password;not null"`
	FullName   string    `gorm:"column:full_name"`
	Phone      *string   `gorm:"column:phone"`
	IsVanOwner bool      `gorm:"column:is_van_owner;not null;default:false"`
	IsAdmin    bool      `gorm:"column:is_admin;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (userModel) TableName() string { return "users" }

type vanListingModel struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	UserID           int64     `gorm:"column:user_id;index;not null"`
	Title            string    `gorm:"column:title;not null"`
	Description      string    `gorm:"column:description;type:text"`
	VanSize          string    `gorm:"column:van_size;size:16;not null"`
	HourlyRate       float64   `gorm:"column:hourly_rate;not null"`
	Location         string    `gorm:"column:location;not null"`
	Postcode         string    `gorm:"column:postcode"`
	HelpersCount     int       `gorm:"column:helpers_count;not null;default:0"`
	IsAvailableToday bool      `gorm:"column:is_available_today;not null;default:false"`
	ImageURL         *string   `gorm:"column:image_url"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (vanListingModel) TableName() string { return "van_listings" }

type serviceModel struct {
	ID           int64  `gorm:"column:id;primaryKey"`
	VanListingID int64  `gorm:"column:van_listing_id;index;not null"`
	ServiceName  string `gorm:"column:service_name;not null"`
}

func (serviceModel) TableName() string { return "services" }

type bookingModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	UserID       int64     `gorm:"column:user_id;index;not null"`
	VanListingID int64     `gorm:"column:van_listing_id;index;not null"`
	BookingDate  time.Time `gorm:"column:booking_date;not null"`
	Duration     int       `gorm:"column:duration;not null"`
	FromLocation string    `gorm:"column:from_location;not null"`
	ToLocation   string    `gorm:"column:to_location;not null"`
	Status       string    `gorm:"column:status;size:16;not null;default:pending"`
	TotalPrice   float64   `gorm:"column:total_price;not null"`
	Notes        *string   `gorm:"column:notes;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (bookingModel) TableName() string { return "bookings" }

type reviewModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	UserID       int64     `gorm:"column:user_id;index;not null"`
	VanListingID int64     `gorm:"column:van_listing_id;index;not null"`
	Rating       int       `gorm:"column:rating;not null"`
	Comment      *string   `gorm:"column:comment;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (reviewModel) TableName() string { return "reviews" }

type messageModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	BookingID int64     `gorm:"column:booking_id;index;not null"`
	SenderID  int64     `gorm:"column:sender_id;not null"`
	Content   string    `gorm:"column:content;type:text;not null"`
	IsRead    bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (messageModel) TableName() string { return "messages" }

type trackingPointModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	BookingID    int64     `gorm:"column:booking_id;index;not null"`
	VanListingID int64     `gorm:"column:van_listing_id;not null"`
	Latitude     float64   `gorm:"column:latitude;not null"`
	Longitude    float64   `gorm:"column:longitude;not null"`
	Accuracy     *float64  `gorm:"column:accuracy"`
	Speed        *float64  `gorm:"column:speed"`
	Heading      *float64  `gorm:"column:heading"`
	Status       string    `gorm:"column:status;size:32"`
	RecordedAt   time.Time `gorm:"column:recorded_at;index"`
}

func (trackingPointModel) TableName() string { return "van_tracking" }

func allModels() []any {
	return []any{
		&userModel{},
		&vanListingModel{},
		&serviceModel{},
		&bookingModel{},
		&reviewModel{},
		&messageModel{},
		&trackingPointModel{},
	}
}

func formatID(id int64) storage.ID {
	return storage.ID(strconv.FormatInt(id, 10))
}

// parseID reports false for anything that cannot be a row key; callers
// translate that into ErrNotFound.
func parseID(id storage.ID) (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func strPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func toDomainUser(m userModel) *storage.User {
	return &storage.User{
		ID:         formatID(m.ID),
		Username:   m.Username,
		Email:      m.Email,
		Password:   m.Password,
		FullName:   m.FullName,
		Phone:      strVal(m.Phone),
		IsVanOwner: m.IsVanOwner,
		IsAdmin:    m.IsAdmin,
		CreatedAt:  m.CreatedAt,
	}
}

func toDomainListing(m vanListingModel) *storage.VanListing {
	return &storage.VanListing{
		ID:               formatID(m.ID),
		UserID:           formatID(m.UserID),
		Title:            m.Title,
		Description:      m.Description,
		VanSize:          storage.VanSize(m.VanSize),
		HourlyRate:       m.HourlyRate,
		Location:         m.Location,
		Postcode:         m.Postcode,
		HelpersCount:     m.HelpersCount,
		IsAvailableToday: m.IsAvailableToday,
		ImageURL:         strVal(m.ImageURL),
		CreatedAt:        m.CreatedAt,
	}
}

func toListingModel(l *storage.VanListing, ownerID int64) vanListingModel {
	return vanListingModel{
		UserID:           ownerID,
		Title:            l.Title,
		Description:      l.Description,
		VanSize:          string(l.VanSize),
		HourlyRate:       l.HourlyRate,
		Location:         l.Location,
		Postcode:         l.Postcode,
		HelpersCount:     l.HelpersCount,
		IsAvailableToday: l.IsAvailableToday,
		ImageURL:         strPtr(l.ImageURL),
		CreatedAt:        l.CreatedAt,
	}
}

func toDomainService(m serviceModel) storage.Service {
	return storage.Service{
		ID:           formatID(m.ID),
		VanListingID: formatID(m.VanListingID),
		ServiceName:  m.ServiceName,
	}
}

func toDomainBooking(m bookingModel) *storage.Booking {
	return &storage.Booking{
		ID:           formatID(m.ID),
		UserID:       formatID(m.UserID),
		VanListingID: formatID(m.VanListingID),
		BookingDate:  m.BookingDate,
		Duration:     m.Duration,
		FromLocation: m.FromLocation,
		ToLocation:   m.ToLocation,
		Status:       storage.BookingStatus(m.Status),
		TotalPrice:   m.TotalPrice,
		Notes:        strVal(m.Notes),
		CreatedAt:    m.CreatedAt,
	}
}

func toDomainReview(m reviewModel) storage.Review {
	return storage.Review{
		ID:           formatID(m.ID),
		UserID:       formatID(m.UserID),
		VanListingID: formatID(m.VanListingID),
		Rating:       m.Rating,
		Comment:      strVal(m.Comment),
		CreatedAt:    m.CreatedAt,
	}
}

func toDomainMessage(m messageModel) storage.Message {
	return storage.Message{
		ID:        formatID(m.ID),
		BookingID: formatID(m.BookingID),
		SenderID:  formatID(m.SenderID),
		Content:   m.Content,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func toDomainTrackingPoint(m trackingPointModel) storage.TrackingPoint {
	return storage.TrackingPoint{
		ID:           formatID(m.ID),
		BookingID:    formatID(m.BookingID),
		VanListingID: formatID(m.VanListingID),
		Latitude:     m.Latitude,
		Longitude:    m.Longitude,
		Accuracy:     m.Accuracy,
		Speed:        m.Speed,
		Heading:      m.Heading,
		Status:       m.Status,
		RecordedAt:   m.RecordedAt,
	}
}

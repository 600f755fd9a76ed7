package listing

import (
	"strings"

	"manvan/internal/storage"
)

type CreateListingRequest struct {
	Title            string   `json:"title" binding:"required,min=3,max=120"`
	Description      string   `json:"description" binding:"required,max=2000"`
	VanSize          string   `json:"vanSize" binding:"required,oneof=small medium large xl"`
	HourlyRate       float64  `json:"hourlyRate" binding:"required,gt=0"`
	Location         string   `json:"location" binding:"required,max=120"`
	Postcode         string   `json:"postcode" binding:"required,max=12"`
	HelpersCount     int      `json:"helpersCount" binding:"gte=0,lte=10"`
	IsAvailableToday bool     `json:"isAvailableToday"`
	ImageURL         string   `json:"imageUrl" binding:"omitempty,url"`
	Services         []string `json:"services" binding:"omitempty,max=20,dive,required,max=60"`
}

func (r CreateListingRequest) toListing(ownerID storage.ID) *storage.VanListing {
	return &storage.VanListing{
		UserID:           ownerID,
		Title:            strings.TrimSpace(r.Title),
		Description:      strings.TrimSpace(r.Description),
		VanSize:          storage.VanSize(r.VanSize),
		HourlyRate:       r.HourlyRate,
		Location:         strings.TrimSpace(r.Location),
		Postcode:         strings.ToUpper(strings.TrimSpace(r.Postcode)),
		HelpersCount:     r.HelpersCount,
		IsAvailableToday: r.IsAvailableToday,
		ImageURL:         strings.TrimSpace(r.ImageURL),
	}
}

// UpdateListingRequest is a partial update; absent fields stay as they are.
type UpdateListingRequest struct {
	Title            *string  `json:"title" binding:"omitempty,min=3,max=120"`
	Description      *string  `json:"description" binding:"omitempty,max=2000"`
	VanSize          *string  `json:"vanSize" binding:"omitempty,oneof=small medium large xl"`
	HourlyRate       *float64 `json:"hourlyRate" binding:"omitempty,gt=0"`
	Location         *string  `json:"location" binding:"omitempty,max=120"`
	Postcode         *string  `json:"postcode" binding:"omitempty,max=12"`
	HelpersCount     *int     `json:"helpersCount" binding:"omitempty,gte=0,lte=10"`
	IsAvailableToday *bool    `json:"isAvailableToday"`
	ImageURL         *string  `json:"imageUrl" binding:"omitempty,url"`
}

func (r UpdateListingRequest) toPatch() (storage.VanListingPatch, bool) {
	p := storage.VanListingPatch{
		Title:            trimmed(r.Title),
		Description:      trimmed(r.Description),
		HourlyRate:       r.HourlyRate,
		Location:         trimmed(r.Location),
		HelpersCount:     r.HelpersCount,
		IsAvailableToday: r.IsAvailableToday,
		ImageURL:         trimmed(r.ImageURL),
	}
	if r.VanSize != nil {
		size := storage.VanSize(*r.VanSize)
		p.VanSize = &size
	}
	if r.Postcode != nil {
		pc := strings.ToUpper(strings.TrimSpace(*r.Postcode))
		p.Postcode = &pc
	}
	empty := p == storage.VanListingPatch{}
	return p, !empty
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

type AddServiceRequest struct {
	ServiceName string `json:"serviceName" binding:"required,max=60"`
}

type SearchQuery struct {
	Location string `form:"location" binding:"max=120"`
	Date     string `form:"date"`
	VanSize  string `form:"vanSize" binding:"omitempty,oneof=small medium large xl"`
}

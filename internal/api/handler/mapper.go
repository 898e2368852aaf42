package handler

import (
	"github.com/homestay/rental-api/internal/core/domain"
	"github.com/homestay/rental-api/internal/core/ports"
)

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Username: u.Username}
}

func (r *listingRequest) toInput() ports.ListingInput {
	amenities := r.Amenities
	if amenities == nil {
		amenities = r.LegacyAmenities
	}
	return ports.ListingInput{
		Name:        r.Name,
		Address:     r.Address,
		Photos:      r.Photos,
		Description: r.Description,
		Amenities:   amenities,
		ExtraInfo:   r.ExtraInfo,
		CheckIn:     r.CheckIn,
		CheckOut:    r.CheckOut,
		MaxGuests:   int(r.MaxGuests),
		Price:       float64(r.Price),
	}
}

func (r *bookingRequest) toInput() ports.BookingInput {
	return ports.BookingInput{
		GuestName: r.Name,
		ListingID: r.PlaceID,
		CheckIn:   r.CheckIn,
		CheckOut:  r.CheckOut,
		Guests:    int(r.Guests),
		Phone:     r.MobileNo,
		Price:     float64(r.Price),
	}
}

func toListingResponse(l *domain.Listing) listingResponse {
	return listingResponse{
		ID:          l.ID,
		Owner:       l.OwnerID,
		Name:        l.Name,
		Address:     l.Address,
		Photos:      emptyIfNil(l.Photos),
		Description: l.Description,
		Amenities:   emptyIfNil(l.Amenities),
		ExtraInfo:   l.ExtraInfo,
		CheckIn:     l.CheckIn,
		CheckOut:    l.CheckOut,
		MaxGuests:   l.MaxGuests,
		Price:       l.Price,
	}
}

func toListingResponses(ls []*domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, toListingResponse(l))
	}
	return out
}

func toBookingResponses(ds []domain.BookingDetail) []bookingResponse {
	out := make([]bookingResponse, 0, len(ds))
	for i := range ds {
		d := &ds[i]
		out = append(out, bookingResponse{
			ID:       d.ID,
			Name:     d.GuestName,
			UserID:   d.GuestID,
			Place:    toListingResponse(&d.Listing),
			CheckIn:  d.CheckIn,
			CheckOut: d.CheckOut,
			Guests:   d.Guests,
			Phone:    d.Phone,
			Price:    d.Price,
		})
	}
	return out
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

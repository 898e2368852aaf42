package domain

// Booking is a reservation against a Listing. Dates are stored as the
// client sent them; no overlap check is made against other bookings.
type Booking struct {
	ID        string
	GuestName string
	GuestID   string
	ListingID string
	CheckIn   string
	CheckOut  string
	Guests    int
	Phone     string
	Price     float64
}

// BookingDetail is a Booking joined with the full Listing it references.
type BookingDetail struct {
	Booking
	Listing Listing
}

package domain

// Listing is a bookable property. OwnerID references a User but the
// reference is not enforced by the store.
type Listing struct {
	ID          string
	OwnerID     string
	Name        string
	Address     string
	Photos      []string
	Description string
	Amenities   []string
	ExtraInfo   string
	CheckIn     string
	CheckOut    string
	MaxGuests   int
	Price       float64
}

// IsOwnedBy reports whether userID is the recorded owner.
func (l *Listing) IsOwnedBy(userID string) bool {
	return userID != "" && l.OwnerID == userID
}

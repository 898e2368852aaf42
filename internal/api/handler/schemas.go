package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxCount bounds guest counts so they convert to int without overflow.
const maxCount = 10000

// numeric accepts a finite JSON number, a numeric string or an empty string
// (zero). Browser forms commonly send numbers as strings.
type numeric float64

func (n *numeric) UnmarshalJSON(b []byte) error {
	f, err := parseNumber(b)
	if err != nil {
		return err
	}
	*n = numeric(f)
	return nil
}

// count is a non-fractional numeric used for guest counts. Range checks
// are left to the validator.
type count int

func (n *count) UnmarshalJSON(b []byte) error {
	f, err := parseNumber(b)
	if err != nil {
		return err
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("not a whole number: %v", f)
	}
	if math.Abs(f) > maxCount {
		return fmt.Errorf("out of range: %v", f)
	}
	*n = count(f)
	return nil
}

func parseNumber(b []byte) (float64, error) {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return 0, nil
	}

	var f float64
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", s)
		}
		f = parsed
	} else if err := json.Unmarshal(b, &f); err != nil {
		return 0, err
	}

	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("not a finite number: %s", b)
	}
	return f, nil
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type loginResponse struct {
	User    userResponse `json:"user"`
	Success string       `json:"success"`
}

type successResponse struct {
	Success string `json:"success"`
}

type createdResponse struct {
	Success string `json:"success"`
	ID      string `json:"_id"`
}

// --- Listings ---

// listingRequest is shared by create and replace. Owner is accepted for
// compatibility and ignored; the stored owner always wins. "emenities" is the
// historical spelling of "amenities".
type listingRequest struct {
	ID              string   `json:"_id"`
	Owner           string   `json:"owner"`
	Name            string   `json:"name" validate:"required"`
	Address         string   `json:"address"`
	Photos          []string `json:"photos"`
	Description     string   `json:"description"`
	Amenities       []string `json:"amenities"`
	LegacyAmenities []string `json:"emenities"`
	ExtraInfo       string   `json:"extraInfo"`
	CheckIn         string   `json:"checkIn"`
	CheckOut        string   `json:"checkOut"`
	MaxGuests       count    `json:"maxGuests" validate:"gte=0,lte=1000"`
	Price           numeric  `json:"price" validate:"gte=0"`
}

type deleteListingRequest struct {
	ID string `json:"id" query:"id" validate:"required"`
}

type listingResponse struct {
	ID          string   `json:"_id"`
	Owner       string   `json:"owner"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Photos      []string `json:"photos"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
	ExtraInfo   string   `json:"extraInfo"`
	CheckIn     string   `json:"checkIn"`
	CheckOut    string   `json:"checkOut"`
	MaxGuests   int      `json:"maxGuests"`
	Price       float64  `json:"price"`
}

// --- Bookings ---

type bookingRequest struct {
	Name     string  `json:"name"`
	PlaceID  string  `json:"placeId" validate:"required"`
	CheckIn  string  `json:"checkIn"`
	CheckOut string  `json:"checkOut"`
	Guests   count   `json:"guests" validate:"gte=0,lte=1000"`
	MobileNo string  `json:"mobileNo"`
	Price    numeric `json:"price" validate:"gte=0"`
}

type bookingResponse struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name"`
	UserID   string          `json:"userId"`
	Place    listingResponse `json:"place"`
	CheckIn  string          `json:"checkIn"`
	CheckOut string          `json:"checkOut"`
	Guests   int             `json:"guests"`
	Phone    string          `json:"phone"`
	Price    float64         `json:"price"`
}

// --- Media ---

type deletePhotoRequest struct {
	PublicID string `json:"public_id" validate:"required"`
}

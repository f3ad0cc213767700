package models

import "time"

// Role is a marketplace account role.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleBroker Role = "broker"
	RoleRenter Role = "renter"
	RoleAdmin  Role = "admin"
)

// User is a stored account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone"`
	ProfilePhoto *string   `json:"profilePhoto"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicUser is a User without its credentials.
type PublicUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone"`
	ProfilePhoto *string   `json:"profilePhoto"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		Phone:        u.Phone,
		ProfilePhoto: u.ProfilePhoto,
		CreatedAt:    u.CreatedAt,
	}
}

// Session is an authenticated login. It is passed explicitly to every
// operation that acts on behalf of a user.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Session) HasRole(role Role) bool {
	return s != nil && s.Role == role
}

// ListingType is the kind of accommodation offered.
type ListingType string

const (
	TypeRoom      ListingType = "room"
	TypeStudio    ListingType = "studio"
	TypeApartment ListingType = "apartment"
)

func (t ListingType) Valid() bool {
	switch t {
	case TypeRoom, TypeStudio, TypeApartment:
		return true
	}
	return false
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Listing is a rental offer. Prices are in XOF.
type Listing struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	City        string       `json:"city"`
	District    string       `json:"district"`
	Type        ListingType  `json:"type"`
	Price       int64        `json:"price"`
	Deposit     *int64       `json:"deposit,omitempty"`
	Description string       `json:"description"`
	Amenities   []string     `json:"amenities"`
	Phone       string       `json:"phone"`
	WhatsApp    string       `json:"whatsapp"`
	Photos      []string     `json:"photos"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	// UserID is nil for seeded listings.
	UserID    *string    `json:"userId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// OwnedBy reports whether userID owns the listing.
func (l Listing) OwnedBy(userID string) bool {
	return l.UserID != nil && *l.UserID == userID
}

// ListingInput is the caller-editable part of a listing.
type ListingInput struct {
	Title       string       `json:"title" validate:"required,max=120"`
	City        string       `json:"city" validate:"required"`
	District    string       `json:"district"`
	Type        ListingType  `json:"type" validate:"required,oneof=room studio apartment"`
	Price       int64        `json:"price" validate:"gt=0"`
	Deposit     *int64       `json:"deposit,omitempty" validate:"omitempty,gte=0"`
	Description string       `json:"description"`
	Amenities   []string     `json:"amenities"`
	Phone       string       `json:"phone"`
	WhatsApp    string       `json:"whatsapp"`
	Photos      []string     `json:"photos"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type Like struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ListingID string    `json:"listingId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ListingID string    `json:"listingId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comment struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	UserName  string     `json:"userName"`
	ListingID string     `json:"listingId"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type View struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listingId"`
	UserID    *string   `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// SearchCriteria is a listing filter. Zero values mean "no constraint".
type SearchCriteria struct {
	Search   string      `json:"search,omitempty"`
	City     string      `json:"city,omitempty"`
	Type     ListingType `json:"type,omitempty"`
	PriceMin int64       `json:"priceMin,omitempty"`
	PriceMax int64       `json:"priceMax,omitempty"`
}

// IsEmpty reports whether no filter is set.
func (c SearchCriteria) IsEmpty() bool {
	return c == SearchCriteria{}
}

type SavedSearch struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Criteria  SearchCriteria `json:"criteria"`
	CreatedAt time.Time      `json:"createdAt"`
}

type NotificationType string

const (
	NotifyComment    NotificationType = "comment"
	NotifyLike       NotificationType = "like"
	NotifyFavorite   NotificationType = "favorite"
	NotifyReport     NotificationType = "report"
	NotifyNewListing NotificationType = "new_listing"
)

type Notification struct {
	ID            string           `json:"id"`
	UserID        string           `json:"userId"`
	Type          NotificationType `json:"type"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	ListingID     string           `json:"listingId"`
	RelatedUserID string           `json:"relatedUserId,omitempty"`
	Link          string           `json:"link"`
	Read          bool             `json:"read"`
	CreatedAt     time.Time        `json:"createdAt"`
}

type ReportReason string

const (
	ReasonFraud         ReportReason = "fraud"
	ReasonInappropriate ReportReason = "inappropriate"
	ReasonUnavailable   ReportReason = "unavailable"
	ReasonWrongInfo     ReportReason = "wrong_info"
	ReasonOther         ReportReason = "other"
)

func (r ReportReason) Valid() bool {
	switch r {
	case ReasonFraud, ReasonInappropriate, ReasonUnavailable, ReasonWrongInfo, ReasonOther:
		return true
	}
	return false
}

const (
	ReportOpen   = "open"
	ReportClosed = "closed"
)

type Report struct {
	ID        string       `json:"id"`
	ListingID string       `json:"listingId"`
	Reason    ReportReason `json:"reason"`
	Message   string       `json:"message"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	ClosedAt  *time.Time   `json:"closedAt,omitempty"`
}

// ComparisonSet holds up to three listings picked for side-by-side comparison
// by one browser, identified by Key.
type ComparisonSet struct {
	Key        string    `json:"key"`
	ListingIDs []string  `json:"listingIds"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type EmailVerification struct {
	Email      string     `json:"email"`
	Code       string     `json:"code"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	CreatedAt  time.Time  `json:"createdAt"`
	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	TotalListings  int                 `json:"totalListings"`
	TotalUsers     int                 `json:"totalUsers"`
	ActiveListings int                 `json:"activeListings"`
	OpenReports    int                 `json:"openReports"`
	ListingsByType map[ListingType]int `json:"listingsByType"`
	ListingsByCity map[string]int      `json:"listingsByCity"`
	UsersByRole    map[Role]int        `json:"usersByRole"`
	AveragePrice   int64               `json:"averagePrice"`
	RecentListings []Listing           `json:"recentListings"`
	RecentUsers    []PublicUser        `json:"recentUsers"`
}

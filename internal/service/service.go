// Package service implements the marketplace stores on top of db.Table
// partitions. Every operation acting for a user takes an explicit session.
package service

import (
	"context"
	"strconv"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/db"
	"github.com/MOULOUNDOU/Senchambre/internal/mail"
	"github.com/MOULOUNDOU/Senchambre/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/thanhpk/randstr"
	"golang.org/x/crypto/bcrypt"
)

// Partition names, appended to Options.PartitionPrefix.
const (
	partUsers         = "users"
	partSessions      = "sessions"
	partListings      = "listings"
	partLikes         = "likes"
	partFavorites     = "favorites"
	partComments      = "comments"
	partViews         = "views"
	partReports       = "reports"
	partComparison    = "comparison"
	partNotifications = "notifications"
	partSearches      = "saved_searches"
	partVerifications = "email_verifications"
)

type Options struct {
	PartitionPrefix string
	SessionTTL      time.Duration
	BcryptCost      int
	AdminEmail      string
	AdminPassword   string
	PageSize        int
	Mailer          mail.Mailer
	// Now overrides the clock in tests.
	Now func() time.Time
}

func (o *Options) setDefaults(log *logrus.Logger) {
	if o.PartitionPrefix == "" {
		o.PartitionPrefix = "senchambres_"
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = 24 * time.Hour
	}
	if o.BcryptCost == 0 {
		o.BcryptCost = bcrypt.DefaultCost
	}
	if o.AdminEmail == "" {
		o.AdminEmail = "admin@senchambres.sn"
	}
	if o.AdminPassword == "" {
		o.AdminPassword = "admin123"
	}
	if o.Mailer == nil {
		o.Mailer = mail.NewLogMailer(log)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Service groups the marketplace components over one backend.
type Service struct {
	Accounts      *AccountService
	Listings      *ListingService
	Likes         *LikeService
	Favorites     *FavoriteService
	Comments      *CommentService
	Views         *ViewService
	Comparison    *ComparisonService
	Searches      *SearchService
	Notifications *NotificationService
	Verification  *VerificationService
	Admin         *AdminService

	bus *Bus
	log *logrus.Logger
}

// New wires every component. Call Init before serving requests.
func New(backend db.Backend, opts Options, log *logrus.Logger) *Service {
	opts.setDefaults(log)
	now := opts.Now
	key := func(name string) string { return opts.PartitionPrefix + name }

	users := db.NewTable[models.User](backend, key(partUsers), log)
	listings := db.NewTable[models.Listing](backend, key(partListings), log)
	likes := db.NewTable[models.Like](backend, key(partLikes), log)
	favorites := db.NewTable[models.Favorite](backend, key(partFavorites), log)
	comments := db.NewTable[models.Comment](backend, key(partComments), log)
	reports := db.NewTable[models.Report](backend, key(partReports), log)
	searches := db.NewTable[models.SavedSearch](backend, key(partSearches), log)

	bus := NewBus(log)
	s := &Service{bus: bus, log: log}

	s.Accounts = &AccountService{
		users:    users,
		sessions: db.NewTable[models.Session](backend, key(partSessions), log),
		opts:     opts,
		now:      now,
		log:      log,
	}
	s.Likes = &LikeService{likes: likes, listings: listings, bus: bus, now: now}
	s.Favorites = &FavoriteService{favorites: favorites, listings: listings, bus: bus, now: now}
	s.Comments = &CommentService{comments: comments, listings: listings, bus: bus, now: now}
	s.Listings = &ListingService{
		listings:  listings,
		likes:     likes,
		favorites: favorites,
		comments:  comments,
		reports:   reports,
		counts:    s.Likes,
		bus:       bus,
		pageSize:  opts.PageSize,
		now:       now,
		log:       log,
	}
	s.Views = &ViewService{views: db.NewTable[models.View](backend, key(partViews), log), now: now}
	s.Comparison = &ComparisonService{sets: db.NewTable[models.ComparisonSet](backend, key(partComparison), log), now: now}
	s.Searches = &SearchService{searches: searches, now: now}
	s.Notifications = &NotificationService{
		notifications: db.NewTable[models.Notification](backend, key(partNotifications), log),
		listings:      s.Listings,
		users:         s.Accounts,
		searches:      s.Searches,
		now:           now,
		log:           log,
	}
	s.Verification = &VerificationService{
		codes:  db.NewTable[models.EmailVerification](backend, key(partVerifications), log),
		mailer: opts.Mailer,
		now:    now,
		log:    log,
	}
	s.Admin = &AdminService{
		users:    users,
		accounts: s.Accounts,
		listings: s.Listings,
		reports:  reports,
		now:      now,
	}

	bus.Subscribe(s.Notifications)
	return s
}

// Init seeds the demo accounts and the sample catalog.
func (s *Service) Init(ctx context.Context) error {
	if err := s.Accounts.Seed(ctx); err != nil {
		return err
	}
	return s.Listings.Seed(ctx)
}

// Cleanup removes expired sessions and verification codes.
func (s *Service) Cleanup(ctx context.Context) {
	if n, err := s.Accounts.CleanExpiredSessions(ctx); err != nil {
		s.log.WithError(err).Error("session cleanup failed")
	} else if n > 0 {
		s.log.WithField("removed", n).Info("expired sessions removed")
	}
	if n, err := s.Verification.CleanExpired(ctx); err != nil {
		s.log.WithError(err).Error("verification cleanup failed")
	} else if n > 0 {
		s.log.WithField("removed", n).Info("expired verification codes removed")
	}
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newID returns a base-36 millisecond timestamp followed by a random suffix.
func newID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 36) + randstr.String(9, idAlphabet)
}

func requireSession(sess *models.Session) error {
	if sess == nil || sess.UserID == "" {
		return ErrUnauthenticated
	}
	return nil
}

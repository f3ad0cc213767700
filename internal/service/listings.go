package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/db"
	"github.com/MOULOUNDOU/Senchambre/internal/models"
	"github.com/MOULOUNDOU/Senchambre/internal/query"
	"github.com/MOULOUNDOU/Senchambre/internal/seed"
	"github.com/sirupsen/logrus"
)

type likeCounter interface {
	Counts(ctx context.Context) (map[string]int, error)
}

// ListingService is the listing store. It also owns the report log.
type ListingService struct {
	listings  *db.Table[models.Listing]
	likes     *db.Table[models.Like]
	favorites *db.Table[models.Favorite]
	comments  *db.Table[models.Comment]
	reports   *db.Table[models.Report]
	counts    likeCounter
	bus       Publisher
	pageSize  int
	now       func() time.Time
	log       *logrus.Logger
}

func (s *ListingService) All(ctx context.Context) ([]models.Listing, error) {
	return s.listings.Load(ctx)
}

func (s *ListingService) Get(ctx context.Context, id string) (*models.Listing, error) {
	listings, err := s.listings.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range listings {
		if l.ID == id {
			listing := l
			return &listing, nil
		}
	}
	return nil, fmt.Errorf("%w: listing %s", ErrNotFound, id)
}

// ByUser returns the listings owned by userID.
func (s *ListingService) ByUser(ctx context.Context, userID string) ([]models.Listing, error) {
	listings, err := s.listings.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Listing{}
	for _, l := range listings {
		if l.OwnedBy(userID) {
			out = append(out, l)
		}
	}
	return out, nil
}

// Browse runs a filtered, sorted and paginated query over the catalog.
func (s *ListingService) Browse(ctx context.Context, p query.Params) (query.Page, error) {
	listings, err := s.listings.Load(ctx)
	if err != nil {
		return query.Page{}, err
	}
	var counts map[string]int
	if query.ParseSort(string(p.Sort)) == query.SortPopular {
		if counts, err = s.counts.Counts(ctx); err != nil {
			return query.Page{}, err
		}
	}
	if p.PageSize <= 0 {
		p.PageSize = s.pageSize
	}
	return query.Run(listings, p, counts), nil
}

func cleanInput(in models.ListingInput) models.ListingInput {
	in.Title = strings.TrimSpace(in.Title)
	in.City = strings.TrimSpace(in.City)
	in.District = strings.TrimSpace(in.District)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func applyInput(l *models.Listing, in models.ListingInput) {
	l.Title = in.Title
	l.City = in.City
	l.District = in.District
	l.Type = in.Type
	l.Price = in.Price
	l.Deposit = in.Deposit
	l.Description = in.Description
	l.Amenities = in.Amenities
	l.Phone = in.Phone
	l.WhatsApp = in.WhatsApp
	l.Photos = in.Photos
	l.Coordinates = in.Coordinates
}

// Create publishes a listing owned by the session user.
func (s *ListingService) Create(ctx context.Context, sess *models.Session, in models.ListingInput) (*models.Listing, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	in = cleanInput(in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	now := s.now()
	owner := sess.UserID
	listing := models.Listing{ID: newID(now), UserID: &owner, CreatedAt: now}
	applyInput(&listing, in)

	err := s.listings.Update(ctx, func(listings []models.Listing) ([]models.Listing, error) {
		return append(listings, listing), nil
	})
	if err != nil {
		return nil, fmt.Errorf("listings.Create: %w", err)
	}
	s.log.WithFields(logrus.Fields{"listing": listing.ID, "user": owner}).Info("listing created")
	s.bus.Publish(ctx, Event{Kind: EventListingCreated, ListingID: listing.ID, ActorID: owner, ActorName: sess.Name})
	return &listing, nil
}

// Update overwrites the editable fields of a listing owned by the caller.
// Id, owner and creation time are kept.
func (s *ListingService) Update(ctx context.Context, sess *models.Session, id string, in models.ListingInput) (*models.Listing, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	in = cleanInput(in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	var updated models.Listing
	err := s.listings.Update(ctx, func(listings []models.Listing) ([]models.Listing, error) {
		for i := range listings {
			if listings[i].ID != id {
				continue
			}
			if !listings[i].OwnedBy(sess.UserID) {
				return nil, fmt.Errorf("%w: listing %s belongs to another user", ErrForbidden, id)
			}
			applyInput(&listings[i], in)
			now := s.now()
			listings[i].UpdatedAt = &now
			updated = listings[i]
			return listings, nil
		}
		return nil, fmt.Errorf("%w: listing %s", ErrNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a listing owned by the caller.
func (s *ListingService) Delete(ctx context.Context, sess *models.Session, id string) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	return s.remove(ctx, id, func(l models.Listing) error {
		if !l.OwnedBy(sess.UserID) {
			return fmt.Errorf("%w: listing %s belongs to another user", ErrForbidden, id)
		}
		return nil
	})
}

// remove deletes the listing after check passes, then drops its likes,
// favorites and comments.
func (s *ListingService) remove(ctx context.Context, id string, check func(models.Listing) error) error {
	err := s.listings.Update(ctx, func(listings []models.Listing) ([]models.Listing, error) {
		for i := range listings {
			if listings[i].ID != id {
				continue
			}
			if err := check(listings[i]); err != nil {
				return nil, err
			}
			return append(listings[:i], listings[i+1:]...), nil
		}
		return nil, fmt.Errorf("%w: listing %s", ErrNotFound, id)
	})
	if err != nil {
		return err
	}

	if err := s.likes.Update(ctx, func(rows []models.Like) ([]models.Like, error) {
		return dropWhere(rows, func(r models.Like) bool { return r.ListingID == id }), nil
	}); err != nil {
		return fmt.Errorf("listings.Delete likes: %w", err)
	}
	if err := s.favorites.Update(ctx, func(rows []models.Favorite) ([]models.Favorite, error) {
		return dropWhere(rows, func(r models.Favorite) bool { return r.ListingID == id }), nil
	}); err != nil {
		return fmt.Errorf("listings.Delete favorites: %w", err)
	}
	if err := s.comments.Update(ctx, func(rows []models.Comment) ([]models.Comment, error) {
		return dropWhere(rows, func(r models.Comment) bool { return r.ListingID == id }), nil
	}); err != nil {
		return fmt.Errorf("listings.Delete comments: %w", err)
	}
	s.log.WithField("listing", id).Info("listing deleted")
	return nil
}

// Report files an anonymous report against a listing.
func (s *ListingService) Report(ctx context.Context, listingID string, reason models.ReportReason, message string) (*models.Report, error) {
	if !reason.Valid() {
		return nil, invalid("unknown report reason %q", reason)
	}
	if _, err := s.Get(ctx, listingID); err != nil {
		return nil, err
	}

	now := s.now()
	report := models.Report{
		ID:        newID(now),
		ListingID: listingID,
		Reason:    reason,
		Message:   strings.TrimSpace(message),
		Status:    models.ReportOpen,
		CreatedAt: now,
	}
	err := s.reports.Update(ctx, func(reports []models.Report) ([]models.Report, error) {
		return append(reports, report), nil
	})
	if err != nil {
		return nil, fmt.Errorf("listings.Report: %w", err)
	}
	s.bus.Publish(ctx, Event{Kind: EventReported, ListingID: listingID, ReportID: report.ID})
	return &report, nil
}

// Seed writes the sample catalog when the listing partition was never written.
func (s *ListingService) Seed(ctx context.Context) error {
	exists, err := s.listings.Exists(ctx)
	if err != nil || exists {
		return err
	}
	listings := seed.Listings()
	s.log.WithField("count", len(listings)).Info("seeding sample listings")
	return s.listings.Flush(ctx, listings)
}

// Reseed replaces the whole catalog with the sample listings.
func (s *ListingService) Reseed(ctx context.Context) error {
	if err := s.listings.Drop(ctx); err != nil {
		return err
	}
	return s.Seed(ctx)
}

func dropWhere[T any](rows []T, match func(T) bool) []T {
	kept := rows[:0]
	for _, r := range rows {
		if !match(r) {
			kept = append(kept, r)
		}
	}
	return kept
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/db"
	"github.com/MOULOUNDOU/Senchambre/internal/models"
)

type FavoriteService struct {
	favorites *db.Table[models.Favorite]
	listings  *db.Table[models.Listing]
	bus       Publisher
	now       func() time.Time
}

// Add saves the listing to the user's favorites. It returns false when it
// was already there.
func (s *FavoriteService) Add(ctx context.Context, sess *models.Session, listingID string) (bool, error) {
	if err := requireSession(sess); err != nil {
		return false, err
	}
	if _, err := listingExists(ctx, s.listings, listingID); err != nil {
		return false, err
	}

	added := false
	err := s.favorites.Update(ctx, func(favs []models.Favorite) ([]models.Favorite, error) {
		for _, f := range favs {
			if f.UserID == sess.UserID && f.ListingID == listingID {
				return favs, nil
			}
		}
		now := s.now()
		added = true
		return append(favs, models.Favorite{ID: newID(now), UserID: sess.UserID, ListingID: listingID, CreatedAt: now}), nil
	})
	if err != nil {
		return false, fmt.Errorf("favorites.Add: %w", err)
	}
	if added {
		s.bus.Publish(ctx, Event{Kind: EventFavorited, ListingID: listingID, ActorID: sess.UserID, ActorName: sess.Name})
	}
	return added, nil
}

// Remove drops the listing from the user's favorites. It returns false when
// it was not there.
func (s *FavoriteService) Remove(ctx context.Context, sess *models.Session, listingID string) (bool, error) {
	if err := requireSession(sess); err != nil {
		return false, err
	}
	removed := false
	err := s.favorites.Update(ctx, func(favs []models.Favorite) ([]models.Favorite, error) {
		for i, f := range favs {
			if f.UserID == sess.UserID && f.ListingID == listingID {
				removed = true
				return append(favs[:i], favs[i+1:]...), nil
			}
		}
		return favs, nil
	})
	return removed, err
}

func (s *FavoriteService) IsFavorite(ctx context.Context, userID, listingID string) (bool, error) {
	favs, err := s.favorites.Load(ctx)
	if err != nil {
		return false, err
	}
	for _, f := range favs {
		if f.UserID == userID && f.ListingID == listingID {
			return true, nil
		}
	}
	return false, nil
}

// ByUser returns the favorite listing ids of userID, oldest first.
func (s *FavoriteService) ByUser(ctx context.Context, userID string) ([]string, error) {
	favs, err := s.favorites.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, f := range favs {
		if f.UserID == userID {
			out = append(out, f.ListingID)
		}
	}
	return out, nil
}

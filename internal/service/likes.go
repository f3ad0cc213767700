package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/db"
	"github.com/MOULOUNDOU/Senchambre/internal/models"
)

// Ranked is a listing with an aggregated count.
type Ranked struct {
	ListingID string `json:"listingId"`
	Count     int    `json:"count"`
}

// rank counts ids and returns the top limit entries, highest first. Ties keep
// the order of first appearance. limit <= 0 returns every entry.
func rank(ids []string, limit int) []Ranked {
	index := make(map[string]int)
	var out []Ranked
	for _, id := range ids {
		if i, ok := index[id]; ok {
			out[i].Count++
			continue
		}
		index[id] = len(out)
		out = append(out, Ranked{ListingID: id, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []Ranked{}
	}
	return out
}

func listingExists(ctx context.Context, listings *db.Table[models.Listing], id string) (*models.Listing, error) {
	all, err := listings.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range all {
		if l.ID == id {
			listing := l
			return &listing, nil
		}
	}
	return nil, fmt.Errorf("%w: listing %s", ErrNotFound, id)
}

type LikeService struct {
	likes    *db.Table[models.Like]
	listings *db.Table[models.Listing]
	bus      Publisher
	now      func() time.Time
}

// Toggle likes the listing, or removes the like if the user already gave one.
// It returns the new state and the listing's like count.
func (s *LikeService) Toggle(ctx context.Context, sess *models.Session, listingID string) (bool, int, error) {
	if err := requireSession(sess); err != nil {
		return false, 0, err
	}
	if _, err := listingExists(ctx, s.listings, listingID); err != nil {
		return false, 0, err
	}

	var liked bool
	var count int
	err := s.likes.Update(ctx, func(likes []models.Like) ([]models.Like, error) {
		for i, l := range likes {
			if l.UserID == sess.UserID && l.ListingID == listingID {
				likes = append(likes[:i], likes[i+1:]...)
				count = countListing(likes, listingID)
				return likes, nil
			}
		}
		now := s.now()
		likes = append(likes, models.Like{ID: newID(now), UserID: sess.UserID, ListingID: listingID, CreatedAt: now})
		liked = true
		count = countListing(likes, listingID)
		return likes, nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("likes.Toggle: %w", err)
	}
	if liked {
		s.bus.Publish(ctx, Event{Kind: EventLiked, ListingID: listingID, ActorID: sess.UserID, ActorName: sess.Name})
	}
	return liked, count, nil
}

func countListing(likes []models.Like, listingID string) int {
	n := 0
	for _, l := range likes {
		if l.ListingID == listingID {
			n++
		}
	}
	return n
}

func (s *LikeService) Count(ctx context.Context, listingID string) (int, error) {
	likes, err := s.likes.Load(ctx)
	if err != nil {
		return 0, err
	}
	return countListing(likes, listingID), nil
}

func (s *LikeService) HasLiked(ctx context.Context, userID, listingID string) (bool, error) {
	likes, err := s.likes.Load(ctx)
	if err != nil {
		return false, err
	}
	for _, l := range likes {
		if l.UserID == userID && l.ListingID == listingID {
			return true, nil
		}
	}
	return false, nil
}

// Counts returns the like count of every liked listing.
func (s *LikeService) Counts(ctx context.Context) (map[string]int, error) {
	likes, err := s.likes.Load(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, l := range likes {
		counts[l.ListingID]++
	}
	return counts, nil
}

func (s *LikeService) MostLiked(ctx context.Context, limit int) ([]Ranked, error) {
	likes, err := s.likes.Load(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(likes))
	for i, l := range likes {
		ids[i] = l.ListingID
	}
	return rank(ids, limit), nil
}

// ByUser returns the ids of the listings userID liked.
func (s *LikeService) ByUser(ctx context.Context, userID string) ([]string, error) {
	likes, err := s.likes.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, l := range likes {
		if l.UserID == userID {
			out = append(out, l.ListingID)
		}
	}
	return out, nil
}

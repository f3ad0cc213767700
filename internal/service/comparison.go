package service

import (
	"context"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/db"
	"github.com/MOULOUNDOU/Senchambre/internal/models"
)

const MaxComparison = 3

// ComparisonService keeps one comparison set per client key. The key is the
// browser's identity, not the user's.
type ComparisonService struct {
	sets *db.Table[models.ComparisonSet]
	now  func() time.Time
}

// Add puts listingID in the set. A full set fails even for a listing already
// in it; otherwise a duplicate returns false.
func (s *ComparisonService) Add(ctx context.Context, key, listingID string) (bool, error) {
	if key == "" {
		return false, invalid("missing comparison key")
	}
	added := false
	err := s.sets.Update(ctx, func(sets []models.ComparisonSet) ([]models.ComparisonSet, error) {
		i := findSet(sets, key)
		if i < 0 {
			sets = append(sets, models.ComparisonSet{Key: key})
			i = len(sets) - 1
		}
		set := &sets[i]
		if len(set.ListingIDs) >= MaxComparison {
			return nil, ErrComparisonFull
		}
		if contains(set.ListingIDs, listingID) {
			return sets, nil
		}
		set.ListingIDs = append(set.ListingIDs, listingID)
		set.UpdatedAt = s.now()
		added = true
		return sets, nil
	})
	return added, err
}

func (s *ComparisonService) Remove(ctx context.Context, key, listingID string) error {
	return s.sets.Update(ctx, func(sets []models.ComparisonSet) ([]models.ComparisonSet, error) {
		i := findSet(sets, key)
		if i < 0 {
			return sets, nil
		}
		ids := sets[i].ListingIDs[:0]
		for _, id := range sets[i].ListingIDs {
			if id != listingID {
				ids = append(ids, id)
			}
		}
		sets[i].ListingIDs = ids
		sets[i].UpdatedAt = s.now()
		return sets, nil
	})
}

func (s *ComparisonService) Clear(ctx context.Context, key string) error {
	return s.sets.Update(ctx, func(sets []models.ComparisonSet) ([]models.ComparisonSet, error) {
		if i := findSet(sets, key); i >= 0 {
			sets = append(sets[:i], sets[i+1:]...)
		}
		return sets, nil
	})
}

func (s *ComparisonService) Contains(ctx context.Context, key, listingID string) (bool, error) {
	ids, err := s.List(ctx, key)
	if err != nil {
		return false, err
	}
	return contains(ids, listingID), nil
}

// List returns the listing ids in the set, in insertion order.
func (s *ComparisonService) List(ctx context.Context, key string) ([]string, error) {
	sets, err := s.sets.Load(ctx)
	if err != nil {
		return nil, err
	}
	if i := findSet(sets, key); i >= 0 && sets[i].ListingIDs != nil {
		return sets[i].ListingIDs, nil
	}
	return []string{}, nil
}

func findSet(sets []models.ComparisonSet, key string) int {
	for i := range sets {
		if sets[i].Key == key {
			return i
		}
	}
	return -1
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

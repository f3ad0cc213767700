package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/db"
	"github.com/MOULOUNDOU/Senchambre/internal/models"
)

const maxSavedSearches = 10

// SearchService stores renters' search history.
type SearchService struct {
	searches *db.Table[models.SavedSearch]
	now      func() time.Time
}

// Save records a search for a renter. Empty criteria are rejected.
func (s *SearchService) Save(ctx context.Context, sess *models.Session, c models.SearchCriteria) (*models.SavedSearch, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if !sess.HasRole(models.RoleRenter) {
		return nil, fmt.Errorf("%w: only renters save searches", ErrForbidden)
	}
	c.Search = strings.TrimSpace(c.Search)
	c.City = strings.TrimSpace(c.City)
	if c.IsEmpty() {
		return nil, invalid("search has no criteria")
	}
	if c.Type != "" && !c.Type.Valid() {
		return nil, invalid("unknown listing type %q", c.Type)
	}

	now := s.now()
	saved := models.SavedSearch{ID: newID(now), UserID: sess.UserID, Criteria: c, CreatedAt: now}
	err := s.searches.Update(ctx, func(rows []models.SavedSearch) ([]models.SavedSearch, error) {
		return append(rows, saved), nil
	})
	if err != nil {
		return nil, fmt.Errorf("searches.Save: %w", err)
	}
	return &saved, nil
}

// List returns the caller's most recent searches, newest first.
func (s *SearchService) List(ctx context.Context, sess *models.Session) ([]models.SavedSearch, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	rows, err := s.searches.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.SavedSearch{}
	for _, r := range rows {
		if r.UserID == sess.UserID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > maxSavedSearches {
		out = out[:maxSavedSearches]
	}
	return out, nil
}

func (s *SearchService) Delete(ctx context.Context, sess *models.Session, id string) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	return s.searches.Update(ctx, func(rows []models.SavedSearch) ([]models.SavedSearch, error) {
		for i := range rows {
			if rows[i].ID != id {
				continue
			}
			if rows[i].UserID != sess.UserID {
				return nil, fmt.Errorf("%w: search %s belongs to another user", ErrForbidden, id)
			}
			return append(rows[:i], rows[i+1:]...), nil
		}
		return nil, fmt.Errorf("%w: search %s", ErrNotFound, id)
	})
}

// All returns every saved search of every user.
func (s *SearchService) All(ctx context.Context) ([]models.SavedSearch, error) {
	return s.searches.Load(ctx)
}

package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/db"
	"github.com/MOULOUNDOU/Senchambre/internal/models"
)

const recentLimit = 10

// UserPatch holds the fields an admin may change on an account.
type UserPatch struct {
	Name  *string      `json:"name"`
	Phone *string      `json:"phone"`
	Role  *models.Role `json:"role"`
}

// AdminService is the moderation and user-management surface.
type AdminService struct {
	users    *db.Table[models.User]
	accounts *AccountService
	listings *ListingService
	reports  *db.Table[models.Report]
	now      func() time.Time
}

func requireAdmin(sess *models.Session) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if !sess.HasRole(models.RoleAdmin) {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}

// Stats summarizes the catalog and the account base.
func (s *AdminService) Stats(ctx context.Context, sess *models.Session) (*models.DashboardStats, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	listings, err := s.listings.All(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	reports, err := s.reports.Load(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		TotalListings:  len(listings),
		TotalUsers:     len(users),
		ListingsByType: make(map[models.ListingType]int),
		ListingsByCity: make(map[string]int),
		UsersByRole:    make(map[models.Role]int),
	}

	var priceSum int64
	priced := 0
	for _, l := range listings {
		if l.UserID != nil {
			stats.ActiveListings++
		}
		stats.ListingsByType[l.Type]++
		stats.ListingsByCity[l.City]++
		if l.Price > 0 {
			priceSum += l.Price
			priced++
		}
	}
	if priced > 0 {
		stats.AveragePrice = int64(math.Round(float64(priceSum) / float64(priced)))
	}
	for _, u := range users {
		stats.UsersByRole[u.Role]++
	}
	for _, r := range reports {
		if r.Status == models.ReportOpen {
			stats.OpenReports++
		}
	}

	recent := append([]models.Listing(nil), listings...)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	stats.RecentListings = recent

	sort.SliceStable(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	for i, u := range users {
		if i == recentLimit {
			break
		}
		stats.RecentUsers = append(stats.RecentUsers, u.Public())
	}
	return stats, nil
}

// Users lists every account, without credentials.
func (s *AdminService) Users(ctx context.Context, sess *models.Session) ([]models.PublicUser, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// UpdateUser applies patch to the account with id. The id never changes.
func (s *AdminService) UpdateUser(ctx context.Context, sess *models.Session, id string, patch UserPatch) (*models.PublicUser, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	if patch.Role != nil {
		switch *patch.Role {
		case models.RoleOwner, models.RoleBroker, models.RoleRenter, models.RoleAdmin:
		default:
			return nil, invalid("unknown role %q", *patch.Role)
		}
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, invalid("name must not be empty")
	}

	var updated models.User
	err := s.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].ID != id {
				continue
			}
			if patch.Name != nil {
				users[i].Name = strings.TrimSpace(*patch.Name)
			}
			if patch.Phone != nil {
				users[i].Phone = strings.TrimSpace(*patch.Phone)
			}
			if patch.Role != nil {
				users[i].Role = *patch.Role
			}
			updated = users[i]
			return users, nil
		}
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	if patch.Role != nil {
		// Sessions carry the role; force a fresh login.
		if err := s.accounts.EndUserSessions(ctx, id); err != nil {
			return nil, err
		}
	}
	pub := updated.Public()
	return &pub, nil
}

// DeleteUser removes an account and its sessions. Admins cannot delete themselves.
func (s *AdminService) DeleteUser(ctx context.Context, sess *models.Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if id == sess.UserID {
		return invalid("cannot delete your own account")
	}
	err := s.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].ID == id {
				return append(users[:i], users[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	})
	if err != nil {
		return err
	}
	return s.accounts.EndUserSessions(ctx, id)
}

// DeleteListing removes any listing, whoever owns it.
func (s *AdminService) DeleteListing(ctx context.Context, sess *models.Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	return s.listings.remove(ctx, id, func(models.Listing) error { return nil })
}

// Reports returns the report log, newest first. status filters when set.
func (s *AdminService) Reports(ctx context.Context, sess *models.Session, status string) ([]models.Report, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	reports, err := s.reports.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Report{}
	for _, r := range reports {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *AdminService) CloseReport(ctx context.Context, sess *models.Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	return s.reports.Update(ctx, func(reports []models.Report) ([]models.Report, error) {
		for i := range reports {
			if reports[i].ID == id {
				now := s.now()
				reports[i].Status = models.ReportClosed
				reports[i].ClosedAt = &now
				return reports, nil
			}
		}
		return nil, fmt.Errorf("%w: report %s", ErrNotFound, id)
	})
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/db"
	"github.com/MOULOUNDOU/Senchambre/internal/models"
	"github.com/MOULOUNDOU/Senchambre/internal/seed"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen   = 6
	// bcrypt hashes at most 72 bytes of input.
	maxPasswordBytes = 72
)

type RegisterInput struct {
	Name         string      `json:"name" validate:"required,max=80"`
	Email        string      `json:"email" validate:"required,email"`
	Password     string      `json:"password" validate:"required,min=6,max=72"`
	Role         models.Role `json:"role" validate:"required,oneof=owner broker renter"`
	Phone        string      `json:"phone" validate:"max=20"`
	ProfilePhoto *string     `json:"profilePhoto"`
}

// ProfilePatch holds the self-editable profile fields. Nil fields are kept.
type ProfilePatch struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	ProfilePhoto *string `json:"profilePhoto"`
}

// AccountService is the account directory and session store.
type AccountService struct {
	users    *db.Table[models.User]
	sessions *db.Table[models.Session]
	opts     Options
	now      func() time.Time
	log      *logrus.Logger
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *AccountService) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), a.opts.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Register creates an account and logs it in.
func (a *AccountService) Register(ctx context.Context, in RegisterInput) (*models.Session, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, invalid("password exceeds %d bytes", maxPasswordBytes)
	}
	hash, err := a.hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := a.now()
	user := models.User{
		ID:           newID(now),
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Role:         in.Role,
		Phone:        strings.TrimSpace(in.Phone),
		ProfilePhoto: in.ProfilePhoto,
		CreatedAt:    now,
	}
	err = a.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		for _, u := range users {
			if u.Email == user.Email {
				return nil, ErrDuplicateEmail
			}
		}
		return append(users, user), nil
	})
	if err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{"user": user.ID, "role": user.Role}).Info("account registered")
	return a.startSession(ctx, user)
}

// Login checks the credentials and replaces any previous session of the user.
func (a *AccountService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	user, err := a.userByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return a.startSession(ctx, *user)
}

func (a *AccountService) startSession(ctx context.Context, user models.User) (*models.Session, error) {
	now := a.now()
	sess := models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(a.opts.SessionTTL),
	}
	err := a.sessions.Update(ctx, func(sessions []models.Session) ([]models.Session, error) {
		kept := sessions[:0]
		for _, s := range sessions {
			if s.UserID != user.ID && s.ExpiresAt.After(now) {
				kept = append(kept, s)
			}
		}
		return append(kept, sess), nil
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// Logout ends the session identified by token.
func (a *AccountService) Logout(ctx context.Context, token string) error {
	return a.sessions.Update(ctx, func(sessions []models.Session) ([]models.Session, error) {
		kept := sessions[:0]
		for _, s := range sessions {
			if s.Token != token {
				kept = append(kept, s)
			}
		}
		return kept, nil
	})
}

// Authenticate resolves a token to its live session.
func (a *AccountService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	sessions, err := a.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	now := a.now()
	for _, s := range sessions {
		if s.Token == token && s.ExpiresAt.After(now) {
			sess := s
			return &sess, nil
		}
	}
	return nil, ErrUnauthenticated
}

// CurrentUser returns the account behind token, or nil when there is no live session.
func (a *AccountService) CurrentUser(ctx context.Context, token string) (*models.PublicUser, error) {
	sess, err := a.Authenticate(ctx, token)
	if errors.Is(err, ErrUnauthenticated) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user, err := a.User(ctx, sess.UserID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

// UpdateProfile merges patch into the caller's account and re-issues the
// session. Id, email, password and role are never changed here.
func (a *AccountService) UpdateProfile(ctx context.Context, sess *models.Session, patch ProfilePatch) (*models.Session, *models.PublicUser, error) {
	if err := requireSession(sess); err != nil {
		return nil, nil, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, nil, invalid("name must not be empty")
	}

	var updated models.User
	err := a.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].ID != sess.UserID {
				continue
			}
			if patch.Name != nil {
				users[i].Name = strings.TrimSpace(*patch.Name)
			}
			if patch.Phone != nil {
				users[i].Phone = strings.TrimSpace(*patch.Phone)
			}
			if patch.ProfilePhoto != nil {
				photo := *patch.ProfilePhoto
				users[i].ProfilePhoto = &photo
			}
			updated = users[i]
			return users, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, nil, err
	}

	next, err := a.startSession(ctx, updated)
	if err != nil {
		return nil, nil, err
	}
	pub := updated.Public()
	return next, &pub, nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (a *AccountService) ChangePassword(ctx context.Context, sess *models.Session, current, next string) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	user, err := a.User(ctx, sess.UserID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrWrongPassword
	}
	if len([]rune(next)) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if len(next) > maxPasswordBytes {
		return invalid("password exceeds %d bytes", maxPasswordBytes)
	}
	hash, err := a.hash(next)
	if err != nil {
		return err
	}
	return a.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].ID == sess.UserID {
				users[i].PasswordHash = hash
				return users, nil
			}
		}
		return nil, ErrNotFound
	})
}

// User returns the stored account with id.
func (a *AccountService) User(ctx context.Context, id string) (*models.User, error) {
	users, err := a.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
}

func (a *AccountService) userByEmail(ctx context.Context, email string) (*models.User, error) {
	email = normalizeEmail(email)
	users, err := a.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// UsersByRole lists the public profiles holding role.
func (a *AccountService) UsersByRole(ctx context.Context, role models.Role) ([]models.PublicUser, error) {
	users, err := a.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.PublicUser
	for _, u := range users {
		if u.Role == role {
			out = append(out, u.Public())
		}
	}
	return out, nil
}

// EndUserSessions drops every session of userID.
func (a *AccountService) EndUserSessions(ctx context.Context, userID string) error {
	return a.sessions.Update(ctx, func(sessions []models.Session) ([]models.Session, error) {
		kept := sessions[:0]
		for _, s := range sessions {
			if s.UserID != userID {
				kept = append(kept, s)
			}
		}
		return kept, nil
	})
}

// CleanExpiredSessions removes expired sessions and returns how many were dropped.
func (a *AccountService) CleanExpiredSessions(ctx context.Context) (int, error) {
	now := a.now()
	removed := 0
	err := a.sessions.Update(ctx, func(sessions []models.Session) ([]models.Session, error) {
		kept := sessions[:0]
		for _, s := range sessions {
			if s.ExpiresAt.After(now) {
				kept = append(kept, s)
			}
		}
		removed = len(sessions) - len(kept)
		return kept, nil
	})
	return removed, err
}

// Seed writes the demo accounts on first run and restores the admin account
// on every run.
func (a *AccountService) Seed(ctx context.Context) error {
	exists, err := a.users.Exists(ctx)
	if err != nil {
		return err
	}

	if !exists {
		demo := seed.DemoAccounts(a.opts.AdminEmail, a.opts.AdminPassword)
		users := make([]models.User, 0, len(demo))
		for _, d := range demo {
			u, err := a.demoUser(d)
			if err != nil {
				return err
			}
			users = append(users, u)
		}
		a.log.WithField("count", len(users)).Info("seeding demo accounts")
		return a.users.Flush(ctx, users)
	}

	admin, err := a.demoUser(seed.Admin(a.opts.AdminEmail, a.opts.AdminPassword))
	if err != nil {
		return err
	}
	var evicted []string
	err = a.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		kept := users[:0]
		restored := false
		for _, u := range users {
			switch {
			case u.ID == seed.AdminID:
				kept = append(kept, admin)
				restored = true
			case u.Email == admin.Email:
				evicted = append(evicted, u.ID)
			default:
				kept = append(kept, u)
			}
		}
		if !restored {
			a.log.Warn("admin account missing, restoring it")
			kept = append(kept, admin)
		}
		return kept, nil
	})
	if err != nil {
		return err
	}
	// The admin email is reserved.
	for _, id := range evicted {
		a.log.WithFields(logrus.Fields{"user": id, "email": admin.Email}).Warn("removed account holding the admin email")
		if err := a.EndUserSessions(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (a *AccountService) demoUser(d seed.DemoAccount) (models.User, error) {
	hash, err := a.hash(d.Password)
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		ID:           d.ID,
		Email:        normalizeEmail(d.Email),
		PasswordHash: hash,
		Name:         d.Name,
		Role:         d.Role,
		Phone:        d.Phone,
		CreatedAt:    d.Created,
	}, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/db"
	"github.com/MOULOUNDOU/Senchambre/internal/mail"
	"github.com/MOULOUNDOU/Senchambre/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/thanhpk/randstr"
)

const codeTTL = 15 * time.Minute

// VerificationService issues and checks six-digit email codes.
type VerificationService struct {
	codes  *db.Table[models.EmailVerification]
	mailer mail.Mailer
	now    func() time.Time
	log    *logrus.Logger
}

func newCode() string {
	return randstr.String(1, "123456789") + randstr.String(5, "0123456789")
}

// SendCode replaces any pending code for email and mails a new one.
func (s *VerificationService) SendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return invalid("invalid email address")
	}

	now := s.now()
	v := models.EmailVerification{
		Email:     email,
		Code:      newCode(),
		ExpiresAt: now.Add(codeTTL),
		CreatedAt: now,
	}
	err := s.codes.Update(ctx, func(rows []models.EmailVerification) ([]models.EmailVerification, error) {
		rows = dropWhere(rows, func(r models.EmailVerification) bool { return r.Email == email })
		return append(rows, v), nil
	})
	if err != nil {
		return fmt.Errorf("verification.SendCode: %w", err)
	}

	msg := mail.Message{
		To:      email,
		Subject: "Votre code de vérification SenChambres",
		Text:    fmt.Sprintf("Votre code de vérification est %s. Il expire dans 15 minutes.", v.Code),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.WithError(err).WithField("email", email).Error("verification email not sent")
		return err
	}
	return nil
}

// Verify checks code against the pending code for email and marks it verified.
func (s *VerificationService) Verify(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	now := s.now()
	return s.codes.Update(ctx, func(rows []models.EmailVerification) ([]models.EmailVerification, error) {
		for i := range rows {
			if rows[i].Email != email || rows[i].Verified {
				continue
			}
			if now.After(rows[i].ExpiresAt) {
				return nil, ErrCodeExpired
			}
			if rows[i].Code != code {
				return nil, ErrCodeMismatch
			}
			rows[i].Verified = true
			rows[i].VerifiedAt = &now
			return rows, nil
		}
		return nil, ErrNoVerification
	})
}

func (s *VerificationService) IsVerified(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	rows, err := s.codes.Load(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range rows {
		if r.Email == email && r.Verified {
			return true, nil
		}
	}
	return false, nil
}

// CleanExpired drops expired codes that were never verified.
func (s *VerificationService) CleanExpired(ctx context.Context) (int, error) {
	now := s.now()
	removed := 0
	err := s.codes.Update(ctx, func(rows []models.EmailVerification) ([]models.EmailVerification, error) {
		before := len(rows)
		rows = dropWhere(rows, func(r models.EmailVerification) bool {
			return !r.Verified && now.After(r.ExpiresAt)
		})
		removed = before - len(rows)
		return rows, nil
	})
	return removed, err
}

package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/db"
	"github.com/MOULOUNDOU/Senchambre/internal/mail"
	"github.com/MOULOUNDOU/Senchambre/internal/models"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type outbox struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (o *outbox) Send(_ context.Context, msg mail.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

func (o *outbox) last() mail.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sent[len(o.sent)-1]
}

type fixture struct {
	svc     *Service
	backend *db.MemoryStore
	clock   *fakeClock
	mail    *outbox
	opts    Options
}

const (
	adminEmail    = "admin@test.sn"
	adminPassword = "admin-pass"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log, _ := test.NewNullLogger()
	f := &fixture{
		backend: db.NewMemoryStore(),
		clock:   &fakeClock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		mail:    &outbox{},
	}
	f.opts = Options{
		BcryptCost:    bcrypt.MinCost,
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
		SessionTTL:    time.Hour,
		Mailer:        f.mail,
		Now:           f.clock.Now,
	}
	f.svc = New(f.backend, f.opts, log)
	require.NoError(t, f.svc.Init(context.Background()))
	return f
}

// reopen builds a second Service over the same backend, as a restart would.
func (f *fixture) reopen(t *testing.T) *Service {
	t.Helper()
	log, _ := test.NewNullLogger()
	svc := New(f.backend, f.opts, log)
	require.NoError(t, svc.Init(context.Background()))
	return svc
}

func (f *fixture) register(t *testing.T, name, email string, role models.Role) *models.Session {
	t.Helper()
	sess, err := f.svc.Accounts.Register(context.Background(), RegisterInput{
		Name: name, Email: email, Password: "secret1", Role: role,
	})
	require.NoError(t, err)
	return sess
}

func (f *fixture) login(t *testing.T, email, password string) *models.Session {
	t.Helper()
	sess, err := f.svc.Accounts.Login(context.Background(), email, password)
	require.NoError(t, err)
	return sess
}

func (f *fixture) admin(t *testing.T) *models.Session {
	return f.login(t, adminEmail, adminPassword)
}

func sampleInput() models.ListingInput {
	deposit := int64(70000)
	return models.ListingInput{
		Title:       "Chambre à Sacré-Coeur",
		City:        "Dakar",
		District:    "Sacré-Coeur",
		Type:        models.TypeRoom,
		Price:       35000,
		Deposit:     &deposit,
		Description: "Chambre calme",
		Amenities:   []string{"wifi"},
		Phone:       "+221770000000",
		WhatsApp:    "+221770000000",
		Photos:      []string{"https://example.com/a.jpg"},
	}
}

func TestNewIDIsBase36TimestampPlusSuffix(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	a, b := newID(now), newID(now)
	prefix := strconv.FormatInt(now.UnixMilli(), 36)
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, prefix))
	assert.Len(t, a, len(prefix)+9)
	assert.Regexp(t, `^[0-9a-z]+$`, a)
}

func TestInitIsIdempotent(t *testing.T) {
	f := newFixture(t)
	svc := f.reopen(t)

	listings, err := svc.Listings.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, listings, 10)
}

func TestCleanupRemovesExpiredState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.register(t, "Awa", "awa@test.sn", models.RoleRenter)
	require.NoError(t, f.svc.Verification.SendCode(ctx, "awa@test.sn"))

	f.clock.Advance(2 * time.Hour)
	f.svc.Cleanup(ctx)

	_, err := f.svc.Accounts.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, f.svc.Verification.Verify(ctx, "awa@test.sn", "000000"), ErrNoVerification)
}

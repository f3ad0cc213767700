package app

import (
	"context"
	"testing"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/config"
	"github.com/MOULOUNDOU/Senchambre/internal/mail"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailerFallsBackToLog(t *testing.T) {
	log, hook := test.NewNullLogger()
	m := NewMailer(&config.Config{}, log)
	assert.IsType(t, &mail.LogMailer{}, m)
	assert.NotNil(t, hook.LastEntry())

	m = NewMailer(&config.Config{MailjetAPIKey: "k", MailjetSecretKey: "s"}, log)
	assert.IsType(t, &mail.MailjetMailer{}, m)
}

func TestOpenMemoryBackendSeeds(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := &config.Config{
		Backend:         "memory",
		PartitionPrefix: "test_",
		SessionTTL:      time.Hour,
		AdminEmail:      "admin@test.sn",
		AdminPassword:   "admin-pass",
	}
	a, err := Open(context.Background(), cfg, log)
	require.NoError(t, err)
	defer a.Close()

	listings, err := a.Service.Listings.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, listings, 10)

	_, err = a.Service.Accounts.Login(context.Background(), "admin@test.sn", "admin-pass")
	assert.NoError(t, err)
}

func TestOpenUnknownBackend(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := Open(context.Background(), &config.Config{Backend: "cassandra"}, log)
	assert.Error(t, err)
}

func TestRunCleanupStopsWithContext(t *testing.T) {
	log, _ := test.NewNullLogger()
	a, err := Open(context.Background(), &config.Config{Backend: "memory"}, log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.RunCleanup(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}

package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`\b[1-9][0-9]{5}\b`)

func sentCode(t *testing.T, f *fixture) string {
	t.Helper()
	code := codePattern.FindString(f.mail.last().Text)
	require.NotEmpty(t, code)
	return code
}

func TestNewCodeShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.Regexp(t, `^[1-9][0-9]{5}$`, newCode())
	}
}

func TestVerifyEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Verification.SendCode(ctx, " Awa@Test.sn "))
	assert.Equal(t, "awa@test.sn", f.mail.last().To)
	code := sentCode(t, f)

	assert.ErrorIs(t, f.svc.Verification.Verify(ctx, "awa@test.sn", "000000"), ErrCodeMismatch)
	require.NoError(t, f.svc.Verification.Verify(ctx, "AWA@test.sn", code))

	ok, err := f.svc.Verification.IsVerified(ctx, "awa@test.sn")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.ErrorIs(t, f.svc.Verification.Verify(ctx, "awa@test.sn", code), ErrNoVerification)
}

func TestResendReplacesCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Verification.SendCode(ctx, "awa@test.sn"))
	first := sentCode(t, f)
	require.NoError(t, f.svc.Verification.SendCode(ctx, "awa@test.sn"))
	second := sentCode(t, f)

	rows, err := f.svc.Verification.codes.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	if first != second {
		assert.ErrorIs(t, f.svc.Verification.Verify(ctx, "awa@test.sn", first), ErrCodeMismatch)
	}
	require.NoError(t, f.svc.Verification.Verify(ctx, "awa@test.sn", second))
}

func TestVerifyExpiredCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Verification.SendCode(ctx, "awa@test.sn"))
	code := sentCode(t, f)
	f.clock.Advance(codeTTL + time.Second)

	assert.ErrorIs(t, f.svc.Verification.Verify(ctx, "awa@test.sn", code), ErrCodeExpired)
	ok, err := f.svc.Verification.IsVerified(ctx, "awa@test.sn")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := f.svc.Verification.CleanExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSendCodeRejectsBadEmail(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.svc.Verification.SendCode(context.Background(), "nope"), ErrValidation)
	assert.Empty(t, f.mail.sent)
}

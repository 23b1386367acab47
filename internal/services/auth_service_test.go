package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	svc      *AuthService
	users    *memUsers
	sessions *memSessions
	codes    *memCodes
	resets   *memResets
	mailer   *captureSender
	google   *fakeGoogle
}

func newAuthFixture(t *testing.T, devMode bool) *authFixture {
	t.Helper()
	f := &authFixture{
		users:    newMemUsers(),
		sessions: newMemSessions(),
		codes:    newMemCodes(),
		resets:   newMemResets(),
		mailer:   &captureSender{},
		google:   &fakeGoogle{},
	}
	sessionSvc := NewSessionService(f.sessions, 7*24*time.Hour)
	otpSvc := NewOTPService(f.codes, f.resets, 10*time.Minute, 15*time.Minute)
	f.svc = NewAuthService(f.users, sessionSvc, otpSvc, f.google, f.mailer, "InventoryHub", 10*time.Minute, devMode)
	return f
}

func TestAuthService_Register(t *testing.T) {
	f := newAuthFixture(t, false)

	user, delivery, err := f.svc.Register(context.Background(), "alice@example.com", "hunter2secret")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.Verified)
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, "email", user.LoginMethod)

	require.NotNil(t, user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte("hunter2secret")))

	assert.True(t, delivery.EmailSent)
	assert.Empty(t, delivery.Code)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "alice@example.com", f.mailer.sent[0].To)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t, true)

	_, _, err := f.svc.Register(context.Background(), "alice@example.com", "hunter2secret")
	require.NoError(t, err)
	_, _, err = f.svc.Register(context.Background(), "alice@example.com", "othersecret")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_RegisterMissingFields(t *testing.T) {
	f := newAuthFixture(t, true)

	_, _, err := f.svc.Register(context.Background(), "", "hunter2secret")
	assert.ErrorIs(t, err, ErrMissingFields)
	_, _, err = f.svc.Register(context.Background(), "alice@example.com", "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestAuthService_RegisterDevModeEchoesCode(t *testing.T) {
	f := newAuthFixture(t, true)

	_, delivery, err := f.svc.Register(context.Background(), "alice@example.com", "hunter2secret")
	require.NoError(t, err)
	assert.True(t, delivery.Simulated)
	assert.Len(t, delivery.Code, 6)
	assert.False(t, delivery.EmailSent)

	// Development mode still routes the message through the sender;
	// only the response flags change.
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "alice@example.com", f.mailer.sent[0].To)
	assert.Contains(t, f.mailer.sent[0].Text, delivery.Code)
}

func TestAuthService_RegisterSurvivesMailFailure(t *testing.T) {
	f := newAuthFixture(t, false)
	f.mailer.err = assert.AnError

	user, delivery, err := f.svc.Register(context.Background(), "alice@example.com", "hunter2secret")
	require.NoError(t, err)
	assert.False(t, delivery.EmailSent)
	assert.Empty(t, delivery.Code)

	// The account and its code exist; resend can recover delivery.
	assert.Equal(t, 1, f.codes.countFor(user.ID))
}

func registerVerified(t *testing.T, f *authFixture, email, password string) {
	t.Helper()
	_, delivery, err := f.svc.Register(context.Background(), email, password)
	require.NoError(t, err)
	require.NoError(t, f.svc.VerifyEmail(context.Background(), email, delivery.Code))
}

func TestAuthService_LoginFlow(t *testing.T) {
	f := newAuthFixture(t, true)
	registerVerified(t, f, "alice@example.com", "hunter2secret")

	tok, user, err := f.svc.Login(context.Background(), "alice@example.com", "hunter2secret")
	require.NoError(t, err)
	assert.Len(t, tok, 64)
	assert.True(t, user.Verified)
}

func TestAuthService_LoginRevokesPriorSessions(t *testing.T) {
	f := newAuthFixture(t, true)
	registerVerified(t, f, "alice@example.com", "hunter2secret")

	first, user, err := f.svc.Login(context.Background(), "alice@example.com", "hunter2secret")
	require.NoError(t, err)
	_, _, err = f.svc.Login(context.Background(), "alice@example.com", "hunter2secret")
	require.NoError(t, err)

	assert.Equal(t, 1, f.sessions.countFor(user.ID))
	_, err = f.svc.sessions.Resolve(context.Background(), first)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_LoginRejections(t *testing.T) {
	f := newAuthFixture(t, true)
	registerVerified(t, f, "alice@example.com", "hunter2secret")
	_, _, err := f.svc.Register(context.Background(), "bob@example.com", "hunter2secret")
	require.NoError(t, err)

	_, _, err = f.svc.Login(context.Background(), "nobody@example.com", "hunter2secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.svc.Login(context.Background(), "alice@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unverified accounts are told so, but only with correct credentials.
	_, _, err = f.svc.Login(context.Background(), "bob@example.com", "hunter2secret")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
	_, _, err = f.svc.Login(context.Background(), "bob@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RegisterLosingCreateRaceReportsEmailTaken(t *testing.T) {
	f := newAuthFixture(t, false)
	// The store looks empty at check time but the insert itself collides,
	// as happens when two registrations for the same address interleave.
	f.svc.users = &dupUsers{memUsers: f.users}

	_, _, err := f.svc.Register(context.Background(), "alice@example.com", "hunter2secret")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_GoogleLoginCreatesVerifiedUser(t *testing.T) {
	f := newAuthFixture(t, true)
	f.google.profile = &GoogleProfile{
		Sub:           "google-sub-1",
		Email:         "carol@example.com",
		EmailVerified: true,
		Picture:       "https://example.com/carol.png",
	}

	tok, user, err := f.svc.LoginWithGoogleIDToken(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Len(t, tok, 64)
	assert.True(t, user.Verified)
	assert.Equal(t, "google", user.LoginMethod)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "google-sub-1", *user.GoogleID)
}

func TestAuthService_GoogleLoginLinksExistingAccount(t *testing.T) {
	f := newAuthFixture(t, true)
	_, _, err := f.svc.Register(context.Background(), "alice@example.com", "hunter2secret")
	require.NoError(t, err)

	f.google.profile = &GoogleProfile{Sub: "google-sub-2", Email: "alice@example.com", EmailVerified: true}
	_, user, err := f.svc.LoginWithGoogleCode(context.Background(), "auth-code")
	require.NoError(t, err)

	// Google vouches for the address, so the account flips to verified
	// and keeps its password hash.
	assert.True(t, user.Verified)
	assert.NotNil(t, user.PasswordHash)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "google-sub-2", *user.GoogleID)
}

func TestAuthService_GoogleLoginKeepsOtherSessions(t *testing.T) {
	f := newAuthFixture(t, true)
	registerVerified(t, f, "alice@example.com", "hunter2secret")
	first, user, err := f.svc.Login(context.Background(), "alice@example.com", "hunter2secret")
	require.NoError(t, err)

	f.google.profile = &GoogleProfile{Sub: "google-sub-3", Email: "alice@example.com", EmailVerified: true}
	_, _, err = f.svc.LoginWithGoogleIDToken(context.Background(), "id-token")
	require.NoError(t, err)

	assert.Equal(t, 2, f.sessions.countFor(user.ID))
	_, err = f.svc.sessions.Resolve(context.Background(), first)
	assert.NoError(t, err)
}

func TestAuthService_GoogleLoginUnverifiedEmail(t *testing.T) {
	f := newAuthFixture(t, true)
	_, _, err := f.svc.Register(context.Background(), "alice@example.com", "hunter2secret")
	require.NoError(t, err)

	// An email Google has not verified must not flip the account to
	// verified, even though the sign-in itself succeeds.
	f.google.profile = &GoogleProfile{Sub: "google-sub-4", Email: "alice@example.com", EmailVerified: false}
	tok, user, err := f.svc.LoginWithGoogleIDToken(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Len(t, tok, 64)
	assert.False(t, user.Verified)

	// Same rule for first-time sign-ins.
	f.google.profile = &GoogleProfile{Sub: "google-sub-5", Email: "dave@example.com", EmailVerified: false}
	_, user, err = f.svc.LoginWithGoogleIDToken(context.Background(), "id-token")
	require.NoError(t, err)
	assert.False(t, user.Verified)
}

func TestAuthService_GoogleLoginFailure(t *testing.T) {
	f := newAuthFixture(t, true)
	f.google.err = assert.AnError

	_, _, err := f.svc.LoginWithGoogleIDToken(context.Background(), "bad-token")
	assert.ErrorIs(t, err, ErrGoogleAuth)
	_, _, err = f.svc.LoginWithGoogleCode(context.Background(), "bad-code")
	assert.ErrorIs(t, err, ErrGoogleAuth)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	f := newAuthFixture(t, true)
	_, delivery, err := f.svc.Register(context.Background(), "alice@example.com", "hunter2secret")
	require.NoError(t, err)

	require.NoError(t, f.svc.VerifyEmail(context.Background(), "alice@example.com", delivery.Code))

	user, err := f.users.ByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, user.Verified)

	// Second use of the same code fails.
	assert.ErrorIs(t, f.svc.VerifyEmail(context.Background(), "alice@example.com", delivery.Code), ErrCodeInvalid)
}

func TestAuthService_VerifyEmailUnknownUser(t *testing.T) {
	f := newAuthFixture(t, true)
	assert.ErrorIs(t, f.svc.VerifyEmail(context.Background(), "nobody@example.com", "123456"), ErrUserNotFound)
}

func TestAuthService_ResendVerificationInvalidatesOldCode(t *testing.T) {
	f := newAuthFixture(t, true)
	_, first, err := f.svc.Register(context.Background(), "alice@example.com", "hunter2secret")
	require.NoError(t, err)

	second, err := f.svc.ResendVerification(context.Background(), "alice@example.com")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.VerifyEmail(context.Background(), "alice@example.com", first.Code), ErrCodeInvalid)
	assert.NoError(t, f.svc.VerifyEmail(context.Background(), "alice@example.com", second.Code))
}

func TestAuthService_ForgotPassword(t *testing.T) {
	f := newAuthFixture(t, true)
	registerVerified(t, f, "alice@example.com", "hunter2secret")

	delivery, err := f.svc.ForgotPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Len(t, delivery.Code, 6)

	_, err = f.svc.ForgotPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_ForgotPasswordUnverified(t *testing.T) {
	f := newAuthFixture(t, true)
	_, _, err := f.svc.Register(context.Background(), "bob@example.com", "hunter2secret")
	require.NoError(t, err)

	_, err = f.svc.ForgotPassword(context.Background(), "bob@example.com")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t, true)
	registerVerified(t, f, "alice@example.com", "hunter2secret")

	// Leave a session alive to confirm reset revokes it.
	oldTok, _, err := f.svc.Login(context.Background(), "alice@example.com", "hunter2secret")
	require.NoError(t, err)

	delivery, err := f.svc.ForgotPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)

	resetTok, _, err := f.svc.VerifyResetCode(context.Background(), "alice@example.com", delivery.Code)
	require.NoError(t, err)

	require.NoError(t, f.svc.ResetPassword(context.Background(), resetTok, "brandnewsecret"))

	// Old password dead, new one works, all sessions revoked, token spent.
	_, _, err = f.svc.Login(context.Background(), "alice@example.com", "hunter2secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = f.svc.Login(context.Background(), "alice@example.com", "brandnewsecret")
	assert.NoError(t, err)
	_, err = f.svc.sessions.Resolve(context.Background(), oldTok)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, f.svc.ResetPassword(context.Background(), resetTok, "anothersecret"), ErrResetTokenInvalid)
}

func TestAuthService_ResetPasswordTooShort(t *testing.T) {
	f := newAuthFixture(t, true)
	registerVerified(t, f, "alice@example.com", "hunter2secret")

	delivery, err := f.svc.ForgotPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)
	resetTok, _, err := f.svc.VerifyResetCode(context.Background(), "alice@example.com", delivery.Code)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.ResetPassword(context.Background(), resetTok, "short"), ErrPasswordTooShort)

	// The token survives a rejected password and can be retried.
	assert.NoError(t, f.svc.ResetPassword(context.Background(), resetTok, "longenoughsecret"))
}

func TestAuthService_ResetTokenBoundToItsUser(t *testing.T) {
	f := newAuthFixture(t, true)
	registerVerified(t, f, "alice@example.com", "hunter2secret")
	registerVerified(t, f, "bob@example.com", "bobsecret123")

	delivery, err := f.svc.ForgotPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)
	resetTok, _, err := f.svc.VerifyResetCode(context.Background(), "alice@example.com", delivery.Code)
	require.NoError(t, err)

	// The token carries its own user binding; there is no way to point
	// it at another account. Completing the reset must leave Bob alone.
	require.NoError(t, f.svc.ResetPassword(context.Background(), resetTok, "alicenewsecret"))

	_, _, err = f.svc.Login(context.Background(), "bob@example.com", "bobsecret123")
	assert.NoError(t, err)
	_, _, err = f.svc.Login(context.Background(), "alice@example.com", "alicenewsecret")
	assert.NoError(t, err)
}

func TestAuthService_ResetPasswordBadToken(t *testing.T) {
	f := newAuthFixture(t, true)
	assert.ErrorIs(t, f.svc.ResetPassword(context.Background(), "bogus", "longenoughsecret"), ErrResetTokenInvalid)
}

func TestAuthService_VerifyResetCodeWrongCode(t *testing.T) {
	f := newAuthFixture(t, true)
	registerVerified(t, f, "alice@example.com", "hunter2secret")
	_, err := f.svc.ForgotPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)

	_, _, err = f.svc.VerifyResetCode(context.Background(), "alice@example.com", "000000")
	assert.ErrorIs(t, err, ErrCodeInvalid)
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t, true)
	registerVerified(t, f, "alice@example.com", "hunter2secret")
	tok, _, err := f.svc.Login(context.Background(), "alice@example.com", "hunter2secret")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), tok))
	_, err = f.svc.sessions.Resolve(context.Background(), tok)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Logging out twice, or with no token, is fine.
	require.NoError(t, f.svc.Logout(context.Background(), tok))
	require.NoError(t, f.svc.Logout(context.Background(), ""))
}

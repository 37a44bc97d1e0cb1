package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
)

func newTestAuth(env *testEnv) *authService {
	svc := NewAuthService(env.users, env.tokens, env.mailer, TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}).(*authService)
	svc.generateOTP = func() (int, error) { return 424242, nil }
	return svc
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestAuth(env)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &models.RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "Secret1!",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleLearner, resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Len(t, env.mailer.byTemplate("welcome"), 1)

	stored, err := env.tokens.GetByToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, stored.UserID)

	identity, err := svc.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, identity.UserID)
	assert.Equal(t, "ada@example.com", identity.Email)

	// Refresh token, access token olarak kabul edilmez.
	_, err = svc.ValidateAccessToken(resp.RefreshToken)
	assert.True(t, errors.Is(err, pkg.ErrUnauthorized))

	_, err = svc.Register(ctx, &models.RegisterRequest{
		FirstName: "Ada", LastName: "Again", Email: "ada@example.com", Password: "Secret1!",
	})
	assert.True(t, errors.Is(err, pkg.ErrAlreadyExists))

	login, err := svc.Login(ctx, &models.LoginRequest{Email: "ada@example.com", Password: "Secret1!"})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, login.RefreshToken)

	// İlk oturumun refresh token'ı hâlâ geçerli.
	_, err = svc.Refresh(ctx, resp.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_LoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestAuth(env)
	env.seedUser(t, "bob@example.com", "Secret1!", models.RoleLearner)

	for _, req := range []*models.LoginRequest{
		{Email: "bob@example.com", Password: "Wrong1!x"},
		{Email: "nobody@example.com", Password: "Secret1!"},
	} {
		_, err := svc.Login(context.Background(), req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, pkg.ErrUnauthorized))
		assert.Contains(t, err.Error(), "Invalid credentials")
	}
}

func TestAuthService_Refresh(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestAuth(env)
	ctx := context.Background()
	env.seedUser(t, "carol@example.com", "Secret1!", models.RoleTrainer)

	login, err := svc.Login(ctx, &models.LoginRequest{Email: "carol@example.com", Password: "Secret1!"})
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	identity, err := svc.ValidateAccessToken(access.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTrainer, identity.Role)

	t.Run("access token rejected", func(t *testing.T) {
		_, err := svc.Refresh(ctx, login.AccessToken)
		assert.True(t, errors.Is(err, pkg.ErrUnauthorized))
	})

	t.Run("revoked token rejected", func(t *testing.T) {
		other, err := svc.Login(ctx, &models.LoginRequest{Email: "carol@example.com", Password: "Secret1!"})
		require.NoError(t, err)
		_, err = svc.Logout(ctx, other.User.ID, other.RefreshToken)
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, other.RefreshToken)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid refresh token")
	})

	t.Run("expired token rejected", func(t *testing.T) {
		svc.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
		defer func() { svc.now = time.Now }()

		_, err := svc.Refresh(ctx, login.RefreshToken)
		assert.True(t, errors.Is(err, pkg.ErrUnauthorized))
	})
}

func TestAuthService_RefreshRejectsExpiredStoredToken(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestAuth(env)
	ctx := context.Background()
	env.seedUser(t, "erin@example.com", "Secret1!", models.RoleLearner)

	login, err := svc.Login(ctx, &models.LoginRequest{Email: "erin@example.com", Password: "Secret1!"})
	require.NoError(t, err)

	// JWT imzası ve exp'i geçerli; sadece kayıttaki bitiş geçmişte.
	_, err = env.db.ExecContext(ctx, `UPDATE refresh_tokens SET expires_at = ? WHERE token = ?`,
		time.Now().Add(-time.Hour).UTC(), login.RefreshToken)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, login.RefreshToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkg.ErrUnauthorized))
	assert.Contains(t, err.Error(), "Invalid refresh token")
}

func TestAuthService_ConcurrentRegisterSameEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestAuth(env)
	ctx := context.Background()

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, &models.RegisterRequest{
				FirstName: "Race", LastName: "Runner", Email: "race@example.com", Password: "Secret1!",
			})
		}()
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, pkg.ErrAlreadyExists):
			conflict++
		default:
			t.Errorf("unexpected register error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, conflict)

	user, err := env.users.GetByEmail(ctx, "race@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Runner", user.LastName)
}

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestAuth(env)
	ctx := context.Background()
	user := env.seedUser(t, "dave@example.com", "Secret1!", models.RoleLearner)

	login, err := svc.Login(ctx, &models.LoginRequest{Email: "dave@example.com", Password: "Secret1!"})
	require.NoError(t, err)

	msg, err := svc.ForgotPassword(ctx, &models.ForgotPasswordRequest{Email: "unknown@example.com"})
	require.NoError(t, err)
	assert.Equal(t, msgForgotPassword, msg)
	assert.Empty(t, env.mailer.byTemplate("password_reset"))

	msg, err = svc.ForgotPassword(ctx, &models.ForgotPasswordRequest{Email: "dave@example.com"})
	require.NoError(t, err)
	assert.Equal(t, msgForgotPassword, msg)
	sent := env.mailer.byTemplate("password_reset")
	require.Len(t, sent, 1)
	assert.Equal(t, 424242, sent[0].OTP)

	_, err = svc.ResetPassword(ctx, &models.ResetPasswordRequest{Email: "dave@example.com", OTP: 111111, NewPassword: "Better2@"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkg.ErrBadRequest))
	assert.Contains(t, err.Error(), "Invalid reset code")

	msg, err = svc.ResetPassword(ctx, &models.ResetPasswordRequest{Email: "dave@example.com", OTP: 424242, NewPassword: "Better2@"})
	require.NoError(t, err)
	assert.Equal(t, msgPasswordReset, msg)

	// Kod tek kullanımlık, eski oturumlar kapanmış.
	_, err = svc.ResetPassword(ctx, &models.ResetPasswordRequest{Email: "dave@example.com", OTP: 424242, NewPassword: "Another3#"})
	assert.True(t, errors.Is(err, pkg.ErrBadRequest))
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.True(t, errors.Is(err, pkg.ErrUnauthorized))

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "dave@example.com", Password: "Better2@"})
	assert.NoError(t, err)

	got, err := env.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got.OTP)
}

func TestAuthService_ForgotPasswordSurvivesMailerFailure(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.err = errors.New("smtp down")
	svc := newTestAuth(env)
	env.seedUser(t, "erin@example.com", "Secret1!", models.RoleLearner)

	msg, err := svc.ForgotPassword(context.Background(), &models.ForgotPasswordRequest{Email: "erin@example.com"})
	require.NoError(t, err)
	assert.Equal(t, msgForgotPassword, msg)
}

func TestAuthService_LogoutAll(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestAuth(env)
	ctx := context.Background()
	env.seedUser(t, "fay@example.com", "Secret1!", models.RoleLearner)

	first, err := svc.Login(ctx, &models.LoginRequest{Email: "fay@example.com", Password: "Secret1!"})
	require.NoError(t, err)
	second, err := svc.Login(ctx, &models.LoginRequest{Email: "fay@example.com", Password: "Secret1!"})
	require.NoError(t, err)

	msg, err := svc.Logout(ctx, first.User.ID, "")
	require.NoError(t, err)
	assert.Equal(t, msgLoggedOut, msg)

	for _, tok := range []string{first.RefreshToken, second.RefreshToken} {
		_, err := svc.Refresh(ctx, tok)
		assert.True(t, errors.Is(err, pkg.ErrUnauthorized))
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestAuth(env)
	ctx := context.Background()
	user := env.seedUser(t, "gus@example.com", "Secret1!", models.RoleLearner)

	err := svc.ChangePassword(ctx, user.ID, &models.ChangePasswordRequest{CurrentPassword: "Wrong1!x", NewPassword: "Better2@"})
	assert.True(t, errors.Is(err, pkg.ErrUnauthorized))

	err = svc.ChangePassword(ctx, user.ID, &models.ChangePasswordRequest{CurrentPassword: "Secret1!", NewPassword: "Secret1!"})
	assert.True(t, errors.Is(err, pkg.ErrBadRequest))

	require.NoError(t, svc.ChangePassword(ctx, user.ID, &models.ChangePasswordRequest{CurrentPassword: "Secret1!", NewPassword: "Better2@"}))
	_, err = svc.Login(ctx, &models.LoginRequest{Email: "gus@example.com", Password: "Better2@"})
	assert.NoError(t, err)
}

func TestRandomOTPRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		otp, err := randomOTP()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, otp, models.OTPMin)
		assert.LessOrEqual(t, otp, models.OTPMax)
	}
}

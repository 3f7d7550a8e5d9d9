package account

import (
	"context"
	"lostfound/internal/common/enum"
	database "lostfound/internal/pkg/db"
	"lostfound/internal/pkg/jwt"
	"lostfound/internal/pkg/redis"
	"lostfound/internal/service/account/model"
	"lostfound/internal/service/notification"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`\d{6}`)

type outbox struct {
	mu   sync.Mutex
	sent []notification.Notification
}

func (o *outbox) Notify(_ context.Context, n notification.Notification) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, n)
	return nil
}

func (o *outbox) lastCode(t *testing.T, to string) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.sent) - 1; i >= 0; i-- {
		if o.sent[i].To == to {
			code := codePattern.FindString(o.sent[i].Body)
			require.NotEmpty(t, code)
			return code
		}
	}
	t.Fatalf("no notification sent to %s", to)
	return ""
}

func newService(t *testing.T) (IService, *outbox) {
	t.Helper()
	db, err := database.SetupMemory(&model.User{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rds := redis.NewMemory()
	box := &outbox{}
	opts := jwt.DefaultOptions("test-secret")
	opts.SaveMethod = jwt.REDIS
	return NewService(db, NewCodeStore(rds, 15*time.Minute), box, jwt.New(rds, opts)), box
}

func registerInput() *model.RegisterInput {
	return &model.RegisterInput{
		Name:            "Ada Lovelace",
		CampusID:        "ab123",
		Email:           "Ada@Example.com",
		Department:      "Mathematics",
		Phone:           "(555) 123-4567",
		Password:        "analytical",
		ConfirmPassword: "analytical",
	}
}

func TestRegister(t *testing.T) {
	svc, box := newService(t)

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	assert.Equal(t, "AB123", user.CampusID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.False(t, user.EmailVerified)
	assert.NotEqual(t, "analytical", user.PasswordHash)

	require.Len(t, box.sent, 1)
	assert.Equal(t, enum.EMAIL_CHANNEL, box.sent[0].Channel)

	_, err = svc.Register(context.Background(), registerInput())
	assert.ErrorIs(t, err, ErrEmailTaken)

	dup := registerInput()
	dup.Email = "other@example.com"
	_, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, ErrCampusIDTaken)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newService(t)

	in := registerInput()
	in.CampusID = "AB-123"
	in.Password = "short"
	in.ConfirmPassword = "short"
	_, err := svc.Register(context.Background(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "campus_id")
	assert.Contains(t, err.Error(), "password")

	in = registerInput()
	in.ConfirmPassword = "different1"
	_, err = svc.Register(context.Background(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confirm_password")
}

func TestLogin_RequiresVerifiedEmail(t *testing.T) {
	svc, box := newService(t)
	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	user, err := svc.Authenticate("AB123", "analytical")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
	require.NotNil(t, user)

	pending, err := svc.Login("AB123", "analytical")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
	require.NotNil(t, pending)
	assert.Empty(t, pending.Token)
	assert.Equal(t, "ada@example.com", pending.User.Email)

	assert.ErrorIs(t, svc.VerifyEmail("ada@example.com", "000000x"), ErrInvalidCode)
	require.NoError(t, svc.VerifyEmail("ada@example.com", box.lastCode(t, "ada@example.com")))

	result, err := svc.Login("ada@example.com", "analytical")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "AB123", result.User.CampusID)

	_, err = svc.Login("ab123", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login("nobody@example.com", "analytical")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyEmail_CodeIsSingleUse(t *testing.T) {
	svc, box := newService(t)
	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	code := box.lastCode(t, "ada@example.com")
	require.NoError(t, svc.VerifyEmail("ada@example.com", code))
	assert.ErrorIs(t, svc.VerifyEmail("ada@example.com", code), ErrInvalidCode)
	assert.ErrorIs(t, svc.VerifyEmail("ghost@example.com", code), ErrUserNotFound)
}

func TestResendEmailCode(t *testing.T) {
	svc, box := newService(t)
	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	first := box.lastCode(t, "ada@example.com")

	require.NoError(t, svc.ResendEmailCode(context.Background(), "ADA@example.com"))
	assert.Len(t, box.sent, 2)
	second := box.lastCode(t, "ada@example.com")
	if first != second {
		assert.ErrorIs(t, svc.VerifyEmail("ada@example.com", first), ErrInvalidCode)
	}
	require.NoError(t, svc.VerifyEmail("ada@example.com", second))

	assert.ErrorIs(t, svc.ResendEmailCode(context.Background(), "ghost@example.com"), ErrUserNotFound)
}

func TestPhoneReset(t *testing.T) {
	svc, box := newService(t)
	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.NoError(t, svc.VerifyEmail(user.Email, box.lastCode(t, user.Email)))

	assert.ErrorIs(t, svc.RequestPhoneReset(context.Background(), "000"), ErrUserNotFound)
	require.NoError(t, svc.RequestPhoneReset(context.Background(), user.Phone))
	code := box.lastCode(t, user.Phone)

	_, err = svc.VerifyPhoneCode(user.Phone, "abcdef")
	assert.ErrorIs(t, err, ErrInvalidCode)

	token, err := svc.VerifyPhoneCode(user.Phone, code)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.ErrorIs(t, svc.ResetPassword(user.Phone, "forged", "brand-new-pass"), ErrResetNotAllowed)
	require.NoError(t, svc.ResetPassword(user.Phone, token, "brand-new-pass"))
	assert.ErrorIs(t, svc.ResetPassword(user.Phone, token, "again-new-pass"), ErrResetNotAllowed)

	_, err = svc.Login("AB123", "analytical")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login("AB123", "brand-new-pass")
	assert.NoError(t, err)

	stored, err := svc.GetByID(user.ID)
	require.NoError(t, err)
	assert.True(t, stored.PhoneVerified)
}

func TestLogoutRevokesSession(t *testing.T) {
	db, err := database.SetupMemory(&model.User{})
	require.NoError(t, err)
	defer db.Close()

	rds := redis.NewMemory()
	opts := jwt.DefaultOptions("test-secret")
	opts.SaveMethod = jwt.REDIS
	auth := jwt.New(rds, opts)
	box := &outbox{}
	svc := NewService(db, NewCodeStore(rds, time.Minute), box, auth)

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.NoError(t, svc.VerifyEmail(user.Email, box.lastCode(t, user.Email)))

	result, err := svc.Login("AB123", "analytical")
	require.NoError(t, err)
	claims, err := auth.ValidateToken(result.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(claims))
	_, err = auth.ValidateToken(result.Token)
	assert.ErrorIs(t, err, jwt.ErrRevoked)
}

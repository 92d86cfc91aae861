package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetwise/backend/internal/domain/entity"
	"github.com/budgetwise/backend/pkg/helpers"
)

func newAuthService(budgets *fakeBudgetRepo) (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo(budgets)
	jwt := helpers.NewJWTManager("test-secret", time.Hour, time.Hour)
	return NewAuthService(users, jwt, testLogger(), nil, nil), users
}

func TestRegister_CreatesUserAndDefaultBudget(t *testing.T) {
	budgets := newFakeBudgetRepo()
	svc, _ := newAuthService(budgets)

	u, token, err := svc.Register(context.Background(), RegisterInput{
		Email:     "alice@example.com",
		Password:  "s3cret-password",
		FirstName: "Alice",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "s3cret-password", u.PasswordHash)

	// token resolves back to the new user
	claims, err := svc.JWT.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	// exactly one budget exists and it is the flagged default
	list, err := budgets.ListByUser(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.DefaultBudgetName, list[0].Name)
	assert.Equal(t, entity.DefaultCurrency, list[0].Currency)
	assert.True(t, list[0].IsDefault)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(newFakeBudgetRepo())

	in := RegisterInput{Email: "bob@example.com", Password: "long-enough", FirstName: "Bob", LastName: "B"}
	_, _, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_Success(t *testing.T) {
	svc, _ := newAuthService(newFakeBudgetRepo())
	reg, _, err := svc.Register(context.Background(), RegisterInput{
		Email: "carol@example.com", Password: "correct-password", FirstName: "Carol", LastName: "C",
	})
	require.NoError(t, err)

	u, token, err := svc.Login(context.Background(), "carol@example.com", "correct-password")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPasswordAndUnknownEmailAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthService(newFakeBudgetRepo())
	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email: "dave@example.com", Password: "correct-password", FirstName: "Dave", LastName: "D",
	})
	require.NoError(t, err)

	_, _, errWrongPwd := svc.Login(context.Background(), "dave@example.com", "wrong-password")
	_, _, errNoUser := svc.Login(context.Background(), "nobody@example.com", "whatever-pass")

	assert.ErrorIs(t, errWrongPwd, ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, ErrInvalidCredentials)
	assert.Equal(t, errWrongPwd, errNoUser)
}

func TestForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	svc, _ := newAuthService(newFakeBudgetRepo())

	err := svc.ForgotPassword(context.Background(), "ghost@example.com")
	assert.NoError(t, err)
}

func TestForgotPassword_StoresTokenWithExpiry(t *testing.T) {
	svc, users := newAuthService(newFakeBudgetRepo())
	u, _, err := svc.Register(context.Background(), RegisterInput{
		Email: "erin@example.com", Password: "whatever-pass", FirstName: "Erin", LastName: "E",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(context.Background(), "erin@example.com"))

	stored, err := users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)
	require.NotNil(t, stored.ResetTokenExp)
	assert.True(t, stored.ResetTokenExp.After(time.Now()))

	claims, err := svc.JWT.ParseResetToken(*stored.ResetToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
}

func TestResetPassword_Success(t *testing.T) {
	svc, users := newAuthService(newFakeBudgetRepo())
	u, _, err := svc.Register(context.Background(), RegisterInput{
		Email: "frank@example.com", Password: "old-password1", FirstName: "Frank", LastName: "F",
	})
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(context.Background(), "frank@example.com"))

	stored, err := users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	token := *stored.ResetToken

	require.NoError(t, svc.ResetPassword(context.Background(), token, "new-password1"))

	// new password works, old does not
	_, _, err = svc.Login(context.Background(), "frank@example.com", "new-password1")
	assert.NoError(t, err)
	_, _, err = svc.Login(context.Background(), "frank@example.com", "old-password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// token is single-use
	err = svc.ResetPassword(context.Background(), token, "another-pass1")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	budgets := newFakeBudgetRepo()
	users := newFakeUserRepo(budgets)
	jwt := helpers.NewJWTManager("test-secret", time.Hour, -time.Minute) // reset tokens already expired
	svc := NewAuthService(users, jwt, testLogger(), nil, nil)

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email: "gina@example.com", Password: "old-password1", FirstName: "Gina", LastName: "G",
	})
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(context.Background(), "gina@example.com"))

	u, err := users.GetByEmail(context.Background(), "gina@example.com")
	require.NoError(t, err)
	oldHash := u.PasswordHash

	err = svc.ResetPassword(context.Background(), *u.ResetToken, "new-password1")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)

	// password unchanged
	after, err := users.GetByEmail(context.Background(), "gina@example.com")
	require.NoError(t, err)
	assert.Equal(t, oldHash, after.PasswordHash)
}

func TestResetPassword_GarbageToken(t *testing.T) {
	svc, _ := newAuthService(newFakeBudgetRepo())
	err := svc.ResetPassword(context.Background(), "not.a.jwt", "new-password1")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestResetPassword_SessionTokenRejected(t *testing.T) {
	svc, _ := newAuthService(newFakeBudgetRepo())
	_, sessionToken, err := svc.Register(context.Background(), RegisterInput{
		Email: "hank@example.com", Password: "old-password1", FirstName: "Hank", LastName: "H",
	})
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), sessionToken, "new-password1")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

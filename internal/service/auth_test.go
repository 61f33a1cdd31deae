package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/model"
	"github.com/forexpro/backend/internal/repository"
	"github.com/forexpro/backend/internal/token"
)

func newTestAuth(users *MockUserRepository) (*AuthService, *token.Manager) {
	tokens := token.NewManager("test-secret")
	svc := NewAuthService(users, tokens)
	svc.cost = bcrypt.MinCost
	return svc, tokens
}

func TestSignupCreditsSignupBonus(t *testing.T) {
	tests := []struct {
		cur   currency.Currency
		bonus float64
	}{
		{currency.KSH, 200},
		{currency.USD, 1.5},
	}

	for _, tt := range tests {
		t.Run(string(tt.cur), func(t *testing.T) {
			ctx := context.Background()
			users := new(MockUserRepository)
			svc, tokens := newTestAuth(users)

			var captured *model.Registration
			users.On("RegisterUser", ctx, mock.AnythingOfType("*model.Registration")).
				Run(func(args mock.Arguments) { captured = args.Get(1).(*model.Registration) }).
				Return(&model.User{ID: 7, Currency: tt.cur, Balance: tt.bonus, Role: model.RoleUser}, nil).
				Once()

			session, err := svc.Signup(ctx, SignupInput{
				Name:     "  Jane  ",
				Email:    "Jane@Example.com",
				Password: "password123",
				Currency: tt.cur,
			})
			require.NoError(t, err)

			require.NotNil(t, captured)
			assert.Equal(t, tt.bonus, captured.SignupBonus)
			assert.Equal(t, "Jane", captured.Name)
			assert.Equal(t, "jane@example.com", captured.Email)
			assert.Nil(t, captured.Referrer)
			assert.Len(t, captured.ReferralCode, referralCodeLength)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(captured.PasswordHash), []byte("password123")))

			claims, err := tokens.Parse(session.Token)
			require.NoError(t, err)
			assert.Equal(t, int64(7), claims.UserID)

			users.AssertExpectations(t)
		})
	}
}

func TestSignupWithReferralCode(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc, _ := newTestAuth(users)

	referrer := testUser(1, currency.USD, 50)
	users.On("GetUserByReferralCode", ctx, "ABCD2345").Return(referrer, nil)

	var captured *model.Registration
	users.On("RegisterUser", ctx, mock.AnythingOfType("*model.Registration")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*model.Registration) }).
		Return(&model.User{ID: 2, Currency: currency.KSH, Balance: 200}, nil)

	_, err := svc.Signup(ctx, SignupInput{
		Name: "Bob", Email: "bob@example.com", Password: "password123",
		Currency: currency.KSH, ReferralCode: " abcd2345 ",
	})
	require.NoError(t, err)

	require.NotNil(t, captured.Referrer)
	assert.Equal(t, int64(1), captured.Referrer.ID)
	// The bonus is owed in the referrer's currency.
	assert.Equal(t, 2.3, captured.ReferralBonus)
	assert.Equal(t, 200.0, captured.SignupBonus)
}

func TestSignupInvalidReferralCode(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc, _ := newTestAuth(users)

	users.On("GetUserByReferralCode", ctx, "NOPE").Return(nil, ErrUserNotFound)

	_, err := svc.Signup(ctx, SignupInput{
		Name: "Bob", Email: "bob@example.com", Password: "password123",
		Currency: currency.KSH, ReferralCode: "nope",
	})
	assert.ErrorIs(t, err, ErrInvalidReferralCode)
	users.AssertNotCalled(t, "RegisterUser", mock.Anything, mock.Anything)
}

func TestSignupDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc, _ := newTestAuth(users)

	users.On("RegisterUser", ctx, mock.Anything).Return(nil, ErrEmailTaken)

	_, err := svc.Signup(ctx, SignupInput{
		Name: "Bob", Email: "bob@example.com", Password: "password123", Currency: currency.KSH,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
	users.AssertNumberOfCalls(t, "RegisterUser", 1)
}

func TestSignupRetriesReferralCodeCollision(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc, _ := newTestAuth(users)

	users.On("RegisterUser", ctx, mock.Anything).Return(nil, repository.ErrReferralCodeTaken).Once()
	users.On("RegisterUser", ctx, mock.Anything).Return(&model.User{ID: 3, Role: model.RoleUser}, nil).Once()

	_, err := svc.Signup(ctx, SignupInput{
		Name: "Bob", Email: "bob@example.com", Password: "password123", Currency: currency.KSH,
	})
	require.NoError(t, err)
	users.AssertNumberOfCalls(t, "RegisterUser", 2)
}

func TestSignupRejectsUnknownCurrency(t *testing.T) {
	users := new(MockUserRepository)
	svc, _ := newTestAuth(users)

	_, err := svc.Signup(context.Background(), SignupInput{
		Name: "Bob", Email: "bob@example.com", Password: "password123", Currency: "EUR",
	})
	assert.ErrorIs(t, err, currency.ErrUnsupportedCurrency)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc, tokens := newTestAuth(users)

	user := testUser(9, currency.KSH, 0)
	user.Password = hashPassword(t, "correct-horse")
	users.On("GetUserByEmail", ctx, "user@example.com").Return(user, nil)
	users.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, ErrUserNotFound)

	_, err := svc.Login(ctx, "user@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	session, err := svc.Login(ctx, "user@example.com", "correct-horse")
	require.NoError(t, err)
	claims, err := tokens.Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), claims.UserID)
	assert.Equal(t, model.RoleUser, claims.Role)
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc, tokens := newTestAuth(users)

	plain := testUser(1, currency.KSH, 0)
	plain.Email = "plain@example.com"
	plain.Password = hashPassword(t, "secret123")

	admin := testUser(2, currency.KSH, 0)
	admin.Email = "admin@example.com"
	admin.Role = model.RoleAdmin
	admin.Password = hashPassword(t, "secret123")

	users.On("GetUserByEmail", ctx, "plain@example.com").Return(plain, nil)
	users.On("GetUserByEmail", ctx, "admin@example.com").Return(admin, nil)

	_, err := svc.AdminLogin(ctx, "plain@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	session, err := svc.AdminLogin(ctx, "admin@example.com", "secret123")
	require.NoError(t, err)
	claims, err := tokens.Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestDemo(t *testing.T) {
	svc, tokens := newTestAuth(new(MockUserRepository))

	session, err := svc.Demo()
	require.NoError(t, err)

	demo, ok := session.User.(*model.DemoUser)
	require.True(t, ok)
	assert.Equal(t, 10000.0, demo.Balance)
	assert.Equal(t, currency.USD, demo.Currency)
	assert.Equal(t, "DEMO2025", demo.ReferralCode)

	claims, err := tokens.Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleDemo, claims.Role)
	assert.Equal(t, demo.ID, claims.DemoID)
}

func TestGenerateReferralCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, err := generateReferralCode()
		require.NoError(t, err)
		assert.Len(t, code, referralCodeLength)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 95)
}

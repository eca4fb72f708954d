package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"expense-tracker/internal/password"
	"expense-tracker/internal/repository/sqlite"
	"expense-tracker/internal/session"
)

type ServiceTestSuite struct {
	suite.Suite
	db       *sql.DB
	users    UserService
	expenses ExpenseService
}

func (s *ServiceTestSuite) SetupTest() {
	ctx := context.Background()
	db, err := sqlite.Open(":memory:")
	s.Require().NoError(err)
	s.db = db

	userRepo := sqlite.NewUserRepository(db)
	expenseRepo := sqlite.NewExpenseRepository(db)
	s.Require().NoError(userRepo.Init(ctx))
	s.Require().NoError(expenseRepo.Init(ctx))

	sessions := session.NewManager(session.NewMemoryStore(), 0)
	s.users = NewUserService(userRepo, password.NewBcrypt(bcrypt.MinCost), sessions)
	s.expenses = NewExpenseService(expenseRepo)
}

func (s *ServiceTestSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) register(email, username, pw string) int64 {
	user, err := s.users.Register(context.Background(), RegisterInput{Email: email, Username: username, Password: pw})
	s.Require().NoError(err)
	return user.ID
}

func (s *ServiceTestSuite) login(email, pw string) (int64, string) {
	user, token, err := s.users.Login(context.Background(), LoginInput{Email: email, Password: pw})
	s.Require().NoError(err)
	return user.ID, token
}

func (s *ServiceTestSuite) TestRegisterReturnsNoHash() {
	user, err := s.users.Register(context.Background(), RegisterInput{Email: " a@x.com ", Username: "alice", Password: "secret1"})
	s.Require().NoError(err)
	s.NotZero(user.ID)
	s.Equal("a@x.com", user.Email)
	s.Empty(user.PasswordHash)
}

func (s *ServiceTestSuite) TestRegisterValidation() {
	cases := []struct {
		name   string
		in     RegisterInput
		fields []string
	}{
		{"bad email", RegisterInput{Email: "not-an-email", Username: "alice", Password: "secret1"}, []string{"email"}},
		{"username not alphanumeric", RegisterInput{Email: "a@x.com", Username: "al ice!", Password: "secret1"}, []string{"username"}},
		{"short password", RegisterInput{Email: "a@x.com", Username: "alice", Password: "12345"}, []string{"password"}},
		{"all empty", RegisterInput{}, []string{"email", "username", "password"}},
		{"password too long", RegisterInput{Email: "a@x.com", Username: "alice", Password: fmt.Sprintf("%073d", 0)}, []string{"password"}},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.users.Register(context.Background(), tc.in)
			var verr *ValidationError
			s.Require().ErrorAs(err, &verr)
			var fields []string
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
				s.NotEmpty(f.Message)
			}
			s.ElementsMatch(tc.fields, fields)
		})
	}
}

func (s *ServiceTestSuite) TestRegisterConflict() {
	s.register("a@x.com", "alice", "secret1")

	_, err := s.users.Register(context.Background(), RegisterInput{Email: "a@x.com", Username: "bob", Password: "secret2"})
	s.ErrorIs(err, ErrConflict)

	_, err = s.users.Register(context.Background(), RegisterInput{Email: "b@x.com", Username: "alice", Password: "secret2"})
	s.ErrorIs(err, ErrConflict)

	_, err = s.users.Register(context.Background(), RegisterInput{Email: "A@X.COM", Username: "carol", Password: "secret3"})
	s.ErrorIs(err, ErrConflict)
}

func (s *ServiceTestSuite) TestLoginInvalidCredentialsAreIndistinguishable() {
	s.register("a@x.com", "alice", "secret1")

	_, _, wrongPassword := s.users.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "wrong"})
	_, _, unknownEmail := s.users.Login(context.Background(), LoginInput{Email: "nobody@x.com", Password: "secret1"})

	s.ErrorIs(wrongPassword, ErrInvalidCredentials)
	s.ErrorIs(unknownEmail, ErrInvalidCredentials)
	s.Equal(wrongPassword.Error(), unknownEmail.Error())
}

func (s *ServiceTestSuite) TestLoginValidation() {
	_, _, err := s.users.Login(context.Background(), LoginInput{Email: "bad", Password: ""})
	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal([]FieldError{
		{Field: "email", Message: "Email is not valid"},
		{Field: "password", Message: "Password is required"},
	}, verr.Fields)
}

func (s *ServiceTestSuite) TestLoginIssuesResolvableSession() {
	id := s.register("a@x.com", "alice", "secret1")
	userID, token := s.login("a@x.com", "secret1")
	s.Equal(id, userID)
	s.NotEmpty(token)

	resolved, err := s.users.Authorize(context.Background(), token)
	s.Require().NoError(err)
	s.Equal(id, resolved)

	_, err = s.users.Authorize(context.Background(), "unknown-token")
	s.ErrorIs(err, ErrUnauthorized)

	s.Require().NoError(s.users.Logout(context.Background(), token))
	_, err = s.users.Authorize(context.Background(), token)
	s.ErrorIs(err, ErrUnauthorized)
}

func (s *ServiceTestSuite) TestLoginReplacesPreviousSession() {
	ctx := context.Background()
	s.register("a@x.com", "alice", "secret1")
	_, first := s.login("a@x.com", "secret1")

	_, _, err := s.users.Login(ctx, LoginInput{Email: "a@x.com", Password: "wrong", PreviousToken: first})
	s.ErrorIs(err, ErrInvalidCredentials)
	_, err = s.users.Authorize(ctx, first)
	s.NoError(err, "a failed login keeps the current session")

	_, second, err := s.users.Login(ctx, LoginInput{Email: "a@x.com", Password: "secret1", PreviousToken: first})
	s.Require().NoError(err)
	s.NotEqual(first, second)

	_, err = s.users.Authorize(ctx, first)
	s.ErrorIs(err, ErrUnauthorized)
	_, err = s.users.Authorize(ctx, second)
	s.NoError(err)
}

func (s *ServiceTestSuite) TestGetByID() {
	id := s.register("a@x.com", "alice", "secret1")

	user, err := s.users.GetByID(context.Background(), id)
	s.Require().NoError(err)
	s.Equal("alice", user.Username)
	s.Empty(user.PasswordHash)

	_, err = s.users.GetByID(context.Background(), id+100)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceTestSuite) TestCreateExpenseValidation() {
	userID := s.register("a@x.com", "alice", "secret1")

	for _, in := range []ExpenseInput{
		{Name: "", Amount: "1.00"},
		{Name: "   ", Amount: "1.00"},
		{Name: "coffee", Amount: "-1"},
		{Name: "coffee", Amount: "abc"},
		{Name: "coffee", Amount: "1.234"},
		{Name: "coffee", Amount: ""},
	} {
		_, err := s.expenses.CreateExpense(context.Background(), userID, in)
		var verr *ValidationError
		s.ErrorAs(err, &verr, "input %+v", in)
	}

	list, err := s.expenses.ListExpenses(context.Background(), userID)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *ServiceTestSuite) TestExpenseOwnership() {
	ctx := context.Background()
	alice := s.register("a@x.com", "alice", "secret1")
	bob := s.register("b@x.com", "bob", "secret2")

	expense, err := s.expenses.CreateExpense(ctx, alice, ExpenseInput{Name: "coffee", Amount: "3.50"})
	s.Require().NoError(err)
	s.Equal("3.50", expense.Amount.String())

	s.ErrorIs(s.expenses.UpdateExpense(ctx, bob, expense.ID, ExpenseInput{Name: "hacked", Amount: "0"}), ErrNotFound)
	s.ErrorIs(s.expenses.DeleteExpense(ctx, bob, expense.ID), ErrNotFound)

	list, err := s.expenses.ListExpenses(ctx, alice)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("coffee", list[0].Name)
	s.Equal(int64(350), list[0].Amount.Cents())

	s.Require().NoError(s.expenses.UpdateExpense(ctx, alice, expense.ID, ExpenseInput{Name: "tea", Amount: "2"}))
	list, err = s.expenses.ListExpenses(ctx, alice)
	s.Require().NoError(err)
	s.Equal("tea", list[0].Name)
	s.Equal("2.00", list[0].Amount.String())

	s.Require().NoError(s.expenses.DeleteExpense(ctx, alice, expense.ID))
	s.ErrorIs(s.expenses.DeleteExpense(ctx, alice, expense.ID), ErrNotFound)
}

func (s *ServiceTestSuite) TestListNeverLeaksAcrossUsers() {
	ctx := context.Background()
	owners := []int64{
		s.register("a@x.com", "alice", "secret1"),
		s.register("b@x.com", "bob", "secret2"),
		s.register("c@x.com", "carol", "secret3"),
	}

	counts := map[int64]int{}
	for i := 0; i < 30; i++ {
		owner := owners[i%len(owners)]
		if i%4 == 0 {
			owner = owners[0]
		}
		_, err := s.expenses.CreateExpense(ctx, owner, ExpenseInput{Name: fmt.Sprintf("item-%d", i), Amount: fmt.Sprintf("%d.%02d", i, i)})
		s.Require().NoError(err)
		counts[owner]++
	}

	for _, owner := range owners {
		list, err := s.expenses.ListExpenses(ctx, owner)
		s.Require().NoError(err)
		s.Len(list, counts[owner])
		for _, e := range list {
			s.Equal(owner, e.UserID)
		}
	}
}

func TestValidationErrorMessage(t *testing.T) {
	verr := &ValidationError{}
	require.NoError(t, verr.orNil())

	verr.add("email", "Provide a valid email address.")
	err := verr.orNil()
	require.Error(t, err)
	assert.Equal(t, "validation failed: email: Provide a valid email address.", err.Error())
}

package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"mailflow/internal/models"

	"github.com/lib/pq"
)

const testSecret = "test-signing-secret"

func newUserFixture() (*UserService, *MockUserRepository) {
	repo := NewMockUserRepository()
	svc := NewUserService(repo, testSecret, time.Hour)
	return svc, repo
}

func TestRegister(t *testing.T) {
	svc, repo := newUserFixture()

	user, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "new@example.com",
		Username: "newbie",
		Password: "password123",
	})
	AssertNoError(t, err)
	AssertEqual(t, repo.Calls["Create"], 1)

	// Stored hash must verify against the original password
	AssertNoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
}

func TestRegister_ShortPassword(t *testing.T) {
	svc, repo := newUserFixture()

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "new@example.com",
		Username: "newbie",
		Password: "short",
	})
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	AssertEqual(t, repo.Calls["Create"], 0)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, repo := newUserFixture()
	repo.CreateFunc = func(ctx context.Context, user *models.User) error {
		return &pq.Error{Code: "23505"}
	}

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "taken@example.com",
		Username: "dupe",
		Password: "password123",
	})
	if _, ok := err.(*ConflictError); !ok {
		t.Fatalf("expected ConflictError, got %T: %v", err, err)
	}
}

func TestLoginAndVerifyToken(t *testing.T) {
	svc, repo := newUserFixture()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	AssertNoError(t, err)

	account := NewTestOwner()
	account.PasswordHash = string(hash)
	repo.GetByEmailFunc = func(ctx context.Context, email string) (*models.User, error) {
		return account, nil
	}
	repo.GetByIDFunc = func(ctx context.Context, id int) (*models.User, error) {
		AssertEqual(t, id, account.ID)
		return account, nil
	}

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Email:    account.Email,
		Password: "password123",
	})
	AssertNoError(t, err)
	if resp.Token == "" {
		t.Fatal("expected a signed token")
	}

	// Round-trip: the issued token must resolve back to the account
	verified, err := svc.VerifyToken(context.Background(), resp.Token)
	AssertNoError(t, err)
	AssertEqual(t, verified.ID, account.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo := newUserFixture()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	account := NewTestOwner()
	account.PasswordHash = string(hash)
	repo.GetByEmailFunc = func(ctx context.Context, email string) (*models.User, error) {
		return account, nil
	}

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    account.Email,
		Password: "wrong-password",
	})
	if _, ok := err.(*PermissionError); !ok {
		t.Fatalf("expected PermissionError, got %T: %v", err, err)
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc, _ := newUserFixture()

	_, err := svc.VerifyToken(context.Background(), "not.a.token")
	if _, ok := err.(*PermissionError); !ok {
		t.Fatalf("expected PermissionError, got %T: %v", err, err)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	svc, repo := newUserFixture()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	account := NewTestOwner()
	account.PasswordHash = string(hash)
	repo.GetByEmailFunc = func(ctx context.Context, email string) (*models.User, error) {
		return account, nil
	}

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Email:    account.Email,
		Password: "password123",
	})
	AssertNoError(t, err)

	other := NewUserService(repo, "another-secret", time.Hour)
	if _, err := other.VerifyToken(context.Background(), resp.Token); err == nil {
		t.Fatal("expected verification to fail under a different secret")
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, repo := newUserFixture()

	phone := "+1 555 0100"
	updated, err := svc.UpdateProfile(context.Background(), 1, &ProfileRequest{
		Username: "renamed",
		Phone:    &phone,
	})
	AssertNoError(t, err)
	AssertEqual(t, updated.Username, "renamed")
	AssertEqual(t, *updated.Phone, phone)
	AssertEqual(t, repo.Calls["Update"], 1)
}

package usecase_test

import (
	. "github.com/earnwell/economy/internal/usecase"

	"context"
	"fmt"
	"testing"

	domainErrors "github.com/earnwell/economy/internal/domain/errors"
	"github.com/earnwell/economy/internal/domain/model"
	pkgAuth "github.com/earnwell/economy/internal/pkg/auth"
	testhelpers "github.com/earnwell/economy/internal/test"
)

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(userID int64, role string) (string, error) {
			return fmt.Sprintf("token-%d-%s", userID, role), nil
		},
		ParseFn: func(token string) (int64, string, error) {
			var id int64
			var role string
			if _, err := fmt.Sscanf(token, "token-%d-%s", &id, &role); err != nil {
				return 0, "", pkgAuth.ErrInvalidToken
			}
			return id, role, nil
		},
	}
}

func TestAuthUseCaseRegisterSuccess(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	user, token, err := uc.Register(ctx, "alice", "password", "ng")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected user to have ID assigned")
	}
	if user.Role != model.RoleUser {
		t.Fatalf("expected regular role, got %v", user.Role)
	}
	if token != "token-1-user" {
		t.Fatalf("unexpected token %q", token)
	}
	stored, err := repo.GetByLogin(ctx, "alice")
	if err != nil {
		t.Fatalf("expected user in repository: %v", err)
	}
	if stored.PasswordHash != "hash:password" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}
	if stored.Country != "NG" {
		t.Fatalf("expected country normalized to NG, got %q", stored.Country)
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "bob", "secret", ""); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if _, _, err := uc.Register(ctx, "bob", "secret", ""); err != domainErrors.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "carol", "123456", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "carol", "bad"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}

	_, token, err := uc.Authenticate(ctx, "carol", "123456")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if token != "token-1-user" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestAuthUseCaseParseToken(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	id, role, err := uc.ParseToken("token-42-admin")
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}
	if role != model.RoleAdmin {
		t.Fatalf("expected admin role, got %v", role)
	}

	if _, _, err := uc.ParseToken("bad-token"); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}

	if _, _, err := uc.ParseToken(""); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestAuthUseCaseRegisterValidation(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())
	if _, _, err := uc.Register(context.Background(), "", "password", ""); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Register(context.Background(), "user", "", ""); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
}

func TestAuthUseCaseRegisterHasherError(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{HashFn: func(string) (string, error) {
		return "", fmt.Errorf("hash error")
	}}, newStrategyStub())
	if _, _, err := uc.Register(context.Background(), "user", "pass", ""); err == nil {
		t.Fatal("expected hashing error")
	}
}

func TestAuthUseCaseRegisterIssueTokenError(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	strategy := testhelpers.StrategyStub{IssueFn: func(int64, string) (string, error) {
		return "", fmt.Errorf("cannot issue token")
	}}
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, strategy)
	if _, _, err := uc.Register(context.Background(), "user", "pass", ""); err == nil {
		t.Fatal("expected token issuing error")
	}
}

func TestAuthUseCaseAuthenticateNotFound(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	if _, _, err := uc.Authenticate(context.Background(), "absent", "pass"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
}

func TestAuthUseCaseAuthenticateRepositoryError(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	if _, _, err := uc.Register(context.Background(), "user", "pass", ""); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	repo.Err = fmt.Errorf("storage unavailable")
	if _, _, err := uc.Authenticate(context.Background(), "user", "pass"); err == nil || err.Error() != "storage unavailable" {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestAuthUseCaseAuthenticateValidation(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())
	if _, _, err := uc.Authenticate(context.Background(), "", "pass"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Authenticate(context.Background(), "user", ""); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
}

func TestAuthUseCaseGetByID(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	user, _, err := uc.Register(context.Background(), "dave", "pwd", "ke")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	fetched, err := uc.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get by id returned error: %v", err)
	}
	if fetched.Login != user.Login || fetched.Country != "KE" {
		t.Fatalf("unexpected user %+v", fetched)
	}
}

func TestAuthUseCaseTrimsLogin(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	if _, _, err := uc.Register(context.Background(), "  user  ", "pass", ""); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if _, _, err := uc.Authenticate(context.Background(), "  user  ", "pass"); err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
}

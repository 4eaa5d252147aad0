package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/adapter/adaptertest"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

type fakePasswords struct{}

func (fakePasswords) HashPassword(password string) (string, error) { return "hashed:" + password, nil }

func (fakePasswords) VerifyPassword(hashed, password string) error {
	if hashed != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func (fakePasswords) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("too short")
	}
	return nil
}

type fakeTokens struct {
	issued  map[string]adapter.TokenClaims
	revoked map[string]bool
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{issued: map[string]adapter.TokenClaims{}, revoked: map[string]bool{}}
}

func (f *fakeTokens) GenerateTokenPair(_ context.Context, userID uuid.UUID, email string, rememberMe bool) (*adapter.TokenPair, error) {
	refresh := uuid.NewString()
	f.issued[refresh] = adapter.TokenClaims{UserID: userID, Email: email, RememberMe: rememberMe}
	return &adapter.TokenPair{AccessToken: "access-" + userID.String(), RefreshToken: refresh}, nil
}

func (f *fakeTokens) ValidateAccessToken(context.Context, string) (*adapter.TokenClaims, error) {
	return nil, errors.New("not used")
}

func (f *fakeTokens) ValidateRefreshToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	claims, ok := f.issued[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	claims.ExpiresAt = time.Now().Add(time.Hour)
	return &claims, nil
}

func (f *fakeTokens) InvalidateRefreshToken(_ context.Context, token string) error {
	f.revoked[token] = true
	return nil
}

func (f *fakeTokens) IsRefreshTokenValid(_ context.Context, token string) (bool, error) {
	return !f.revoked[token], nil
}

func authCode(t *testing.T, err error) domainerror.AuthErrorCode {
	t.Helper()
	var authErr *domainerror.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	return authErr.Code
}

func TestRegisterUserUseCase(t *testing.T) {
	tests := []struct {
		name     string
		input    RegisterUserInput
		wantCode domainerror.AuthErrorCode
	}{
		{name: "terms not accepted", input: RegisterUserInput{Email: "a@b.com", Password: "password1"}, wantCode: domainerror.ErrCodeTermsNotAccepted},
		{name: "invalid email", input: RegisterUserInput{Email: "nope", Password: "password1", TermsAccepted: true}, wantCode: domainerror.ErrCodeInvalidEmail},
		{name: "weak password", input: RegisterUserInput{Email: "a@b.com", Password: "short", TermsAccepted: true}, wantCode: domainerror.ErrCodeWeakPassword},
		{name: "success", input: RegisterUserInput{Email: " Ana@Example.com ", Name: "Ana", Password: "password1", TermsAccepted: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := adaptertest.NewUsers()
			uc := NewRegisterUserUseCase(users, fakePasswords{}, newFakeTokens())

			out, err := uc.Execute(context.Background(), tt.input)
			if tt.wantCode != "" {
				if got := authCode(t, err); got != tt.wantCode {
					t.Errorf("expected code %s, got %s", tt.wantCode, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Identity.Email != "ana@example.com" {
				t.Errorf("expected normalized email, got %s", out.Identity.Email)
			}
			if out.AccessToken == "" || out.RefreshToken == "" {
				t.Error("expected tokens")
			}

			_, err = uc.Execute(context.Background(), tt.input)
			if got := authCode(t, err); got != domainerror.ErrCodeEmailExists {
				t.Errorf("expected duplicate email error, got %s", got)
			}
		})
	}
}

func TestLoginAndCurrentUser(t *testing.T) {
	users := adaptertest.NewUsers()
	tokens := newFakeTokens()
	ctx := context.Background()

	_, err := NewRegisterUserUseCase(users, fakePasswords{}, tokens).Execute(ctx, RegisterUserInput{
		Email: "bia@example.com", Password: "password1", TermsAccepted: true,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	login := NewLoginUserUseCase(users, fakePasswords{}, tokens)

	_, err = login.Execute(ctx, LoginUserInput{Email: "bia@example.com", Password: "wrong-password"})
	if got := authCode(t, err); got != domainerror.ErrCodeInvalidCredentials {
		t.Errorf("expected invalid credentials, got %s", got)
	}
	_, err = login.Execute(ctx, LoginUserInput{Email: "nobody@example.com", Password: "password1"})
	if got := authCode(t, err); got != domainerror.ErrCodeInvalidCredentials {
		t.Errorf("expected invalid credentials for unknown email, got %s", got)
	}

	out, err := login.Execute(ctx, LoginUserInput{Email: "BIA@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if out.Identity.DisplayName != "User" {
		t.Errorf("expected default display name, got %q", out.Identity.DisplayName)
	}

	current, err := NewGetCurrentUserUseCase(users).Execute(ctx, GetCurrentUserInput{UserID: out.Identity.UserID})
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if current.Identity.Email != "bia@example.com" {
		t.Errorf("unexpected identity %+v", current.Identity)
	}

	_, err = NewGetCurrentUserUseCase(users).Execute(ctx, GetCurrentUserInput{UserID: uuid.New()})
	if got := authCode(t, err); got != domainerror.ErrCodeUserNotFound {
		t.Errorf("expected user not found, got %s", got)
	}
}

func TestRefreshAndLogout(t *testing.T) {
	users := adaptertest.NewUsers()
	tokens := newFakeTokens()
	ctx := context.Background()

	registered, err := NewRegisterUserUseCase(users, fakePasswords{}, tokens).Execute(ctx, RegisterUserInput{
		Email: "c@example.com", Name: "Carla", Password: "password1", TermsAccepted: true,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	refresh := NewRefreshTokenUseCase(users, tokens)
	out, err := refresh.Execute(ctx, RefreshTokenInput{RefreshToken: registered.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if out.RefreshToken == registered.RefreshToken {
		t.Error("expected a rotated refresh token")
	}
	if out.Identity == nil || out.Identity.DisplayName != "Carla" {
		t.Errorf("expected the refreshed identity to be Carla, got %+v", out.Identity)
	}

	_, err = refresh.Execute(ctx, RefreshTokenInput{RefreshToken: registered.RefreshToken})
	if got := authCode(t, err); got != domainerror.ErrCodeInvalidToken {
		t.Errorf("expected reused token to be rejected, got %s", got)
	}

	if _, err := NewLogoutUserUseCase(tokens).Execute(ctx, LogoutUserInput{RefreshToken: out.RefreshToken}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	_, err = refresh.Execute(ctx, RefreshTokenInput{RefreshToken: out.RefreshToken})
	if got := authCode(t, err); got != domainerror.ErrCodeInvalidToken {
		t.Errorf("expected logged out token to be rejected, got %s", got)
	}
}

func TestRefreshTokenUseCase_Session(t *testing.T) {
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "dani@example.com", Name: "Dani"}

	tests := []struct {
		name       string
		users      *adaptertest.Users
		rememberMe bool
		wantCode   domainerror.AuthErrorCode
	}{
		{name: "short session stays short", users: adaptertest.NewUsers(user)},
		{name: "remembered session stays remembered", users: adaptertest.NewUsers(user), rememberMe: true},
		{name: "deleted account is rejected", users: adaptertest.NewUsers(), wantCode: domainerror.ErrCodeInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := newFakeTokens()
			pair, _ := tokens.GenerateTokenPair(ctx, user.ID, user.Email, tt.rememberMe)

			out, err := NewRefreshTokenUseCase(tt.users, tokens).Execute(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
			if tt.wantCode != "" {
				if got := authCode(t, err); got != tt.wantCode {
					t.Errorf("expected code %s, got %s", tt.wantCode, got)
				}
				if !tokens.revoked[pair.RefreshToken] {
					t.Error("expected the presented token to be revoked")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			issued := tokens.issued[out.RefreshToken]
			if issued.RememberMe != tt.rememberMe {
				t.Errorf("RememberMe = %v, want %v", issued.RememberMe, tt.rememberMe)
			}
			if issued.Email != user.Email {
				t.Errorf("expected pair issued for %s, got %s", user.Email, issued.Email)
			}
		})
	}
}

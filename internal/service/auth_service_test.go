package service

import (
	"errors"
	"ragbot_backend/internal/config"
	"ragbot_backend/internal/repository"
	"ragbot_backend/internal/util"
	"testing"
	"time"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-key-for-unit-tests-only",
			ExpireTime: time.Hour,
		},
	}
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestSetupAdminOnlyOnce(t *testing.T) {
	s := newAuthService(t)

	isSetup, err := s.IsSetup()
	if err != nil {
		t.Fatalf("IsSetup: %v", err)
	}
	if isSetup {
		t.Error("IsSetup = true on empty database")
	}

	if err := s.SetupAdmin("admin", "password123"); err != nil {
		t.Fatalf("SetupAdmin: %v", err)
	}

	if err := s.SetupAdmin("other", "password456"); !errors.Is(err, util.ErrAdminExists) {
		t.Errorf("second SetupAdmin err = %v, want ErrAdminExists", err)
	}

	isSetup, err = s.IsSetup()
	if err != nil {
		t.Fatalf("IsSetup: %v", err)
	}
	if !isSetup {
		t.Error("IsSetup = false after admin creation")
	}
}

func TestLogin(t *testing.T) {
	s := newAuthService(t)
	if err := s.SetupAdmin("admin", "password123"); err != nil {
		t.Fatalf("SetupAdmin: %v", err)
	}

	token, err := s.Login("admin", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("sub = %q, want admin", claims.Username)
	}

	if _, err := s.Login("admin", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := s.Login("nobody", "password123"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avetrovs/sessionkeeper/internal/common"
	"github.com/avetrovs/sessionkeeper/internal/server/auth"
	"github.com/avetrovs/sessionkeeper/internal/server/models"
)

func newAuthenticator(t *testing.T, users *fakeUsersRepo) *Authenticator {
	t.Helper()

	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { _ = db.Close() })

	return NewAuthenticator(db, &fakeRepoManager{u: users}, "k")
}

func bearerFor(t *testing.T, userID string, ttl time.Duration) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, []byte("k"), ttl)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	return "Bearer " + token
}

func TestAuthenticate_Success(t *testing.T) {
	users := &fakeUsersRepo{byIDOut: &models.User{ID: "u1", Email: "ann@example.com"}}
	a := newAuthenticator(t, users)

	user, err := a.Authenticate(context.Background(), bearerFor(t, "u1", time.Hour))
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("unexpected principal: %+v", user)
	}
}

func TestAuthenticate_SchemeIsCaseInsensitive(t *testing.T) {
	users := &fakeUsersRepo{byIDOut: &models.User{ID: "u1"}}
	a := newAuthenticator(t, users)

	token, err := auth.GenerateToken("u1", []byte("k"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := a.Authenticate(context.Background(), "bearer "+token); err != nil {
		t.Fatalf("lowercase scheme must be accepted, got %v", err)
	}
}

func TestAuthenticate_MalformedHeaders(t *testing.T) {
	a := newAuthenticator(t, &fakeUsersRepo{})

	cases := []string{
		"",
		"Bearer ",
		"Bearer",
		"Basic dXNlcjpwYXNz",
		"garbage",
	}
	for _, header := range cases {
		if _, err := a.Authenticate(context.Background(), header); !errors.Is(err, common.ErrorUnauthorized) {
			t.Fatalf("header %q: expected ErrorUnauthorized, got %v", header, err)
		}
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	a := newAuthenticator(t, &fakeUsersRepo{byIDOut: &models.User{ID: "u1"}})

	_, err := a.Authenticate(context.Background(), bearerFor(t, "u1", -time.Minute))
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized for expired token, got %v", err)
	}
}

func TestAuthenticate_WrongKey(t *testing.T) {
	a := newAuthenticator(t, &fakeUsersRepo{byIDOut: &models.User{ID: "u1"}})

	token, err := auth.GenerateToken("u1", []byte("other-key"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = a.Authenticate(context.Background(), "Bearer "+token)
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized for foreign signature, got %v", err)
	}
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	a := newAuthenticator(t, &fakeUsersRepo{byIDErr: common.ErrorNotFound})

	_, err := a.Authenticate(context.Background(), bearerFor(t, "ghost", time.Hour))
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized for deleted account, got %v", err)
	}
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	a := newAuthenticator(t, &fakeUsersRepo{byIDErr: errors.New("connection refused")})

	_, err := a.Authenticate(context.Background(), bearerFor(t, "u1", time.Hour))
	if !errors.Is(err, common.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

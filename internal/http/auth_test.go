package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"mymat/internal/repos"
)

// seeded passwords are stored as bcrypt hashes, never plaintext
func TestPasswordsSeededAreHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) == 0 {
		t.Fatal("no users seeded")
	}
	for _, h := range hashes {
		if strings.Contains(h, "Passw0rd!") {
			t.Fatalf("hash contains plaintext password")
		}
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("Passw0rd!")); err != nil {
			t.Fatalf("seed hash does not validate known password: %v", err)
		}
	}
}

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	a := newTestApp(t)
	creds := func(pw string) url.Values {
		return url.Values{"email": {"amina@mymat.test"}, "password": {pw}}
	}

	resp := a.postForm("/login", creds("Wrongpass1!"))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "Invalid email or password") {
		t.Fatalf("error message missing: %s", body)
	}

	resp = a.postForm("/login", creds("Passw0rd!"))
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect on success, got %d", resp.StatusCode)
	}
	if body := readBody(t, a.get("/")); !strings.Contains(body, "Hi, Amina") {
		t.Fatalf("signed-in header missing")
	}

	// five attempts per window; the sixth is throttled
	for i := 0; i < 3; i++ {
		a.postForm("/login", creds("Wrongpass1!"))
	}
	resp = a.postForm("/login", creds("Wrongpass1!"))
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", resp.StatusCode)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	a := newTestApp(t)
	require.Equal(t, http.StatusFound, a.postForm("/login", url.Values{
		"email": {"amina@mymat.test"}, "password": {"Passw0rd!"},
	}).StatusCode)
	sid := a.jar["sid"]
	require.NotEmpty(t, sid)

	resp := a.postForm("/logout", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	_, ok := a.jar["sid"]
	require.False(t, ok, "sid cookie should be expired")

	u, err := a.deps.Auth.CurrentUser(context.Background(), sid)
	require.Error(t, err)
	require.Nil(t, u)
}

func TestSignup(t *testing.T) {
	a := newTestApp(t)

	resp := a.postForm("/signup", url.Values{"name": {"Yusuf"}, "email": {"yusuf@mymat.test"}, "password": {"short"}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, readBody(t, resp), "8-64 characters")

	resp = a.postForm("/signup", url.Values{"name": {"Yusuf"}, "email": {"yusuf@mymat.test"}, "password": {"Str0ng!pass"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Contains(t, readBody(t, a.get("/")), "Hi, Yusuf")

	u, err := repos.NewUserRepo(a.db).ByEmail(context.Background(), "yusuf@mymat.test")
	require.NoError(t, err)
	require.Equal(t, "USER", u.Role)

	resp = a.postForm("/signup", url.Values{"name": {"Other"}, "email": {"YUSUF@mymat.test"}, "password": {"Str0ng!pass"}})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

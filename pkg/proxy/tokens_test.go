package proxy

import (
	"testing"
	"time"

	"github.com/ds-wizard/fairsharing-proxy/pkg/upstream"
)

func usableToken(username string) *upstream.Token {
	return &upstream.Token{
		Value:     "abc",
		Username:  username,
		Succeeded: true,
		Expiry:    time.Now().Add(time.Hour),
	}
}

func TestTokenStore(t *testing.T) {
	store := NewTokenStore()

	if _, ok := store.Get("user"); ok {
		t.Error("empty store must not return a token")
	}
	if store.HasUsable("user") {
		t.Error("empty store must not report a usable token")
	}

	store.Store(usableToken("user"))
	if !store.HasUsable("user") {
		t.Error("stored fresh token must be usable")
	}
	if store.HasUsable("other") {
		t.Error("token must be cached per username")
	}

	store.Clear("user")
	if _, ok := store.Get("user"); ok {
		t.Error("cleared token must be gone")
	}
}

func TestTokenStore_ExpiringTokenNotUsable(t *testing.T) {
	store := NewTokenStore()
	store.Store(&upstream.Token{
		Value:     "abc",
		Username:  "user",
		Succeeded: true,
		Expiry:    time.Now().Add(upstream.ExpiryMargin / 2),
	})

	if store.HasUsable("user") {
		t.Error("token inside the refresh margin must not be usable")
	}
	if _, ok := store.Get("user"); !ok {
		t.Error("Get must still return the near-expiry token")
	}
}

func TestTokenStore_StoreOverwrites(t *testing.T) {
	store := NewTokenStore()
	store.Store(usableToken("user"))

	replacement := usableToken("user")
	replacement.Value = "def"
	store.Store(replacement)

	token, ok := store.Get("user")
	if !ok || token.Value != "def" {
		t.Errorf("Get after overwrite = %+v, want the replacement token", token)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

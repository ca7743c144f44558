package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func callWithCredentials(t *testing.T, mw func(http.Handler) http.Handler, id, key string) int {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(id+":"+key)))

	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)
	return rr.Code
}

func TestBasicAuth_AllowsValidCredentials(t *testing.T) {
	mw := BasicAuth("BranchTeller", "DrawerKey001")
	if code := callWithCredentials(t, mw, "BranchTeller", "DrawerKey001"); code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, code)
	}
}

func TestBasicAuth_RejectsInvalidCredentials(t *testing.T) {
	mw := BasicAuth("BranchTeller", "DrawerKey001")
	if code := callWithCredentials(t, mw, "BranchTeller", "WrongKey"); code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, code)
	}
}

func TestBasicAuth_AcceptsBcryptHashedKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("DrawerKey001"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("generate hash: %v", err)
	}

	mw := BasicAuth("BranchTeller", string(hash))
	if code := callWithCredentials(t, mw, "BranchTeller", "DrawerKey001"); code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, code)
	}
	if code := callWithCredentials(t, mw, "BranchTeller", "WrongKey"); code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, code)
	}
}

func TestBasicAuth_MissingServerConfiguration(t *testing.T) {
	mw := BasicAuth("", "")
	if code := callWithCredentials(t, mw, "BranchTeller", "DrawerKey001"); code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, code)
	}
}

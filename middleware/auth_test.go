package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondWithErrorEscapesMessage(t *testing.T) {
	rr := httptest.NewRecorder()

	// Verification errors can carry quotes from the upstream library.
	respondWithError(rr, http.StatusUnauthorized, `token "abc" has invalid claims`)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v (%s)", err, rr.Body.String())
	}
	if body["error"] != `token "abc" has invalid claims` {
		t.Errorf("error = %q", body["error"])
	}
}

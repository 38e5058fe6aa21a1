package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func unlockCookieFromResponse(t *testing.T, response *http.Response) *http.Cookie {
	t.Helper()

	for _, cookie := range response.Cookies() {
		if cookie.Name == unlockCookieName {
			return cookie
		}
	}
	t.Fatal("expected an unlock cookie in the response")
	return nil
}

func pinStatus(t *testing.T, app *fiber.App, cookie *http.Cookie) (bool, bool) {
	t.Helper()

	request := httptest.NewRequest(http.MethodGet, "/api/pin/status", nil)
	if cookie != nil {
		request.AddCookie(cookie)
	}
	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("status request failed: %v", err)
	}
	defer response.Body.Close()

	var status struct {
		Enabled  bool `json:"enabled"`
		Unlocked bool `json:"unlocked"`
	}
	decodeJSONBody(t, response, &status)
	return status.Enabled, status.Unlocked
}

func TestPinStatusWithoutCredential(t *testing.T) {
	app, _ := newTestApp(t)

	enabled, unlocked := pinStatus(t, app, nil)
	if enabled {
		t.Fatal("expected lock to be disabled by default")
	}
	if !unlocked {
		t.Fatal("expected app to be unlocked with no credential")
	}
}

func TestDataRoutesOpenWithoutPin(t *testing.T) {
	app, _ := newTestApp(t)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/days", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected open access without a pin, got %d", response.StatusCode)
	}
}

func TestPinLockFlow(t *testing.T) {
	app, _ := newTestApp(t)

	// Setting the PIN keeps the current session unlocked.
	setResponse, err := app.Test(jsonRequest(http.MethodPost, "/api/pin", `{"pin":"4821"}`), -1)
	if err != nil {
		t.Fatalf("set pin failed: %v", err)
	}
	defer setResponse.Body.Close()
	if setResponse.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 setting pin, got %d", setResponse.StatusCode)
	}
	unlockCookie := unlockCookieFromResponse(t, setResponse)

	enabled, unlocked := pinStatus(t, app, unlockCookie)
	if !enabled || !unlocked {
		t.Fatalf("expected enabled and unlocked after set, got enabled=%v unlocked=%v", enabled, unlocked)
	}

	// A fresh client without the unlock cookie is locked out of data routes.
	lockedResponse, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/days", nil), -1)
	if err != nil {
		t.Fatalf("locked request failed: %v", err)
	}
	defer lockedResponse.Body.Close()
	if lockedResponse.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without unlock cookie, got %d", lockedResponse.StatusCode)
	}

	// A wrong PIN is a plain unauthorized, not an error.
	wrongResponse, err := app.Test(jsonRequest(http.MethodPost, "/api/pin/verify", `{"pin":"0000"}`), -1)
	if err != nil {
		t.Fatalf("wrong pin request failed: %v", err)
	}
	defer wrongResponse.Body.Close()
	if wrongResponse.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for wrong pin, got %d", wrongResponse.StatusCode)
	}

	// A malformed PIN is a validation error.
	malformedResponse, err := app.Test(jsonRequest(http.MethodPost, "/api/pin/verify", `{"pin":"12"}`), -1)
	if err != nil {
		t.Fatalf("malformed pin request failed: %v", err)
	}
	defer malformedResponse.Body.Close()
	if malformedResponse.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400 for malformed pin, got %d", malformedResponse.StatusCode)
	}

	// Verifying the right PIN grants a fresh unlock cookie.
	verifyResponse, err := app.Test(jsonRequest(http.MethodPost, "/api/pin/verify", `{"pin":"4821"}`), -1)
	if err != nil {
		t.Fatalf("verify request failed: %v", err)
	}
	defer verifyResponse.Body.Close()
	if verifyResponse.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 verifying pin, got %d", verifyResponse.StatusCode)
	}
	freshCookie := unlockCookieFromResponse(t, verifyResponse)

	unlockedRequest := httptest.NewRequest(http.MethodGet, "/api/days", nil)
	unlockedRequest.AddCookie(freshCookie)
	unlockedResponse, err := app.Test(unlockedRequest, -1)
	if err != nil {
		t.Fatalf("unlocked request failed: %v", err)
	}
	defer unlockedResponse.Body.Close()
	if unlockedResponse.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 with unlock cookie, got %d", unlockedResponse.StatusCode)
	}

	// A forged token signed with a different key is rejected.
	forged := &http.Cookie{Name: unlockCookieName, Value: "not-a-real-token"}
	forgedRequest := httptest.NewRequest(http.MethodGet, "/api/days", nil)
	forgedRequest.AddCookie(forged)
	forgedResponse, err := app.Test(forgedRequest, -1)
	if err != nil {
		t.Fatalf("forged request failed: %v", err)
	}
	defer forgedResponse.Body.Close()
	if forgedResponse.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for forged token, got %d", forgedResponse.StatusCode)
	}
}

func TestSetPinWhileLockedRequiresCurrentPin(t *testing.T) {
	app, env := newTestApp(t)

	if err := env.pinLock.SetCredential("4821"); err != nil {
		t.Fatalf("set credential: %v", err)
	}

	// A locked-out client must not be able to swap in its own credential.
	overwriteResponse, err := app.Test(jsonRequest(http.MethodPost, "/api/pin", `{"pin":"9999"}`), -1)
	if err != nil {
		t.Fatalf("overwrite request failed: %v", err)
	}
	defer overwriteResponse.Body.Close()
	if overwriteResponse.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401 overwriting without proof, got %d", overwriteResponse.StatusCode)
	}
	for _, cookie := range overwriteResponse.Cookies() {
		if cookie.Name == unlockCookieName && cookie.Value != "" {
			t.Fatal("expected no unlock cookie on a rejected overwrite")
		}
	}

	// A malformed current pin is rejected the same way.
	malformedResponse, err := app.Test(jsonRequest(http.MethodPost, "/api/pin", `{"pin":"9999","currentPin":"xx"}`), -1)
	if err != nil {
		t.Fatalf("malformed current pin request failed: %v", err)
	}
	defer malformedResponse.Body.Close()
	if malformedResponse.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401 with malformed current pin, got %d", malformedResponse.StatusCode)
	}

	ok, err := env.pinLock.Verify("4821")
	if err != nil || !ok {
		t.Fatalf("expected original credential untouched, ok=%v err=%v", ok, err)
	}

	// Supplying the current pin authorizes the change.
	changeResponse, err := app.Test(jsonRequest(http.MethodPost, "/api/pin", `{"pin":"9999","currentPin":"4821"}`), -1)
	if err != nil {
		t.Fatalf("change request failed: %v", err)
	}
	defer changeResponse.Body.Close()
	if changeResponse.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 changing with current pin, got %d", changeResponse.StatusCode)
	}

	ok, err = env.pinLock.Verify("9999")
	if err != nil || !ok {
		t.Fatalf("expected new credential stored, ok=%v err=%v", ok, err)
	}
}

func TestSetPinWithUnlockedSession(t *testing.T) {
	app, env := newTestApp(t)

	if err := env.pinLock.SetCredential("4821"); err != nil {
		t.Fatalf("set credential: %v", err)
	}

	verifyResponse, err := app.Test(jsonRequest(http.MethodPost, "/api/pin/verify", `{"pin":"4821"}`), -1)
	if err != nil {
		t.Fatalf("verify request failed: %v", err)
	}
	defer verifyResponse.Body.Close()
	unlockCookie := unlockCookieFromResponse(t, verifyResponse)

	changeRequest := jsonRequest(http.MethodPost, "/api/pin", `{"pin":"5555"}`)
	changeRequest.AddCookie(unlockCookie)
	changeResponse, err := app.Test(changeRequest, -1)
	if err != nil {
		t.Fatalf("change request failed: %v", err)
	}
	defer changeResponse.Body.Close()
	if changeResponse.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 changing from an unlocked session, got %d", changeResponse.StatusCode)
	}

	ok, err := env.pinLock.Verify("5555")
	if err != nil || !ok {
		t.Fatalf("expected new credential stored, ok=%v err=%v", ok, err)
	}
}

func TestLockNowExpiresUnlockCookie(t *testing.T) {
	app, _ := newTestApp(t)

	response, err := app.Test(jsonRequest(http.MethodPost, "/api/pin/lock", `{}`), -1)
	if err != nil {
		t.Fatalf("lock request failed: %v", err)
	}
	defer response.Body.Close()

	cookie := unlockCookieFromResponse(t, response)
	if cookie.Value != "" {
		t.Fatalf("expected unlock cookie cleared, got %q", cookie.Value)
	}
}

func TestDisablePinRequiresCurrentPin(t *testing.T) {
	app, env := newTestApp(t)

	if err := env.pinLock.SetCredential("4821"); err != nil {
		t.Fatalf("set credential: %v", err)
	}

	wrongResponse, err := app.Test(jsonRequest(http.MethodDelete, "/api/pin", `{"pin":"0000"}`), -1)
	if err != nil {
		t.Fatalf("wrong pin request failed: %v", err)
	}
	defer wrongResponse.Body.Close()
	if wrongResponse.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401 disabling with wrong pin, got %d", wrongResponse.StatusCode)
	}

	response, err := app.Test(jsonRequest(http.MethodDelete, "/api/pin", `{"pin":"4821"}`), -1)
	if err != nil {
		t.Fatalf("disable request failed: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 disabling pin, got %d", response.StatusCode)
	}

	enabled, err := env.pinLock.Enabled()
	if err != nil {
		t.Fatalf("enabled: %v", err)
	}
	if enabled {
		t.Fatal("expected lock disabled after delete")
	}
}

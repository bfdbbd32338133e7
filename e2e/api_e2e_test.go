//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

const defaultHTTPBase = "http://localhost:8080"

type httpClient struct {
	baseURL string
	client  *http.Client
}

func newHTTPClient() *httpClient {
	base := os.Getenv("VOCALI_HTTP_URL")
	if base == "" {
		base = defaultHTTPBase
	}
	return &httpClient{
		baseURL: base,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *httpClient) postJSON(t *testing.T, path string, body any) (*http.Response, []byte) {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("json marshal failed: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("new request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := readAll(resp)
	if err != nil {
		t.Fatalf("read response failed: %v", err)
	}
	return resp, bodyBytes
}

func (c *httpClient) getWithAuth(t *testing.T, path, accessToken string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		t.Fatalf("new request failed: %v", err)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := readAll(resp)
	if err != nil {
		t.Fatalf("read response failed: %v", err)
	}
	return resp, bodyBytes
}

func waitForHTTP(baseURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 2 * time.Second}
	for time.Now().Before(deadline) {
		req, _ := http.NewRequest(http.MethodPost, baseURL+"/auth/refresh", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
				return nil
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("http service not ready at %s", baseURL)
}

func TestAPIE2E_HTTPFlow(t *testing.T) {
	httpBase := os.Getenv("VOCALI_HTTP_URL")
	if httpBase == "" {
		httpBase = defaultHTTPBase
	}

	if err := waitForHTTP(httpBase, 30*time.Second); err != nil {
		t.Fatalf("http not ready: %v", err)
	}

	client := newHTTPClient()

	state := struct {
		email    string
		password string
	}{
		email:    fmt.Sprintf("e2e+%d@example.com", time.Now().UnixNano()),
		password: "StrongPass1!",
	}

	abort := false
	fail := func(t *testing.T, format string, args ...any) {
		abort = true
		t.Fatalf(format, args...)
	}

	step := func(name string, fn func(t *testing.T)) {
		t.Run(name, func(t *testing.T) {
			if abort {
				t.Skip("previous step failed")
			}
			fn(t)
		})
	}

	step("SigninBeforeSignup", func(t *testing.T) {
		resp, _ := client.postJSON(t, "/auth/signin", map[string]string{
			"email":    state.email,
			"password": state.password,
		})
		if resp.StatusCode != http.StatusUnauthorized {
			fail(t, "expected signin before signup to fail, got %d", resp.StatusCode)
		}
	})

	step("Signup", func(t *testing.T) {
		resp, body := client.postJSON(t, "/auth/signup", map[string]string{
			"email":     state.email,
			"password":  state.password,
			"firstName": "E2E",
			"lastName":  "Tester",
		})
		if resp.StatusCode != http.StatusOK {
			fail(t, "signup status: %d body: %s", resp.StatusCode, string(body))
		}
	})

	step("SignupWeakPassword", func(t *testing.T) {
		resp, _ := client.postJSON(t, "/auth/signup", map[string]string{
			"email":     "weak-" + state.email,
			"password":  "short",
			"firstName": "E2E",
			"lastName":  "Tester",
		})
		if resp.StatusCode != http.StatusBadRequest {
			fail(t, "expected weak password signup to fail, got %d", resp.StatusCode)
		}
	})

	step("SignupDuplicate", func(t *testing.T) {
		resp, _ := client.postJSON(t, "/auth/signup", map[string]string{
			"email":     state.email,
			"password":  state.password,
			"firstName": "E2E",
			"lastName":  "Tester",
		})
		if resp.StatusCode != http.StatusBadRequest {
			fail(t, "expected duplicate signup to fail, got %d", resp.StatusCode)
		}
	})

	step("SigninBeforeConfirm", func(t *testing.T) {
		resp, _ := client.postJSON(t, "/auth/signin", map[string]string{
			"email":    state.email,
			"password": state.password,
		})
		if resp.StatusCode != http.StatusForbidden {
			fail(t, "expected signin before confirmation to fail, got %d", resp.StatusCode)
		}
	})

	step("ConfirmWrongCode", func(t *testing.T) {
		resp, _ := client.postJSON(t, "/auth/confirm-signup", map[string]string{
			"email":            state.email,
			"confirmationCode": "WRONG1",
		})
		if resp.StatusCode != http.StatusBadRequest {
			fail(t, "expected wrong code to fail, got %d", resp.StatusCode)
		}
	})

	step("ResendConfirmation", func(t *testing.T) {
		resp, body := client.postJSON(t, "/auth/resend-confirmation-code", map[string]string{
			"email": state.email,
		})
		if resp.StatusCode != http.StatusOK {
			fail(t, "resend status: %d body: %s", resp.StatusCode, string(body))
		}
	})

	step("ResendUnknownUser", func(t *testing.T) {
		resp, _ := client.postJSON(t, "/auth/resend-confirmation-code", map[string]string{
			"email": "missing-" + state.email,
		})
		if resp.StatusCode != http.StatusNotFound {
			fail(t, "expected resend for missing user to fail, got %d", resp.StatusCode)
		}
	})

	step("ForgotPasswordUnknownUser", func(t *testing.T) {
		resp, _ := client.postJSON(t, "/auth/forgot-password", map[string]string{
			"email": "missing-" + state.email,
		})
		if resp.StatusCode != http.StatusNotFound {
			fail(t, "expected reset for missing user to fail, got %d", resp.StatusCode)
		}
	})

	step("RefreshInvalidToken", func(t *testing.T) {
		resp, _ := client.postJSON(t, "/auth/refresh", map[string]string{
			"refreshToken": "invalid",
		})
		if resp.StatusCode != http.StatusUnauthorized {
			fail(t, "expected invalid refresh token to fail, got %d", resp.StatusCode)
		}
	})

	step("MeWithoutToken", func(t *testing.T) {
		resp, _ := client.getWithAuth(t, "/auth/me", "")
		if resp.StatusCode != http.StatusUnauthorized {
			fail(t, "expected me without token to fail, got %d", resp.StatusCode)
		}
	})

	step("MeInvalidToken", func(t *testing.T) {
		resp, body := client.getWithAuth(t, "/auth/me", "invalid")
		if resp.StatusCode != http.StatusUnauthorized {
			fail(t, "expected me with invalid token to fail, got %d body: %s", resp.StatusCode, string(body))
		}
	})

	step("FilesWithoutToken", func(t *testing.T) {
		resp, _ := client.getWithAuth(t, "/audio/files", "")
		if resp.StatusCode != http.StatusUnauthorized {
			fail(t, "expected files without token to fail, got %d", resp.StatusCode)
		}
	})
}

func readAll(resp *http.Response) ([]byte, error) {
	buf := &bytes.Buffer{}
	_, err := buf.ReadFrom(resp.Body)
	return buf.Bytes(), err
}

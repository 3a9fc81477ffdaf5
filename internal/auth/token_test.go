package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func testCodec(t *testing.T) *Codec {
	t.Helper()
	c := NewCodec("test-secret", "radar-api", "radar-api")
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	return c
}

func testIdentity() Identity {
	return Identity{
		Authenticated:   true,
		UserID:          "recUser123",
		IsInvestor:      true,
		IsCuriousPerson: true,
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	c := testCodec(t)

	token, expiresAt, err := c.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if want := c.now().Add(TokenTTL).Unix(); expiresAt != want {
		t.Fatalf("expiresAt = %d, want %d", expiresAt, want)
	}

	got, err := c.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != testIdentity() {
		t.Fatalf("identity = %+v, want %+v", got, testIdentity())
	}
}

func TestTokenWireFormat(t *testing.T) {
	c := testCodec(t)
	token, _, err := c.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		t.Fatalf("decode header: %v", err)
	}
	var header map[string]string
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if header["alg"] != "HS256" || header["typ"] != "JWT" {
		t.Fatalf("header = %v", header)
	}

	payloadJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	// The audience must be a plain string, not a single-element array.
	if aud, ok := payload["aud"].(string); !ok || aud != "radar-api" {
		t.Fatalf("aud = %#v, want string %q", payload["aud"], "radar-api")
	}
	if payload["sub"] != "recUser123" {
		t.Fatalf("sub = %v", payload["sub"])
	}
	if payload["iat"].(float64) != 1700000000 {
		t.Fatalf("iat = %v", payload["iat"])
	}
	roles := payload["roles"].(map[string]any)
	if roles["investor"] != true || roles["curious"] != true || roles["admin"] != false {
		t.Fatalf("roles = %v", roles)
	}

	// The signature must verify under the derived per-token key.
	key := c.signingKey("recUser123", 1700000000)
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(parts[0] + "." + parts[1]))
	want := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if parts[2] != want {
		t.Fatalf("signature segment = %s, want %s", parts[2], want)
	}
}

func TestSigningKeyDerivation(t *testing.T) {
	c := testCodec(t)

	// base64std(HMAC-SHA256(secret, subject||issuedAt)), ASCII bytes.
	mac := hmac.New(sha256.New, []byte("test-secret"))
	mac.Write([]byte("recUser123" + "1700000000"))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if got := string(c.signingKey("recUser123", 1700000000)); got != want {
		t.Fatalf("signingKey = %s, want %s", got, want)
	}
	// Different subject or issue time must derive a different key.
	if string(c.signingKey("recOther", 1700000000)) == want {
		t.Fatal("key did not vary with subject")
	}
	if string(c.signingKey("recUser123", 1700000001)) == want {
		t.Fatal("key did not vary with issuedAt")
	}
}

func TestVerifyExpired(t *testing.T) {
	c := testCodec(t)
	token, _, err := c.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	c.now = func() time.Time { return time.Unix(1700000000, 0).Add(TokenTTL + time.Second) }
	if _, err := c.Verify(token); !errors.Is(err, ErrExpired) {
		t.Fatalf("err = %v, want ErrExpired", err)
	}
}

func TestVerifyIssuedInFuture(t *testing.T) {
	c := testCodec(t)
	token, _, err := c.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	c.now = func() time.Time { return time.Unix(1700000000, 0).Add(-time.Hour) }
	if _, err := c.Verify(token); !errors.Is(err, ErrExpired) {
		t.Fatalf("err = %v, want ErrExpired", err)
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	c := testCodec(t)
	token, _, err := c.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Flip the first signature character; the trailing one only carries
	// padding bits, which a lenient base64 decoder ignores.
	sigStart := strings.LastIndex(token, ".") + 1
	flip := byte('A')
	if token[sigStart] == 'A' {
		flip = 'B'
	}
	tampered := token[:sigStart] + string(flip) + token[sigStart+1:]
	if _, err := c.Verify(tampered); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyTamperedSubject(t *testing.T) {
	c := testCodec(t)
	token, _, err := c.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parts := strings.Split(token, ".")

	payloadJSON, _ := base64.RawURLEncoding.DecodeString(parts[1])
	var payload map[string]any
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	payload["sub"] = "recSomeoneElse"
	edited, _ := json.Marshal(payload)
	parts[1] = base64.RawURLEncoding.EncodeToString(edited)

	// The derived key changes with the subject, so the old signature can
	// never match the rewritten claims.
	if _, err := c.Verify(strings.Join(parts, ".")); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	c := testCodec(t)
	token, _, err := c.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other := NewCodec("other-secret", "radar-api", "radar-api")
	other.now = c.now
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyWrongIssuer(t *testing.T) {
	c := testCodec(t)
	token, _, err := c.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other := NewCodec("test-secret", "someone-else", "radar-api")
	other.now = c.now
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidIssuer) {
		t.Fatalf("err = %v, want ErrInvalidIssuer", err)
	}
}

func TestVerifyWrongAudience(t *testing.T) {
	c := testCodec(t)
	token, _, err := c.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other := NewCodec("test-secret", "radar-api", "someone-else")
	other.now = c.now
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidAudience) {
		t.Fatalf("err = %v, want ErrInvalidAudience", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	c := testCodec(t)
	for _, token := range []string{
		"",
		"garbage",
		"one.two",
		"one.two.three.four",
		"!!!.###.$$$",
	} {
		if _, err := c.Verify(token); !errors.Is(err, ErrMalformedToken) {
			t.Errorf("Verify(%q) err = %v, want ErrMalformedToken", token, err)
		}
	}
}

func TestVerifyMissingSubject(t *testing.T) {
	c := testCodec(t)
	id := testIdentity()
	id.UserID = ""
	token, _, err := c.Issue(id)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := c.Verify(token); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("err = %v, want ErrMalformedToken", err)
	}
}

// Package signing authenticates inbound skill requests with an HMAC-SHA256
// signature over the timestamp and the raw body.
//
// Header format: t=<unix seconds>,v1=<base64url(hmac(secret, t + "." + body))>
package signing

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/morning-report/internal/platform/api"
	"github.com/example/morning-report/internal/platform/httpserver"
)

// DefaultTolerance bounds the clock skew between signer and verifier.
const DefaultTolerance = 5 * time.Minute

// maxBody caps the bytes read while verifying.
const maxBody = 1 << 20

var (
	ErrMissing   = errors.New("signing: missing signature")
	ErrMalformed = errors.New("signing: malformed signature header")
	ErrExpired   = errors.New("signing: timestamp outside tolerance")
	ErrMismatch  = errors.New("signing: signature mismatch")
)

type Signer struct {
	Secret    []byte
	Tolerance time.Duration
	Now       func() time.Time
}

func New(secret string) *Signer {
	return &Signer{Secret: []byte(secret), Tolerance: DefaultTolerance, Now: time.Now}
}

// Sign returns the header value for body signed at ts.
func (s *Signer) Sign(body []byte, ts time.Time) string {
	t := strconv.FormatInt(ts.Unix(), 10)
	return "t=" + t + ",v1=" + s.mac(t, body)
}

// Verify checks header against body.
func (s *Signer) Verify(header string, body []byte) error {
	header = strings.TrimSpace(header)
	if header == "" {
		return ErrMissing
	}
	var ts, sig string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return ErrMalformed
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sig = v
		}
	}
	if ts == "" || sig == "" {
		return ErrMalformed
	}
	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrMalformed
	}
	skew := s.now().Sub(time.Unix(unix, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > s.tolerance() {
		return ErrExpired
	}
	if !hmac.Equal([]byte(sig), []byte(s.mac(ts, body))) {
		return ErrMismatch
	}
	return nil
}

func (s *Signer) mac(ts string, body []byte) string {
	m := hmac.New(sha256.New, s.Secret)
	m.Write([]byte(ts))
	m.Write([]byte("."))
	m.Write(body)
	return base64.RawURLEncoding.EncodeToString(m.Sum(nil))
}

func (s *Signer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Signer) tolerance() time.Duration {
	if s.Tolerance > 0 {
		return s.Tolerance
	}
	return DefaultTolerance
}

// Middleware rejects requests whose body does not carry a valid signature in
// the httpserver.SignatureHeader header. The body is restored for the next
// handler. A nil Signer disables verification.
func Middleware(s *Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if s == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := httpserver.RequestIDFromContext(r.Context())
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					api.PayloadTooLarge(w, "BODY_TOO_LARGE", "Request body exceeds 1 MiB", rid)
					return
				}
				api.BadRequest(w, "BODY_UNREADABLE", "Could not read request body", rid, nil)
				return
			}
			if err := s.Verify(r.Header.Get(httpserver.SignatureHeader), body); err != nil {
				api.Unauthorized(w, "SIGNATURE_INVALID", err.Error(), rid)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

package httpsig

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// MiddlewareFunc wraps an http.Handler.
type MiddlewareFunc func(http.Handler) http.Handler

// MiddlewareConfig configures server-side signature verification.
type MiddlewareConfig struct {
	Verify VerifyConfig

	// Optional lets requests that a client would not sign through
	// unverified: requests that are not POST and carry no Authorization
	// header. By default every request must be signed.
	Optional bool

	// MaxBodyBytes caps the body read for digest verification. Larger
	// bodies get 413 Request Entity Too Large. Zero means no limit.
	MaxBodyBytes int64

	// OnError handles rejected requests. Defaults to a bare 401.
	OnError func(w http.ResponseWriter, r *http.Request, err error)

	// Logger receives rejected requests at debug level.
	Logger *zerolog.Logger
}

type keyIDContextKey struct{}

// KeyID returns the key id of the signature accepted by Middleware for r.
func KeyID(r *http.Request) (string, bool) {
	v, ok := r.Context().Value(keyIDContextKey{}).(string)
	return v, ok
}

// Middleware verifies incoming request signatures and stores the accepted
// key id in the request context, see KeyID.
//
// It returns ErrNoResolver if VerifyConfig.Resolver is nil.
func Middleware(cfg MiddlewareConfig) (MiddlewareFunc, error) {
	if cfg.Verify.Resolver == nil {
		return nil, ErrNoResolver
	}

	onError := cfg.OnError
	if onError == nil {
		onError = defaultOnError
	}

	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	verifyCfg := cfg.Verify

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gate := Request{Method: r.Method, Headers: headerValues(r.Header)}
			if cfg.Optional && !RequestShouldBeAuthorized(gate) {
				next.ServeHTTP(w, r)
				return
			}

			if cfg.MaxBodyBytes > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxBodyBytes)
			}

			req, err := FromHTTPRequest(r)
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					logger.Debug().Int64("limit", tooLarge.Limit).Str("method", r.Method).Msg("request body too large")
					http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
					return
				}

				onError(w, r, err)
				return
			}

			keyID, err := verify(req, verifyCfg)
			if err != nil {
				logger.Debug().Err(err).Str("method", req.Method).Str("url", req.URL).Msg("rejected request signature")
				onError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), keyIDContextKey{}, keyID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}, nil
}

func defaultOnError(w http.ResponseWriter, _ *http.Request, _ error) {
	w.WriteHeader(http.StatusUnauthorized)
}

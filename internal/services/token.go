package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ErrTokenInvalid         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token expired")
	ErrValidatorUnavailable = errors.New("token validator unavailable")
)

var (
	tokenValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_token_validations_total",
			Help: "Bearer token validations by result.",
		},
		[]string{"result"},
	)
	tokenCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cms_token_cache_hits_total",
		Help: "Token validations answered from the cache.",
	})
	tokenCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cms_token_cache_misses_total",
		Help: "Token validations that went to the validation endpoint.",
	})
)

type validateResponse struct {
	Message any `json:"message"`
}

// TokenService delegates bearer token validity to an external validation
// endpoint. Positive answers may be cached for cacheTTL; a zero TTL disables
// the cache.
type TokenService struct {
	httpClient  *http.Client
	validateURL string
	cache       *expirable.LRU[string, struct{}]
	now         func() time.Time
}

func NewTokenService(validateURL string, timeout, cacheTTL time.Duration, cacheSize int) *TokenService {
	s := &TokenService{
		httpClient:  &http.Client{Timeout: timeout},
		validateURL: validateURL,
		now:         time.Now,
	}
	if cacheTTL > 0 {
		if cacheSize <= 0 {
			cacheSize = 1024
		}
		s.cache = expirable.NewLRU[string, struct{}](cacheSize, nil, cacheTTL)
	}
	return s
}

// Validate checks the raw Authorization header value ("Bearer <token>").
func (s *TokenService) Validate(ctx context.Context, authorization string) error {
	err := s.validate(ctx, authorization)
	switch {
	case err == nil:
		tokenValidationsTotal.WithLabelValues("valid").Inc()
	case errors.Is(err, ErrValidatorUnavailable):
		tokenValidationsTotal.WithLabelValues("unavailable").Inc()
	default:
		tokenValidationsTotal.WithLabelValues("invalid").Inc()
	}
	return err
}

func (s *TokenService) validate(ctx context.Context, authorization string) error {
	token := bearerToken(authorization)
	if token == "" {
		return ErrTokenInvalid
	}

	if s.expired(token) {
		return ErrTokenExpired
	}

	if s.cache != nil {
		if _, ok := s.cache.Get(token); ok {
			tokenCacheHitsTotal.Inc()
			return nil
		}
		tokenCacheMissesTotal.Inc()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.validateURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to build validate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authorization)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidatorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrValidatorUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrTokenInvalid
	}

	var result validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ErrTokenInvalid
	}
	if !truthy(result.Message) {
		return ErrTokenInvalid
	}

	if s.cache != nil {
		s.cache.Add(token, struct{}{})
	}
	return nil
}

// expired reports whether token is a JWT whose exp claim has passed. The
// signature is not checked here; opaque tokens are left to the endpoint.
func (s *TokenService) expired(token string) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(s.now())
}

func bearerToken(authorization string) string {
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func truthy(v any) bool {
	switch m := v.(type) {
	case nil:
		return false
	case string:
		return m != ""
	case bool:
		return m
	case float64:
		return m != 0
	default:
		return true
	}
}

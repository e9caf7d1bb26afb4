package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const (
	authorizationHeaderKey  = "authorization"
	authorizationTypeBearer = "bearer"
	authorizationPrefixKey  = "authorization_prefix"
	prefixLength            = 8
)

// authentication checks a bearer API key against the configured bcrypt
// hashes. It lets every request through when no keys are configured.
func (server *Server) authentication(c *gin.Context) {
	if len(server.keys) == 0 {
		c.Next()
		return
	}
	authorizationHeader := c.GetHeader(authorizationHeaderKey)

	if len(authorizationHeader) == 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("authorization header is not provided")))
		return
	}

	fields := strings.Fields(authorizationHeader)
	if len(fields) < 2 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("invalid authorization header format")))
		return
	}

	authorizationType := strings.ToLower(fields[0])
	if authorizationType != authorizationTypeBearer {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(fmt.Errorf("unsupported authorization type: %s", authorizationType)))
		return
	}

	apiKey := fields[1]
	prefix := strings.Split(apiKey, ".")[0]
	if len(prefix) != prefixLength {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("please input a valid API Key")))
		return
	}

	key, ok := server.keys[prefix]
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("please input a valid API Key")))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(key.Hash), []byte(apiKey)); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("please input a valid API Key")))
		return
	}

	c.Set(authorizationPrefixKey, prefix)
	c.Next()
}

// limiters hands out one token bucket per client.
type limiters struct {
	mu    sync.Mutex
	limit rate.Limit
	burst int
	byKey map[string]*rate.Limiter
}

func newLimiters(perSecond float64, burst int) *limiters {
	return &limiters{limit: rate.Limit(perSecond), burst: max(burst, 1), byKey: make(map[string]*rate.Limiter)}
}

func (l *limiters) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.byKey[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.byKey[key] = limiter
	}
	return limiter
}

// rateLimit throttles each API key, or each client IP when the API is open.
func (server *Server) rateLimit(c *gin.Context) {
	if server.cfg.RateLimit <= 0 {
		c.Next()
		return
	}
	key := c.GetString(authorizationPrefixKey)
	if key == "" {
		key = c.ClientIP()
	}
	if !server.limiters.get(key).Allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"status": http.StatusTooManyRequests, "msg": "Too many requests, please try again later"})
		return
	}
	c.Next()
}

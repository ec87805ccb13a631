package api

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type CacheAdaptor interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type cacheTtlKey struct{}

type cachingTransport struct {
	next     http.RoundTripper
	cacheKey func(*http.Request) string
	cache    CacheAdaptor
}

func (c *cachingTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	// only cache idempotent requests
	if request.Method != http.MethodGet && request.Method != http.MethodHead {
		return c.next.RoundTrip(request)
	}

	ctx := request.Context()

	ttl, ttlOk := ctx.Value(cacheTtlKey{}).(time.Duration)
	if !ttlOk || ttl == 0 {
		return c.next.RoundTrip(request)
	}

	requestKey := c.cacheKey(request)
	if cachedResponse, cacheErr := c.cache.Get(ctx, requestKey); cacheErr == nil {
		reader := bufio.NewReader(strings.NewReader(cachedResponse))
		response, readErr := http.ReadResponse(reader, request)
		if readErr == nil {
			logrus.WithField("url", request.URL.Path).Debug("Serving response from cache")
			return response, nil
		}
		logrus.WithError(readErr).Warn("Discarding unreadable cached response")
	}

	response, err := c.next.RoundTrip(request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		return response, nil
	}

	if err := c.cacheResponse(ctx, requestKey, response, ttl); err != nil {
		logrus.WithError(err).Warn("Failed to cache response")
	}

	return response, nil
}

func (c *cachingTransport) cacheResponse(
	ctx context.Context,
	key string,
	response *http.Response,
	ttl time.Duration,
) error {
	// DumpResponse buffers the body and swaps in a fresh reader, so the caller can still consume it
	responseDump, dumpErr := httputil.DumpResponse(response, true)
	if dumpErr != nil {
		return dumpErr
	}

	return c.cache.Set(ctx, key, string(responseDump), ttl)
}

func ContextWithCachingTtl(ctx context.Context, ttl time.Duration) context.Context {
	return context.WithValue(ctx, cacheTtlKey{}, ttl)
}

func newCachingTransport(next http.RoundTripper, cache CacheAdaptor) http.RoundTripper {
	return &cachingTransport{
		next: next,
		// cookies select the account, so they are part of the key
		cacheKey: func(request *http.Request) string {
			return request.URL.String() + "|" + request.Header.Get("Cookie")
		},
		cache: cache,
	}
}

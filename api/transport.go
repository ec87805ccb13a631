package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"github.com/escrow-tf/steamtrade/steamlang"
)

const JsonContentType = "application/json"
const FormContentType = "application/x-www-form-urlencoded"

const (
	CommunityURL = "https://steamcommunity.com"
	BaseURL      = "https://api.steampowered.com"
)

// RequestTimeout bounds every request sent through HttpTransport.
const RequestTimeout = 5 * time.Second

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Request interface {
	Retryable() bool
	CacheTTL() time.Duration
	Method() string
	Url() string
	Values() (url.Values, error)
	Headers() (http.Header, error)
	EnsureResponseSuccess(httpResponse *http.Response) error
}

// Transport executes a Request and decodes the body into response. A nil response discards the body,
// a *[]byte receives it raw and anything else is decoded as JSON.
type Transport interface {
	Send(ctx context.Context, request Request, response any) error
}

type HttpTransport struct {
	client      *http.Client
	retryClient *retryablehttp.Client
	retryMax    int
	userAgent   string
}

type HttpTransportOptions struct {
	ResponseCache CacheAdaptor
	// RetryMax enables retries of Retryable requests. Zero leaves retry policy to the caller.
	RetryMax  int
	UserAgent string
}

func NewTransport(options HttpTransportOptions) *HttpTransport {
	var roundTripper http.RoundTripper = cleanhttp.DefaultPooledTransport()
	if options.ResponseCache != nil {
		roundTripper = newCachingTransport(roundTripper, options.ResponseCache)
	}

	httpClient := &http.Client{
		Transport: roundTripper,
		Timeout:   RequestTimeout,
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = httpClient
	retryClient.RetryMax = options.RetryMax
	retryClient.Logger = retryLogger{}

	userAgent := options.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &HttpTransport{
		client:      httpClient,
		retryClient: retryClient,
		retryMax:    options.RetryMax,
		userAgent:   userAgent,
	}
}

// Send sends a specialized HTTP Request to steam.
func (c *HttpTransport) Send(ctx context.Context, request Request, response any) error {
	httpMethod := request.Method()

	requestValues, valuesErr := request.Values()
	if valuesErr != nil {
		return valuesErr
	}

	requestUrl := request.Url()

	var httpBody io.Reader
	if len(requestValues) > 0 {
		if httpMethod == http.MethodGet {
			separator := "?"
			if strings.Contains(requestUrl, "?") {
				separator = "&"
			}
			requestUrl += separator + requestValues.Encode()
		} else {
			httpBody = strings.NewReader(requestValues.Encode())
		}
	}

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	if ttl := request.CacheTTL(); ttl > 0 {
		ctx = ContextWithCachingTtl(ctx, ttl)
	}

	httpRequest, httpRequestErr := http.NewRequestWithContext(ctx, httpMethod, requestUrl, httpBody)
	if httpRequestErr != nil {
		return eris.Wrapf(httpRequestErr, "couldn't build %s request", httpMethod)
	}

	httpRequest.Header.Set("Accept", JsonContentType)
	httpRequest.Header.Set("User-Agent", c.userAgent)
	if httpMethod == http.MethodPost {
		httpRequest.Header.Set("Content-Type", FormContentType)
	}

	headers, headersErr := request.Headers()
	if headersErr != nil {
		return headersErr
	}

	for headerKey, headerValues := range headers {
		httpRequest.Header.Del(headerKey)
		for _, headerValue := range headerValues {
			httpRequest.Header.Add(headerKey, headerValue)
		}
	}

	// request_id ties the send, retry and response log lines of one call together
	logger := logrus.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"method":     httpMethod,
		"url":        request.Url(),
	})
	logger.Debug("Sending steam request")

	httpClient := c.client
	if request.Retryable() && c.retryMax > 0 {
		httpClient = c.retryClient.StandardClient()
	}

	httpResponse, httpResponseErr := httpClient.Do(httpRequest)
	if httpResponseErr != nil {
		return &TransportError{
			Method: httpMethod,
			Url:    request.Url(),
			Err:    httpResponseErr,
		}
	}

	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logger.WithError(err).Warn("Error closing steam response body")
		}
	}(httpResponse.Body)

	logger.WithField("status", httpResponse.StatusCode).Debug("Received steam response")

	if err := request.EnsureResponseSuccess(httpResponse); err != nil {
		return err
	}

	if err := steamlang.EnsureEResultResponse(httpResponse); err != nil {
		return err
	}

	if response == nil {
		return nil
	}

	responseBody, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return &TransportError{Method: httpMethod, Url: request.Url(), Err: err}
	}

	return DecodeBody(responseBody, response)
}

// DecodeBody stores body into response following the Transport contract.
func DecodeBody(body []byte, response any) error {
	switch target := response.(type) {
	case nil:
		return nil
	case *[]byte:
		*target = body
		return nil
	default:
		if err := json.Unmarshal(body, response); err != nil {
			return eris.Wrapf(ErrInvalidResponse, "couldn't unmarshal response: %v", err)
		}
		return nil
	}
}

type retryLogger struct{}

func (retryLogger) Error(msg string, keysAndValues ...interface{}) {
	logrus.WithFields(pairsToFields(keysAndValues)).Error(msg)
}

func (retryLogger) Info(msg string, keysAndValues ...interface{}) {
	logrus.WithFields(pairsToFields(keysAndValues)).Debug(msg)
}

func (retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	logrus.WithFields(pairsToFields(keysAndValues)).Debug(msg)
}

func (retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	logrus.WithFields(pairsToFields(keysAndValues)).Warn(msg)
}

func pairsToFields(keysAndValues []interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}

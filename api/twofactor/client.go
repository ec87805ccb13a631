package twofactor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/escrow-tf/steamtrade/api"
)

type Client struct {
	transport api.Transport
	now       func() time.Time

	mu       sync.Mutex
	aligned  bool
	timeDiff time.Duration
}

func NewClient(transport api.Transport) *Client {
	return &Client{
		transport: transport,
		now:       time.Now,
	}
}

// SteamTime returns the current time on Steam's clock, aligning with the server on first use.
func (c *Client) SteamTime(ctx context.Context) (time.Time, error) {
	c.mu.Lock()
	aligned, timeDiff := c.aligned, c.timeDiff
	c.mu.Unlock()

	if !aligned {
		if err := c.AlignTime(ctx); err != nil {
			return time.Time{}, err
		}
		c.mu.Lock()
		timeDiff = c.timeDiff
		c.mu.Unlock()
	}

	return c.now().UTC().Add(timeDiff), nil
}

func (c *Client) AlignTime(ctx context.Context) error {
	unixNow := c.now().Unix()
	timeResponse, err := c.QueryTime(ctx)
	if err != nil {
		return err
	}

	timeDiff := time.Second * time.Duration(timeResponse.Response.ServerTime-unixNow)

	c.mu.Lock()
	c.timeDiff = timeDiff
	c.aligned = true
	c.mu.Unlock()

	logrus.WithField("offset", timeDiff).Debug("Aligned with steam time")
	return nil
}

type QueryTimeRequest struct{}

func (q QueryTimeRequest) Retryable() bool {
	return false
}

func (q QueryTimeRequest) CacheTTL() time.Duration {
	return 0
}

func (q QueryTimeRequest) Method() string {
	return http.MethodPost
}

func (q QueryTimeRequest) Url() string {
	return fmt.Sprintf("%s/ITwoFactorService/QueryTime/v0001", api.BaseURL)
}

func (q QueryTimeRequest) Values() (url.Values, error) {
	return url.Values{
		"steamid": []string{"0"},
	}, nil
}

func (q QueryTimeRequest) Headers() (http.Header, error) {
	return nil, nil
}

func (q QueryTimeRequest) EnsureResponseSuccess(httpResponse *http.Response) error {
	return api.EnsureSuccessResponse(httpResponse)
}

type QueryTimeResponse struct {
	Response struct {
		ServerTime int64 `json:"server_time,string"`
	} `json:"response"`
}

func (c *Client) QueryTime(ctx context.Context) (*QueryTimeResponse, error) {
	var response QueryTimeResponse
	if err := c.transport.Send(ctx, QueryTimeRequest{}, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

package community

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/escrow-tf/steamtrade/api"
	"github.com/escrow-tf/steamtrade/api/inventory"
)

const HtmlContentType = "text/html"

var receiptItemRegex = regexp.MustCompile(`oItem = {(.*?)};`)

type Client struct {
	Transport api.Transport
}

func NewClient(transport api.Transport) *Client {
	return &Client{Transport: transport}
}

// PageRequest fetches a steamcommunity.com page as raw HTML.
type PageRequest struct {
	url     string
	cookies map[string]string
}

func (p PageRequest) Retryable() bool {
	return true
}

func (p PageRequest) CacheTTL() time.Duration {
	return 0
}

func (p PageRequest) Method() string {
	return http.MethodGet
}

func (p PageRequest) Url() string {
	return p.url
}

func (p PageRequest) Values() (url.Values, error) {
	return nil, nil
}

func (p PageRequest) Headers() (http.Header, error) {
	headers := api.CommunityHeaders(p.cookies, "")
	headers.Set("Accept", HtmlContentType)
	return headers, nil
}

func (p PageRequest) EnsureResponseSuccess(httpResponse *http.Response) error {
	return api.EnsureSuccessResponse(httpResponse)
}

func (c *Client) fetchDocument(ctx context.Context, pageUrl string, cookies map[string]string) (*goquery.Document, error) {
	var body []byte
	if err := c.Transport.Send(ctx, PageRequest{url: pageUrl, cookies: cookies}, &body); err != nil {
		return nil, err
	}

	document, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrapf(api.ErrScrapeFailure, "couldn't parse %s: %v", pageUrl, err)
	}
	return document, nil
}

// GetOfferAccessToken reads the trade offer access token from the account's privacy page.
func (c *Client) GetOfferAccessToken(ctx context.Context, cookies map[string]string) (string, error) {
	document, err := c.fetchDocument(ctx, api.CommunityURL+"/my/tradeoffers/privacy", cookies)
	if err != nil {
		return "", err
	}

	return parseOfferAccessToken(document)
}

func parseOfferAccessToken(document *goquery.Document) (string, error) {
	accessUrl, ok := document.Find("#trade_offer_access_url").First().Attr("value")
	if !ok {
		return "", eris.Wrap(api.ErrScrapeFailure, "trade offer access url not found")
	}

	// https://steamcommunity.com/tradeoffer/new/?partner=<id>&token=<token>
	parts := strings.Split(accessUrl, "=")
	if len(parts) < 3 || parts[2] == "" {
		return "", eris.Wrapf(api.ErrScrapeFailure, "malformed trade offer access url %q", accessUrl)
	}
	return parts[2], nil
}

// ReceiptItem is an item received in a completed trade, as listed on its receipt page.
type ReceiptItem struct {
	inventory.Description
	Id        inventory.FlexString `json:"id"`
	ContextId inventory.FlexString `json:"contextid"`
	Amount    inventory.FlexString `json:"amount"`
	Owner     inventory.FlexString `json:"owner"`
}

// GetReceiptItems lists the items received in the completed trade tradeId.
func (c *Client) GetReceiptItems(ctx context.Context, tradeId string, cookies map[string]string) ([]ReceiptItem, error) {
	if tradeId == "" {
		return nil, api.MissingOption("tradeId")
	}

	pageUrl := fmt.Sprintf("%s/trade/%s/receipt/", api.CommunityURL, url.PathEscape(tradeId))
	document, err := c.fetchDocument(ctx, pageUrl, cookies)
	if err != nil {
		return nil, err
	}

	return parseReceiptItems(document)
}

func parseReceiptItems(document *goquery.Document) ([]ReceiptItem, error) {
	var script string
	document.Find("script").EachWithBreak(func(_ int, selection *goquery.Selection) bool {
		text := selection.Text()
		index := strings.Index(text, "var oItem;")
		if index < 0 {
			return true
		}
		script = text[index:]
		return false
	})

	// the receipt script is only rendered for a logged in session
	if script == "" {
		return nil, eris.Wrap(api.ErrScrapeFailure, "receipt items script not found")
	}

	script = strings.NewReplacer("\r", "", "\n", "").Replace(script)

	items := make([]ReceiptItem, 0)
	for _, match := range receiptItemRegex.FindAllStringSubmatch(script, -1) {
		var item ReceiptItem
		if err := api.DecodeBody([]byte("{"+match[1]+"}"), &item); err != nil {
			return nil, eris.Wrapf(api.ErrScrapeFailure, "couldn't decode receipt item: %v", err)
		}
		items = append(items, item)
	}
	return items, nil
}

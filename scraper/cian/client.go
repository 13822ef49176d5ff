package cian

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"cian-offices-scraper/config"
)

const (
	DefaultAPIURL    = "https://api.cian.ru/search-offers/v2/search-offers-desktop/"
	DefaultOrigin    = "https://irkutsk.cian.ru"
	DefaultReferer   = "https://irkutsk.cian.ru/"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0"
	DefaultTimeout   = 30 * time.Second
)

// DefaultRegionIDs is the crawl scope, in crawl order.
var DefaultRegionIDs = []int64{
	4649, 4686, 4689, 4762, 4774, 4884, 4972, 5010, 5021, 5030,
	5033, 5035, 5049, 5059, 174178, 174274, 174351, 174511,
	174700, 174986, 175838, 175889, 1241882,
}

// Options configures the search API client.
type Options struct {
	APIURL    string
	Origin    string
	Referer   string
	UserAgent string
	Timeout   time.Duration
}

// DefaultOptions returns the production endpoint and browser fingerprint.
func DefaultOptions() *Options {
	return &Options{
		APIURL:    DefaultAPIURL,
		Origin:    DefaultOrigin,
		Referer:   DefaultReferer,
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultTimeout,
	}
}

// OptionsFromConfig maps the application config onto client options.
func OptionsFromConfig(cfg *config.Config) *Options {
	return &Options{
		APIURL:    cfg.APIURL,
		Origin:    cfg.Origin,
		Referer:   cfg.Referer,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
	}
}

// Error describes a failed page fetch.
type Error struct {
	RegionID   int64
	Page       int
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("region %d page %d: %s: %v", e.RegionID, e.Page, e.Message, e.Cause)
	}
	return fmt.Sprintf("region %d page %d: %s", e.RegionID, e.Page, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Page is one parsed search response.
type Page struct {
	RegionID int64
	Number   int
	Offers   []gjson.Result
}

type term struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// JSONQuery is the search filter understood by the offers API.
type JSONQuery struct {
	Type          string `json:"_type"`
	EngineVersion term   `json:"engine_version"`
	Region        term   `json:"region"`
	OfferType     term   `json:"offer_type"`
	Page          term   `json:"page"`
	Sort          term   `json:"sort"`
}

// SearchRequest is the POST body of a search call.
type SearchRequest struct {
	JSONQuery JSONQuery `json:"jsonQuery"`
}

// BuildQuery returns the fixed "offices for sale, newest first" filter for
// one region and page.
func BuildQuery(regionID int64, page int) SearchRequest {
	return SearchRequest{JSONQuery: JSONQuery{
		Type:          "commercialsale",
		EngineVersion: term{Type: "term", Value: 2},
		Region:        term{Type: "terms", Value: []int64{regionID}},
		OfferType:     term{Type: "terms", Value: []string{"offices"}},
		Page:          term{Type: "term", Value: page},
		Sort:          term{Type: "term", Value: "creation_date_desc"},
	}}
}

// Client talks to the offers search API.
type Client struct {
	http *http.Client
	opts Options
}

// NewClient creates a Client. A nil opts means DefaultOptions.
func NewClient(opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
		opts: *opts,
	}
}

// FetchPage requests one page of offers for a region. Pages are 1-based.
// Any transport failure, non-2xx status or unexpected body is an *Error.
func (c *Client) FetchPage(ctx context.Context, regionID int64, page int) (*Page, error) {
	fail := func(msg string, status int, cause error) (*Page, error) {
		return nil, &Error{RegionID: regionID, Page: page, StatusCode: status, Message: msg, Cause: cause}
	}

	payload, err := json.Marshal(BuildQuery(regionID, page))
	if err != nil {
		return fail("encode query", 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.APIURL, bytes.NewReader(payload))
	if err != nil {
		return fail("create request", 0, err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("Origin", c.opts.Origin)
	req.Header.Set("Referer", c.opts.Referer)

	resp, err := c.http.Do(req)
	if err != nil {
		return fail("HTTP request failed", 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail("read response body", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(fmt.Sprintf("HTTP status %d", resp.StatusCode), resp.StatusCode, nil)
	}

	offers, err := ParsePage(body)
	if err != nil {
		return fail("unexpected response", resp.StatusCode, err)
	}

	return &Page{RegionID: regionID, Number: page, Offers: offers}, nil
}

// ParsePage pulls the listing array out of a search response.
// A missing or null data.offersSerialized is an empty page.
func ParsePage(body []byte) ([]gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("malformed JSON body")
	}

	data := gjson.GetBytes(body, "data")
	if !data.IsObject() {
		return nil, fmt.Errorf("missing %q object", "data")
	}

	list := data.Get("offersSerialized")
	if !list.Exists() || list.Type == gjson.Null {
		return nil, nil
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("offersSerialized is not an array")
	}

	offers := list.Array()
	for i, o := range offers {
		if !o.IsObject() {
			return nil, fmt.Errorf("offersSerialized[%d] is not an object", i)
		}
	}
	return offers, nil
}

// Package shopify talks to a Shopify storefront the way a browser would:
// public product listing endpoints where they respond, rendered pages where
// they don't.
package shopify

import (
	"net/http/cookiejar"
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"

	"stocksnoop/lib/restyutil"
)

// DefaultUserAgent is sent with every storefront request. Stores behind bot
// protection reject anything that doesn't look like a desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36"

const DefaultTimeout = time.Second * 20

type ClientOptions struct {
	BaseUrl string
	// defaults to DefaultUserAgent
	UserAgent string
	// defaults to DefaultTimeout
	Timeout time.Duration
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

func NewClient(opts ClientOptions) (Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return Client{}, err
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return Client{}, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", opts.UserAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(opts.Timeout)

	restyutil.InstrumentClient(client, "scrapers/shopify", outputProxy{})

	return Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// ProductUrl returns the canonical page URL for a product handle.
func (c Client) ProductUrl(handle string) string {
	return c.BaseUrl.JoinPath("products", handle).String()
}

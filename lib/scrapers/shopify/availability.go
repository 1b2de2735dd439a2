package shopify

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"

	"stocksnoop/lib/htmlutil"
)

// Status classifies a product page.
type Status string

const (
	StatusAvailable Status = "available"
	StatusSoldOut   Status = "sold_out"
	StatusUnknown   Status = "unknown"
)

// Display returns the human-readable form used in tables and notifications.
func (s Status) Display() string {
	if s == StatusSoldOut {
		return "sold out"
	}
	return string(s)
}

// CheckResult is the outcome of checking one product page. Detail explains
// degraded fetches (timeouts, rejected requests) for display only, status
// comparisons never look at it.
type CheckResult struct {
	Handle string
	Url    string
	Status Status
	Detail string
}

// CheckAvailability fetches a product page and classifies it. Fetch failures
// degrade to StatusUnknown with a Detail, they are never returned as errors.
func (c Client) CheckAvailability(ctx context.Context, handle string) CheckResult {
	ctx, span := tracer.Start(ctx, "client:CheckAvailability")
	defer span.End()
	span.SetAttributes(attribute.String("handle", handle))

	result := CheckResult{
		Handle: handle,
		Url:    c.ProductUrl(handle),
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get("/products/" + handle)
	if err != nil {
		result.Status = StatusUnknown
		result.Detail = err.Error()
		span.SetAttributes(attribute.String("status", string(result.Status)))
		return result
	}
	if res.IsError() {
		result.Status = StatusUnknown
		result.Detail = fmt.Sprintf("unreachable (HTTP %d)", res.StatusCode())
		span.SetAttributes(attribute.String("status", string(result.Status)))
		return result
	}

	result.Status = ClassifyPage(res.Body())
	span.SetAttributes(attribute.String("status", string(result.Status)))
	return result
}

// ClassifyPage decides availability from the visible text of a product page.
// "sold out" wins over "add to cart" no matter where either appears.
func ClassifyPage(body []byte) Status {
	text := string(body)
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err == nil {
		text = doc.Text()
	}
	text = strings.ToLower(htmlutil.NormalizeText(text))

	if strings.Contains(text, "sold out") {
		return StatusSoldOut
	}
	if strings.Contains(text, "add to cart") || strings.Contains(text, "add to basket") {
		return StatusAvailable
	}
	return StatusUnknown
}

package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"stocksnoop/lib/htmlutil"
)

// Product is a discovered storefront product. Title may be empty when the
// discovery strategy only sees handles.
type Product struct {
	Handle string
	Title  string
}

const productsPageLimit = 250

// maxProductPages bounds paginated discovery in case a storefront never
// returns an empty page.
const maxProductPages = 50

type productListing struct {
	Products []struct {
		Handle string `json:"handle"`
		Title  string `json:"title"`
	} `json:"products"`
}

func parseProductListing(body []byte) ([]Product, error) {
	var listing productListing
	err := json.Unmarshal(body, &listing)
	if err != nil {
		return nil, err
	}
	products := make([]Product, len(listing.Products))
	for i, p := range listing.Products {
		products[i] = Product{Handle: p.Handle, Title: p.Title}
	}
	return products, nil
}

// FetchProductList fetches the storefront product listing endpoint in a
// single request.
func (c Client) FetchProductList(ctx context.Context) ([]Product, error) {
	ctx, span := tracer.Start(ctx, "client:FetchProductList")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(productsPageLimit)).
		Get("/products.json")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch product listing")
		return nil, err
	}
	if res.IsError() {
		err = fmt.Errorf("product listing returned HTTP %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "product listing request rejected")
		return nil, err
	}

	products, err := parseProductListing(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse product listing")
		return nil, err
	}
	span.SetAttributes(attribute.Int("count", len(products)))
	return products, nil
}

// FetchProductListPaginated walks the product listing endpoint page by page
// until a page comes back empty.
func (c Client) FetchProductListPaginated(ctx context.Context) ([]Product, error) {
	ctx, span := tracer.Start(ctx, "client:FetchProductListPaginated")
	defer span.End()

	var all []Product
	for page := 1; page <= maxProductPages; page++ {
		res, err := c.Http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"limit": strconv.Itoa(productsPageLimit),
				"page":  strconv.Itoa(page),
			}).
			Get("/products.json")
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch product listing page")
			return nil, err
		}
		if res.IsError() {
			err = fmt.Errorf("product listing page %d returned HTTP %d", page, res.StatusCode())
			span.RecordError(err)
			span.SetStatus(codes.Error, "product listing page request rejected")
			return nil, err
		}

		products, err := parseProductListing(res.Body())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse product listing page")
			return nil, err
		}
		if len(products) == 0 {
			break
		}
		all = append(all, products...)
	}

	span.SetAttributes(attribute.Int("count", len(all)))
	return all, nil
}

// FetchCollectionProducts scrapes the all-products collection page for
// product links.
func (c Client) FetchCollectionProducts(ctx context.Context) ([]Product, error) {
	ctx, span := tracer.Start(ctx, "client:FetchCollectionProducts")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get("/collections/all")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch collections page")
		return nil, err
	}
	if res.IsError() {
		err = fmt.Errorf("collections page returned HTTP %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "collections page request rejected")
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse collections page")
		return nil, err
	}

	var products []Product
	for _, anchor := range htmlutil.GetAnchors(ctx, doc.Find(`a[href*="/products/"]`)) {
		handle := handleFromHref(anchor.Href)
		if handle == "" {
			continue
		}
		products = append(products, Product{Handle: handle, Title: anchor.Name})
	}
	if len(products) == 0 {
		err = fmt.Errorf("no product links found on collections page")
		span.RecordError(err)
		span.SetStatus(codes.Error, "collections page had no product links")
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(products)))
	return products, nil
}

// handleFromHref pulls the product handle out of hrefs like
// "/collections/all/products/atlas-ii?variant=123".
func handleFromHref(href string) string {
	_, after, found := strings.Cut(href, "/products/")
	if !found {
		return ""
	}
	handle := after
	if i := strings.IndexAny(handle, "?#/"); i >= 0 {
		handle = handle[:i]
	}
	return handle
}

// DiscoverProducts tries each discovery strategy in order and returns the
// first non-empty result deduplicated by handle, along with the name of the
// strategy that produced it. It never fails: when every strategy errors out
// the static fallback handles are returned.
func (c Client) DiscoverProducts(ctx context.Context, fallback []string) ([]Product, string) {
	ctx, span := tracer.Start(ctx, "client:DiscoverProducts")
	defer span.End()

	strategies := []struct {
		name  string
		fetch func(context.Context) ([]Product, error)
	}{
		{"product_listing", c.FetchProductList},
		{"product_listing_paginated", c.FetchProductListPaginated},
		{"collections_page", c.FetchCollectionProducts},
	}
	for _, strategy := range strategies {
		products, err := strategy.fetch(ctx)
		if err != nil {
			slog.WarnContext(
				ctx, "discovery strategy failed",
				"strategy", strategy.name,
				"err", err,
			)
			continue
		}
		if len(products) == 0 {
			continue
		}
		span.SetAttributes(
			attribute.String("strategy", strategy.name),
			attribute.Int("count", len(products)),
		)
		return dedupeProducts(products), strategy.name
	}

	slog.WarnContext(
		ctx, "all discovery strategies failed, falling back to the static product list",
		"count", len(fallback),
	)
	span.SetAttributes(attribute.String("strategy", "static_list"))

	products := make([]Product, len(fallback))
	for i, handle := range fallback {
		products[i] = Product{Handle: handle}
	}
	return dedupeProducts(products), "static_list"
}

// dedupeProducts drops repeat handles, keeping first-seen order.
func dedupeProducts(products []Product) []Product {
	seen := make(map[string]struct{}, len(products))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.Handle]; ok {
			continue
		}
		seen[p.Handle] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Package htmlutil has small helpers for working with the rendered text of
// scraped pages.
package htmlutil

import (
	"bytes"
	"context"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("lib/htmlutil")

// GetText concatenates every text node under the given node.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// NormalizeText flattens visible text for keyword matching: whitespace runs
// (including newlines between inline elements) become single spaces, then
// non-printable characters are dropped.
func NormalizeText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return removeNonPrintable(s)
}

type Anchor struct {
	Name string
	Href string
}

// GetAnchors extracts the href and normalized link text of every anchor in
// the selection.
func GetAnchors(ctx context.Context, sel *goquery.Selection) []Anchor {
	_, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}

		anchors = append(anchors, Anchor{
			Name: NormalizeText(GetText(n)),
			Href: href,
		})
	}
	span.SetAttributes(attribute.Int("count", len(anchors)))

	return anchors
}

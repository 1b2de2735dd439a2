package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
)

// maxBodyDump caps how much of a body makes it into a dump file. Storefront
// product pages run to hundreds of kilobytes of markup.
const maxBodyDump = 64 << 10

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out strings.Builder
	for _, k := range keys {
		for _, v := range headers[k] {
			fmt.Fprintf(&out, "%s: %s\n", k, v)
		}
	}
	return strings.TrimSuffix(out.String(), "\n")
}

func truncateBody(body string) string {
	if len(body) <= maxBodyDump {
		return body
	}
	return fmt.Sprintf(
		"%s\n[... %d bytes truncated]",
		body[:maxBodyDump], len(body)-maxBodyDump,
	)
}

func formatRequestBody(req *http.Request) string {
	if req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("failed to get request body: %s", err.Error())
	}
	readBody, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("failed to read request body: %s", err.Error())
	}
	return truncateBody(string(readBody))
}

func formatHttpMessage(res *resty.Response) string {
	// the final url differs from the request url when the storefront
	// redirected us
	finalUrl := res.Request.URL
	if redirected, err := res.RawResponse.Location(); err == nil {
		finalUrl = redirected.String()
	}

	var out strings.Builder
	fmt.Fprintf(&out, "%s %s (%s, %d bytes)\n", res.Status(), finalUrl, res.Time(), res.Size())

	out.WriteString("\n---- REQUEST ----\n\n")
	fmt.Fprintf(&out, "%s %s\n\n", res.Request.Method, res.Request.URL)
	out.WriteString(formatHeaders(res.Request.RawRequest.Header))
	out.WriteString("\n\n")
	out.WriteString(formatRequestBody(res.Request.RawRequest))

	out.WriteString("\n\n---- RESPONSE ----\n\n")
	out.WriteString(formatHeaders(res.Header()))
	out.WriteString("\n\n")
	out.WriteString(truncateBody(res.String()))

	return out.String()
}

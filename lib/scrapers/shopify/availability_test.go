package shopify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)
	return client
}

func productPage(button string) string {
	return fmt.Sprintf(`<!doctype html>
<html>
<body>
	<h1 class="product-title">Atlas II</h1>
	<div class="product-form">
		<button type="submit" name="add">%s</button>
	</div>
</body>
</html>`, button)
}

func TestClassifyPage(t *testing.T) {
	for _, test := range []struct {
		name     string
		body     string
		expected Status
	}{
		{
			name:     "add to cart",
			body:     productPage("Add to cart"),
			expected: StatusAvailable,
		},
		{
			name:     "add to basket",
			body:     productPage("Add to basket"),
			expected: StatusAvailable,
		},
		{
			name:     "sold out",
			body:     productPage("Sold out"),
			expected: StatusSoldOut,
		},
		{
			name:     "shouting",
			body:     productPage("SOLD OUT"),
			expected: StatusSoldOut,
		},
		{
			name: "sold out wins over add to cart",
			body: `<html><body>
				<button disabled>Sold out</button>
				<a href="/cart">Add to cart</a>
			</body></html>`,
			expected: StatusSoldOut,
		},
		{
			name: "sold out wins regardless of order",
			body: `<html><body>
				<a href="/cart">Add to cart</a>
				<button disabled>Sold out</button>
			</body></html>`,
			expected: StatusSoldOut,
		},
		{
			name: "keywords split across markup",
			body: `<html><body><span>Sold</span>
				<span>out</span></body></html>`,
			expected: StatusSoldOut,
		},
		{
			name:     "no keywords",
			body:     productPage("Notify me"),
			expected: StatusUnknown,
		},
		{
			name:     "empty page",
			body:     "",
			expected: StatusUnknown,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, ClassifyPage([]byte(test.body)))
		})
	}
}

func TestCheckAvailability(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products/atlas-ii", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, productPage("Sold out"))
	})
	mux.HandleFunc("/products/overlord", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, productPage("Add to cart"))
	})
	client := newTestClient(t, mux)

	ctx := context.Background()

	result := client.CheckAvailability(ctx, "atlas-ii")
	require.Equal(t, StatusSoldOut, result.Status)
	require.Equal(t, "atlas-ii", result.Handle)
	require.Equal(t, client.ProductUrl("atlas-ii"), result.Url)
	require.Empty(t, result.Detail)

	result = client.CheckAvailability(ctx, "overlord")
	require.Equal(t, StatusAvailable, result.Status)
}

func TestCheckAvailabilityHttpError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	result := client.CheckAvailability(context.Background(), "atlas-ii")
	require.Equal(t, StatusUnknown, result.Status)
	require.Equal(t, "unreachable (HTTP 503)", result.Detail)
}

func TestCheckAvailabilityNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)
	server.Close()

	result := client.CheckAvailability(context.Background(), "atlas-ii")
	require.Equal(t, StatusUnknown, result.Status)
	require.NotEmpty(t, result.Detail)
}

func TestClientSendsFixedUserAgent(t *testing.T) {
	var userAgent string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		fmt.Fprint(w, productPage("Add to cart"))
	}))

	client.CheckAvailability(context.Background(), "atlas-ii")
	require.Equal(t, DefaultUserAgent, userAgent)
}

func TestStatusDisplay(t *testing.T) {
	require.Equal(t, "available", StatusAvailable.Display())
	require.Equal(t, "sold out", StatusSoldOut.Display())
	require.Equal(t, "unknown", StatusUnknown.Display())
}

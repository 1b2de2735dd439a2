package watcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"stocksnoop/lib/checkstore"
	"stocksnoop/lib/checkstore/db"
	"stocksnoop/lib/scrapers/shopify"
	"stocksnoop/lib/testutil"

	"github.com/stretchr/testify/require"
)

// storefront serves a product listing plus a page per handle, with the
// given add-to-cart button text.
func storefront(handles []string, buttons map[string]string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/products.json", func(w http.ResponseWriter, r *http.Request) {
		type product struct {
			Handle string `json:"handle"`
		}
		listing := struct {
			Products []product `json:"products"`
		}{}
		for _, handle := range handles {
			listing.Products = append(listing.Products, product{Handle: handle})
		}
		json.NewEncoder(w).Encode(listing)
	})
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		handle := strings.TrimPrefix(r.URL.Path, "/products/")
		button, ok := buttons[handle]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, "<html><body><button>%s</button></body></html>", button)
	})
	return mux
}

func newTestService(t *testing.T, handler http.Handler, options Options) Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := shopify.NewClient(shopify.ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	if options.CheckDelay == 0 {
		options.CheckDelay = time.Millisecond
	}
	return NewService(client, options)
}

type stubNotifier struct {
	calls  int
	events []ChangeEvent
	err    error
}

func (s *stubNotifier) Notify(ctx context.Context, events []ChangeEvent) error {
	s.calls++
	s.events = append(s.events, events...)
	return s.err
}

func TestRunOnceFirstRun(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "state.json")
	notifier := &stubNotifier{}

	service := newTestService(
		t,
		storefront([]string{"atlas-ii", "overlord"}, map[string]string{
			"atlas-ii": "Sold out",
			"overlord": "Add to cart",
		}),
		Options{StateFile: stateFile, Notifier: notifier},
	)

	result, err := service.RunOnce(context.Background())
	require.NoError(t, err)
	require.True(t, result.FirstRun)
	require.Empty(t, result.Events)
	require.Equal(t, 0, notifier.calls)
	require.Len(t, result.RunId, 8)

	state := LoadState(context.Background(), stateFile)
	require.Len(t, state, 2)
	require.Equal(t, shopify.StatusSoldOut, state["atlas-ii"].Status)
	require.Equal(t, shopify.StatusAvailable, state["overlord"].Status)
}

func TestRunOnceDetectsStatusChange(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "state.json")
	err := SaveState(stateFile, map[string]ProductRecord{
		"atlas-ii": {Handle: "atlas-ii", Status: shopify.StatusSoldOut},
		"overlord": {Handle: "overlord", Status: shopify.StatusAvailable},
	})
	require.NoError(t, err)

	notifier := &stubNotifier{}
	service := newTestService(
		t,
		storefront([]string{"atlas-ii", "overlord"}, map[string]string{
			"atlas-ii": "Add to cart",
			"overlord": "Add to cart",
		}),
		Options{StateFile: stateFile, Notifier: notifier},
	)

	result, err := service.RunOnce(context.Background())
	require.NoError(t, err)
	require.False(t, result.FirstRun)
	require.True(t, result.Notified)
	require.Equal(t, 1, notifier.calls)
	require.Len(t, result.Events, 1)
	require.Equal(t, EventStatusChange, result.Events[0].Kind)
	require.Equal(t, "atlas-ii", result.Events[0].Handle)
	require.Equal(t, shopify.StatusSoldOut, result.Events[0].Previous)
	require.Equal(t, shopify.StatusAvailable, result.Events[0].Current)

	state := LoadState(context.Background(), stateFile)
	require.Equal(t, shopify.StatusAvailable, state["atlas-ii"].Status)
}

func TestRunOnceNotifierFailureStillSavesState(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "state.json")
	err := SaveState(stateFile, map[string]ProductRecord{
		"atlas-ii": {Handle: "atlas-ii", Status: shopify.StatusSoldOut},
	})
	require.NoError(t, err)

	notifier := &stubNotifier{err: fmt.Errorf("webhook returned HTTP 500")}
	service := newTestService(
		t,
		storefront([]string{"atlas-ii"}, map[string]string{
			"atlas-ii": "Add to cart",
		}),
		Options{StateFile: stateFile, Notifier: notifier},
	)

	result, err := service.RunOnce(context.Background())
	require.NoError(t, err)
	require.False(t, result.Notified)
	require.Equal(t, 1, notifier.calls)

	state := LoadState(context.Background(), stateFile)
	require.Equal(t, shopify.StatusAvailable, state["atlas-ii"].Status)
}

func TestRunOnceRecordsHistory(t *testing.T) {
	service, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "watcher",
		DbSchema: db.Schema,
	})
	defer cleanup()
	history := checkstore.NewStore(service.DB)

	stateFile := filepath.Join(t.TempDir(), "state.json")
	watch := newTestService(
		t,
		storefront([]string{"atlas-ii"}, map[string]string{
			"atlas-ii": "Sold out",
		}),
		Options{StateFile: stateFile, History: &history},
	)

	result, err := watch.RunOnce(context.Background())
	require.NoError(t, err)

	checks, err := history.History(context.Background(), "atlas-ii", 10)
	require.NoError(t, err)
	require.Len(t, checks, 1)
	require.Equal(t, result.RunId, checks[0].RunId)
	require.Equal(t, shopify.StatusSoldOut, checks[0].Status)
}

func TestRunOnceStaticFallbackWhenDiscoveryFails(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "state.json")

	mux := http.NewServeMux()
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><button>Add to cart</button></body></html>")
	})
	// no /products.json, no /collections/all: discovery must fall back

	service := newTestService(t, mux, Options{
		StateFile: stateFile,
		Handles:   []string{"atlas-ii", "overlord"},
	})

	result, err := service.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, "static_list", result.Strategy)
	require.Len(t, result.Results, 2)

	state := LoadState(context.Background(), stateFile)
	require.Len(t, state, 2)
}

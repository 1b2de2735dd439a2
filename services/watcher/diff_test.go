package watcher

import (
	"testing"

	"stocksnoop/lib/scrapers/shopify"

	"github.com/stretchr/testify/require"
)

func TestDetectChangesNewProduct(t *testing.T) {
	previous := map[string]ProductRecord{
		"overlord": {Handle: "overlord", Status: shopify.StatusAvailable},
	}
	current := []shopify.CheckResult{
		{Handle: "overlord", Status: shopify.StatusAvailable},
		{Handle: "atlas-ii", Status: shopify.StatusSoldOut, Url: "https://shop.example.com/products/atlas-ii"},
	}

	events := DetectChanges(previous, current)
	require.Len(t, events, 1)
	require.Equal(t, EventNewProduct, events[0].Kind)
	require.Equal(t, "atlas-ii", events[0].Handle)
	require.Equal(t, shopify.StatusSoldOut, events[0].Current)
	require.Empty(t, events[0].Previous)
}

func TestDetectChangesUnchanged(t *testing.T) {
	previous := map[string]ProductRecord{
		"atlas-ii": {Handle: "atlas-ii", Status: shopify.StatusSoldOut},
		"overlord": {Handle: "overlord", Status: shopify.StatusUnknown},
	}
	current := []shopify.CheckResult{
		{Handle: "atlas-ii", Status: shopify.StatusSoldOut},
		{Handle: "overlord", Status: shopify.StatusUnknown},
	}

	require.Empty(t, DetectChanges(previous, current))
}

func TestDetectChangesStatusChange(t *testing.T) {
	previous := map[string]ProductRecord{
		"atlas-ii": {Handle: "atlas-ii", Status: shopify.StatusSoldOut},
	}
	current := []shopify.CheckResult{
		{Handle: "atlas-ii", Status: shopify.StatusAvailable},
	}

	events := DetectChanges(previous, current)
	require.Len(t, events, 1)
	require.Equal(t, EventStatusChange, events[0].Kind)
	require.Equal(t, shopify.StatusSoldOut, events[0].Previous)
	require.Equal(t, shopify.StatusAvailable, events[0].Current)
}

func TestDetectChangesUnknownTransitions(t *testing.T) {
	previous := map[string]ProductRecord{
		"atlas-ii": {Handle: "atlas-ii", Status: shopify.StatusAvailable},
		"overlord": {Handle: "overlord", Status: shopify.StatusUnknown},
	}
	current := []shopify.CheckResult{
		{Handle: "atlas-ii", Status: shopify.StatusUnknown},
		{Handle: "overlord", Status: shopify.StatusSoldOut},
	}

	events := DetectChanges(previous, current)
	require.Len(t, events, 2)
	require.Equal(t, shopify.StatusUnknown, events[0].Current)
	require.Equal(t, shopify.StatusUnknown, events[1].Previous)
}

func TestDetectChangesVanishedHandle(t *testing.T) {
	previous := map[string]ProductRecord{
		"atlas-ii": {Handle: "atlas-ii", Status: shopify.StatusAvailable},
		"overlord": {Handle: "overlord", Status: shopify.StatusAvailable},
	}
	current := []shopify.CheckResult{
		{Handle: "atlas-ii", Status: shopify.StatusAvailable},
	}

	require.Empty(t, DetectChanges(previous, current))
}

func TestChangeEventLine(t *testing.T) {
	change := ChangeEvent{
		Handle:   "atlas-ii",
		Kind:     EventStatusChange,
		Previous: shopify.StatusSoldOut,
		Current:  shopify.StatusAvailable,
	}
	require.Equal(t, "atlas-ii: sold out -> available", change.Line())

	fresh := ChangeEvent{
		Handle:  "marauder",
		Kind:    EventNewProduct,
		Current: shopify.StatusAvailable,
	}
	require.Equal(t, "marauder: new product (available)", fresh.Line())
}

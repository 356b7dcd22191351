package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSearchRecorder(t *testing.T) {
	before := testutil.ToFloat64(SearchesTotal.WithLabelValues("gaming"))

	SearchRecorder{}.RecordSearch("gaming", 3)

	if got := testutil.ToFloat64(SearchesTotal.WithLabelValues("gaming")); got != before+1 {
		t.Errorf("searches_total = %f, want %f", got, before+1)
	}
	if testutil.CollectAndCount(SearchResults) == 0 {
		t.Error("expected result histogram observations")
	}
}

func TestCatalogObserver(t *testing.T) {
	var obs CatalogObserver

	obs.CatalogLoaded(12, nil)
	if got := testutil.ToFloat64(CatalogLaptops); got != 12 {
		t.Errorf("catalog_laptops = %f, want 12", got)
	}
	if testutil.ToFloat64(CatalogLoadedTimestamp) == 0 {
		t.Error("expected load timestamp to be set")
	}

	failedBefore := testutil.ToFloat64(CatalogReloadsTotal.WithLabelValues("false"))
	obs.CatalogLoaded(0, errors.New("bad json"))

	if got := testutil.ToFloat64(CatalogLaptops); got != 12 {
		t.Errorf("failed load must keep size gauge, got %f", got)
	}
	if got := testutil.ToFloat64(CatalogReloadsTotal.WithLabelValues("false")); got != failedBefore+1 {
		t.Errorf("failed reloads = %f, want %f", got, failedBefore+1)
	}
}

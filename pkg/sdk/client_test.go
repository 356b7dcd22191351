package laptopmatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var testLaptops = []Laptop{
	{
		ID: "mba-m1", Name: "Apple MacBook Air M1", Brand: "Apple", Price: 69990, RAM: 8,
		CPU: "Apple M1", GPU: "7-core GPU", Weight: 1.29,
		PurposeTags: []Purpose{PurposeStudy, PurposeCoding}, StudentDiscount: true, DiscountInfo: "10% off",
	},
	{
		ID: "g15", Name: "Dell G15 Gaming Laptop", Brand: "Dell", Price: 84990, RAM: 16,
		CPU: "Intel Core i5-12500H", GPU: "NVIDIA RTX 3050", Weight: 2.65,
		PurposeTags: []Purpose{PurposeGaming},
	},
	{
		ID: "slim5", Name: "Lenovo IdeaPad Slim 5", Brand: "Lenovo", Price: 54990, RAM: 16,
		CPU: "AMD Ryzen 5 7530U", GPU: "AMD Radeon Graphics", Weight: 1.46,
		PurposeTags: []Purpose{PurposeStudy, PurposeCoding},
	},
	{
		ID: "aspire3", Name: "Acer Aspire 3", Brand: "Acer", Price: 32990, RAM: 8,
		CPU: "Intel Core i3-1215U", GPU: "Intel UHD Graphics", Weight: 1.7,
		PurposeTags: []Purpose{PurposeStudy}, StudentDiscount: true, DiscountInfo: "Flat 3000 off",
	},
}

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(context.Background(), append([]Option{WithLaptops(testLaptops)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_NoCatalog(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no catalog provided")
	}
}

func TestNew_InvalidLaptop(t *testing.T) {
	_, err := New(context.Background(), WithLaptops([]Laptop{{ID: "x", Name: "X", Brand: "Y"}}))
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestNew_MissingFile(t *testing.T) {
	_, err := New(context.Background(), WithCatalogFile(filepath.Join(t.TempDir(), "missing.json")))
	if err == nil {
		t.Fatal("expected error for missing catalog file")
	}
}

func TestRecommend(t *testing.T) {
	c := newTestClient(t)
	recs, err := c.Recommend(context.Background(), Criteria{Budget: 70000, Purpose: PurposeStudy})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 study laptops within budget, got %d", len(recs))
	}
	for i, r := range recs {
		if r.Laptop.Price > 70000 {
			t.Errorf("%s over budget", r.Laptop.ID)
		}
		if r.Reason == "" {
			t.Errorf("%s has empty reason", r.Laptop.ID)
		}
		if i > 0 && r.Score > recs[i-1].Score {
			t.Errorf("scores not sorted at %d", i)
		}
	}
}

func TestRecommend_InvalidCriteria(t *testing.T) {
	c := newTestClient(t)
	_, err := c.Recommend(context.Background(), Criteria{Budget: 5, Purpose: "sleeping"})
	if !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("expected ErrInvalidCriteria, got %v", err)
	}
}

func TestRecommend_NoMatch(t *testing.T) {
	c := newTestClient(t)
	recs, err := c.Recommend(context.Background(), Criteria{Budget: 10000, Purpose: PurposeGaming})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected no results, got %d", len(recs))
	}
}

func TestLaptop(t *testing.T) {
	c := newTestClient(t)
	l, err := c.Laptop(context.Background(), "g15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Brand != "Dell" || l.RAM != 16 || len(l.PurposeTags) != 1 {
		t.Errorf("unexpected laptop: %+v", l)
	}

	_, err = c.Laptop(context.Background(), "nope")
	if !errors.Is(err, ErrLaptopNotFound) {
		t.Errorf("expected ErrLaptopNotFound, got %v", err)
	}
}

func TestLaptops_CatalogOrder(t *testing.T) {
	c := newTestClient(t)
	all := c.Laptops(context.Background())
	if len(all) != len(testLaptops) {
		t.Fatalf("expected %d laptops, got %d", len(testLaptops), len(all))
	}
	for i := range all {
		if all[i].ID != testLaptops[i].ID {
			t.Errorf("position %d: got %s, want %s", i, all[i].ID, testLaptops[i].ID)
		}
	}
}

func TestDeals(t *testing.T) {
	c := newTestClient(t)
	deals := c.Deals(context.Background())
	if len(deals) != 2 {
		t.Fatalf("expected 2 deals, got %d", len(deals))
	}
	for _, d := range deals {
		if !d.Laptop.StudentDiscount {
			t.Errorf("%s has no student discount", d.Laptop.ID)
		}
	}
}

func TestCompare(t *testing.T) {
	c := newTestClient(t)
	rows, err := c.Compare(context.Background(), "mba-m1", "g15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].CPUScore != 7 {
		t.Errorf("Apple M1 cpu score = %d, want 7", rows[0].CPUScore)
	}
	if rows[1].GPUScore <= rows[0].GPUScore {
		t.Errorf("RTX 3050 should outscore an integrated GPU: %d vs %d", rows[1].GPUScore, rows[0].GPUScore)
	}
}

func TestCompare_Errors(t *testing.T) {
	c := newTestClient(t)
	if _, err := c.Compare(context.Background(), "mba-m1"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("single id: expected ErrInvalidInput, got %v", err)
	}
	if _, err := c.Compare(context.Background(), "mba-m1", "nope"); !errors.Is(err, ErrLaptopNotFound) {
		t.Errorf("unknown id: expected ErrLaptopNotFound, got %v", err)
	}
}

func TestStory_NoGenerator(t *testing.T) {
	c := newTestClient(t)
	_, err := c.Story(context.Background(), "g15", PurposeGaming)
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func TestStory_WithGenerator(t *testing.T) {
	var got GenerationRequest
	gen := &mockGenerator{fn: func(_ context.Context, req GenerationRequest) (GenerationResult, error) {
		got = req
		return GenerationResult{Text: "A great day.", TotalTokens: 42}, nil
	}}
	c := newTestClient(t, WithGenerator(gen))

	text, err := c.Story(context.Background(), "g15", PurposeGaming)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "A great day." {
		t.Errorf("text = %q", text)
	}
	if !strings.Contains(got.User, "Dell G15 Gaming Laptop") || !strings.Contains(got.User, "gaming") {
		t.Errorf("prompt does not describe the laptop: %q", got.User)
	}
	if got.System == "" || got.MaxTokens == 0 {
		t.Errorf("expected system prompt and token limit, got %+v", got)
	}
}

func TestCompatibility_GeneratorError(t *testing.T) {
	gen := &mockGenerator{fn: func(_ context.Context, _ GenerationRequest) (GenerationResult, error) {
		return GenerationResult{}, errors.New("upstream down")
	}}
	c := newTestClient(t, WithGenerator(gen))

	_, err := c.Compatibility(context.Background(), "mba-m1", []string{"VS Code", "Docker"})
	if !errors.Is(err, ErrGenerationProviderError) {
		t.Fatalf("expected ErrGenerationProviderError, got %v", err)
	}
}

func TestReload_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "laptops.json")
	writeCatalog(t, path, `[
		{"id":"a","name":"A","brand":"Acer","price":30000,"ram":8,"cpu":"Intel Core i3","gpu":"Intel UHD","weight":1.5,"purposeTags":["study"]},
		{"id":"b","name":"B","brand":"Asus","price":40000,"ram":8,"cpu":"Intel Core i5","gpu":"Intel UHD","weight":1.5,"purposeTags":["study"]}
	]`)

	c, err := New(context.Background(), WithCatalogFile(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if n := len(c.Laptops(context.Background())); n != 2 {
		t.Fatalf("expected 2 laptops, got %d", n)
	}

	writeCatalog(t, path, `[
		{"id":"c","name":"C","brand":"HP","price":50000,"ram":16,"cpu":"AMD Ryzen 5","gpu":"AMD Radeon","weight":1.4,"purposeTags":["coding"]}
	]`)
	n, err := c.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if n != 1 {
		t.Errorf("reloaded %d laptops, want 1", n)
	}

	writeCatalog(t, path, `not json`)
	if _, err := c.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error for broken file")
	}
	if _, err := c.Laptop(context.Background(), "c"); err != nil {
		t.Errorf("previous catalog should stay active: %v", err)
	}
}

func TestReload_Static(t *testing.T) {
	c := newTestClient(t)
	if _, err := c.Reload(context.Background()); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	c := newTestClient(t)
	h := c.Health(context.Background())
	if h.Status != "ok" {
		t.Errorf("status = %q, want ok", h.Status)
	}
	if h.Checks["catalog"] != "ok" {
		t.Errorf("catalog check = %q", h.Checks["catalog"])
	}
}

func writeCatalog(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
}

type mockGenerator struct {
	fn func(ctx context.Context, req GenerationRequest) (GenerationResult, error)
}

func (m *mockGenerator) Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	return m.fn(ctx, req)
}

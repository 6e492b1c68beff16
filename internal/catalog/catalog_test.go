package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const sampleCatalog = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"link_data": "https://geodaten.example/download?file=a.xml.gz", "quartal": "2024_2", "flur": "110-023"}},
    {"type": "Feature", "properties": {"link_data": "https://geodaten.example/download?file=b.xml.gz", "quartal": "2024_2", "flur": "110-024"}},
    {"type": "Feature", "properties": {"quartal": "2024_2", "gemarkung": "Flensburg"}}
  ]
}`

func writeTempCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.geojson")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeTempCatalog(t, sampleCatalog)

	items, err := Load(context.Background(), path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Flur != "110-023" {
		t.Errorf("expected first item flur '110-023', got %q", items[0].Flur)
	}
	if items[1].Flur != "110-024" {
		t.Errorf("expected second item flur '110-024', got %q", items[1].Flur)
	}
	if items[2].SourceURL != "" {
		t.Errorf("expected third item without source URL, got %q", items[2].SourceURL)
	}
	if items[2].Gemarkung != "Flensburg" {
		t.Errorf("expected third item gemarkung 'Flensburg', got %q", items[2].Gemarkung)
	}
}

func TestLoadFromURL(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte(sampleCatalog))
	}))
	defer server.Close()

	items, err := Load(context.Background(), server.URL, LoadOptions{UserAgent: "test-agent"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if gotUserAgent != "test-agent" {
		t.Errorf("expected User-Agent 'test-agent', got %q", gotUserAgent)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.geojson"), LoadOptions{})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestLoadServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := Load(context.Background(), server.URL, LoadOptions{})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", `{{{`},
		{"wrong type", `{"type": "Feature", "features": []}`},
		{"missing features", `{"type": "FeatureCollection"}`},
		{"non-string property", `{"type": "FeatureCollection", "features": [{"properties": {"flur": 42}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempCatalog(t, tt.content)
			_, err := Load(context.Background(), path, LoadOptions{})
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestLoadPreservesOrder(t *testing.T) {
	path := writeTempCatalog(t, `{
  "type": "FeatureCollection",
  "features": [
    {"properties": {"flur": "c"}},
    {"properties": {"flur": "a"}},
    {"properties": {"flur": "b"}}
  ]
}`)

	items, err := Load(context.Background(), path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{"c", "a", "b"}
	for i, w := range want {
		if items[i].Flur != w {
			t.Errorf("item %d: expected flur %q, got %q", i, w, items[i].Flur)
		}
	}
}

func TestSelect(t *testing.T) {
	items := []Item{{Flur: "0"}, {Flur: "1"}, {Flur: "2"}, {Flur: "3"}}

	tests := []struct {
		name  string
		start int
		end   int
		want  []string
	}{
		{"full open", 0, OpenEnd, []string{"0", "1", "2", "3"}},
		{"full explicit", 0, 4, []string{"0", "1", "2", "3"}},
		{"middle", 1, 3, []string{"1", "2"}},
		{"end clamped", 2, 100, []string{"2", "3"}},
		{"empty at length", 4, OpenEnd, nil},
		{"empty beyond length", 10, OpenEnd, nil},
		{"empty zero width", 2, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(items, tt.start, tt.end)
			if err != nil {
				t.Fatalf("Select(%d, %d): %v", tt.start, tt.end, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Select(%d, %d) returned %d items, want %d", tt.start, tt.end, len(got), len(tt.want))
			}
			for i, w := range tt.want {
				if got[i].Flur != w {
					t.Errorf("item %d: expected flur %q, got %q", i, w, got[i].Flur)
				}
			}
		})
	}
}

func TestSelectInvalidRange(t *testing.T) {
	items := []Item{{Flur: "0"}, {Flur: "1"}}

	if _, err := Select(items, -1, OpenEnd); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("negative start: expected ErrInvalidRange, got %v", err)
	}
	if _, err := Select(items, 2, 1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("end before start: expected ErrInvalidRange, got %v", err)
	}
}

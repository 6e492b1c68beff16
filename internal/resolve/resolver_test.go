package resolve

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/oklabflensburg/open-parcel-map/internal/catalog"
)

func TestResolveFileNameChain(t *testing.T) {
	tests := []struct {
		name string
		item catalog.Item
		want string
	}{
		{
			"file query parameter wins",
			catalog.Item{
				SourceURL: "https://geodaten.example/download?id=7&file=110-023.xml.gz",
				Flur:      "ignored",
				Gemarkung: "ignored",
			},
			"110-023.xml.gz",
		},
		{
			"flur when no file parameter",
			catalog.Item{
				SourceURL: "https://geodaten.example/download?id=7",
				Flur:      "110-023",
				Gemarkung: "ignored",
			},
			"110-023",
		},
		{
			"flur when file parameter empty",
			catalog.Item{
				SourceURL: "https://geodaten.example/download?file=",
				Flur:      "110-023",
			},
			"110-023",
		},
		{
			"gemarkung when flur empty",
			catalog.Item{
				SourceURL: "https://geodaten.example/download",
				Gemarkung: "Flensburg",
				Schlgmd:   "ignored",
			},
			"Flensburg",
		},
		{
			"schlgmd as last fallback",
			catalog.Item{
				SourceURL: "https://geodaten.example/download",
				Schlgmd:   "Handewitt",
			},
			"Handewitt",
		},
		{
			"no source URL at all",
			catalog.Item{Flur: "110-023"},
			"110-023",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := Resolve(tt.item)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if target.FileName != tt.want {
				t.Errorf("expected file name %q, got %q", tt.want, target.FileName)
			}
		})
	}
}

func TestResolveUnresolvable(t *testing.T) {
	_, err := Resolve(catalog.Item{SourceURL: "https://geodaten.example/download?id=7"})
	if !errors.Is(err, ErrUnresolvable) {
		t.Errorf("expected ErrUnresolvable, got %v", err)
	}

	_, err = Resolve(catalog.Item{Quartal: "2024_2"})
	if !errors.Is(err, ErrUnresolvable) {
		t.Errorf("expected ErrUnresolvable for quartal-only item, got %v", err)
	}
}

func TestResolveQuartalGrouping(t *testing.T) {
	target, err := Resolve(catalog.Item{Quartal: "2024-Q1", Flur: "110-023"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if target.Key() != "2024-Q1/110-023" {
		t.Errorf("expected key '2024-Q1/110-023', got %q", target.Key())
	}
	if got, want := target.AbsolutePath("/data"), filepath.Join("/data", "2024-Q1", "110-023"); got != want {
		t.Errorf("expected path %q, got %q", want, got)
	}

	target, err = Resolve(catalog.Item{Flur: "110-023"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if target.Key() != "110-023" {
		t.Errorf("expected key '110-023', got %q", target.Key())
	}
	if got, want := target.AbsolutePath("/data"), filepath.Join("/data", "110-023"); got != want {
		t.Errorf("expected path %q, got %q", want, got)
	}
}

func TestResolveDeterministic(t *testing.T) {
	item := catalog.Item{
		SourceURL: "https://geodaten.example/download?file=110-023.xml.gz",
		Quartal:   "2024_2",
	}

	first, err := Resolve(item)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := Resolve(item)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if first != second {
		t.Errorf("expected identical targets, got %+v and %+v", first, second)
	}
}

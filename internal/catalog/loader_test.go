package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spacevoyager/bookings/internal/catalog"
	"github.com/spacevoyager/bookings/internal/domain"
)

const sampleOptions = `{
  "destinations": [
    {
      "id": "mars",
      "name": "Mars Base One",
      "basePrice": 450000,
      "packages": [
        {"id": "orbit", "name": "Orbital Survey", "price": 0, "requiresSuitSize": false},
        {"id": "colony", "name": "Colony Visit", "price": 120000, "requiresSuitSize": true}
      ]
    }
  ],
  "extras": [
    {"id": "insurance", "name": "Voyage Insurance", "price": 5000, "description": "Refund coverage."}
  ]
}`

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booking-options.json")
	if err := os.WriteFile(path, []byte(sampleOptions), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := catalog.NewLoader(path).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(c.Destinations) != 1 || len(c.Extras) != 1 {
		t.Fatalf("catalog = %+v", c)
	}
	dest := c.DestinationByID("mars")
	if dest == nil || dest.BasePrice != 450000 {
		t.Errorf("DestinationByID(mars) = %+v", dest)
	}
	pkg := dest.PackageByID("colony")
	if pkg == nil || !pkg.RequiresSuitSize || pkg.Price != 120000 {
		t.Errorf("PackageByID(colony) = %+v", pkg)
	}
}

func TestLoadFromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleOptions))
	}))
	defer srv.Close()

	c, err := catalog.NewLoader(srv.URL).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if c.DestinationByID("mars") == nil {
		t.Errorf("catalog missing mars: %+v", c)
	}
}

// Failures surface as errors so the caller can log and carry on with a nil
// catalog; the loader itself never retries.
func TestLoadFailures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := catalog.NewLoader("does-not-exist.json").Load(context.Background()); err == nil {
			t.Error("want error for missing file")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := catalog.NewLoader(path).Load(context.Background()); err == nil {
			t.Error("want error for malformed json")
		}
	})

	t.Run("http error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		if _, err := catalog.NewLoader(srv.URL).Load(context.Background()); err == nil {
			t.Error("want error for http 500")
		}
	})
}

func TestLookupOnNilCatalog(t *testing.T) {
	var c *domain.Catalog
	if c.DestinationByID("mars") != nil {
		t.Error("nil catalog lookup should return nil")
	}
	if c.ExtraByID("insurance") != nil {
		t.Error("nil catalog extra lookup should return nil")
	}
}

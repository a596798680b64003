// Package catalog loads the static booking-options document the whole
// booking form is driven by.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spacevoyager/bookings/internal/domain"
)

// Loader fetches the catalog once per process start. Source is either a
// local file path or an http(s) URL. There are no retries: on failure the
// caller logs and carries on with a nil catalog, and every catalog-backed
// operation degrades to empty options instead of erroring.
type Loader struct {
	Source string
	Client *http.Client
}

func NewLoader(source string) *Loader {
	return &Loader{Source: source, Client: http.DefaultClient}
}

func (l *Loader) Load(ctx context.Context) (*domain.Catalog, error) {
	raw, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}

	var c domain.Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse booking options: %w", err)
	}
	return &c, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	if strings.HasPrefix(l.Source, "http://") || strings.HasPrefix(l.Source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.Source, nil)
		if err != nil {
			return nil, err
		}
		res, err := l.Client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch booking options: %w", err)
		}
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch booking options: status %d", res.StatusCode)
		}
		return io.ReadAll(res.Body)
	}

	raw, err := os.ReadFile(l.Source)
	if err != nil {
		return nil, fmt.Errorf("read booking options: %w", err)
	}
	return raw, nil
}

package xsoar

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/packsync/packsync/domain/pack"
	"github.com/packsync/packsync/infrastructure/storage/memory"
)

func expiredPacksServer(t *testing.T, records []pack.Installed) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
}

func TestOutdatedPacksCustomAuthor(t *testing.T) {
	srv := expiredPacksServer(t, []pack.Installed{
		{ID: "P", CurrentVersion: "1.0.0", Author: "Acme"},
	})
	defer srv.Close()

	provider := memory.New()
	provider.Put("P", "1.0.0", []byte("a"))
	provider.Put("P", "1.1.0", []byte("b"))

	c := newTestClient(t, srv.URL, func(cfg *Config) {
		cfg.CustomPackAuthors = []string{"Acme"}
		cfg.Provider = provider
	})

	report, err := c.OutdatedPacks(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report) != 1 {
		t.Fatalf("expected one entry, got %d", len(report))
	}

	want := pack.Outdated{ID: "P", CurrentVersion: "1.0.0", Latest: "1.1.0", Author: "Acme"}
	if report[0] != want {
		t.Errorf("unexpected entry: %+v", report[0])
	}
}

func TestOutdatedPacksCustomAuthorUpToDate(t *testing.T) {
	srv := expiredPacksServer(t, []pack.Installed{
		{ID: "P", CurrentVersion: "1.0.0", Author: "Acme"},
	})
	defer srv.Close()

	provider := memory.New()
	provider.Put("P", "1.0.0", []byte("a"))

	c := newTestClient(t, srv.URL, func(cfg *Config) {
		cfg.CustomPackAuthors = []string{"Acme"}
		cfg.Provider = provider
	})

	report, err := c.OutdatedPacks(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report) != 0 {
		t.Errorf("expected no entries, got %+v", report)
	}
}

func TestOutdatedPacksCustomAuthorNoStoredVersions(t *testing.T) {
	srv := expiredPacksServer(t, []pack.Installed{
		{ID: "P", CurrentVersion: "1.0.0", Author: "Acme"},
	})
	defer srv.Close()

	c := newTestClient(t, srv.URL, func(cfg *Config) {
		cfg.CustomPackAuthors = []string{"Acme"}
		cfg.Provider = memory.New()
	})

	// A pack absent from the artifact store is a diagnostic, not an error
	// and not an outdated entry.
	report, err := c.OutdatedPacks(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report) != 0 {
		t.Errorf("expected no entries, got %+v", report)
	}
}

func TestOutdatedPacksUpstream(t *testing.T) {
	srv := expiredPacksServer(t, []pack.Installed{
		{
			ID:              "Q",
			CurrentVersion:  "2.0.0",
			Author:          "Upstream",
			UpdateAvailable: true,
			Changelog:       []string{"2.0.0", "2.1.0"},
		},
	})
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)

	report, err := c.OutdatedPacks(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report) != 1 {
		t.Fatalf("expected one entry, got %d", len(report))
	}

	want := pack.Outdated{ID: "Q", CurrentVersion: "2.0.0", Latest: "2.1.0", Author: "Upstream"}
	if report[0] != want {
		t.Errorf("unexpected entry: %+v", report[0])
	}
}

func TestOutdatedPacksUpstreamNoUpdateFlag(t *testing.T) {
	srv := expiredPacksServer(t, []pack.Installed{
		{ID: "Q", CurrentVersion: "2.0.0", Author: "SomeVendor", UpdateAvailable: false},
	})
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)

	report, err := c.OutdatedPacks(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report) != 0 {
		t.Errorf("expected no entries, got %+v", report)
	}
}

func TestOutdatedPacksMixed(t *testing.T) {
	srv := expiredPacksServer(t, []pack.Installed{
		{ID: "P", CurrentVersion: "1.0.0", Author: "Acme"},
		{ID: "Q", CurrentVersion: "2.0.0", Author: "Vendor", UpdateAvailable: true, Changelog: []string{"2.0.0", "2.1.0"}},
		{ID: "R", CurrentVersion: "3.0.0", Author: "Vendor", UpdateAvailable: false},
	})
	defer srv.Close()

	provider := memory.New()
	provider.Put("P", "1.2.0", []byte("a"))

	c := newTestClient(t, srv.URL, func(cfg *Config) {
		cfg.CustomPackAuthors = []string{"Acme"}
		cfg.Provider = provider
	})

	report, err := c.OutdatedPacks(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report) != 2 {
		t.Fatalf("expected two entries, got %+v", report)
	}
	if report[0].ID != "P" || report[0].Latest != "1.2.0" || report[0].Author != "Acme" {
		t.Errorf("unexpected custom entry: %+v", report[0])
	}
	if report[1].ID != "Q" || report[1].Latest != "2.1.0" || report[1].Author != "Upstream" {
		t.Errorf("unexpected upstream entry: %+v", report[1])
	}
}

package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akramer2025-dev/brandstore-sub001/internal/facebook"
	"github.com/akramer2025-dev/brandstore-sub001/internal/model"
	"github.com/akramer2025-dev/brandstore-sub001/internal/repository"
)

// fakeGraph mimics the handful of Graph API endpoints the repair flow touches.
type fakeGraph struct {
	rejectImageCreatives bool
	rejectAllCreatives   bool
	existingAdNames      []string
	adSets               []string

	creativesCreated int
	adsCreated       int
}

func (g *fakeGraph) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/page-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "page-token"})
	})

	mux.HandleFunc("/camp-1/adsets", func(w http.ResponseWriter, r *http.Request) {
		data := make([]map[string]string, 0, len(g.adSets))
		for _, id := range g.adSets {
			data = append(data, map[string]string{"id": id})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
	})

	mux.HandleFunc("/act_acct-1/adsets", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "adset-new"})
	})

	mux.HandleFunc("/adset-1/ads", func(w http.ResponseWriter, r *http.Request) {
		data := make([]map[string]string, 0, len(g.existingAdNames))
		for _, name := range g.existingAdNames {
			data = append(data, map[string]string{"name": name})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
	})
	mux.HandleFunc("/adset-new/ads", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	})

	mux.HandleFunc("/act_acct-1/adcreatives", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		spec := r.FormValue("object_story_spec")
		isImage := strings.Contains(spec, `"picture"`)

		if g.rejectAllCreatives || (g.rejectImageCreatives && isImage) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{
					"message": "Invalid creative spec", "type": "OAuthException", "code": 100,
				},
			})
			return
		}
		g.creativesCreated++
		json.NewEncoder(w).Encode(map[string]string{"id": fmt.Sprintf("cr-%d", g.creativesCreated)})
	})

	mux.HandleFunc("/act_acct-1/ads", func(w http.ResponseWriter, r *http.Request) {
		g.adsCreated++
		json.NewEncoder(w).Encode(map[string]string{"id": fmt.Sprintf("ad-%d", g.adsCreated)})
	})

	return mux
}

func newFacebookFixture(t *testing.T, graph *fakeGraph) (FacebookService, *model.Vendor, func(sku string, visible bool)) {
	t.Helper()

	server := httptest.NewServer(graph.handler())
	t.Cleanup(server.Close)

	orig := newFacebookClient
	newFacebookClient = func() (*facebook.Client, error) {
		client := facebook.NewClient("user-token", "acct-1", "page-1")
		client.BaseURL = server.URL
		return client, nil
	}
	t.Cleanup(func() { newFacebookClient = orig })

	db := newTestDB(t)
	vendor := createTestVendor(t, db)
	svc := NewFacebookService(repository.NewProductRepo(db))

	addProduct := func(sku string, visible bool) {
		product := &model.Product{
			VendorID: vendor.ID,
			SKU:      sku,
			Name:     "Produk " + sku,
			Source:   model.SourceOwned,
			ImageURL: "https://cdn.example.com/" + sku + ".jpg",
		}
		if err := db.Create(product).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
		// Visible defaults to true at the column level; a zero-value false would
		// be dropped on insert, so hide after the fact.
		if !visible {
			if err := db.Model(product).Update("visible", false).Error; err != nil {
				t.Fatalf("hide product failed: %v", err)
			}
		}
	}
	return svc, vendor, addProduct
}

func TestFixMissingAdsCreatesImageAds(t *testing.T) {
	graph := &fakeGraph{
		adSets:          []string{"adset-1"},
		existingAdNames: []string{"EXIST-001"},
	}
	svc, vendor, addProduct := newFacebookFixture(t, graph)

	addProduct("EXIST-001", true) // already has an ad
	addProduct("NEW-001", true)   // needs one
	addProduct("HIDDEN-001", false)

	report, err := svc.FixMissingAds(vendor.ID, "camp-1")
	if err != nil {
		t.Fatalf("FixMissingAds failed: %v", err)
	}

	if report.AdSetID != "adset-1" {
		t.Fatalf("ad set = %s, want adset-1", report.AdSetID)
	}
	if report.Created != 1 || report.Skipped != 1 || report.Failed != 0 {
		t.Fatalf("created/skipped/failed = %d/%d/%d, want 1/1/0", report.Created, report.Skipped, report.Failed)
	}
	if len(report.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(report.Results))
	}
	if report.Results[0].SKU != "NEW-001" || report.Results[0].Creative != "image" || report.Results[0].AdID == "" {
		t.Fatalf("unexpected result: %+v", report.Results[0])
	}
}

func TestFixMissingAdsFallsBackToText(t *testing.T) {
	graph := &fakeGraph{
		adSets:               []string{"adset-1"},
		rejectImageCreatives: true,
	}
	svc, vendor, addProduct := newFacebookFixture(t, graph)
	addProduct("NEW-002", true)

	report, err := svc.FixMissingAds(vendor.ID, "camp-1")
	if err != nil {
		t.Fatalf("FixMissingAds failed: %v", err)
	}

	if report.Created != 1 || report.Failed != 0 {
		t.Fatalf("created/failed = %d/%d, want 1/0", report.Created, report.Failed)
	}
	if report.Results[0].Creative != "text" {
		t.Fatalf("creative = %s, want text", report.Results[0].Creative)
	}
}

func TestFixMissingAdsReportsBothProviderErrors(t *testing.T) {
	graph := &fakeGraph{
		adSets:             []string{"adset-1"},
		rejectAllCreatives: true,
	}
	svc, vendor, addProduct := newFacebookFixture(t, graph)
	addProduct("NEW-003", true)

	report, err := svc.FixMissingAds(vendor.ID, "camp-1")
	if err != nil {
		t.Fatalf("FixMissingAds failed: %v", err)
	}

	if report.Failed != 1 || report.Created != 0 {
		t.Fatalf("failed/created = %d/%d, want 1/0", report.Failed, report.Created)
	}
	got := report.Results[0].Error
	if !strings.Contains(got, "image:") || !strings.Contains(got, "text:") {
		t.Fatalf("error should carry both attempts, got %q", got)
	}
	if !strings.Contains(got, "Invalid creative spec") {
		t.Fatalf("error should surface the provider message, got %q", got)
	}
}

func TestFixMissingAdsCreatesAdSetWhenCampaignHasNone(t *testing.T) {
	graph := &fakeGraph{} // no ad sets under the campaign
	svc, vendor, addProduct := newFacebookFixture(t, graph)
	addProduct("NEW-004", true)

	report, err := svc.FixMissingAds(vendor.ID, "camp-1")
	if err != nil {
		t.Fatalf("FixMissingAds failed: %v", err)
	}
	if report.AdSetID != "adset-new" {
		t.Fatalf("ad set = %s, want adset-new", report.AdSetID)
	}
	if report.Created != 1 {
		t.Fatalf("created = %d, want 1", report.Created)
	}
}

func TestFixMissingAdsWithoutCredentials(t *testing.T) {
	orig := newFacebookClient
	newFacebookClient = facebook.NewClientFromEnv
	t.Cleanup(func() { newFacebookClient = orig })

	t.Setenv("FB_ACCESS_TOKEN", "")
	t.Setenv("FB_AD_ACCOUNT_ID", "")
	t.Setenv("FB_PAGE_ID", "")

	db := newTestDB(t)
	vendor := createTestVendor(t, db)
	svc := NewFacebookService(repository.NewProductRepo(db))

	if _, err := svc.FixMissingAds(vendor.ID, "camp-1"); err != facebook.ErrMissingCredentials {
		t.Fatalf("err = %v, want ErrMissingCredentials", err)
	}
}

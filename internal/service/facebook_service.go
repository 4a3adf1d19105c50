package service

import (
	"fmt"
	"os"
	"strings"

	"github.com/akramer2025-dev/brandstore-sub001/internal/facebook"
	"github.com/akramer2025-dev/brandstore-sub001/internal/repository"
	"github.com/akramer2025-dev/brandstore-sub001/pkg/logger"

	"github.com/google/uuid"
)

type FacebookService interface {
	FixMissingAds(vendorID uuid.UUID, campaignID string) (*AdRepairReport, error)
}

type AdRepairReport struct {
	CampaignID string           `json:"campaign_id"`
	AdSetID    string           `json:"ad_set_id"`
	Results    []AdRepairResult `json:"results"`
	Created    int              `json:"created"`
	Failed     int              `json:"failed"`
	Skipped    int              `json:"skipped"`
}

type AdRepairResult struct {
	SKU      string `json:"sku"`
	AdID     string `json:"ad_id,omitempty"`
	Creative string `json:"creative,omitempty"` // "image" or "text"
	Error    string `json:"error,omitempty"`
}

// newFacebookClient is swapped in tests to point at a local server.
var newFacebookClient = facebook.NewClientFromEnv

type facebookService struct {
	productRepo repository.ProductRepository
}

func NewFacebookService(productRepo repository.ProductRepository) FacebookService {
	return &facebookService{productRepo: productRepo}
}

// FixMissingAds creates ads for visible products that have none in the
// campaign's ad set. Per product it tries an image creative first and falls
// back to a text-only creative; when both fail the report carries both
// provider errors. Single pass, no retry.
func (s *facebookService) FixMissingAds(vendorID uuid.UUID, campaignID string) (*AdRepairReport, error) {
	client, err := newFacebookClient()
	if err != nil {
		return nil, err
	}

	// 1. Resolve page access token
	pageToken, err := client.PageAccessToken()
	if err != nil {
		return nil, err
	}

	// 2. Ensure the campaign has an ad set
	adSetID, err := client.EnsureAdSet(campaignID, "Default Ad Set")
	if err != nil {
		return nil, err
	}

	// 3. Which products already have an ad (matched by SKU)
	existing, err := client.ListAdNames(adSetID)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindByVendor(vendorID)
	if err != nil {
		return nil, err
	}

	storeURL := strings.TrimRight(os.Getenv("PRODUCTION_URL"), "/")

	report := &AdRepairReport{CampaignID: campaignID, AdSetID: adSetID}
	for i := range products {
		p := &products[i]
		if !p.Visible {
			continue
		}
		if existing[p.SKU] {
			report.Skipped++
			continue
		}

		link := fmt.Sprintf("%s/products/%s", storeURL, p.ID)
		message := fmt.Sprintf("%s - order now at our store", p.Name)

		result := AdRepairResult{SKU: p.SKU}

		// 4. Try rich creative first
		adID, imgErr := client.CreateImageAd(adSetID, pageToken, p.SKU, message, link, p.ImageURL)
		if imgErr == nil {
			result.AdID = adID
			result.Creative = "image"
			report.Created++
			report.Results = append(report.Results, result)
			continue
		}

		// 5. Fall back to text-only creative
		adID, txtErr := client.CreateTextAd(adSetID, pageToken, p.SKU, message, link)
		if txtErr == nil {
			result.AdID = adID
			result.Creative = "text"
			report.Created++
			report.Results = append(report.Results, result)
			continue
		}

		// 6. Both failed: report both provider errors
		result.Error = fmt.Sprintf("image: %v; text: %v", imgErr, txtErr)
		report.Failed++
		report.Results = append(report.Results, result)
		logger.LogError("facebook", "FixMissingAds", "create_ad", map[string]interface{}{
			"sku": p.SKU, "campaign_id": campaignID,
		}, txtErr)
	}

	return report, nil
}

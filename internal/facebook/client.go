package facebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

var ErrMissingCredentials = errors.New("facebook credentials are not configured")

// Client talks to the Facebook Graph Marketing API. All writes are
// form-encoded POSTs; errors carry the provider's payload verbatim.
type Client struct {
	AccessToken string
	AccountID   string
	PageID      string
	BaseURL     string
	HTTP        *http.Client
}

func NewClient(accessToken, accountID, pageID string) *Client {
	return &Client{
		AccessToken: accessToken,
		AccountID:   accountID,
		PageID:      pageID,
		BaseURL:     "https://graph.facebook.com/v19.0",
		HTTP:        &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientFromEnv builds a client from FB_ACCESS_TOKEN / FB_AD_ACCOUNT_ID /
// FB_PAGE_ID. Credentials are read per request, not cached at startup.
func NewClientFromEnv() (*Client, error) {
	token := strings.TrimSpace(os.Getenv("FB_ACCESS_TOKEN"))
	account := strings.TrimSpace(os.Getenv("FB_AD_ACCOUNT_ID"))
	page := strings.TrimSpace(os.Getenv("FB_PAGE_ID"))
	if token == "" || account == "" || page == "" {
		return nil, ErrMissingCredentials
	}
	return NewClient(token, account, page), nil
}

type graphError struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

// do runs the request and decodes the body, surfacing Graph API error
// payloads as Go errors.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("facebook request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("facebook response read failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var gerr graphError
		if json.Unmarshal(body, &gerr) == nil && gerr.Error.Message != "" {
			return fmt.Errorf("facebook api error %d (%s): %s", gerr.Error.Code, gerr.Error.Type, gerr.Error.Message)
		}
		return fmt.Errorf("facebook api error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("facebook response decode failed: %w", err)
		}
	}
	return nil
}

func (c *Client) get(path string, params url.Values, out interface{}) error {
	params.Set("access_token", c.AccessToken)
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postForm(path string, form url.Values, out interface{}) error {
	if form.Get("access_token") == "" {
		form.Set("access_token", c.AccessToken)
	}
	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

// PageAccessToken exchanges the user token for the page's own token.
func (c *Client) PageAccessToken() (string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	params := url.Values{}
	params.Set("fields", "access_token")
	if err := c.get("/"+c.PageID, params, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", errors.New("page has no access token")
	}
	return resp.AccessToken, nil
}

// EnsureAdSet returns the first ad set under the campaign, creating one with
// default targeting and budget when none exists.
func (c *Client) EnsureAdSet(campaignID, name string) (string, error) {
	var list struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	params := url.Values{}
	params.Set("fields", "id,name")
	if err := c.get("/"+campaignID+"/adsets", params, &list); err != nil {
		return "", err
	}
	if len(list.Data) > 0 {
		return list.Data[0].ID, nil
	}

	form := url.Values{}
	form.Set("name", name)
	form.Set("campaign_id", campaignID)
	form.Set("daily_budget", "20000") // minor units
	form.Set("billing_event", "IMPRESSIONS")
	form.Set("optimization_goal", "LINK_CLICKS")
	form.Set("bid_strategy", "LOWEST_COST_WITHOUT_CAP")
	form.Set("targeting", `{"geo_locations":{"countries":["ID"]},"age_min":18}`)
	form.Set("status", "PAUSED")

	var created struct {
		ID string `json:"id"`
	}
	if err := c.postForm("/act_"+c.AccountID+"/adsets", form, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// ListAdNames returns the names of ads already attached to the ad set.
func (c *Client) ListAdNames(adSetID string) (map[string]bool, error) {
	var list struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	params := url.Values{}
	params.Set("fields", "id,name")
	if err := c.get("/"+adSetID+"/ads", params, &list); err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(list.Data))
	for _, ad := range list.Data {
		names[ad.Name] = true
	}
	return names, nil
}

func (c *Client) createCreative(pageToken string, linkData map[string]interface{}) (string, error) {
	spec, err := json.Marshal(map[string]interface{}{
		"page_id":   c.PageID,
		"link_data": linkData,
	})
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("object_story_spec", string(spec))
	form.Set("access_token", pageToken)

	var created struct {
		ID string `json:"id"`
	}
	if err := c.postForm("/act_"+c.AccountID+"/adcreatives", form, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (c *Client) createAd(adSetID, creativeID, name string) (string, error) {
	form := url.Values{}
	form.Set("name", name)
	form.Set("adset_id", adSetID)
	form.Set("creative", fmt.Sprintf(`{"creative_id":"%s"}`, creativeID))
	form.Set("status", "PAUSED")

	var created struct {
		ID string `json:"id"`
	}
	if err := c.postForm("/act_"+c.AccountID+"/ads", form, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// CreateImageAd creates an ad with an image creative.
func (c *Client) CreateImageAd(adSetID, pageToken, name, message, link, imageURL string) (string, error) {
	creativeID, err := c.createCreative(pageToken, map[string]interface{}{
		"message": message,
		"link":    link,
		"picture": imageURL,
	})
	if err != nil {
		return "", err
	}
	return c.createAd(adSetID, creativeID, name)
}

// CreateTextAd creates an ad with a text-only link creative. Used as the
// fallback when the image creative is rejected.
func (c *Client) CreateTextAd(adSetID, pageToken, name, message, link string) (string, error) {
	creativeID, err := c.createCreative(pageToken, map[string]interface{}{
		"message": message,
		"link":    link,
	})
	if err != nil {
		return "", err
	}
	return c.createAd(adSetID, creativeID, name)
}

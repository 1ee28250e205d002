package billing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultRequestTimeout = 10 * time.Second

// StripeProvider creates coupons through the Stripe REST API.
type StripeProvider struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewStripe(secretKey, baseURL string) *StripeProvider {
	return &StripeProvider{
		secretKey:  secretKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

func (p *StripeProvider) CreateCoupon(ctx context.Context, code string, percentOff int) error {
	form := url.Values{}
	form.Set("percent_off", strconv.Itoa(percentOff))
	form.Set("duration", "once")
	form.Set("id", code)
	form.Set("name", fmt.Sprintf("Retention offer %s", code))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/coupons", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("stripe coupon create returned status %d", resp.StatusCode)
	}
	return nil
}

package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/chatly/user-service/configs"
	"github.com/sirupsen/logrus"
)

// RecaptchaVerifier implements ports.CaptchaVerifier against the Google
// reCAPTCHA siteverify endpoint.
type RecaptchaVerifier struct {
	cfg    *configs.CaptchaConfig
	client *http.Client
	logger *logrus.Logger
}

func NewRecaptchaVerifier(cfg *configs.CaptchaConfig, logger *logrus.Logger) *RecaptchaVerifier {
	return &RecaptchaVerifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

func (v *RecaptchaVerifier) Verify(ctx context.Context, token string) (bool, error) {
	form := url.Values{}
	form.Set("secret", v.cfg.Secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("failed to build captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("captcha oracle unreachable: %w", err)
	}
	defer resp.Body.Close()

	var body siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("failed to decode captcha response: %w", err)
	}

	if !body.Success && v.logger != nil {
		v.logger.WithField("error_codes", body.ErrorCodes).Debug("captcha rejected")
	}
	return body.Success, nil
}

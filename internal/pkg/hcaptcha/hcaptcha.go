package hcaptcha

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ManuelReschke/LocalPros/internal/pkg/env"
)

const DefaultEndpoint = "https://hcaptcha.com/siteverify"

var ErrEmptyToken = errors.New("hCaptcha token is empty")

type Response struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// Verifier checks form tokens against the hCaptcha API. A Verifier without
// a secret accepts every submission.
type Verifier struct {
	Secret   string
	SiteKey  string
	Endpoint string
	Client   *http.Client
}

func NewFromEnv() *Verifier {
	return &Verifier{
		Secret:   env.GetEnv("HCAPTCHA_SECRET", ""),
		SiteKey:  env.GetEnv("HCAPTCHA_SITEKEY", ""),
		Endpoint: DefaultEndpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *Verifier) Enabled() bool {
	return v != nil && v.Secret != ""
}

func (v *Verifier) Verify(token string) (bool, error) {
	if !v.Enabled() {
		return true, nil
	}
	if strings.TrimSpace(token) == "" {
		return false, ErrEmptyToken
	}

	endpoint := v.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	client := v.Client
	if client == nil {
		client = http.DefaultClient
	}

	formData := url.Values{
		"secret":   {v.Secret},
		"response": {token},
	}

	resp, err := client.PostForm(endpoint, formData)
	if err != nil {
		return false, fmt.Errorf("failed to send request to hCaptcha API: %w", err)
	}
	defer resp.Body.Close()

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return false, fmt.Errorf("failed to decode hCaptcha API response: %w", err)
	}

	if !response.Success {
		errorMsg := "hCaptcha validation failed"
		if len(response.ErrorCodes) > 0 {
			errorMsg = errorMsg + ": " + strings.Join(response.ErrorCodes, ", ")
		}
		return false, errors.New(errorMsg)
	}

	return true, nil
}

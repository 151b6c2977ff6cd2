package push

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/config"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

type Pusher interface {
	SendPush(tokens []string, title, body string) error
}

type FCMService struct {
	URL       string
	ServerKey string
	DryRun    bool
}

func NewPusher(cfg *config.AppConfig) Pusher {
	return &FCMService{
		URL:       cfg.FCM.URL,
		ServerKey: cfg.FCM.ServerKey,
		DryRun:    cfg.FCM.DryRun,
	}
}

// SendPush delivers one rendered notification to a batch of device tokens.
// FCM caps registration_ids at 1000 per request, so larger batches are split.
func (f *FCMService) SendPush(tokens []string, title, body string) error {
	if len(tokens) == 0 {
		log.Info().Msg("Pusher: no active device tokens, nothing to send.")
		return nil
	}

	const batchSize = 1000
	for start := 0; start < len(tokens); start += batchSize {
		end := start + batchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		if err := f.sendBatch(tokens[start:end], title, body); err != nil {
			return err
		}
	}

	return nil
}

func (f *FCMService) sendBatch(tokens []string, title, body string) error {
	payload := map[string]any{
		"registration_ids": tokens,
		"notification": map[string]string{
			"title": title,
			"body":  body,
		},
		"dry_run": f.DryRun,
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Error when marshalling payload body.")
		return err
	}

	req, err := http.NewRequest(http.MethodPost, f.URL, bytes.NewBuffer(reqBody))
	if err != nil {
		log.Error().Err(err).Msg("Error when building the request.")
		return err
	}

	req.Header.Set("Authorization", "key="+f.ServerKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Error when get response from server.")
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("fcm send failed: status=%d body=%s",
			resp.StatusCode,
			string(respBody))
	}

	return nil
}

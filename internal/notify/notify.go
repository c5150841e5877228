package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"rentsafe/server/internal/models"
)

// Service sends compliance alerts to an owner's configured Telegram chat.
// It holds no per-owner state: the alert target is passed per call, since
// one sweep covers many owners.
type Service struct {
	logger *logrus.Logger
	client *http.Client
	apiURL string
}

func NewService(logger *logrus.Logger) *Service {
	return &Service{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiURL: "https://api.telegram.org",
	}
}

// SetAPIURL overrides the Telegram endpoint, for tests.
func (s *Service) SetAPIURL(url string) {
	s.apiURL = url
}

// SendMessage sends a message to the configured chat. A disabled config
// is a silent no-op.
func (s *Service) SendMessage(cfg *models.AlertConfig, message string) error {
	if cfg == nil || !cfg.IsEnabled {
		return nil
	}

	if cfg.BotToken == "" {
		return errors.New("alert bot token is not configured")
	}
	if cfg.ChatID == "" {
		return errors.New("alert chat ID is not configured")
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiURL, cfg.BotToken)
	payload := map[string]interface{}{
		"chat_id":    cfg.ChatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %v", err)
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid bot token - please check your token from @BotFather")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		case http.StatusNotFound:
			return errors.New("bot not found - please check your token from @BotFather")
		default:
			return fmt.Errorf("Telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}

// NotifyDocumentAlert sends one alert for a document that is expired or
// inside the expiry window.
func (s *Service) NotifyDocumentAlert(cfg *models.AlertConfig, doc models.Document, status string) error {
	var header string
	switch status {
	case models.DocumentStatusExpired:
		header = "🔴 Document expired"
	case models.DocumentStatusExpiring:
		header = "🟠 Document expiring soon"
	default:
		return nil
	}

	expiry := "unknown"
	if doc.ExpiryDate != nil {
		expiry = doc.ExpiryDate.Format("02 Jan 2006")
	}

	message := fmt.Sprintf("%s\n\n<b>%s</b> (%s)\nExpiry: %s",
		header, doc.Title, doc.DocType, expiry)
	return s.SendMessage(cfg, message)
}

// SendTestMessage verifies a config by sending a fixed test notification.
func (s *Service) SendTestMessage(cfg *models.AlertConfig) error {
	return s.SendMessage(cfg,
		"🔔 Test notification from RentSafeUK\n\nIf you see this message, your alert configuration is working correctly!")
}

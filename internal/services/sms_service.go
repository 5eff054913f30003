package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// SMSService dispatches text messages through an HTTP SMS gateway.
type SMSService struct {
	gatewayURL string
	token      string
	sender     string
	quiet      bool
}

// NewSMSService creates a new SMSService. With quiet=true no real dispatch
// happens and outbound messages are only logged.
func NewSMSService(gatewayURL, token, sender string, quiet bool) *SMSService {
	return &SMSService{
		gatewayURL: gatewayURL,
		token:      token,
		sender:     sender,
		quiet:      quiet,
	}
}

// Quiet reports whether dispatch is suppressed.
func (s *SMSService) Quiet() bool {
	return s.quiet
}

type smsMessage struct {
	To    string `json:"to"`
	From  string `json:"from"`
	Text  string `json:"text"`
	Token string `json:"token,omitempty"`
}

// Send delivers a message to the phone number. Returns an error only when
// the gateway dispatch itself fails.
func (s *SMSService) Send(phone, text string) error {
	if s.quiet {
		log.Info().Str("phone", phone).Str("text", text).Msg("[SMS] quiet mode, skipping dispatch")
		return nil
	}

	if s.gatewayURL == "" {
		log.Warn().Msg("[SMS] gateway not configured")
		return nil
	}

	msg := smsMessage{
		To:    phone,
		From:  s.sender,
		Text:  text,
		Token: s.token,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(s.gatewayURL, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Str("phone", phone).Msg("[SMS] dispatch failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Str("phone", phone).Msg("[SMS] unexpected gateway status")
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	return nil
}

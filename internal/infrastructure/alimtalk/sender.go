package alimtalk

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"DraftFlow/internal/config"
	"DraftFlow/internal/ports"
)

const defaultBaseURL = "https://sens.apigw.ntruss.com"

// Sender dispatches alimtalk messages through the NCP SENS Biz Message API.
type Sender struct {
	baseURL      string
	accessKey    string
	secretKey    string
	serviceID    string
	channelID    string
	templateCode string
	client       *http.Client
	now          func() time.Time
}

var _ ports.MessageSender = (*Sender)(nil)

// NewSender registers credentials and the Kakao channel to send from.
func NewSender(cfg config.AlimtalkConfig) *Sender {
	return &Sender{
		baseURL:      defaultBaseURL,
		accessKey:    cfg.AccessKey,
		secretKey:    cfg.SecretKey,
		serviceID:    cfg.ServiceID,
		channelID:    cfg.ChannelID,
		templateCode: cfg.TemplateCode,
		client:       &http.Client{Timeout: 10 * time.Second},
		now:          time.Now,
	}
}

type requestBody struct {
	PlusFriendID string           `json:"plusFriendId"`
	TemplateCode string           `json:"templateCode"`
	Messages     []messagePayload `json:"messages"`
}

type messagePayload struct {
	To      string   `json:"to"`
	Content string   `json:"content"`
	Buttons []button `json:"buttons,omitempty"`
}

type button struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	LinkMobile string `json:"linkMobile"`
	LinkPc     string `json:"linkPc"`
}

// Send posts one message and treats anything but 202 Accepted as failure.
func (s *Sender) Send(ctx context.Context, msg ports.Message) error {
	if s.accessKey == "" || s.secretKey == "" || s.serviceID == "" || s.channelID == "" {
		return fmt.Errorf("alimtalk sender misconfigured")
	}

	payload := messagePayload{
		To:      strings.ReplaceAll(msg.Phone, "-", ""),
		Content: msg.Body,
	}
	if msg.Link != "" {
		payload.Buttons = []button{{
			Type:       "WL",
			Name:       msg.LinkName,
			LinkMobile: msg.Link,
			LinkPc:     msg.Link,
		}}
	}

	body, err := json.Marshal(requestBody{
		PlusFriendID: s.channelID,
		TemplateCode: s.templateCode,
		Messages:     []messagePayload{payload},
	})
	if err != nil {
		return fmt.Errorf("marshal alimtalk payload: %w", err)
	}

	uri := fmt.Sprintf("/alimtalk/v2/services/%s/messages", s.serviceID)
	timestamp := strconv.FormatInt(s.now().UnixMilli(), 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+uri, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("x-ncp-apigw-timestamp", timestamp)
	req.Header.Set("x-ncp-iam-access-key", s.accessKey)
	req.Header.Set("x-ncp-apigw-signature-v2", s.signature(http.MethodPost, uri, timestamp))

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send alimtalk: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("alimtalk error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	return nil
}

// signature signs "METHOD URI\nTIMESTAMP\nACCESS_KEY" with HMAC-SHA256 as
// required by the NCP API gateway.
func (s *Sender) signature(method, uri, timestamp string) string {
	message := fmt.Sprintf("%s %s\n%s\n%s", method, uri, timestamp, s.accessKey)
	mac := hmac.New(sha256.New, []byte(s.secretKey))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

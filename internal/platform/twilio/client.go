package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/trainermatch-backend/internal/platform/ctxutil"
	"github.com/yungbote/trainermatch-backend/internal/platform/envutil"
	"github.com/yungbote/trainermatch-backend/internal/platform/httpx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

const whatsappPrefix = "whatsapp:"

type Client interface {
	SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error)
	SendSMS(ctx context.Context, to string, body string) (*Message, error)
	SendWhatsApp(ctx context.Context, to string, body string) (*Message, error)
}

type Config struct {
	AccountSID                 string
	AuthToken                  string
	APIKey                     string
	APIKeySecret               string
	BaseURL                    string
	DefaultFrom                string
	DefaultWhatsAppFrom        string
	DefaultMessagingServiceSID string
	DefaultStatusCallbackURL   string
	Timeout                    time.Duration
	MaxRetries                 int
}

func ConfigFromEnv() Config {
	return Config{
		AccountSID:                 envutil.String("TWILIO_ACCOUNT_SID", ""),
		AuthToken:                  envutil.String("TWILIO_AUTH_TOKEN", ""),
		APIKey:                     envutil.String("TWILIO_API_KEY", ""),
		APIKeySecret:               envutil.String("TWILIO_API_KEY_SECRET", ""),
		BaseURL:                    envutil.String("TWILIO_BASE_URL", ""),
		DefaultFrom:                envutil.String("TWILIO_FROM_NUMBER", ""),
		DefaultWhatsAppFrom:        envutil.String("TWILIO_WHATSAPP_FROM", ""),
		DefaultMessagingServiceSID: envutil.String("TWILIO_MESSAGING_SERVICE_SID", ""),
		DefaultStatusCallbackURL:   envutil.String("TWILIO_STATUS_CALLBACK_URL", ""),
		Timeout:                    envutil.Seconds("TWILIO_TIMEOUT_SECONDS", 30*time.Second),
		MaxRetries:                 envutil.Int("TWILIO_MAX_RETRIES", 4),
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	cfg.AccountSID = strings.TrimSpace(cfg.AccountSID)
	if cfg.AccountSID == "" {
		return nil, fmt.Errorf("missing TWILIO_ACCOUNT_SID")
	}
	if cfg.APIKey != "" {
		if cfg.APIKeySecret == "" {
			return nil, fmt.Errorf("missing TWILIO_API_KEY_SECRET (required when TWILIO_API_KEY is set)")
		}
	} else if cfg.AuthToken == "" {
		return nil, fmt.Errorf("missing TWILIO_AUTH_TOKEN (or provide TWILIO_API_KEY + TWILIO_API_KEY_SECRET)")
	}

	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.twilio.com/2010-04-01"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	return &client{
		log:        log.With("client", "TwilioClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

type SendMessageRequest struct {
	To                  string
	From                string
	MessagingServiceSID string
	Body                string
	MediaURLs           []string
	StatusCallbackURL   string
}

type Message struct {
	SID                 string  `json:"sid,omitempty"`
	AccountSID          string  `json:"account_sid,omitempty"`
	To                  string  `json:"to,omitempty"`
	From                string  `json:"from,omitempty"`
	Body                string  `json:"body,omitempty"`
	MessagingServiceSID string  `json:"messaging_service_sid,omitempty"`
	Status              string  `json:"status,omitempty"`
	ErrorCode           *int    `json:"error_code,omitempty"`
	ErrorMessage        *string `json:"error_message,omitempty"`
	DateCreated         string  `json:"date_created,omitempty"`
}

func (c *client) SendSMS(ctx context.Context, to string, body string) (*Message, error) {
	return c.SendMessage(ctx, SendMessageRequest{To: to, Body: body})
}

// SendWhatsApp addresses both ends with the whatsapp: scheme. A sender must
// come from TWILIO_WHATSAPP_FROM since messaging services are SMS-only here.
func (c *client) SendWhatsApp(ctx context.Context, to string, body string) (*Message, error) {
	from := strings.TrimSpace(c.cfg.DefaultWhatsAppFrom)
	if from == "" {
		return nil, fmt.Errorf("twilio: TWILIO_WHATSAPP_FROM required for whatsapp")
	}
	return c.SendMessage(ctx, SendMessageRequest{
		To:   WhatsAppAddress(to),
		From: WhatsAppAddress(from),
		Body: body,
	})
}

// WhatsAppAddress prefixes a phone number with whatsapp: unless already present.
func WhatsAppAddress(number string) string {
	n := strings.TrimSpace(number)
	if n == "" || strings.HasPrefix(strings.ToLower(n), whatsappPrefix) {
		return n
	}
	return whatsappPrefix + n
}

func (c *client) SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	if c == nil || c.httpClient == nil {
		return nil, fmt.Errorf("twilio client unavailable")
	}

	req.To = strings.TrimSpace(req.To)
	req.From = strings.TrimSpace(req.From)
	req.MessagingServiceSID = strings.TrimSpace(req.MessagingServiceSID)
	req.Body = strings.TrimSpace(req.Body)
	req.StatusCallbackURL = strings.TrimSpace(req.StatusCallbackURL)

	if req.To == "" {
		return nil, fmt.Errorf("twilio: To required")
	}
	if req.From == "" {
		req.From = strings.TrimSpace(c.cfg.DefaultFrom)
	}
	if req.MessagingServiceSID == "" && !strings.HasPrefix(req.From, whatsappPrefix) {
		req.MessagingServiceSID = strings.TrimSpace(c.cfg.DefaultMessagingServiceSID)
	}
	if req.StatusCallbackURL == "" {
		req.StatusCallbackURL = strings.TrimSpace(c.cfg.DefaultStatusCallbackURL)
	}
	if req.From == "" && req.MessagingServiceSID == "" {
		return nil, fmt.Errorf("twilio: sender required (From or MessagingServiceSID)")
	}

	hasMedia := false
	for _, u := range req.MediaURLs {
		if strings.TrimSpace(u) != "" {
			hasMedia = true
			break
		}
	}
	if req.Body == "" && !hasMedia {
		return nil, fmt.Errorf("twilio: content required (Body or MediaURLs)")
	}

	form := url.Values{}
	form.Set("To", req.To)
	if req.From != "" {
		form.Set("From", req.From)
	}
	if req.MessagingServiceSID != "" {
		form.Set("MessagingServiceSid", req.MessagingServiceSID)
	}
	if req.Body != "" {
		form.Set("Body", req.Body)
	}
	for _, mu := range req.MediaURLs {
		if mu = strings.TrimSpace(mu); mu != "" {
			form.Add("MediaUrl", mu)
		}
	}
	if req.StatusCallbackURL != "" {
		form.Set("StatusCallback", req.StatusCallbackURL)
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.cfg.BaseURL, c.cfg.AccountSID)

	var out *Message
	err := httpx.Retry(ctx, httpx.RetryPolicy{
		MaxRetries: c.cfg.MaxRetries,
		OnRetry: func(attempt int, sleep time.Duration, err error) {
			c.log.Warn("Twilio request retrying",
				"attempt", attempt,
				"max_retries", c.cfg.MaxRetries,
				"sleep", sleep.String(),
				"error", err.Error(),
			)
		},
	}, func() (*http.Response, error) {
		msg, resp, err := doFormOnce[Message](c, ctx, http.MethodPost, endpoint, form)
		if err != nil {
			return resp, err
		}
		out = msg
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ---------- HTTP helpers ----------

type apiError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

type HTTPError struct {
	StatusCode int
	Body       string
	APIError   *apiError
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "twilio: <nil error>"
	}
	if e.APIError != nil && strings.TrimSpace(e.APIError.Message) != "" {
		if e.APIError.Code != 0 {
			return fmt.Sprintf("twilio http %d: %s (code=%d)", e.StatusCode, e.APIError.Message, e.APIError.Code)
		}
		return fmt.Sprintf("twilio http %d: %s", e.StatusCode, e.APIError.Message)
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 4000 {
		msg = msg[:4000] + "..."
	}
	return fmt.Sprintf("twilio http %d: %s", e.StatusCode, msg)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) basicAuth() (user, pass string) {
	if c.cfg.APIKey != "" {
		return c.cfg.APIKey, c.cfg.APIKeySecret
	}
	return c.cfg.AccountSID, c.cfg.AuthToken
}

func doFormOnce[T any](c *client, ctx context.Context, method, urlStr string, form url.Values) (*T, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), method, urlStr, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	u, p := c.basicAuth()
	req.SetBasicAuth(u, p)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, resp, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, resp, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ae apiError
		if json.Unmarshal(raw, &ae) == nil && strings.TrimSpace(ae.Message) != "" {
			return nil, resp, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw), APIError: &ae}
		}
		return nil, resp, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out T
	if len(raw) == 0 {
		return &out, resp, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, resp, fmt.Errorf("twilio decode error: %w; raw=%s", err, string(raw))
	}
	return &out, resp, nil
}

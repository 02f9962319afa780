// internal/external/telephony.go
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"progression/internal/config"
	"progression/internal/models"
)

// TelephonyClientInterface définit les méthodes pour communiquer avec le
// fournisseur de téléphonie
type TelephonyClientInterface interface {
	GetCall(ctx context.Context, externalID string) (*ProviderCall, error)
	ListRecentCalls(ctx context.Context, since time.Time) ([]ProviderCall, error)
}

// ProviderCall représente un appel tel que retourné par le fournisseur
type ProviderCall struct {
	ID         int64  `json:"id"`
	Direction  string `json:"direction"`
	Status     string `json:"status"`
	Duration   int64  `json:"duration"`
	AnsweredAt int64  `json:"answered_at"`
	StartedAt  int64  `json:"started_at"`
	RawDigits  string `json:"raw_digits"`
	User       struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	Tags     []CallTag     `json:"tags"`
	Comments []CallComment `json:"comments"`
}

// CallTag est une étiquette posée sur un appel
type CallTag struct {
	Name string `json:"name"`
}

// CallComment est une note laissée sur un appel
type CallComment struct {
	Content string `json:"content"`
}

type callResponse struct {
	Call ProviderCall `json:"call"`
}

type callsResponse struct {
	Calls []ProviderCall `json:"calls"`
}

// TelephonyClient implémente l'interface TelephonyClientInterface
type TelephonyClient struct {
	baseURL    string
	apiID      string
	apiToken   string
	httpClient *http.Client
}

// NewTelephonyClient crée une nouvelle instance du client téléphonie
func NewTelephonyClient(cfg *config.Config) TelephonyClientInterface {
	return &TelephonyClient{
		baseURL:  cfg.Telephony.BaseURL,
		apiID:    cfg.Telephony.APIID,
		apiToken: cfg.Telephony.APIToken,
		httpClient: &http.Client{
			Timeout: cfg.Telephony.Timeout,
		},
	}
}

func (c *TelephonyClient) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.apiID, c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.NewNotFoundError("call", url)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telephony provider returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetCall récupère un appel par son identifiant fournisseur
func (c *TelephonyClient) GetCall(ctx context.Context, externalID string) (*ProviderCall, error) {
	var out callResponse
	url := fmt.Sprintf("%s/calls/%s", c.baseURL, externalID)
	if err := c.get(ctx, url, &out); err != nil {
		return nil, err
	}
	return &out.Call, nil
}

// ListRecentCalls récupère les appels depuis un instant donné
func (c *TelephonyClient) ListRecentCalls(ctx context.Context, since time.Time) ([]ProviderCall, error) {
	var out callsResponse
	url := fmt.Sprintf("%s/calls?from=%d&order=desc", c.baseURL, since.Unix())
	if err := c.get(ctx, url, &out); err != nil {
		return nil, err
	}
	return out.Calls, nil
}

// ToCallRecord convertit un appel fournisseur en enregistrement interne.
// Les signaux d'analyse (sentiment, sujets) sont dérivés des tags et
// commentaires posés par l'équipe sur l'appel.
func (p *ProviderCall) ToCallRecord() *models.CallRecord {
	record := &models.CallRecord{
		ExternalID: strconv.FormatInt(p.ID, 10),
		CallType:   callTypeFromTags(p.Tags),
		Answered:   p.AnsweredAt > 0,
		Duration:   p.Duration,
		StartedAt:  time.Unix(p.StartedAt, 0).UTC(),
	}

	for _, tag := range p.Tags {
		switch tag.Name {
		case "positive":
			record.PositiveSegments++
		case "negative":
			record.NegativeSegments++
		case "action-item":
			record.ActionItems++
		default:
			record.TopicsCovered++
		}
	}
	record.ActionItems += len(p.Comments)

	return record
}

func callTypeFromTags(tags []CallTag) models.CallType {
	for _, tag := range tags {
		switch tag.Name {
		case "demo":
			return models.CallDemo
		case "closing":
			return models.CallClosing
		case "follow-up":
			return models.CallFollowUp
		}
	}
	return models.CallDiscovery
}

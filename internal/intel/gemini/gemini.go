// Package gemini implements intel.Fetcher with Gemini and Google Search grounding.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/oskars/refinerywatch/pkg/constants"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/intel"
	"github.com/oskars/refinerywatch/pkg/logging"
)

// generator is the part of *genai.Models the fetcher uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Fetcher queries Gemini for refinery status updates.
type Fetcher struct {
	models  generator
	model   string
	timeout time.Duration
	now     func() time.Time
}

var _ intel.Fetcher = (*Fetcher)(nil)

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithModel overrides the model id.
func WithModel(model string) Option {
	return func(f *Fetcher) {
		if model != "" {
			f.model = model
		}
	}
}

// WithTimeout bounds each fetch.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// New creates a Fetcher using the Gemini API with apiKey.
func New(ctx context.Context, apiKey string, opts ...Option) (*Fetcher, error) {
	if apiKey == "" {
		return nil, errors.NewAuthenticationError("api_key", "Gemini API key required", errors.ErrNotConfigured)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, errors.NewConfigError("gemini", "failed to create client", err)
	}
	return newFetcher(client.Models, opts...), nil
}

func newFetcher(models generator, opts ...Option) *Fetcher {
	f := &Fetcher{
		models:  models,
		model:   constants.DefaultIntelModel,
		timeout: constants.IntelTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch implements intel.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, targets []intel.Target) (*intel.Report, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	logger := logging.FromContext(ctx)
	start := f.now()

	resp, err := f.models.GenerateContent(ctx, f.model, genai.Text(buildPrompt(targets)), &genai.GenerateContentConfig{
		Tools:            []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	})
	if err != nil {
		return nil, &errors.APIError{Service: "gemini", Message: "generate content failed", Err: err}
	}

	report, err := parseResponse(resp)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("model", f.model).
		Int("targets", len(targets)).
		Int("updates", len(report.Updates)).
		Int("sources", len(report.Sources)).
		Dur("duration", f.now().Sub(start)).
		Msg("Intelligence report received")
	return report, nil
}

func parseResponse(resp *genai.GenerateContentResponse) (*intel.Report, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, &errors.APIError{Service: "gemini", Message: "empty response"}
	}

	text := stripFences(resp.Text())
	if text == "" {
		return nil, &errors.APIError{Service: "gemini", Message: "response has no text"}
	}

	var report intel.Report
	if err := json.Unmarshal([]byte(text), &report); err != nil {
		return nil, errors.WrapParse("json", "gemini response", err)
	}
	intel.Normalize(&report)

	if gm := resp.Candidates[0].GroundingMetadata; gm != nil {
		for _, chunk := range gm.GroundingChunks {
			if chunk == nil || chunk.Web == nil {
				continue
			}
			report.Sources = append(report.Sources, intel.GroundingChunk{
				Web: &intel.WebSource{URI: chunk.Web.URI, Title: chunk.Web.Title},
			})
		}
	}
	return &report, nil
}

// stripFences removes a ```json fence some models wrap around JSON output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"updates": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":               {Type: genai.TypeString},
						"status":           {Type: genai.TypeString, Enum: []string{"Operational", "Damaged", "Offline"}},
						"lastIncidentDate": {Type: genai.TypeString},
						"description":      {Type: genai.TypeString},
						"incidentVideoUrls": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
					},
					Required: []string{"id", "status", "description"},
				},
			},
			"summary": {Type: genai.TypeString},
		},
		Required: []string{"updates", "summary"},
	}
}

func buildPrompt(targets []intel.Target) string {
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = fmt.Sprintf("%s (%s)", t.ID, t.Name)
	}

	return fmt.Sprintf(`Conduct a comprehensive OSINT status check on major Russian oil refineries affecting the war effort in Ukraine.
Focus specifically on these refineries: %s.

Search for reports from November 21, 2013 (Euromaidan) to present regarding:
1. Drone attacks (UAV strikes)
2. Confirmed fires or sabotage
3. Current operational status (Offline, Damaged, or Operational)
4. Visual evidence: for EACH refinery, search X.com (Twitter) for that refinery's name with "attack", "strike", "fire" or "drone". Find direct X.com post URLs from trusted OSINT sources (e.g. @Tendar, @GeoConfirmed, @Osinttechnical) showing damage to THAT SPECIFIC refinery. Each refinery must have its own relevant evidence URLs; do not reuse a URL for several refineries unless the post genuinely covers all of them.

Return a JSON object with two fields:
1. "updates": an array of objects, each containing:
   - "id": the refinery ID from the provided list
   - "status": one of "Operational", "Damaged", "Offline"
   - "lastIncidentDate": string (YYYY-MM-DD) or null if none
   - "description": a brief 1-2 sentence update on its status
   - "incidentVideoUrls": an array of X.com URLs showing the attack or fire for THIS refinery, empty if none found
2. "summary": a brief overall summary of the impact on Russia's refining capacity.`, strings.Join(names, ", "))
}

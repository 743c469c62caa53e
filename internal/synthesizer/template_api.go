package synthesizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/schemaforge/schemaforge/internal/common/errorwrapper"
	"github.com/schemaforge/schemaforge/internal/models"
)

type templateAPIRequest struct {
	SchemaType string `json:"schema_type"`
	URL        string `json:"url"`
	Text       string `json:"text"`
}

type templateAPIResponse struct {
	Success bool            `json:"success"`
	JSONLD  json.RawMessage `json:"json_ld"`
	Error   string          `json:"error,omitempty"`
}

// SynthesizeRich builds a schema through the richer template path: the
// external template service when configured, falling back to local
// structured extraction on any failure. The result is always usable.
func (s *Synthesizer) SynthesizeRich(ctx context.Context, schemaType, text, url string, profile models.WebsiteProfile) (models.GeneratedSchema, error) {
	if s.cfg.TemplateAPIURL != "" {
		schema, err := s.callTemplateAPI(ctx, schemaType, text, url)
		if err == nil {
			return schema, nil
		}
		s.logger.Warn().Err(err).
			Str("schema_type", schemaType).
			Msg("Template API call failed, using local templates")
	}
	return s.Synthesize(schemaType, text, url, profile)
}

func (s *Synthesizer) callTemplateAPI(ctx context.Context, schemaType, text, url string) (models.GeneratedSchema, error) {
	payload, err := json.Marshal(templateAPIRequest{
		SchemaType: schemaType,
		URL:        url,
		Text:       truncate(text, 4000),
	})
	if err != nil {
		return models.GeneratedSchema{}, errorwrapper.WrapError(err, "failed to encode template API request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TemplateAPIURL, bytes.NewReader(payload))
	if err != nil {
		return models.GeneratedSchema{}, errorwrapper.WrapError(err, "failed to build template API request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return models.GeneratedSchema{}, errorwrapper.NewNetworkError(s.cfg.TemplateAPIURL, "template API request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.GeneratedSchema{}, errorwrapper.NewHTTPErrorWithURL(resp.StatusCode, "template API request rejected", s.cfg.TemplateAPIURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.GeneratedSchema{}, errorwrapper.WrapError(err, "failed to read template API response")
	}

	var apiResp templateAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return models.GeneratedSchema{}, errorwrapper.WrapError(err, "failed to decode template API response")
	}
	if !apiResp.Success || len(apiResp.JSONLD) == 0 {
		return models.GeneratedSchema{}, fmt.Errorf("template API returned no schema: %s", apiResp.Error)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, apiResp.JSONLD, "", "  "); err != nil {
		return models.GeneratedSchema{}, errorwrapper.WrapError(err, "template API returned malformed JSON-LD")
	}

	return models.GeneratedSchema{
		SchemaType:       schemaType,
		Description:      fmt.Sprintf("Template-generated %s schema", schemaType),
		JSONLD:           pretty.String(),
		ValidationStatus: models.ValidationValid,
	}, nil
}

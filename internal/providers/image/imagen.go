package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"travelshot/internal/domain"
	"travelshot/internal/infra"
	"travelshot/internal/pipeline"
	"travelshot/internal/providers/genai"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// ImagenOptions configures the Vertex AI subject-customization backend.
type ImagenOptions struct {
	ProjectID string
	Location  string
	Model     string
	// BaseURL overrides the regional aiplatform endpoint.
	BaseURL     string
	TokenSource oauth2.TokenSource
	HTTPClient  *http.Client
	Logger      *infra.Logger
}

// ImagenGenerator calls the Imagen capability model with the reference photo
// attached as subject reference [1].
type ImagenGenerator struct {
	endpoint   string
	tokens     oauth2.TokenSource
	httpClient *http.Client
	logger     *infra.Logger
}

// NewImagenGenerator resolves application default credentials when no token
// source is supplied.
func NewImagenGenerator(ctx context.Context, opts ImagenOptions) (*ImagenGenerator, error) {
	project := strings.TrimSpace(opts.ProjectID)
	if project == "" {
		return nil, errors.New("imagen: project id is required")
	}
	location := strings.TrimSpace(opts.Location)
	if location == "" {
		location = "us-central1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "imagen-3.0-capability-001"
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s-aiplatform.googleapis.com", location)
	}

	tokens := opts.TokenSource
	if tokens == nil {
		ts, err := google.DefaultTokenSource(ctx, cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("imagen: default credentials: %w", err)
		}
		tokens = ts
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 180 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		l := infra.Logger(zerolog.New(io.Discard))
		logger = &l
	}

	return &ImagenGenerator{
		endpoint:   fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:predict", base, project, location, model),
		tokens:     oauth2.ReuseTokenSource(nil, tokens),
		httpClient: client,
		logger:     logger,
	}, nil
}

type imagenReferenceImage struct {
	ReferenceType      string              `json:"referenceType"`
	ReferenceID        int                 `json:"referenceId"`
	ReferenceImage     imagenBytes         `json:"referenceImage"`
	SubjectImageConfig *imagenSubjectConfig `json:"subjectImageConfig,omitempty"`
}

type imagenBytes struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
}

type imagenSubjectConfig struct {
	SubjectDescription string `json:"subjectDescription"`
	SubjectType        string `json:"subjectType"`
}

type imagenInstance struct {
	Prompt          string                 `json:"prompt"`
	ReferenceImages []imagenReferenceImage `json:"referenceImages,omitempty"`
}

type imagenParameters struct {
	SampleCount int    `json:"sampleCount"`
	Language    string `json:"language,omitempty"`
}

type imagenPredictRequest struct {
	Instances  []imagenInstance `json:"instances"`
	Parameters imagenParameters `json:"parameters"`
}

type imagenPrediction struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

type imagenPredictResponse struct {
	Predictions []imagenPrediction `json:"predictions"`
}

// Generate requests a single sample. Zero predictions is reported as a nil
// image so the caller can count the variant as failed.
func (g *ImagenGenerator) Generate(ctx context.Context, req pipeline.GenerateRequest) (*pipeline.Image, error) {
	instance := imagenInstance{Prompt: req.Prompt}
	if !req.Reference.Empty() {
		instance.ReferenceImages = []imagenReferenceImage{{
			ReferenceType:  "REFERENCE_TYPE_SUBJECT",
			ReferenceID:    1,
			ReferenceImage: imagenBytes{BytesBase64Encoded: base64.StdEncoding.EncodeToString(req.Reference.Data)},
			SubjectImageConfig: &imagenSubjectConfig{
				SubjectDescription: req.SubjectDescription,
				SubjectType:        "SUBJECT_TYPE_PERSON",
			},
		}}
	}
	body, err := json.Marshal(imagenPredictRequest{
		Instances:  []imagenInstance{instance},
		Parameters: imagenParameters{SampleCount: 1, Language: "en"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal imagen request: %w", err)
	}

	tok, err := g.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("imagen: access token: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create imagen request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	tok.SetAuthHeader(httpReq)

	start := time.Now()
	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: invoke imagen: %v", domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read imagen response: %v", domain.ErrTransient, err)
	}
	g.logger.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("imagen: predict")

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := genai.DecodeAPIError(resp.StatusCode, raw)
		apiErr.Service = "imagen"
		return nil, apiErr
	}

	var out imagenPredictResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode imagen response: %w", err)
	}
	for _, p := range out.Predictions {
		if p.BytesBase64Encoded == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(p.BytesBase64Encoded)
		if err != nil {
			return nil, fmt.Errorf("decode imagen prediction: %w", err)
		}
		return &pipeline.Image{Data: data, MIMEType: normalizeFormat(p.MimeType)}, nil
	}
	return nil, nil
}

var _ pipeline.ImageGenerator = (*ImagenGenerator)(nil)

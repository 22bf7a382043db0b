// Package studio builds corporate portrait variants from a handful of source
// photos using the Gemini image model. One generation produces exactly three
// shots (front, 45-degree side, full body); the three upstream requests run
// concurrently and the whole operation fails if any one of them does.
package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"
)

// DefaultModel is the image-capable Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash-image"

const (
	minSourceImages = 1
	maxSourceImages = 3
)

var (
	// ErrNotConfigured means no API credential is available. Surfaced to the
	// user as an instruction to contact an administrator; checked before any
	// network call is made.
	ErrNotConfigured = errors.New("API key is not configured")

	// ErrNoCandidates means the service returned an empty candidate list for a shot.
	ErrNoCandidates = errors.New("no candidates returned from AI")

	// ErrNoImageData means a candidate was returned but carried no image attachment.
	ErrNoImageData = errors.New("no image data found in response")
)

// Request describes one generation: 1-3 inline source image payloads, the
// backdrop style, and the subject's display name (used for downstream
// artifact naming only, never embedded in the prompt).
type Request struct {
	SourceImages []string
	Background   Background
	Name         string
}

// Portraits is the complete result of one generation: one inline image
// payload per shot. There is no partial form of this value.
type Portraits struct {
	Front string `json:"front"`
	Side  string `json:"side"`
	Full  string `json:"full"`
}

// modelCaller is the narrow slice of the genai client the generator needs.
// *genai.Models satisfies it; tests substitute a stub.
type modelCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator calls the Gemini API to produce portrait shots. The credential is
// injected at construction; its absence is detected at generation time, not
// at startup. One Generator is shared across concurrent requests; the lazy
// client initialization is guarded so the caller field is written exactly once.
type Generator struct {
	apiKey string
	model  string

	initOnce sync.Once
	initErr  error
	caller   modelCaller
}

// New creates a Generator with the given credential and model. An empty
// apiKey is allowed; Generate will fail with ErrNotConfigured before issuing
// any request. An empty model selects DefaultModel.
func New(apiKey, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{apiKey: apiKey, model: model}
}

// newWithCaller wires a stub transport; used by tests.
func newWithCaller(caller modelCaller, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{caller: caller, model: model}
}

// Configured reports whether a credential (or injected transport) is present.
func (g *Generator) Configured() bool {
	return g.caller != nil || g.apiKey != ""
}

func (g *Generator) ensureCaller(ctx context.Context) error {
	g.initOnce.Do(func() {
		if g.caller != nil {
			return
		}
		if g.apiKey == "" {
			g.initErr = ErrNotConfigured
			return
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			g.initErr = fmt.Errorf("creating Gemini client: %w", err)
			return
		}
		g.caller = client.Models
	})
	return g.initErr
}

// Generate produces the three portrait shots for one request. The per-shot
// requests are issued concurrently; the first failure aborts the whole
// operation and in-flight siblings are abandoned. No retries, no deadline.
func (g *Generator) Generate(ctx context.Context, req Request) (*Portraits, error) {
	if err := g.ensureCaller(ctx); err != nil {
		return nil, err
	}

	if n := len(req.SourceImages); n < minSourceImages || n > maxSourceImages {
		return nil, fmt.Errorf("expected %d-%d source images, got %d", minSourceImages, maxSourceImages, n)
	}

	background, err := BackgroundPrompt(req.Background)
	if err != nil {
		return nil, err
	}

	sourceParts, err := sourceImageParts(req.SourceImages)
	if err != nil {
		return nil, err
	}

	slog.Info("generating portraits", "name", req.Name, "background", req.Background, "sources", len(req.SourceImages))

	var results [len(shotSpecs)]string
	eg, egCtx := errgroup.WithContext(ctx)
	for i, spec := range shotSpecs {
		eg.Go(func() error {
			payload, err := g.generateShot(egCtx, spec, sourceParts, background)
			if err != nil {
				return fmt.Errorf("generating %s shot: %w", spec.shot, err)
			}
			results[i] = payload
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &Portraits{Front: results[0], Side: results[1], Full: results[2]}, nil
}

// generateShot issues one request carrying all source images plus the shot
// prompt and returns the first image attachment of the first candidate.
func (g *Generator) generateShot(ctx context.Context, spec shotSpec, sourceParts []*genai.Part, background string) (string, error) {
	parts := make([]*genai.Part, 0, len(sourceParts)+1)
	parts = append(parts, sourceParts...)
	parts = append(parts, &genai.Part{Text: buildShotPrompt(spec, background)})

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	resp, err := g.caller.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 {
		return "", ErrNoCandidates
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", ErrNoImageData
	}
	for _, part := range candidate.Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return EncodeImage(part.InlineData.Data), nil
		}
	}
	return "", ErrNoImageData
}

func sourceImageParts(payloads []string) ([]*genai.Part, error) {
	parts := make([]*genai.Part, 0, len(payloads))
	for i, p := range payloads {
		data, mimeType, err := DecodeImage(p)
		if err != nil {
			return nil, fmt.Errorf("source image %d: %w", i, err)
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: mimeType, Data: data},
		})
	}
	return parts, nil
}

package llm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"multirag/internal/core"
)

const captionInstruction = "Describe this image concisely so the description can be used for document search. Mention any text, figures, axes or labels visible in it."

// GeminiCaptioner captions images with a vision-capable Gemini model.
type GeminiCaptioner struct {
	client    *genai.Client
	modelName string
}

var _ core.Captioner = (*GeminiCaptioner)(nil)

func NewGeminiCaptioner(ctx context.Context, apiKey, modelName string) (*GeminiCaptioner, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("vision API key not set")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiCaptioner{client: cl, modelName: modelName}, nil
}

func (g *GeminiCaptioner) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Caption sends the image and the caption instruction in one request and
// concatenates the text parts of the first candidate.
func (g *GeminiCaptioner) Caption(ctx context.Context, imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(imagePath)), ".")
	if format == "jpg" {
		format = "jpeg"
	}

	m := g.client.GenerativeModel(g.modelName)
	resp, err := m.GenerateContent(ctx, genai.ImageData(format, data), genai.Text(captionInstruction))
	if err != nil {
		return "", fmt.Errorf("gemini caption: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini caption: empty response")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	caption := strings.TrimSpace(b.String())
	if caption == "" {
		return "", fmt.Errorf("gemini caption: no text in response")
	}
	return caption, nil
}

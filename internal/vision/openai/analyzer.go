// Package openai implements vision.Analyzer on top of an OpenAI vision model.
package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"makeup-backend/internal/shared/telemetry"
	"makeup-backend/internal/vision"
)

// Confidence is reported for every model reply; the API gives no score.
const Confidence = 0.95

const (
	defaultModel     = "gpt-4o"
	defaultMaxTokens = 300
	defaultTimeout   = 60 * time.Second
)

// Analyzer implements vision.Analyzer using Chat Completions with an image part.
type Analyzer struct {
	client    sdk.Client
	model     string
	maxTokens int64
	timeout   time.Duration
}

// New constructs an Analyzer. Extra request options (base URL, HTTP client)
// are passed through to the SDK.
func New(apiKey, model string, opts ...option.RequestOption) (*Analyzer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is required", vision.ErrAnalyzerUnavailable)
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	all := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Analyzer{
		client:    sdk.NewClient(all...),
		model:     model,
		maxTokens: defaultMaxTokens,
		timeout:   defaultTimeout,
	}, nil
}

func (a *Analyzer) Name() string { return "openai:" + a.model }

// Analyze sends the selfie as a data URL and parses the JSON reply. A reply
// that is not valid JSON gets one repair attempt.
func (a *Analyzer) Analyze(ctx context.Context, img vision.Image) (vision.Result, error) {
	if len(img.Data) == 0 {
		return vision.Result{}, vision.ErrEmptyImage
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	mimeType := img.MimeType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)

	messages := []sdk.ChatCompletionMessageParamUnion{
		sdk.SystemMessage(systemPrompt),
		sdk.UserMessage([]sdk.ChatCompletionContentPartUnionParam{
			sdk.TextContentPart(analyzePrompt),
			sdk.ImageContentPart(sdk.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
		}),
	}

	text, err := a.complete(ctx, messages)
	if err != nil {
		return vision.Result{}, err
	}
	res, parseErr := parseReply(text)
	if parseErr == nil {
		return res, nil
	}

	telemetry.Warn("vision.openai.repair", map[string]any{"key": img.Key, "error": parseErr})
	repair := []sdk.ChatCompletionMessageParamUnion{
		sdk.SystemMessage(systemPrompt),
		sdk.UserMessage(repairPrompt + text),
	}
	text, err = a.complete(ctx, repair)
	if err != nil {
		return vision.Result{}, err
	}
	return parseReply(text)
}

func (a *Analyzer) complete(ctx context.Context, messages []sdk.ChatCompletionMessageParamUnion) (string, error) {
	start := time.Now()
	resp, err := a.client.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Model:               sdk.ChatModel(a.model),
		Messages:            messages,
		MaxCompletionTokens: sdk.Int(a.maxTokens),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", vision.ErrInvalidOutput)
	}

	telemetry.Info("vision.openai.response", map[string]any{
		"model":             a.model,
		"duration_ms":       time.Since(start).Milliseconds(),
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
	})
	return resp.Choices[0].Message.Content, nil
}

type reply struct {
	SkinTone  string `json:"skin_tone"`
	Undertone string `json:"undertone"`
	EyeColor  string `json:"eye_color"`
	FaceShape string `json:"face_shape"`
}

func parseReply(text string) (vision.Result, error) {
	body := stripFences(text)
	var r reply
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return vision.Result{}, fmt.Errorf("%w: %v", vision.ErrInvalidOutput, err)
	}
	res := vision.Result{
		SkinTone:   strings.TrimSpace(r.SkinTone),
		Undertone:  strings.TrimSpace(r.Undertone),
		EyeColor:   strings.TrimSpace(r.EyeColor),
		FaceShape:  strings.TrimSpace(r.FaceShape),
		Confidence: Confidence,
	}
	if err := res.Validate(); err != nil {
		return vision.Result{}, err
	}
	return res, nil
}

// stripFences removes a surrounding ```json block, which models add despite
// being asked not to.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var _ vision.Analyzer = (*Analyzer)(nil)

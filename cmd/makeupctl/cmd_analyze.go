package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"makeup-backend/internal/occasions"
	"makeup-backend/internal/shared/storage/object"
	"makeup-backend/internal/vision"
	"makeup-backend/internal/vision/openai"
)

type analyzeOptions struct {
	provider string
	model    string
	delay    time.Duration
	seed     int64
	timeout  time.Duration
}

func newAnalyzeCmd() *cobra.Command {
	opts := analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Read facial attributes from a selfie and build looks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := opts.analyzer()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			result, err := analyzer.Analyze(ctx, vision.Image{
				Key:      filepath.Base(args[0]),
				MimeType: object.DetectContentType(data),
				Data:     data,
			})
			if err != nil {
				return fmt.Errorf("analyze %s: %w", args[0], err)
			}
			if err := result.Validate(); err != nil {
				return err
			}

			attrs := occasions.Attributes{
				SkinTone:  result.SkinTone,
				Undertone: result.Undertone,
				EyeColor:  result.EyeColor,
				FaceShape: result.FaceShape,
			}
			return render(cmd.OutOrStdout(), analysisOutput{
				Provider: analyzer.Name(),
				Result:   result,
				lookSet: lookSet{
					Profile: attrs,
					Model:   occasions.Model(attrs),
					Looks:   occasions.BuildLooks(attrs),
				},
			})
		},
	}
	cmd.Flags().StringVar(&opts.provider, "provider", "mock", "analyzer: mock or openai")
	cmd.Flags().StringVar(&opts.model, "model", "gpt-4o", "model name for the openai analyzer")
	cmd.Flags().DurationVar(&opts.delay, "delay", 0, "simulated latency for the mock analyzer")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "mock analyzer seed; 0 seeds from the clock")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 90*time.Second, "analysis timeout")
	return cmd
}

func (o analyzeOptions) analyzer() (vision.Analyzer, error) {
	switch o.provider {
	case "mock":
		var src rand.Source
		if o.seed != 0 {
			src = rand.NewSource(o.seed)
		}
		return vision.NewMockAnalyzer(o.delay, src), nil
	case "openai":
		return openai.New(os.Getenv("OPENAI_API_KEY"), o.model)
	default:
		return nil, fmt.Errorf("unknown provider %q", o.provider)
	}
}

type analysisOutput struct {
	Provider string        `json:"provider" yaml:"provider"`
	Result   vision.Result `json:"result" yaml:"result"`
	lookSet  `yaml:",inline"`
}

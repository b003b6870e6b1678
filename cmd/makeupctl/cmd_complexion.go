package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"makeup-backend/internal/complexion"
	"makeup-backend/internal/occasions"
	"makeup-backend/internal/profiles"
)

func newResolveCmd() *cobra.Command {
	var skinTone, undertone, occasion string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Pick the model image for a skin tone and undertone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if occasion != "" {
				return render(cmd.OutOrStdout(), complexion.ForOccasion(skinTone, undertone, occasion))
			}
			p, fallback := complexion.ResolveWithFallback(skinTone, undertone)
			return render(cmd.OutOrStdout(), struct {
				complexion.Profile `yaml:",inline"`
				Fallback           complexion.Fallback `json:"fallback,omitempty" yaml:"fallback,omitempty"`
			}{p, fallback})
		},
	}
	cmd.Flags().StringVar(&skinTone, "skin-tone", "", "skin tone (Fair, Light, Medium, Tan, Deep)")
	cmd.Flags().StringVar(&undertone, "undertone", "", "undertone (Cool, Warm, Neutral)")
	cmd.Flags().StringVar(&occasion, "occasion", "", "occasion name; accepted but does not change the pick")
	return cmd
}

func newVariationsCmd() *cobra.Command {
	var skinTone string
	var count int
	cmd := &cobra.Command{
		Use:   "variations",
		Short: "List model images across undertones for a skin tone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 || count > complexion.PoolSize() {
				return fmt.Errorf("--count must be between 1 and %d", complexion.PoolSize())
			}
			items, fellBack := complexion.VariationsWithFallback(skinTone, count)
			return render(cmd.OutOrStdout(), map[string]any{
				"skinTone":   skinTone,
				"count":      len(items),
				"fallback":   fellBack,
				"variations": items,
			})
		},
	}
	cmd.Flags().StringVar(&skinTone, "skin-tone", "", "skin tone")
	cmd.Flags().IntVar(&count, "count", 3, "number of variations")
	return cmd
}

func newLooksCmd() *cobra.Command {
	var in profiles.Input
	cmd := &cobra.Command{
		Use:   "looks",
		Short: "Build occasion looks from manually entered attributes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := in.Validate(); err != nil {
				return err
			}
			attrs := in.Attributes()
			return render(cmd.OutOrStdout(), lookSet{
				Profile: attrs,
				Model:   occasions.Model(attrs),
				Looks:   occasions.BuildLooks(attrs),
			})
		},
	}
	cmd.Flags().StringVar(&in.SkinTone, "skin-tone", "", "skin tone")
	cmd.Flags().StringVar(&in.Undertone, "undertone", "", "undertone")
	cmd.Flags().StringVar(&in.EyeColor, "eye-color", "", "eye color")
	cmd.Flags().StringVar(&in.FaceShape, "face-shape", "", "face shape")
	return cmd
}

type lookSet struct {
	Profile occasions.Attributes `json:"profile" yaml:"profile"`
	Model   complexion.Profile   `json:"model" yaml:"model"`
	Looks   []occasions.Look     `json:"looks" yaml:"looks"`
}

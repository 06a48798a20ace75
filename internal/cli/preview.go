package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/setlist/pkg/preview"
	"github.com/matzehuels/setlist/pkg/tilt"
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		x, y    float64
		neutral bool
		output  string
		css     bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a tilted card to an image",
		Long: `Render one card as the tilt engine styles it for a pointer position.

--x and --y are the pointer position as fractions of the card size
(0,0 is the top-left corner). With --neutral the resting style is drawn.`,
		Example: `  setlist preview --x 0.9 --y 0.1 -o corner.webp
  setlist preview --neutral -o rest.png --css`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := preview.FormatFromPath(output)
			if err != nil {
				return err
			}

			opts := preview.DefaultOptions()
			style := tilt.Neutral()
			if !neutral {
				style = tilt.Compute(tilt.Sample{
					X:   x * opts.CardWidth,
					Y:   y * opts.CardHeight,
					Box: tilt.Box{Width: opts.CardWidth, Height: opts.CardHeight},
				})
			}

			img := preview.Render(style, opts)
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := preview.Encode(f, img, format); err != nil {
				f.Close()
				return fmt.Errorf("encode %s: %w", output, err)
			}
			if err := f.Close(); err != nil {
				return err
			}

			printSuccess("Rendered card preview")
			printFile(output)
			if css {
				fmt.Println(StyleDim.Render(style.CSS()))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&x, "x", 0.5, "pointer x as a fraction of the card width")
	f.Float64Var(&y, "y", 0.5, "pointer y as a fraction of the card height")
	f.BoolVar(&neutral, "neutral", false, "draw the resting style")
	f.StringVarP(&output, "output", "o", "card.webp", "output file (.webp or .png)")
	f.BoolVar(&css, "css", false, "also print the style as CSS")
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/ru4ls/ComfyUI-Google-Fonts/pkg/errors"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/markup"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/pipeline"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/tensor"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	pipeline.Options

	padding  int    // uniform padding, overridden per side
	textFile string // read text from this file ("-" for stdin)
	output   string // output directory
	npy      bool   // also write image and mask tensors as .npy
	mask     bool   // also write the mask as a grayscale PNG
	noCache  bool   // disable catalog and render caching
}

// paddingFlags maps the per-side flags onto the padding fields.
var paddingFlags = []struct {
	name string
	side func(*markup.Padding) *int
}{
	{"padding-top", func(p *markup.Padding) *int { return &p.Top }},
	{"padding-right", func(p *markup.Padding) *int { return &p.Right }},
	{"padding-bottom", func(p *markup.Padding) *int { return &p.Bottom }},
	{"padding-left", func(p *markup.Padding) *int { return &p.Left }},
}

func newRenderOpts() *renderOpts {
	return &renderOpts{
		Options: pipeline.Options{
			FontFamily:      "Roboto",
			OutputMode:      pipeline.OutputCustomText,
			Width:           pipeline.DefaultWidth,
			Height:          pipeline.DefaultHeight,
			FontSize:        pipeline.DefaultFontSize,
			FontWeight:      "400",
			FontStyle:       "normal",
			TextAlign:       string(markup.AlignCenter),
			LineHeight:      pipeline.DefaultLineHeight,
			TextTransform:   string(markup.TransformNone),
			TextColor:       pipeline.DefaultTextColor,
			BackgroundColor: pipeline.DefaultBackgroundColor,
			Geometry:        string(markup.ModeCentered),
		},
		padding: 20,
	}
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := newRenderOpts()
	var sides [4]int

	cmd := &cobra.Command{
		Use:   "render [text]",
		Short: "Render text in a Google Font to PNG",
		Long: `Render text in a Google Font with a headless browser.

The PNG is written to the output directory. With --npy the image tensor
[1,H,W,3] and mask tensor [1,H,W] are written next to it, and with --mask
the mask is also saved as a grayscale PNG.

Geometry modes:
  centered  fixed canvas, text centered
  wrap      fixed width, text wraps inside the padding (--height 0 fits the text)
  auto      canvas sized to the text plus padding`,
		Example: `  fontnode render "Hello" --family Lobster --size 96
  fontnode render --geometry auto --transparent --npy "Tight fit"
  echo "From stdin" | fontnode render --text-file -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args, opts.textFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if text != "" {
				opts.Text = text
			}
			opts.Padding = resolvePadding(opts.padding, sides, cmd.Flags().Changed)
			if opts.output == "" {
				opts.output = c.Config.Render.OutputDir
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.FontFamily, "family", "f", opts.FontFamily, "Google Fonts family name")
	f.StringVar(&opts.OutputMode, "output-mode", opts.OutputMode, fmt.Sprintf("what to render: %q or %q", pipeline.OutputCustomText, pipeline.OutputStandardSet))
	f.StringVar(&opts.textFile, "text-file", "", "read text from a file (- for stdin)")
	f.StringVarP(&opts.Geometry, "geometry", "g", opts.Geometry, "geometry mode: centered, wrap, auto")
	f.IntVar(&opts.Width, "width", opts.Width, "canvas width in pixels (centered, wrap)")
	f.IntVar(&opts.Height, "height", opts.Height, "canvas height in pixels (centered, wrap)")
	f.IntVarP(&opts.FontSize, "size", "s", opts.FontSize, "font size in pixels")
	f.StringVarP(&opts.FontWeight, "weight", "w", opts.FontWeight, "font weight: 100-900 or a name such as bold")
	f.StringVar(&opts.FontStyle, "style", opts.FontStyle, "font style: normal, italic")
	f.StringVar(&opts.TextAlign, "align", opts.TextAlign, "text alignment: center, left, right")
	f.Float64Var(&opts.LineHeight, "line-height", opts.LineHeight, "line height multiplier")
	f.StringVar(&opts.TextTransform, "transform", opts.TextTransform, "text transform: none, uppercase, lowercase, capitalize")
	f.StringVar(&opts.TextColor, "color", opts.TextColor, "text color (hex or CSS name)")
	f.StringVar(&opts.BackgroundColor, "background", opts.BackgroundColor, "background color (hex or CSS name)")
	f.BoolVar(&opts.TransparentBackground, "transparent", false, "render on a transparent background")
	f.IntVar(&opts.padding, "padding", opts.padding, "padding on every side (wrap, auto)")
	for i, pf := range paddingFlags {
		f.IntVar(&sides[i], pf.name, 0, "overrides --padding for one side")
	}
	f.StringVarP(&opts.output, "output", "o", "", "output directory (default from config)")
	f.BoolVar(&opts.npy, "npy", false, "also write image and mask tensors as .npy")
	f.BoolVar(&opts.mask, "mask", false, "also write the mask as a grayscale PNG")
	f.BoolVar(&opts.Refresh, "refresh", false, "ignore cached renders")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	_ = cmd.RegisterFlagCompletionFunc("geometry", cobra.FixedCompletions(modeNames(), cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("align", cobra.FixedCompletions(markup.AlignChoices, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("transform", cobra.FixedCompletions(markup.TransformChoices, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func modeNames() []string {
	names := make([]string, len(markup.Modes))
	for i, m := range markup.Modes {
		names[i] = string(m)
	}
	return names
}

// readText returns the positional text, or the contents of textFile.
func readText(args []string, textFile string, stdin io.Reader) (string, error) {
	switch {
	case len(args) > 0 && textFile != "":
		return "", errs.New(errs.ErrCodeInvalidInput, "give the text as an argument or with --text-file, not both")
	case len(args) > 0:
		return args[0], nil
	case textFile == "":
		return "", nil
	}

	var (
		data []byte
		err  error
	)
	if textFile == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(textFile)
	}
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// resolvePadding applies the uniform padding, then any side flag that was set.
func resolvePadding(uniform int, sides [4]int, changed func(string) bool) markup.Padding {
	p := markup.Uniform(uniform)
	for i, pf := range paddingFlags {
		if changed(pf.name) {
			*pf.side(&p) = sides[i]
		}
	}
	return p
}

func (c *CLI) runRender(ctx context.Context, out io.Writer, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", opts.FontFamily))
	spinner.Start()
	result, err := runner.Execute(ctx, opts.Options)
	if err != nil {
		spinner.Stop()
		return err
	}
	elapsed := spinner.Elapsed()
	spinner.Stop()
	defer result.Cleanup()

	res := result.Resolution
	printSuccess("Rendered %s", StyleHighlight.Render(res.Family))
	if res.Substituted {
		printWarning("%s not available for %s; used %s", res.Requested, res.Family, res.Variant())
	}
	printRenderStats(result.Capture.Width, result.Capture.Height, string(res.Variant()), result.CacheInfo.RenderHit, elapsed)

	files, err := writeOutputs(result, opts)
	if err != nil {
		return err
	}
	for _, f := range files {
		printFile(out, f)
	}
	return nil
}

// writeOutputs stores the PNG and any requested extras in opts.output.
func writeOutputs(result *pipeline.Result, opts *renderOpts) ([]string, error) {
	png, err := result.Capture.WriteFile(opts.output, result.Resolution.Family)
	if err != nil {
		return nil, fmt.Errorf("write png: %w", err)
	}
	files := []string{png}
	base := strings.TrimSuffix(png, filepath.Ext(png))

	write := func(path string, fn func(io.Writer) error) error {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
		files = append(files, path)
		return f.Close()
	}

	if opts.npy {
		if err := write(base+"_image.npy", result.Output.Image.WriteNPY); err != nil {
			return nil, err
		}
		if err := write(base+"_mask.npy", result.Output.Mask.WriteNPY); err != nil {
			return nil, err
		}
	}
	if opts.mask {
		err := write(base+"_mask.png", func(w io.Writer) error {
			return tensor.WriteMaskPNG(w, result.Output.Mask)
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/ru4ls/ComfyUI-Google-Fonts/pkg/errors"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/fonts"
)

// fontsCommand creates the fonts command group.
func (c *CLI) fontsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "Browse the Google Fonts catalog",
	}

	cmd.AddCommand(c.fontsListCommand())
	cmd.AddCommand(c.fontsPickCommand())

	return cmd
}

// fontsListCommand creates the "fonts list" subcommand.
func (c *CLI) fontsListCommand() *cobra.Command {
	var (
		category string
		asJSON   bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "list [filter]",
		Short: "List catalog families",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) > 0 {
				query = args[0]
			}

			catalog, err := c.loadCatalog(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			families := filterFamilies(catalog, query, category)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(families)
			}
			if len(families) == 0 {
				printInfo("No families match %q", query)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), familyTable(families))
			printDetail("%d of %d families", len(families), len(catalog))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "only families in this category (serif, sans-serif, display, handwriting, monospace)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the families as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "always fetch the catalog")

	return cmd
}

// fontsPickCommand creates the "fonts pick" subcommand.
func (c *CLI) fontsPickCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a family interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			catalog, err := c.loadCatalog(ctx, noCache)
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(NewFamilyPickerModel(catalog), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("family picker: %w", err)
			}
			picked := final.(FamilyPickerModel).Selected
			if picked == nil {
				return nil
			}

			printSuccess("Selected %s", StyleHighlight.Render(picked.Name))
			printKeyValue(cmd.OutOrStdout(), "Category", picked.Category)
			printKeyValue(cmd.OutOrStdout(), "Variants", variantSummary(*picked))
			printNextStep("Render it", fmt.Sprintf("%s render --family %q \"Your text\"", appName, picked.Name))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "always fetch the catalog")

	return cmd
}

// loadCatalog fetches the catalog, falling back to the default families
// when it cannot be loaded.
func (c *CLI) loadCatalog(ctx context.Context, noCache bool) (fonts.Catalog, error) {
	store, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	spinner := newSpinner(ctx, "Loading Google Fonts catalog...")
	spinner.Start()

	catalog, err := c.newCatalog(store).Load(ctx)
	if err != nil {
		spinner.StopWithError(errs.UserMessage(err))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if apiKey() == "" {
			printWarning("%s is not set", envAPIKey)
		}
		return fallbackCatalog(), nil
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Loaded %d families", len(catalog)))
	return catalog, nil
}

func fallbackCatalog() fonts.Catalog {
	c := make(fonts.Catalog, len(fonts.DefaultFamilies))
	for i, name := range fonts.DefaultFamilies {
		c[i] = fonts.Family{Name: name}
	}
	return c
}

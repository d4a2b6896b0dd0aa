package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	errs "github.com/ru4ls/ComfyUI-Google-Fonts/pkg/errors"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/fonts"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/node"
)

// nodesCommand creates the nodes command, which describes the node definitions.
func (c *CLI) nodesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "nodes [name]",
		Short: "Describe the node definitions",
		Long: `Describe the node definitions offered to workflow hosts.

Without a name, every node is listed. The family choices come from the
catalog; when it cannot be loaded the fallback list is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := c.loadCatalog(cmd.Context(), false)
			if err != nil {
				return err
			}
			defs := node.Definitions(fonts.FamilyNames(catalog))

			if len(args) > 0 {
				def, ok := node.Lookup(defs, args[0])
				if !ok {
					return errs.New(errs.ErrCodeNodeNotFound, "unknown node %q", args[0])
				}
				defs = []node.Definition{def}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(defs)
			}
			out := cmd.OutOrStdout()
			for _, def := range defs {
				fmt.Fprintln(out, StyleTitle.Render(def.DisplayName)+" "+StyleDim.Render(def.Name))
				printKeyValue(out, "Category", def.Category)
				printKeyValue(out, "Geometry", string(def.Geometry))
				printKeyValue(out, "Outputs", strings.Join(def.Outputs, ", "))
				fmt.Fprintln(out, paramTable(def.Params))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the definitions as JSON")

	return cmd
}

// paramTable renders a node's parameters with their types, defaults and bounds.
func paramTable(params []node.Param) string {
	rows := make([][]string, len(params))
	for i, p := range params {
		rows[i] = []string{p.Name, string(p.Type), formatDefault(p.Default), paramRange(p)}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Parameter", "Type", "Default", "Range / Choices").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if col == 0 {
				return listNormalStyle
			}
			return listDimStyle
		}).
		Render()
}

func formatDefault(v any) string {
	switch v := v.(type) {
	case string:
		if strings.Contains(v, "\n") || len(v) > 24 {
			return fmt.Sprintf("%.21q…", v)
		}
		return fmt.Sprintf("%q", v)
	case nil:
		return "—"
	default:
		return fmt.Sprint(v)
	}
}

func paramRange(p node.Param) string {
	switch {
	case len(p.Choices) > 0:
		const maxShown = 4
		choices := p.Choices
		suffix := ""
		if len(choices) > maxShown {
			suffix = fmt.Sprintf(" +%d", len(choices)-maxShown)
			choices = choices[:maxShown]
		}
		return strings.Join(choices, ", ") + suffix
	case p.Min != nil && p.Max != nil:
		return fmt.Sprintf("%g – %g", *p.Min, *p.Max)
	default:
		return ""
	}
}

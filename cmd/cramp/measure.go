package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cramp/pkg/session"
)

func (a *app) newMeasureCmd() *cobra.Command {
	var selector, output string
	cmd := &cobra.Command{
		Use:   "measure <file|url|->",
		Short: "Print the geometry the clamp sees for matching elements",
		Long: `Print line height, client height, font size, the number of whole lines
that fit the current height, and the number of line boxes laid out, for
every element matching --selector.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			s, err := session.Open(cmd.Context(), a.cfg, args[0], a.logger)
			if err != nil {
				return classify(err)
			}
			nodes, err := s.Select(selector)
			if err != nil {
				return classify(err)
			}
			results := make([]session.Measurement, 0, len(nodes))
			for _, el := range nodes {
				m, err := s.Measure(el)
				if err != nil {
					return classify(err)
				}
				results = append(results, m)
			}

			out := cmd.OutOrStdout()
			if output != outputText {
				return writeStructured(out, output, results)
			}
			for _, m := range results {
				fmt.Fprintf(out, "%s: line-height %gpx, client height %gpx, font-size %gpx, %d lines fit, %d line boxes\n",
					m.Element, m.LineHeight, m.ClientHeight, m.FontSize, m.MaxLines, m.LineBoxes)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&selector, "selector", "s", "", "CSS selector of the elements to measure (required)")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format (text, json, yaml)")
	_ = cmd.MarkFlagRequired("selector")
	return cmd
}

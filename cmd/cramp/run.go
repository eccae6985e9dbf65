package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cramp/pkg/html"
	"cramp/pkg/session"
)

func (a *app) newRunCmd() *cobra.Command {
	var (
		eval     string
		skipPage bool
		printDoc bool
	)
	cmd := &cobra.Command{
		Use:   "run <file|url|->",
		Short: "Run the page's scripts with $cramp available",
		Long: `Execute the page's <script> blocks in document order. Scripts get a
small DOM, window.getComputedStyle, console (logged) and $cramp(element,
{cramp, truncationChar}) which clamps against the layout engine.

--eval runs an extra snippet afterwards and prints its value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := session.Open(cmd.Context(), a.cfg, args[0], a.logger)
			if err != nil {
				return classify(err)
			}
			engine := s.Script()
			if !skipPage {
				if err := engine.Execute(cmd.Context(), s.Page.Doc); err != nil {
					return classify(fmt.Errorf("%w: %w", errScript, err))
				}
			}
			out := cmd.OutOrStdout()
			if eval != "" {
				v, err := engine.Run(cmd.Context(), s.Page.Doc, eval)
				if err != nil {
					return classify(fmt.Errorf("%w: %w", errScript, err))
				}
				switch v := v.(type) {
				case nil:
				case *html.Node:
					fmt.Fprintln(out, v.SerializeOuter())
				default:
					fmt.Fprintln(out, v)
				}
			}
			if printDoc {
				fmt.Fprintln(out, s.Page.Doc.Root.Serialize())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&eval, "eval", "e", "", "JavaScript to evaluate after the page scripts")
	cmd.Flags().BoolVar(&skipPage, "no-page-scripts", false, "skip the page's own scripts")
	cmd.Flags().BoolVar(&printDoc, "print", false, "print the document after the scripts ran")
	return cmd
}

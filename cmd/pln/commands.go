package main

import (
	"fmt"
	"strings"

	"github.com/alito/opencog/internal/buildconfig"
	"github.com/alito/opencog/internal/domain"
	"github.com/alito/opencog/internal/sexpr"
	"github.com/spf13/cobra"
)

func newRulesCmd(s *session) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rule catalog in generation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, r := range s.reasoner.Rules() {
				fmt.Fprintln(out, r.Name)
				if !verbose {
					continue
				}
				fmt.Fprintf(out, "  formula: %s\n", r.Formula.Name())
				for _, in := range r.Inputs {
					fmt.Fprintf(out, "  in:  %s\n", in)
				}
				for _, o := range r.Outputs {
					fmt.Fprintf(out, "  out: %s\n", o)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print each rule's patterns and formula")
	return cmd
}

func newSimplifyCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "simplify EXPR",
		Short: "Print the canonical form of a boolean expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			atom, err := sexpr.ParseOne(ctx, s.opened.Space, args[0])
			if err != nil {
				return err
			}
			simple, err := s.reasoner.Simplify(ctx, atom.Handle)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), simple)
			return nil
		},
	}
}

func newApplyCmd(s *session) *cobra.Command {
	var facts string
	cmd := &cobra.Command{
		Use:   "apply RULE INPUT...",
		Short: "Apply a rule to input atoms and print the committed outputs",
		Example: `  pln apply AndCreationRule:2 '(ConceptNode "A" (stv 0.5 0.9))' '(ConceptNode "B" (stv 0.5 0.9))'
  pln apply AndEliminationRule:2 '(AndLink (ConceptNode "A") (ConceptNode "B") (stv 0.25 0.01))'`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			space := s.opened.Space

			if strings.TrimSpace(facts) != "" {
				if _, err := sexpr.Parse(ctx, space, facts); err != nil {
					return fmt.Errorf("facts: %w", err)
				}
			}

			inputs := make([]*domain.Atom, 0, len(args)-1)
			for i, src := range args[1:] {
				atom, err := sexpr.ParseOne(ctx, space, src)
				if err != nil {
					return fmt.Errorf("input %d: %w", i+1, err)
				}
				inputs = append(inputs, atom)
			}

			inf, err := s.reasoner.Apply(ctx, args[0], domain.Handles(inputs))
			if err != nil {
				return err
			}
			for _, o := range inf.Outputs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", o, o.TV)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&facts, "facts", "", "atoms to load before matching, in scheme notation")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pln %s (%s)\n", buildconfig.Version(), buildconfig.Commit())
		},
	}
}

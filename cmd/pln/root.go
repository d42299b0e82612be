package main

import (
	"github.com/alito/opencog/internal/config"
	"github.com/alito/opencog/internal/logging"
	"github.com/alito/opencog/internal/rules"
	"github.com/alito/opencog/internal/service"
	"github.com/alito/opencog/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// session is the state shared by subcommands for one invocation.
type session struct {
	ruleSetFile     string
	transformations bool
	simplifyMode    string

	logger   *zap.Logger
	opened   *store.Opened
	reasoner *service.Reasoner
}

func newRootCmd() *cobra.Command {
	s := &session{}

	root := &cobra.Command{
		Use:           "pln",
		Short:         "Apply boolean PLN rules to atoms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return s.open(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			s.close()
		},
	}

	root.PersistentFlags().StringVar(&s.ruleSetFile, "ruleset", "", "rule set YAML file (default $RULESET_FILE)")
	root.PersistentFlags().BoolVar(&s.transformations, "transformations", false, "add boolean transformation rules to the catalog")
	root.PersistentFlags().StringVar(&s.simplifyMode, "simplify", "", "canonicalizer mode: full or legacy (overrides the rule set)")

	root.AddCommand(
		newRulesCmd(s),
		newSimplifyCmd(s),
		newApplyCmd(s),
		newVersionCmd(),
	)
	return root
}

func (s *session) open(cmd *cobra.Command) error {
	_ = config.Load()
	ctx := cmd.Context()

	logger, err := logging.New(config.LogLevel())
	if err != nil {
		return err
	}
	s.logger = logger

	path := s.ruleSetFile
	if path == "" {
		path = config.RuleSetFile()
	}
	rs, err := config.LoadRuleSet(path)
	if err != nil {
		return err
	}
	if s.transformations {
		rs.Transformations = true
	}
	if s.simplifyMode != "" {
		rs.Simplify = s.simplifyMode
		if err := rs.Validate(); err != nil {
			return err
		}
	}

	s.opened, err = store.Open(ctx, store.Settings{
		Driver:      config.AtomSpaceDriver(),
		DatabaseURL: config.DatabaseURL(),
		SQLitePath:  config.SQLitePath(),
	})
	if err != nil {
		return err
	}

	s.reasoner = service.NewReasoner(s.opened.Space, logger)
	return s.reasoner.BuildCatalog(ctx, service.Options{
		MinArity:        rs.MinArity,
		MaxArity:        rs.MaxArity,
		Transformations: rs.Transformations,
		Simplify:        rules.Mode(rs.Simplify),
	})
}

func (s *session) close() {
	if s.opened != nil {
		s.opened.Close()
	}
	if s.logger != nil {
		_ = s.logger.Sync()
	}
}

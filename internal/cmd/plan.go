package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskgraph/internal/artifact"
	"github.com/felixgeelhaar/taskgraph/internal/errors"
	"github.com/felixgeelhaar/taskgraph/internal/planner"
	"github.com/felixgeelhaar/taskgraph/internal/ux"
	"github.com/felixgeelhaar/taskgraph/internal/version"
)

func newPlanCmd() *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Create, validate and report on plans",
		Long: `Build and inspect task graph plans.

Use 'taskgraph plan create' to build a plan from a contract and a PRD.
Use 'taskgraph plan validate' to re-check a saved plan.
Use 'taskgraph plan report' to summarize a saved plan.`,
	}
	planCmd.AddCommand(newPlanCreateCmd(), newPlanValidateCmd(), newPlanReportCmd())
	return planCmd
}

type planCreateOptions struct {
	prdPath      string
	contractPath string
	out          string
	format       string
	store        bool
}

func newPlanCreateCmd() *cobra.Command {
	opts := &planCreateOptions{}
	defaults := ux.NewPathDefaults()

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a plan from a contract and a PRD",
		Long: `Assemble the phase graph for every tagged contract operation, split
nodes until their token budgets fit the model window, score complexity,
and check that every contract operation is referenced.

The plan is written to --out even when nodes still exceed the window; the
command then exits with status 4. Missing coverage exits with status 3 and
writes nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlanCreate(cmd, opts)
		},
	}

	flags := createCmd.Flags()
	flags.StringVar(&opts.prdPath, "prd", "", "PRD markdown file (default: PRD.md when present)")
	flags.StringVar(&opts.contractPath, "contract", "", "OpenAPI contract file (default: contract.yaml when present)")
	flags.StringVarP(&opts.out, "out", "o", defaults.PlanFile(), "output plan document")
	flags.StringVarP(&opts.format, "format", "f", "text", "output format: text, json, yaml")
	flags.BoolVar(&opts.store, "store", false, "also store the plan and report in the artifact store")
	return createCmd
}

func runPlanCreate(cmd *cobra.Command, opts *planCreateOptions) error {
	defaults := ux.NewPathDefaults()
	if opts.prdPath == "" {
		opts.prdPath = defaults.PRDFile()
	}
	if opts.contractPath == "" {
		opts.contractPath = defaults.ContractFile()
	}
	if opts.prdPath == "" {
		return fmt.Errorf(`required flag "prd" not set`)
	}
	if opts.contractPath == "" {
		return fmt.Errorf(`required flag "contract" not set`)
	}

	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cc.FlushMetrics()

	formatter, err := ux.NewFormatter(opts.format, &ux.FormatterOptions{
		Writer:  cmd.OutOrStdout(),
		NoColor: cc.NoColor,
	})
	if err != nil {
		return err
	}

	var store artifact.Store
	if opts.store {
		store, err = artifact.New(cc.Config.Artifacts())
		if err != nil {
			return err
		}
	}

	generator := version.GetInfo().Generator()
	svc := planner.NewService(store, cc.Logger, generator).WithMetrics(cc.Metrics)
	created, err := svc.Create(cmd.Context(), planner.CreateRequest{
		PRDPath:      opts.prdPath,
		ContractPath: opts.contractPath,
		Tuning:       cc.Config.Planner(),
		Store:        opts.store,
	})
	if err != nil {
		return err
	}

	if err := planner.SaveDocument(planner.NewDocument(created.Plan, generator), opts.out); err != nil {
		return err
	}
	cc.Logger.Debug("plan written", "path", opts.out)

	summary := ux.PlanSummary{
		Plan:        created.Plan,
		Path:        opts.out,
		DocumentRef: created.DocumentRef,
		ReportRef:   created.ReportRef,
	}
	if err := formatter.Format(summary); err != nil {
		return err
	}

	if violations := created.Plan.Violations(); len(violations) > 0 {
		return errors.NewBudgetViolationError(created.Plan.Budget.Capacity, violations)
	}
	return nil
}

func newPlanValidateCmd() *cobra.Command {
	var planPath string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a saved plan",
		Long: `Check a saved plan document: graph bounds and acyclicity, recorded token
budgets, budgets against the configured window, and contract coverage.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			doc, err := planner.LoadDocument(planPath)
			if err != nil {
				return err
			}

			capacity := cc.Config.Planner().Capacity()
			if err := doc.Validate(capacity); err != nil {
				cc.Logger.WithError(err).Debug("plan rejected", "path", planPath)
				return err
			}

			styles := ux.NewStyles(cc.NoColor)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), styles.Success.Render(fmt.Sprintf(
				"✓ %s is valid: %d nodes, %d edges, capacity %d tokens",
				planPath, len(doc.Plan.Nodes), len(doc.Plan.Edges), capacity)))
			return err
		},
	}
	validateCmd.Flags().StringVarP(&planPath, "plan", "p", ux.NewPathDefaults().PlanFile(), "plan document to validate")
	return validateCmd
}

func newPlanReportCmd() *cobra.Command {
	var (
		planPath string
		format   string
	)
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize a saved plan",
		Long: `Print phase counts, DAG depth and width, planned tokens, complexity
statistics, window compliance and coverage for a saved plan.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			formatter, err := ux.NewFormatter(format, &ux.FormatterOptions{
				Writer:  cmd.OutOrStdout(),
				NoColor: cc.NoColor,
			})
			if err != nil {
				return err
			}
			doc, err := planner.LoadDocument(planPath)
			if err != nil {
				return err
			}
			if doc.Plan == nil {
				return errors.New(errors.ErrCodePlanInvalid, fmt.Sprintf("%s holds no plan", planPath))
			}
			return formatter.Format(ux.ReportView{Report: planner.NewReport(doc.Plan)})
		},
	}
	reportCmd.Flags().StringVarP(&planPath, "plan", "p", ux.NewPathDefaults().PlanFile(), "plan document to report on")
	reportCmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, yaml")
	return reportCmd
}

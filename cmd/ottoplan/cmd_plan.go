package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/export"
)

func newPlanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show and edit the weekly meal plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showPlan(cmd.Context())
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the plan grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showPlan(cmd.Context())
		},
	}

	set := &cobra.Command{
		Use:   "set <day> <meal> <recipe-id>",
		Short: "Plan a recipe for a meal",
		Example: `  ottoplan plan set monday dinner chicken-alfredo
  ottoplan plan set sat breakfast pancakes`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, meal, err := parseSlot(args[0], args[1])
			if err != nil {
				return err
			}
			if _, err := a.eng.SetSlot(cmd.Context(), a.cfg.User, a.cfg.Plan.DefaultID, day, meal, args[2]); err != nil {
				return err
			}
			return a.showPlan(cmd.Context())
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear <day> <meal>",
		Short: "Empty a plan slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, meal, err := parseSlot(args[0], args[1])
			if err != nil {
				return err
			}
			if _, err := a.eng.ClearSlot(cmd.Context(), a.cfg.User, a.cfg.Plan.DefaultID, day, meal); err != nil {
				return err
			}
			return a.showPlan(cmd.Context())
		},
	}

	cmd.AddCommand(show, set, clearCmd)
	return cmd
}

func (a *app) showPlan(ctx context.Context) error {
	plan, err := a.eng.LoadPlan(ctx, a.cfg.User, a.cfg.Plan.DefaultID)
	if err != nil {
		return err
	}
	sums, err := a.eng.ListRecipes(ctx, a.cfg.User)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(sums))
	for _, s := range sums {
		names[s.ID] = s.Name
	}
	a.print.Plan(plan, names)
	return nil
}

func parseSlot(dayArg, mealArg string) (domain.Day, domain.Meal, error) {
	day, ok := domain.ParseDay(dayArg)
	if !ok {
		return 0, 0, fmt.Errorf("unknown day %q", dayArg)
	}
	meal, ok := domain.ParseMeal(mealArg)
	if !ok {
		return 0, 0, fmt.Errorf("unknown meal %q (breakfast, lunch or dinner)", mealArg)
	}
	return day, meal, nil
}

func newSharedCmd(a *app) *cobra.Command {
	var (
		limit int
		xlsx  string
	)
	cmd := &cobra.Command{
		Use:   "shared",
		Short: "Show ingredients shared by the planned recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.Plan.TopShared
			}
			rep, err := a.eng.AnalyzePlan(cmd.Context(), a.cfg.User, a.cfg.Plan.DefaultID, limit)
			if err != nil {
				return err
			}
			a.print.Shared(rep)
			if xlsx != "" {
				if err := export.SharedXLSX(xlsx, rep); err != nil {
					return err
				}
				a.print.Hint("written to " + xlsx)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of ingredients to show, 0 for all (default from config)")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "also write the report to this xlsx file")
	return cmd
}

func newShoppingCmd(a *app) *cobra.Command {
	var xlsx string
	cmd := &cobra.Command{
		Use:   "shopping",
		Short: "List what to buy for the uncooked planned meals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := a.eng.ShoppingList(cmd.Context(), a.cfg.User, a.cfg.Plan.DefaultID)
			if err != nil {
				return err
			}
			a.print.Shopping(lines)
			if xlsx != "" {
				if err := export.ShoppingXLSX(xlsx, lines); err != nil {
					return err
				}
				a.print.Hint("written to " + xlsx)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "also write the list to this xlsx file")
	return cmd
}

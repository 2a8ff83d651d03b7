package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/engine"
)

func newCookCmd(a *app) *cobra.Command {
	var (
		day, meal string
		req       engine.CookRequest
	)
	cmd := &cobra.Command{
		Use:   "cook [recipe-id]",
		Short: "Cook a meal and deduct its ingredients from the pantry",
		Long: `Deducts a recipe's ingredients from the pantry.

With --day and --meal the planned recipe for that slot is cooked and the
slot is marked done; cooking a slot twice deducts nothing. Without them the
recipe id is cooked off-plan.

When the pantry is short the attempt is refused; --force deducts whatever
is there. --check previews the deductions without writing anything.`,
		Example: `  ottoplan cook pancakes --check
  ottoplan cook --day mon --meal dinner --rating 4
  ottoplan cook chicken-alfredo --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				req.RecipeID = args[0]
			}
			if (day == "") != (meal == "") {
				return errors.New("--day and --meal must be given together")
			}
			if day != "" {
				d, m, err := parseSlot(day, meal)
				if err != nil {
					return err
				}
				req.Slot = &engine.SlotRef{PlanID: a.cfg.Plan.DefaultID, Day: d, Meal: m}
			}
			if req.RecipeID == "" && req.Slot == nil {
				return errors.New("a recipe id or --day and --meal are required")
			}

			out, err := a.eng.Cook(cmd.Context(), a.cfg.User, req)
			if errors.Is(err, domain.ErrVersionConflict) {
				return errors.New("the pantry changed while cooking, try again")
			}
			if err != nil {
				return err
			}
			a.print.Cook(out.Recipe, out.Result, out.HistoryErr)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&day, "day", "", "planned day (monday..sunday or mon..sun)")
	f.StringVar(&meal, "meal", "", "planned meal (breakfast, lunch, dinner)")
	f.BoolVarP(&req.ForceDeduct, "force", "f", false, "deduct what is available when the pantry is short")
	f.BoolVar(&req.CheckOnly, "check", false, "preview the deductions without writing")
	f.IntVarP(&req.Rating, "rating", "r", 0, "rate the meal 1-5")
	f.StringVar(&req.Notes, "notes", "", "notes for the cooking history")
	return cmd
}

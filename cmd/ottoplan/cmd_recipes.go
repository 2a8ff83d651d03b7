package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRecipesCmd(a *app) *cobra.Command {
	var search string

	listFn := func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if search != "" {
			found, err := a.eng.SearchRecipes(ctx, a.cfg.User, search)
			if err != nil {
				return err
			}
			a.print.Recipes(found)
			return nil
		}
		all, err := a.eng.ListRecipes(ctx, a.cfg.User)
		if err != nil {
			return err
		}
		a.print.Recipes(all)
		return nil
	}

	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "List, search and show recipes",
		Args:  cobra.NoArgs,
		RunE:  listFn,
	}
	cmd.PersistentFlags().StringVarP(&search, "search", "s", "", "only recipes whose name, tags or ingredients match")

	list := &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		Args:  cobra.NoArgs,
		RunE:  listFn,
	}

	show := &cobra.Command{
		Use:   "show <recipe-id>",
		Short: "Show a recipe's ingredients",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.eng.GetRecipe(cmd.Context(), a.cfg.User, args[0])
			if err != nil {
				return err
			}
			a.print.Recipe(r)
			return nil
		},
	}

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Load the built-in recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.catalog.Seed(cmd.Context(), a.cfg.User)
			if err != nil {
				return err
			}
			a.print.Info(fmt.Sprintf("added %d recipes", n))
			return nil
		},
	}

	cmd.AddCommand(list, show, seed)
	return cmd
}

func newMatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "match",
		Short: "Score every recipe against the pantry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scored, err := a.eng.MatchRecipes(cmd.Context(), a.cfg.User)
			if err != nil {
				return err
			}
			a.print.Matches(scored)
			return nil
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history <recipe-id>",
		Short: "Show how often a recipe was cooked and its ratings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.eng.GetRecipe(ctx, a.cfg.User, args[0])
			if err != nil {
				return err
			}
			sum, err := a.eng.History(ctx, a.cfg.User, r.ID)
			if err != nil {
				return err
			}
			a.print.History(r.Name, sum)
			return nil
		},
	}
}

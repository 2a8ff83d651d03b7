package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/ingredient"
)

func newPantryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pantry",
		Short: "Show and edit the pantry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showPantry(cmd.Context())
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List pantry items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showPantry(cmd.Context())
		},
	}

	add := &cobra.Command{
		Use:   "add <line>",
		Short: "Add stock from a free-text line",
		Long: `Adds stock to the pantry. Stock of an ingredient already held in the
same unit is merged.

Examples:
  ottoplan pantry add 2 cups flour
  ottoplan pantry add "1 lb chicken breast"
  ottoplan pantry add 6 eggs`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.eng.AddPantryLine(cmd.Context(), a.cfg.User, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if !res.Success {
				return errors.New(res.Error)
			}
			a.print.Info(fmt.Sprintf("%s: %s", res.Item.Name, ingredient.Format(res.Item.Quantity, res.Item.Unit)))
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <id> <quantity>",
		Short: "Overwrite an item's quantity (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			id, err := a.resolveItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res, err := a.eng.SetPantryQuantity(cmd.Context(), a.cfg.User, id, qty)
			if err != nil {
				return err
			}
			if !res.Success {
				return errors.New(res.Error)
			}
			if qty == 0 {
				a.print.Info("removed " + res.Item.Name)
				return nil
			}
			a.print.Info(fmt.Sprintf("%s: %s", res.Item.Name, ingredient.Format(res.Item.Quantity, res.Item.Unit)))
			return nil
		},
	}

	remove := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a pantry item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolveItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.eng.RemovePantryItem(cmd.Context(), a.cfg.User, id)
		},
	}

	cmd.AddCommand(list, add, set, remove)
	return cmd
}

func (a *app) showPantry(ctx context.Context) error {
	p, err := a.eng.LoadPantry(ctx, a.cfg.User)
	if err != nil {
		return err
	}
	a.print.Pantry(p)
	return nil
}

// resolveItem expands an id prefix, as printed by "pantry list", to the
// full item id.
func (a *app) resolveItem(ctx context.Context, prefix string) (string, error) {
	p, err := a.eng.LoadPantry(ctx, a.cfg.User)
	if err != nil {
		return "", err
	}
	var found []string
	for _, it := range p.Items {
		if it.ID == prefix {
			return it.ID, nil
		}
		if strings.HasPrefix(it.ID, prefix) {
			found = append(found, it.ID)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("pantry item %s: %w", prefix, domain.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("pantry item id %s is ambiguous (%d matches)", prefix, len(found))
	}
}

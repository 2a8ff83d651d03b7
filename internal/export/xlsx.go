// Package export writes planner reports as spreadsheets.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hammamikhairi/ottoplan/internal/overlap"
)

const (
	ShoppingSheet = "Shopping"
	SharedSheet   = "Shared"
)

// ShoppingXLSX writes the shopping list to an xlsx file at path.
func ShoppingXLSX(path string, lines []overlap.ShoppingLine) error {
	header := []interface{}{"item", "quantity", "unit", "in_pantry", "recipes"}
	rows := make([][]interface{}, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []interface{}{l.Name, l.Quantity, l.Unit, l.InPantry, strings.Join(l.Recipes, ", ")})
	}
	return writeSheet(path, ShoppingSheet, header, rows)
}

// SharedXLSX writes the shared-ingredient report to an xlsx file at path,
// one row per ingredient and unit with units in alphabetical order.
func SharedXLSX(path string, rep overlap.Report) error {
	header := []interface{}{"ingredient", "recipe_count", "quantity", "unit", "recipes"}
	var rows [][]interface{}
	for _, s := range rep.TopSharedIngredients {
		for _, unit := range sortedUnits(s) {
			rows = append(rows, []interface{}{s.Name, s.RecipeCount, s.TotalQuantityByUnit[unit], unit, strings.Join(s.Recipes, ", ")})
		}
	}
	return writeSheet(path, SharedSheet, header, rows)
}

func sortedUnits(s overlap.SharedIngredient) []string {
	units := make([]string, 0, len(s.TotalQuantityByUnit))
	for unit := range s.TotalQuantityByUnit {
		units = append(units, unit)
	}
	sort.Strings(units)
	return units
}

func writeSheet(path, sheet string, header []interface{}, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("opening stream writer: %w", err)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

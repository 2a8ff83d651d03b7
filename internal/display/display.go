// Package display renders planner output for the terminal with lipgloss.
//
// A [Printer] writes styled lines to an io.Writer. Colors follow the
// writer: when it is not a terminal the output is plain text.
package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/hammamikhairi/ottoplan/internal/deduction"
	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/ingredient"
	"github.com/hammamikhairi/ottoplan/internal/matcher"
	"github.com/hammamikhairi/ottoplan/internal/overlap"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	titleColor     = lipgloss.Color("#bbf7d0") // soft mint, section headers
	primaryColor   = lipgloss.Color("#d4d4d8") // light zinc
	secondaryColor = lipgloss.Color("#71717a") // dimmed zinc, hints and metadata
	accentColor    = lipgloss.Color("#bae6fd") // soft sky blue
	warnColor      = lipgloss.Color("#fde68a") // soft amber, partial coverage
	urgentColor    = lipgloss.Color("#fca5a5") // soft coral, errors and shortfalls
	borderColor    = lipgloss.Color("#52525b") // muted slate
)

// Printer writes styled output.
type Printer struct {
	out       io.Writer
	title     lipgloss.Style
	primary   lipgloss.Style
	secondary lipgloss.Style
	accent    lipgloss.Style
	warn      lipgloss.Style
	urgent    lipgloss.Style
	border    lipgloss.Style
}

// New creates a printer writing to out.
func New(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:       out,
		title:     r.NewStyle().Foreground(titleColor).Bold(true),
		primary:   r.NewStyle().Foreground(primaryColor),
		secondary: r.NewStyle().Foreground(secondaryColor),
		accent:    r.NewStyle().Foreground(accentColor),
		warn:      r.NewStyle().Foreground(warnColor),
		urgent:    r.NewStyle().Foreground(urgentColor),
		border:    r.NewStyle().Foreground(borderColor),
	}
}

func (p *Printer) println(s string) {
	fmt.Fprintln(p.out, s)
}

// Title prints a section header.
func (p *Printer) Title(text string) {
	p.println(p.title.Render(text))
}

// Info prints a primary line.
func (p *Printer) Info(text string) {
	p.println(p.primary.Render("  " + text))
}

// Hint prints a secondary/dimmed line.
func (p *Printer) Hint(text string) {
	p.println(p.secondary.Render("  " + text))
}

// Urgent prints an error line.
func (p *Printer) Urgent(text string) {
	p.println(p.urgent.Render("  " + text))
}

func (p *Printer) table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.title.Padding(0, 1)
			}
			return p.primary.Padding(0, 1)
		})
	p.println(t.String())
}

// Pantry prints the pantry as a table.
func (p *Printer) Pantry(pantry *domain.Pantry) {
	p.Title("Pantry")
	if pantry == nil || len(pantry.Items) == 0 {
		p.Hint("empty, add stock with: ottoplan pantry add \"2 cups flour\"")
		return
	}
	rows := make([][]string, 0, len(pantry.Items))
	for _, it := range pantry.Items {
		rows = append(rows, []string{it.Name, ingredient.Format(it.Quantity, it.Unit), shortID(it.ID)})
	}
	p.table([]string{"Item", "Quantity", "ID"}, rows)
}

// Recipes prints recipe summaries.
func (p *Printer) Recipes(recipes []domain.RecipeSummary) {
	p.Title("Recipes")
	if len(recipes) == 0 {
		p.Hint("no recipes, load the built-in ones with: ottoplan recipes seed")
		return
	}
	for _, r := range recipes {
		line := p.accent.Render(r.ID) + "  " + p.primary.Render(r.Name)
		if len(r.Tags) > 0 {
			line += "  " + p.secondary.Render("["+strings.Join(r.Tags, ", ")+"]")
		}
		p.println("  " + line)
	}
}

// Recipe prints a full recipe.
func (p *Printer) Recipe(r *domain.Recipe) {
	p.Title(r.Name)
	if r.Description != "" {
		p.Hint(r.Description)
	}
	if r.Servings > 0 {
		p.Hint(fmt.Sprintf("serves %d", r.Servings))
	}
	for _, ing := range r.Ingredients {
		if ing.Quantity == 0 {
			p.Info(ing.Name + ", to taste")
			continue
		}
		p.Info(ingredient.Format(ing.Quantity, ing.Unit) + " " + ing.Name)
	}
}

// Matches prints scored recipes, best first.
func (p *Printer) Matches(scored []matcher.ScoredRecipe) {
	p.Title("What can I cook?")
	if len(scored) == 0 {
		p.Hint("no recipes to match")
		return
	}
	for _, s := range scored {
		m := s.Match
		style := p.urgent
		switch {
		case m.MatchPercentage == 100:
			style = p.title
		case m.MatchPercentage >= 50:
			style = p.warn
		}
		p.println(fmt.Sprintf("  %s %s %s",
			style.Render(fmt.Sprintf("%3d%%", m.MatchPercentage)),
			p.primary.Render(s.Recipe.Name),
			p.secondary.Render(fmt.Sprintf("(%d/%d)", m.MatchedCount, m.TotalIngredients))))
		for _, pm := range m.PartialMatches {
			if pm.MixedUnits {
				p.Hint(fmt.Sprintf("    ~ %s: have %s, needs %s (units differ)",
					pm.Name, ingredient.Format(pm.Have, pm.HaveUnit), ingredient.Format(pm.Needs, pm.Unit)))
				continue
			}
			p.Hint(fmt.Sprintf("    ~ %s: have %s of %s (%d%%)",
				pm.Name, ingredient.Format(pm.Have, pm.HaveUnit), ingredient.Format(pm.Needs, pm.Unit), pm.MatchPercent))
		}
		if len(m.MissingIngredients) > 0 {
			p.Hint("    missing: " + strings.Join(m.MissingIngredients, ", "))
		}
	}
}

// Cook prints the outcome of a cook attempt.
func (p *Printer) Cook(r *domain.Recipe, res deduction.Result, historyErr error) {
	switch res.State {
	case deduction.StateAlreadyCooked:
		p.Title(r.Name)
		p.Hint("already cooked for this slot, nothing deducted")
		return
	case deduction.StatePreview:
		p.Title(r.Name + " (preview)")
	case deduction.StateCommitted:
		p.Title(r.Name + " cooked")
	default:
		p.Title(r.Name)
		p.Urgent("not enough in the pantry, add --force to deduct what is there")
	}

	for _, e := range res.Plan {
		line := fmt.Sprintf("- %s %s (%s left)", ingredient.Format(e.DeductQty, e.Unit), e.PantryName, ingredient.Format(e.RemainingQty, e.Unit))
		if e.Partial {
			p.println(p.warn.Render("  " + line))
			continue
		}
		p.Info(line)
	}
	for _, s := range res.Insufficient {
		switch s.Reason {
		case matcher.CoverageMissing:
			p.Urgent(fmt.Sprintf("! %s: missing, needs %s", s.Name, ingredient.Format(s.Needed, s.Unit)))
		case matcher.CoverageIncompatible:
			p.Urgent(fmt.Sprintf("! %s: pantry unit cannot be compared with %s", s.Name, s.Unit))
		default:
			p.Urgent(fmt.Sprintf("! %s: have %s, needs %s", s.Name, ingredient.Format(s.Available, s.Unit), ingredient.Format(s.Needed, s.Unit)))
		}
	}
	if historyErr != nil {
		p.Urgent("cooking history not recorded: " + historyErr.Error())
	}
}

// Plan prints the weekly grid. names maps recipe ids to display names.
func (p *Printer) Plan(plan *domain.WeekPlan, names map[string]string) {
	p.Title(fmt.Sprintf("Plan %s (week of %s)", plan.ID, plan.WeekOf.Format("Jan 2")))
	rows := make([][]string, 0, domain.DaysPerWeek)
	for d := 0; d < domain.DaysPerWeek; d++ {
		row := []string{domain.Day(d).String()}
		for m := 0; m < domain.MealsPerDay; m++ {
			row = append(row, slotText(plan.Slots[d][m], names))
		}
		rows = append(rows, row)
	}
	p.table([]string{"", domain.Breakfast.String(), domain.Lunch.String(), domain.Dinner.String()}, rows)
}

func slotText(s *domain.MealSlot, names map[string]string) string {
	if s == nil {
		return "-"
	}
	name := s.RecipeID
	if n, ok := names[s.RecipeID]; ok {
		name = n
	}
	if s.Cooked {
		name += " ✓"
	}
	return name
}

// Shared prints the shared-ingredient report.
func (p *Printer) Shared(rep overlap.Report) {
	p.Title(fmt.Sprintf("Shared ingredients (%d recipes, %d shared)", rep.TotalRecipes, rep.TotalSharedIngredients))
	if len(rep.TopSharedIngredients) == 0 {
		p.Hint("no ingredient is used by more than one planned recipe")
		return
	}
	for _, s := range rep.TopSharedIngredients {
		qty := s.QuantityDisplay
		if s.HasMultipleUnits {
			qty += " (mixed units)"
		}
		p.println(fmt.Sprintf("  %s %s %s",
			p.accent.Render(s.Name),
			p.primary.Render(fmt.Sprintf("x%d", s.RecipeCount)),
			p.secondary.Render(qty)))
	}
}

// Shopping prints the shopping list.
func (p *Printer) Shopping(lines []overlap.ShoppingLine) {
	p.Title("Shopping list")
	if len(lines) == 0 {
		p.Hint("nothing to buy, the pantry covers the plan")
		return
	}
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		have := ""
		if l.InPantry > 0 {
			have = ingredient.Format(l.InPantry, l.Unit)
		}
		rows = append(rows, []string{l.Name, ingredient.Format(l.Quantity, l.Unit), have})
	}
	p.table([]string{"Item", "Buy", "In pantry"}, rows)
}

// History prints a recipe's cooking history.
func (p *Printer) History(name string, sum *domain.HistorySummary) {
	p.Title(name)
	p.Info(fmt.Sprintf("cooked %d times", sum.CookedCount))
	if len(sum.Ratings) == 0 {
		p.Hint("never rated")
		return
	}
	counts := make(map[int]int)
	for _, r := range sum.Ratings {
		counts[r]++
	}
	stars := make([]int, 0, len(counts))
	for r := range counts {
		stars = append(stars, r)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(stars)))
	for _, r := range stars {
		p.Hint(fmt.Sprintf("%s x%d", strings.Repeat("★", r), counts[r]))
	}
	p.Info(fmt.Sprintf("average %.1f", sum.AverageRating))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

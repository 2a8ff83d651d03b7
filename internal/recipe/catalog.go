// Package recipe provides the recipe catalog.
package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/google/go-cmp/cmp"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
	"github.com/hammamikhairi/ottoplan/internal/storage"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*Catalog)(nil)

// Catalog stores a user's recipes in the recipes collection.
type Catalog struct {
	store domain.DocumentStore
	log   *logger.Logger
}

// NewCatalog creates a catalog over store.
func NewCatalog(store domain.DocumentStore, log *logger.Logger) *Catalog {
	return &Catalog{store: store, log: log}
}

func key(user, id string) domain.DocKey {
	return domain.DocKey{User: user, Collection: domain.CollectionRecipes, ID: id}
}

// List returns summaries of all recipes sorted by name.
func (c *Catalog) List(ctx context.Context, user string) ([]domain.RecipeSummary, error) {
	all, err := c.All(ctx, user)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RecipeSummary, 0, len(all))
	for _, r := range all {
		out = append(out, summary(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	c.log.Debug("listing all recipes, count=%d", len(out))
	return out, nil
}

// All returns every recipe ordered by ID.
func (c *Catalog) All(ctx context.Context, user string) ([]domain.Recipe, error) {
	docs, err := c.store.ListAll(ctx, user, domain.CollectionRecipes)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	out := make([]domain.Recipe, 0, len(docs))
	for _, d := range docs {
		r, err := decode(d)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

// Get returns a recipe by ID.
func (c *Catalog) Get(ctx context.Context, user, id string) (*domain.Recipe, error) {
	doc, err := c.store.Get(ctx, key(user, id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.log.Debug("recipe not found: %s", id)
		}
		return nil, err
	}
	return decode(doc)
}

// Create saves a new recipe. An empty ID is derived from the name.
func (c *Catalog) Create(ctx context.Context, user string, r *domain.Recipe) error {
	if r.ID == "" {
		r.ID = Slug(r.Name)
	}
	if err := validate(r); err != nil {
		return err
	}
	v, err := storage.PutJSON(ctx, c.store, key(user, r.ID), r, 0)
	if err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			return fmt.Errorf("recipe %s: %w", r.ID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("create recipe %s: %w", r.ID, err)
	}
	r.Version = int(v)
	c.log.Info("recipe created: %s (v%d)", r.Name, r.Version)
	return nil
}

// Update replaces a recipe's name, description, servings and tags. Its
// ingredients are immutable once saved. r.Version must be the version that
// was read.
func (c *Catalog) Update(ctx context.Context, user string, r *domain.Recipe) error {
	old, err := c.Get(ctx, user, r.ID)
	if err != nil {
		return err
	}
	if !cmp.Equal(old.Ingredients, r.Ingredients) {
		return &domain.ValidationError{Field: "ingredients", Message: "ingredients cannot change once a recipe is saved"}
	}
	if err := validate(r); err != nil {
		return err
	}
	v, err := storage.PutJSON(ctx, c.store, key(user, r.ID), r, int64(r.Version))
	if err != nil {
		return fmt.Errorf("update recipe %s: %w", r.ID, err)
	}
	r.Version = int(v)
	c.log.Info("recipe updated: %s (v%d)", r.Name, r.Version)
	return nil
}

// Delete removes a recipe.
func (c *Catalog) Delete(ctx context.Context, user, id string) error {
	if err := c.store.Delete(ctx, key(user, id)); err != nil {
		return fmt.Errorf("delete recipe %s: %w", id, err)
	}
	c.log.Info("recipe deleted: %s", id)
	return nil
}

// Search returns recipes whose name, description, tags or ingredient names
// contain the query, sorted by name.
func (c *Catalog) Search(ctx context.Context, user, query string) ([]domain.RecipeSummary, error) {
	all, err := c.All(ctx, user)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	c.log.Debug("searching recipes for: %s", q)

	var out []domain.RecipeSummary
	for i := range all {
		if matches(&all[i], q) {
			out = append(out, summary(all[i]))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func matches(r *domain.Recipe, query string) bool {
	if strings.Contains(strings.ToLower(r.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), query) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing.Name), query) {
			return true
		}
	}
	return false
}

// Slug turns a recipe name into an ID: "Chicken Alfredo" -> "chicken-alfredo".
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func validate(r *domain.Recipe) error {
	if strings.TrimSpace(r.Name) == "" {
		return &domain.ValidationError{Field: "name", Message: "recipe name is required"}
	}
	if r.ID == "" {
		return &domain.ValidationError{Field: "id", Message: "recipe id is required"}
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return &domain.ValidationError{Field: fmt.Sprintf("ingredients[%d].name", i), Message: "ingredient name is required"}
		}
		// Zero is allowed for "to taste" amounts.
		if ing.Quantity < 0 {
			return &domain.ValidationError{Field: fmt.Sprintf("ingredients[%d].quantity", i), Message: "quantity cannot be negative"}
		}
	}
	return nil
}

func decode(d *domain.Document) (*domain.Recipe, error) {
	var r domain.Recipe
	if err := json.Unmarshal(d.Value, &r); err != nil {
		return nil, fmt.Errorf("decode recipe %s: %w", d.Key.ID, err)
	}
	r.Version = int(d.Version)
	return &r, nil
}

func summary(r domain.Recipe) domain.RecipeSummary {
	return domain.RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Tags:        r.Tags,
	}
}

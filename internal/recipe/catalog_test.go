package recipe

import (
	"context"
	"errors"
	"testing"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
	"github.com/hammamikhairi/ottoplan/internal/storage"
)

func seeded(t *testing.T) *Catalog {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	c := NewCatalog(storage.NewMemoryStore(log), log)
	if _, err := c.Seed(context.Background(), "u1"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return c
}

func TestCatalogList(t *testing.T) {
	c := seeded(t)
	recipes, err := c.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recipes) != len(Builtin()) {
		t.Fatalf("expected %d recipes, got %d", len(Builtin()), len(recipes))
	}
	for i := 1; i < len(recipes); i++ {
		if recipes[i-1].Name > recipes[i].Name {
			t.Fatalf("list not sorted by name: %q before %q", recipes[i-1].Name, recipes[i].Name)
		}
	}
}

func TestCatalogGet(t *testing.T) {
	c := seeded(t)
	ctx := context.Background()

	tests := []struct {
		id      string
		wantErr error
	}{
		{"chicken-alfredo", nil},
		{"vegetable-stir-fry", nil},
		{"nonexistent", domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			r, err := c.Get(ctx, "u1", tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.ID != tt.id {
				t.Fatalf("expected ID %s, got %s", tt.id, r.ID)
			}
			if len(r.Ingredients) == 0 {
				t.Fatal("recipe has no ingredients")
			}
			if r.Version != 1 {
				t.Fatalf("expected version 1, got %d", r.Version)
			}
		})
	}
}

func TestCatalogSearch(t *testing.T) {
	c := seeded(t)
	ctx := context.Background()

	tests := []struct {
		query string
		want  int
	}{
		{"chicken", 3},
		{"vegetarian", 2},
		{"GINGER", 1},
		{"nothing-matches", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			results, err := c.Search(ctx, "u1", tt.query)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(results) != tt.want {
				t.Fatalf("expected %d results for %q, got %d", tt.want, tt.query, len(results))
			}
		})
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	c := seeded(t)
	added, err := c.Seed(context.Background(), "u1")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if added != 0 {
		t.Fatalf("expected nothing added on reseed, got %d", added)
	}
}

func TestCreateDuplicate(t *testing.T) {
	c := seeded(t)
	err := c.Create(context.Background(), "u1", &domain.Recipe{Name: "Pancakes"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreateValidates(t *testing.T) {
	c := seeded(t)
	tests := []struct {
		name   string
		recipe domain.Recipe
		field  string
	}{
		{"no name", domain.Recipe{}, "name"},
		{"blank ingredient", domain.Recipe{Name: "Toast", Ingredients: []domain.Ingredient{{Name: " ", Quantity: 1}}}, "ingredients[0].name"},
		{"negative", domain.Recipe{Name: "Toast", Ingredients: []domain.Ingredient{{Name: "bread", Quantity: -1}}}, "ingredients[0].quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Create(context.Background(), "u1", &tt.recipe)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Fatalf("expected validation error on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestUpdateKeepsIngredients(t *testing.T) {
	c := seeded(t)
	ctx := context.Background()

	r, err := c.Get(ctx, "u1", "pancakes")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	r.Tags = append(r.Tags, "weekend")
	if err := c.Update(ctx, "u1", r); err != nil {
		t.Fatalf("update: %v", err)
	}
	if r.Version != 2 {
		t.Fatalf("expected version 2, got %d", r.Version)
	}

	stale := *r
	stale.Version = 1
	if err := c.Update(ctx, "u1", &stale); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	r.Ingredients = append(r.Ingredients, domain.Ingredient{Name: "vanilla", Quantity: 1, Unit: "tsp"})
	var verr *domain.ValidationError
	if err := c.Update(ctx, "u1", r); !errors.As(err, &verr) {
		t.Fatalf("expected ingredient change to be rejected, got %v", err)
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Chicken Alfredo":       "chicken-alfredo",
		"  Mom's  Best Chili! ": "mom-s-best-chili",
		"Crème brûlée":          "crème-brûlée",
	}
	for in, want := range tests {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

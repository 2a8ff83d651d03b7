package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/hammamikhairi/ottoplan/internal/domain"
)

// Seed adds the built-in recipes a user does not have yet and returns how
// many were added.
func (c *Catalog) Seed(ctx context.Context, user string) (int, error) {
	added := 0
	for _, r := range Builtin() {
		err := c.Create(ctx, user, r)
		switch {
		case err == nil:
			added++
		case errors.Is(err, domain.ErrAlreadyExists):
		default:
			return added, fmt.Errorf("seed: %w", err)
		}
	}
	c.log.Debug("seeded %d recipes for %s", added, user)
	return added, nil
}

// Builtin returns fresh copies of the built-in recipes.
func Builtin() []*domain.Recipe {
	return []*domain.Recipe{
		chickenAlfredo(),
		vegetableStirFry(),
		chickenFriedRice(),
		chickenNoodleSoup(),
		pancakes(),
	}
}

func chickenAlfredo() *domain.Recipe {
	return &domain.Recipe{
		ID:          "chicken-alfredo",
		Name:        "Chicken Alfredo",
		Description: "Creamy pasta with seared chicken and garlic.",
		Servings:    4,
		Tags:        []string{"pasta", "dinner", "chicken"},
		Ingredients: []domain.Ingredient{
			{Name: "spaghetti", Quantity: 250, Unit: "g"},
			{Name: "chicken breast", Quantity: 2, Unit: "piece"},
			{Name: "heavy cream", Quantity: 1, Unit: "cup"},
			{Name: "parmesan cheese", Quantity: 1, Unit: "cup"},
			{Name: "butter", Quantity: 3, Unit: "tbsp"},
			{Name: "garlic", Quantity: 4, Unit: "clove"},
			{Name: "olive oil", Quantity: 1, Unit: "tbsp"},
			{Name: "salt", Quantity: 0, Unit: ""},
			{Name: "black pepper", Quantity: 0, Unit: ""},
		},
	}
}

func vegetableStirFry() *domain.Recipe {
	return &domain.Recipe{
		ID:          "vegetable-stir-fry",
		Name:        "Vegetable Stir Fry",
		Description: "Quick weeknight vegetables in a soy-ginger sauce.",
		Servings:    2,
		Tags:        []string{"vegetarian", "quick", "dinner"},
		Ingredients: []domain.Ingredient{
			{Name: "bell pepper", Quantity: 1, Unit: "piece"},
			{Name: "broccoli florets", Quantity: 2, Unit: "cup"},
			{Name: "carrot", Quantity: 1, Unit: "piece"},
			{Name: "snap peas", Quantity: 1, Unit: "cup"},
			{Name: "garlic", Quantity: 3, Unit: "clove"},
			{Name: "fresh ginger", Quantity: 1, Unit: "tbsp"},
			{Name: "soy sauce", Quantity: 2, Unit: "tbsp"},
			{Name: "sesame oil", Quantity: 1, Unit: "tbsp"},
			{Name: "rice", Quantity: 1, Unit: "cup"},
		},
	}
}

func chickenFriedRice() *domain.Recipe {
	return &domain.Recipe{
		ID:          "chicken-fried-rice",
		Name:        "Chicken Fried Rice",
		Description: "Day-old rice fried with chicken, egg and green onion.",
		Servings:    3,
		Tags:        []string{"chicken", "rice", "lunch"},
		Ingredients: []domain.Ingredient{
			{Name: "rice", Quantity: 2, Unit: "cup"},
			{Name: "chicken breast", Quantity: 1, Unit: "piece"},
			{Name: "eggs", Quantity: 2, Unit: ""},
			{Name: "scallions", Quantity: 3, Unit: "piece"},
			{Name: "soy sauce", Quantity: 3, Unit: "tbsp"},
			{Name: "garlic", Quantity: 2, Unit: "clove"},
			{Name: "vegetable oil", Quantity: 2, Unit: "tbsp"},
		},
	}
}

func chickenNoodleSoup() *domain.Recipe {
	return &domain.Recipe{
		ID:          "chicken-noodle-soup",
		Name:        "Chicken Noodle Soup",
		Description: "Simple soup with egg noodles, carrots and celery.",
		Servings:    6,
		Tags:        []string{"soup", "chicken", "comfort"},
		Ingredients: []domain.Ingredient{
			{Name: "chicken breast", Quantity: 2, Unit: "piece"},
			{Name: "chicken broth", Quantity: 8, Unit: "cup"},
			{Name: "egg noodles", Quantity: 200, Unit: "g"},
			{Name: "carrots", Quantity: 2, Unit: "piece"},
			{Name: "celery", Quantity: 2, Unit: "stalk"},
			{Name: "onion", Quantity: 1, Unit: "piece"},
			{Name: "garlic", Quantity: 2, Unit: "clove"},
			{Name: "salt", Quantity: 0, Unit: ""},
		},
	}
}

func pancakes() *domain.Recipe {
	return &domain.Recipe{
		ID:          "pancakes",
		Name:        "Buttermilk Pancakes",
		Description: "Fluffy breakfast pancakes.",
		Servings:    4,
		Tags:        []string{"breakfast", "vegetarian"},
		Ingredients: []domain.Ingredient{
			{Name: "all-purpose flour", Quantity: 1.5, Unit: "cup"},
			{Name: "buttermilk", Quantity: 1.25, Unit: "cup"},
			{Name: "eggs", Quantity: 1, Unit: ""},
			{Name: "sugar", Quantity: 2, Unit: "tbsp"},
			{Name: "butter", Quantity: 3, Unit: "tbsp"},
			{Name: "baking powder", Quantity: 2, Unit: "tsp"},
			{Name: "salt", Quantity: 0.5, Unit: "tsp"},
		},
	}
}

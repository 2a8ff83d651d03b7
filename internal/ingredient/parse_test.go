package ingredient

import (
	"errors"
	"math"
	"testing"

	"github.com/hammamikhairi/ottoplan/internal/domain"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		input string
		want  domain.Ingredient
	}{
		{"1 1/2 cups flour", domain.Ingredient{Name: "flour", Quantity: 1.5, Unit: "cup"}},
		{"2 eggs", domain.Ingredient{Name: "eggs", Quantity: 2}},
		{"½ tsp salt", domain.Ingredient{Name: "salt", Quantity: 0.5, Unit: "tsp"}},
		{"1½ cup sugar", domain.Ingredient{Name: "sugar", Quantity: 1.5, Unit: "cup"}},
		{"3 cloves garlic", domain.Ingredient{Name: "garlic", Quantity: 3, Unit: "clove"}},
		{"16 fl oz whole milk", domain.Ingredient{Name: "whole milk", Quantity: 16, Unit: "fl oz"}},
		{"2 cups of milk", domain.Ingredient{Name: "milk", Quantity: 2, Unit: "cup"}},
		{"0,5 kg rice", domain.Ingredient{Name: "rice", Quantity: 0.5, Unit: "kg"}},
		{"3/4 cup brown sugar", domain.Ingredient{Name: "brown sugar", Quantity: 0.75, Unit: "cup"}},
		{"1 can chickpeas", domain.Ingredient{Name: "chickpeas", Quantity: 1, Unit: "can"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLine(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Name != tt.want.Name || got.Unit != tt.want.Unit || math.Abs(got.Quantity-tt.want.Quantity) > 1e-9 {
				t.Fatalf("ParseLine(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLineErrors(t *testing.T) {
	tests := []struct {
		input string
		field string
	}{
		{"", "ingredient"},
		{"flour", "quantity"},
		{"0 cups flour", "quantity"},
		{"2 cups", "name"},
		{"1/0 cup flour", "quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseLine(tt.input)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Fatalf("expected field %q, got %q (%v)", tt.field, verr.Field, err)
			}
		})
	}
}

func TestValidateRejectsNonFinite(t *testing.T) {
	for _, q := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		var verr *domain.ValidationError
		if err := Validate(domain.Ingredient{Name: "rice", Quantity: q, Unit: "cup"}); !errors.As(err, &verr) || verr.Field != "quantity" {
			t.Fatalf("quantity %v: expected quantity ValidationError, got %v", q, err)
		}
	}
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/ingredient"
	"github.com/hammamikhairi/ottoplan/internal/storage"
)

// LoadPantry reads the user's pantry. A user without one gets an empty
// pantry at version 0.
func (e *Engine) LoadPantry(ctx context.Context, user string) (*domain.Pantry, error) {
	p := &domain.Pantry{}
	v, err := storage.GetJSON(ctx, e.store, pantryKey(user), p)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Pantry{Items: []domain.PantryItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading pantry: %w", err)
	}
	p.Version = v
	return p, nil
}

// SavePantry writes the pantry if nobody else wrote it since it was loaded,
// otherwise it returns ErrVersionConflict and the caller must re-fetch. On
// success p.Version is updated.
func (e *Engine) SavePantry(ctx context.Context, user string, p *domain.Pantry) error {
	v, err := storage.PutJSON(ctx, e.store, pantryKey(user), p, p.Version)
	if err != nil {
		return fmt.Errorf("saving pantry: %w", err)
	}
	p.Version = v
	return nil
}

// editPantry applies fn to a fresh snapshot and saves it, re-fetching on
// version conflicts.
func (e *Engine) editPantry(ctx context.Context, user string, fn func(p *domain.Pantry) error) (*domain.Pantry, error) {
	for attempt := 0; ; attempt++ {
		p, err := e.LoadPantry(ctx, user)
		if err != nil {
			return nil, err
		}
		if err := fn(p); err != nil {
			return nil, err
		}
		err = e.SavePantry(ctx, user, p)
		if err == nil {
			return p, nil
		}
		if !isConflict(err) || attempt >= e.retries {
			return nil, err
		}
		e.log.Debug("pantry conflict for %s, retrying (%d/%d)", user, attempt+1, e.retries)
	}
}

// AddPantryItem adds stock. Validation problems are reported in the result,
// never as an error. Stock of an ingredient already held in the same unit
// is merged into the existing item.
func (e *Engine) AddPantryItem(ctx context.Context, user string, ing domain.Ingredient) (domain.Result, error) {
	ing.Name = strings.TrimSpace(ing.Name)
	ing.Unit = ingredient.Canonical(ing.Unit)
	if err := ingredient.Validate(ing); err != nil {
		return domain.Fail(err), nil
	}

	norm := e.match.Converter().Normalizer()
	key := norm.Normalize(ing.Name)

	var added domain.PantryItem
	_, err := e.editPantry(ctx, user, func(p *domain.Pantry) error {
		for i := range p.Items {
			it := &p.Items[i]
			if norm.Normalize(it.Name) == key && ingredient.SameUnit(it.Unit, ing.Unit) {
				it.Quantity += ing.Quantity
				added = *it
				return nil
			}
		}
		added = domain.PantryItem{
			ID:       generateID(),
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
			AddedAt:  e.now(),
		}
		p.Items = append(p.Items, added)
		return nil
	})
	if err != nil {
		return domain.Result{}, err
	}

	e.log.Info("pantry: %s now %s", added.Name, ingredient.Format(added.Quantity, added.Unit))
	return domain.Result{Success: true, Item: &added}, nil
}

// AddPantryLine parses a free-text line such as "2 cups flour" and adds it.
func (e *Engine) AddPantryLine(ctx context.Context, user, line string) (domain.Result, error) {
	ing, err := ingredient.ParseLine(line)
	if err != nil {
		return domain.Fail(err), nil
	}
	return e.AddPantryItem(ctx, user, ing)
}

// SetPantryQuantity overwrites an item's quantity. Zero removes the item.
func (e *Engine) SetPantryQuantity(ctx context.Context, user, id string, qty float64) (domain.Result, error) {
	if qty < 0 {
		return domain.Fail(&domain.ValidationError{Field: "quantity", Message: "quantity cannot be negative"}), nil
	}
	if math.IsNaN(qty) || math.IsInf(qty, 0) {
		return domain.Fail(&domain.ValidationError{Field: "quantity", Message: "quantity must be a finite number"}), nil
	}
	var item domain.PantryItem
	_, err := e.editPantry(ctx, user, func(p *domain.Pantry) error {
		i := p.Find(id)
		if i < 0 {
			return fmt.Errorf("pantry item %s: %w", id, domain.ErrNotFound)
		}
		p.Items[i].Quantity = qty
		item = p.Items[i]
		if qty == 0 {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
		}
		return nil
	})
	if err != nil {
		return domain.Result{}, err
	}
	return domain.Result{Success: true, Item: &item}, nil
}

// RemovePantryItem deletes an item by id.
func (e *Engine) RemovePantryItem(ctx context.Context, user, id string) error {
	_, err := e.editPantry(ctx, user, func(p *domain.Pantry) error {
		i := p.Find(id)
		if i < 0 {
			return fmt.Errorf("pantry item %s: %w", id, domain.ErrNotFound)
		}
		p.Items = append(p.Items[:i], p.Items[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	e.log.Info("pantry: removed %s", id)
	return nil
}

package ingredient

import (
	"sort"
	"strings"
)

// UnitCategory groups units that measure the same kind of quantity.
type UnitCategory int

const (
	// CategoryUnspecified covers the empty unit and unknown unit strings.
	CategoryUnspecified UnitCategory = iota
	// CategoryVolume covers liquid and dry measures (ml, cup, tbsp, ...).
	CategoryVolume
	// CategoryMass covers weights (g, kg, oz, lb).
	CategoryMass
	// CategoryCount covers pieces and containers (piece, can, clove, ...).
	CategoryCount
)

// String returns a human-readable category.
func (c UnitCategory) String() string {
	switch c {
	case CategoryVolume:
		return "volume"
	case CategoryMass:
		return "mass"
	case CategoryCount:
		return "count"
	default:
		return "unspecified"
	}
}

// Dimensions. Units of one dimension convert linearly through its base
// (ml, g, piece). Container units (can, clove, stick, ...) are countable
// but each is its own dimension: a can is not a piece.
const (
	dimVolume = "volume"
	dimMass   = "mass"
	dimPiece  = "piece"
)

type unitDef struct {
	canonical string
	category  UnitCategory
	dim       string
	toBase    float64
}

func volume(name string, ml float64) unitDef {
	return unitDef{canonical: name, category: CategoryVolume, dim: dimVolume, toBase: ml}
}

func mass(name string, g float64) unitDef {
	return unitDef{canonical: name, category: CategoryMass, dim: dimMass, toBase: g}
}

func count(name string, pieces float64) unitDef {
	return unitDef{canonical: name, category: CategoryCount, dim: dimPiece, toBase: pieces}
}

func container(name string) unitDef {
	return unitDef{canonical: name, category: CategoryCount, dim: name, toBase: 1}
}

var (
	unitTeaspoon    = volume("tsp", 4.92892159375)
	unitTablespoon  = volume("tbsp", 14.78676478125)
	unitCup         = volume("cup", 236.5882365)
	unitFluidOunce  = volume("fl oz", 29.5735295625)
	unitMilliliter  = volume("ml", 1)
	unitLiter       = volume("l", 1000)
	unitPint        = volume("pint", 473.176473)
	unitQuart       = volume("quart", 946.352946)
	unitGallon      = volume("gallon", 3785.411784)
	unitPinch       = volume("pinch", 4.92892159375/16)
	unitDash        = volume("dash", 4.92892159375/8)
	unitGram        = mass("g", 1)
	unitKilogram    = mass("kg", 1000)
	unitMilligram   = mass("mg", 0.001)
	unitOunce       = mass("oz", 28.349523125)
	unitPound       = mass("lb", 453.59237)
	unitPiece       = count("piece", 1)
	unitDozen       = count("dozen", 12)
	unitUnspecified = unitDef{canonical: "", category: CategoryUnspecified, dim: dimPiece, toBase: 1}
)

// unitTable maps every accepted spelling to its definition. Lookups are
// lower-cased, trimmed, and have periods removed first.
var unitTable = map[string]unitDef{
	"":            unitUnspecified,
	"tsp":         unitTeaspoon,
	"teaspoon":    unitTeaspoon,
	"tbsp":        unitTablespoon,
	"tbs":         unitTablespoon,
	"tbl":         unitTablespoon,
	"tablespoon":  unitTablespoon,
	"cup":         unitCup,
	"fl oz":       unitFluidOunce,
	"floz":        unitFluidOunce,
	"fluid ounce": unitFluidOunce,
	"ml":          unitMilliliter,
	"milliliter":  unitMilliliter,
	"millilitre":  unitMilliliter,
	"l":           unitLiter,
	"liter":       unitLiter,
	"litre":       unitLiter,
	"pint":        unitPint,
	"pt":          unitPint,
	"quart":       unitQuart,
	"qt":          unitQuart,
	"gallon":      unitGallon,
	"gal":         unitGallon,
	"pinch":       unitPinch,
	"dash":        unitDash,
	"g":           unitGram,
	"gram":        unitGram,
	"gramme":      unitGram,
	"kg":          unitKilogram,
	"kilogram":    unitKilogram,
	"mg":          unitMilligram,
	"milligram":   unitMilligram,
	"oz":          unitOunce,
	"ounce":       unitOunce,
	"lb":          unitPound,
	"lbs":         unitPound,
	"pound":       unitPound,
	"piece":       unitPiece,
	"pc":          unitPiece,
	"pcs":         unitPiece,
	"each":        unitPiece,
	"ea":          unitPiece,
	"whole":       unitPiece,
	"item":        unitPiece,
	"dozen":       unitDozen,
	"can":         container("can"),
	"tin":         container("can"),
	"clove":       container("clove"),
	"head":        container("head"),
	"stick":       container("stick"),
	"bunch":       container("bunch"),
	"slice":       container("slice"),
	"loaf":        container("loaf"),
	"package":     container("package"),
	"pkg":         container("package"),
	"pack":        container("package"),
	"jar":         container("jar"),
	"bottle":      container("bottle"),
	"sprig":       container("sprig"),
	"stalk":       container("stalk"),
}

// liquidWords mark ingredients whose "oz" means fluid ounces. They are
// compared against the last word of the normalized name, so "sour cream"
// is liquid and "cream cheese" is not.
var liquidWords = map[string]bool{
	"milk": true, "water": true, "cream": true, "broth": true, "stock": true,
	"juice": true, "oil": true, "vinegar": true, "wine": true, "sauce": true,
	"syrup": true, "beer": true, "buttermilk": true,
}

// Equivalence states that one From of Ingredient equals Amount To, for
// example 1 can of canned tomato = 411 ml. Densities are equivalences
// between a volume and a mass unit.
type Equivalence struct {
	Ingredient string
	From       string
	Amount     float64
	To         string
}

// builtinEquivalences are the ingredient-specific cross-dimension bridges.
// Per ingredient they must not form cycles; redundant ones are ignored.
var builtinEquivalences = []Equivalence{
	// Densities.
	{"flour", "cup", 125, "g"},
	{"sugar", "cup", 200, "g"},
	{"brown sugar", "cup", 220, "g"},
	{"powdered sugar", "cup", 120, "g"},
	{"butter", "cup", 227, "g"},
	{"milk", "cup", 244, "g"},
	{"water", "cup", 236.5882365, "g"},
	{"heavy cream", "cup", 238, "g"},
	{"yogurt", "cup", 245, "g"},
	{"rice", "cup", 185, "g"},
	{"oil", "cup", 218, "g"},
	{"honey", "cup", 340, "g"},
	{"salt", "tsp", 6, "g"},
	{"cornstarch", "cup", 128, "g"},
	{"oat", "cup", 80, "g"},
	{"cheese", "cup", 113, "g"},

	// Containers.
	{"butter", "stick", 8, "tbsp"},
	{"canned tomato", "can", 411, "ml"},
	{"tomato paste", "can", 170, "g"},
	{"bean", "can", 1.5, "cup"},
	{"chickpea", "can", 1.5, "cup"},
	{"coconut milk", "can", 400, "ml"},
	{"broth", "can", 430, "ml"},
	{"stock", "can", 430, "ml"},
	{"garlic", "head", 10, "clove"},
	{"garlic", "clove", 5, "g"},
	{"garlic", "clove", 1, "tsp"},
	{"green onion", "bunch", 8, "piece"},
	{"spaghetti", "package", 454, "g"},
	{"pasta", "package", 454, "g"},
	{"bread", "loaf", 20, "slice"},
	{"bread", "slice", 28, "g"},

	// Piece weights.
	{"egg", "piece", 50, "g"},
	{"onion", "piece", 150, "g"},
	{"green onion", "piece", 15, "g"},
	{"chicken breast", "piece", 200, "g"},
	{"carrot", "piece", 60, "g"},
	{"potato", "piece", 170, "g"},
	{"tomato", "piece", 120, "g"},
	{"bell pepper", "piece", 150, "g"},
}

type edge struct {
	from, to string
	ratio    float64 // one base unit of from = ratio base units of to
}

// Converter converts quantities between units for a named ingredient.
// A Converter is immutable after construction and safe for concurrent use.
type Converter struct {
	norm  *Normalizer
	edges map[string][]edge // normalized ingredient key -> bridges
	keys  []string          // bridge keys, longest first
}

var defaultConverter = NewConverter(Default())

// DefaultConverter returns a converter with the built-in tables.
func DefaultConverter() *Converter {
	return defaultConverter
}

// Convert converts with the built-in tables.
func Convert(quantity float64, fromUnit, toUnit, ingredientName string) (float64, bool) {
	return defaultConverter.Convert(quantity, fromUnit, toUnit, ingredientName)
}

// NewConverter builds a converter using n to canonicalize ingredient names.
// Extra equivalences are added after the built-in ones.
func NewConverter(n *Normalizer, extra ...Equivalence) *Converter {
	if n == nil {
		n = Default()
	}
	c := &Converter{norm: n, edges: make(map[string][]edge)}
	all := append(append([]Equivalence(nil), builtinEquivalences...), extra...)
	for _, eq := range all {
		key := n.Normalize(eq.Ingredient)
		from, to := lookupUnit(eq.From), lookupUnit(eq.To)
		if key == "" || eq.Amount <= 0 || from.dim == to.dim {
			continue
		}
		c.edges[key] = append(c.edges[key], edge{
			from:  from.dim,
			to:    to.dim,
			ratio: eq.Amount * to.toBase / from.toBase,
		})
	}
	for k := range c.edges {
		c.keys = append(c.keys, k)
	}
	sort.Slice(c.keys, func(i, j int) bool {
		if len(c.keys[i]) != len(c.keys[j]) {
			return len(c.keys[i]) > len(c.keys[j])
		}
		return c.keys[i] < c.keys[j]
	})
	return c
}

// Convert returns quantity expressed in toUnit. The boolean is false when
// the units are incompatible for this ingredient; callers must treat that
// as "cannot compare", never as zero.
func (c *Converter) Convert(quantity float64, fromUnit, toUnit, ingredientName string) (float64, bool) {
	key := c.norm.Normalize(ingredientName)
	from := resolveFor(fromUnit, key)
	to := resolveFor(toUnit, key)

	if from.dim == to.dim {
		return quantity * from.toBase / to.toBase, true
	}

	factor, ok := c.bridge(key, from.dim, to.dim)
	if !ok {
		return 0, false
	}
	return quantity * from.toBase * factor / to.toBase, true
}

// Compatible reports whether Convert would succeed.
func (c *Converter) Compatible(fromUnit, toUnit, ingredientName string) bool {
	_, ok := c.Convert(1, fromUnit, toUnit, ingredientName)
	return ok
}

// Normalizer returns the normalizer the converter canonicalizes names with.
func (c *Converter) Normalizer() *Normalizer {
	return c.norm
}

// Category returns the measurement category of a unit.
func Category(unit string) UnitCategory {
	return lookupUnit(unit).category
}

// Canonical returns the canonical spelling of a unit ("Cups" -> "cup").
// Unknown units come back cleaned but otherwise unchanged.
func Canonical(unit string) string {
	return lookupUnit(unit).canonical
}

// SameUnit reports whether two unit spellings name the same unit.
func SameUnit(a, b string) bool {
	return Canonical(a) == Canonical(b)
}

func resolveFor(unit, ingredientKey string) unitDef {
	def := lookupUnit(unit)
	if def.canonical == "oz" && isLiquid(ingredientKey) {
		return unitFluidOunce
	}
	return def
}

func isLiquid(key string) bool {
	if i := strings.LastIndexByte(key, ' '); i >= 0 {
		key = key[i+1:]
	}
	return liquidWords[key]
}

func cleanUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	u = strings.ReplaceAll(u, ".", "")
	return strings.Join(strings.Fields(u), " ")
}

func lookupUnit(unit string) unitDef {
	u := cleanUnit(unit)
	if def, ok := unitTable[u]; ok {
		return def
	}
	for _, suffix := range []string{"es", "s"} {
		if base, ok := strings.CutSuffix(u, suffix); ok {
			if def, ok := unitTable[base]; ok {
				return def
			}
		}
	}
	if strings.HasPrefix(u, "fluid ounce") {
		return unitFluidOunce
	}
	// Unknown units are their own dimension and only convert to themselves.
	return unitDef{canonical: u, category: CategoryUnspecified, dim: "unit:" + u, toBase: 1}
}

// bridge finds the factor converting one base unit of from into base units
// of to by walking the ingredient's equivalence graph. Edges are added most
// specific key first and an edge joining already connected dimensions is
// skipped, so the graph is a forest and the path between two dimensions is
// unique. That keeps conversions in both directions exact reciprocals.
func (c *Converter) bridge(key, from, to string) (float64, bool) {
	if key == "" {
		return 0, false
	}

	adj := make(map[string][]edge)
	parent := make(map[string]string)
	var root func(string) string
	root = func(d string) string {
		p, ok := parent[d]
		if !ok || p == d {
			return d
		}
		r := root(p)
		parent[d] = r
		return r
	}

	for _, k := range c.keys {
		if !keyApplies(k, key) {
			continue
		}
		for _, e := range c.edges[k] {
			ra, rb := root(e.from), root(e.to)
			if ra == rb {
				continue
			}
			parent[ra] = rb
			adj[e.from] = append(adj[e.from], e)
			adj[e.to] = append(adj[e.to], edge{from: e.to, to: e.from, ratio: 1 / e.ratio})
		}
	}

	type step struct {
		dim    string
		factor float64
	}
	seen := map[string]bool{from: true}
	queue := []step{{from, 1}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.dim == to {
			return cur.factor, true
		}
		for _, e := range adj[cur.dim] {
			if seen[e.to] {
				continue
			}
			seen[e.to] = true
			queue = append(queue, step{e.to, cur.factor * e.ratio})
		}
	}
	return 0, false
}

// keyApplies reports whether bridges registered for bridgeKey apply to an
// ingredient: the keys are equal or the ingredient name ends with the
// bridge key as a whole word ("bread flour" uses "flour").
func keyApplies(bridgeKey, ingredientKey string) bool {
	return ingredientKey == bridgeKey || strings.HasSuffix(ingredientKey, " "+bridgeKey)
}

package ingredient

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// builtinAliases maps alternate spellings and regional names to one
// canonical name. Keys and values are canonicalized when a Normalizer is
// built, so they can be written naturally here.
var builtinAliases = map[string]string{
	// Produce.
	"scallion":         "green onion",
	"spring onion":     "green onion",
	"aubergine":        "eggplant",
	"courgette":        "zucchini",
	"capsicum":         "bell pepper",
	"fresh coriander":  "cilantro",
	"coriander leaves": "cilantro",
	"garbanzo bean":    "chickpea",
	"rocket":           "arugula",
	"prawn":            "shrimp",
	"yoghurt":          "yogurt",
	"chilli":           "chili",
	"chili pepper":     "chili",
	"garlic clove":     "garlic",
	"clove of garlic":  "garlic",
	"tinned tomato":    "canned tomato",

	// Baking.
	"all purpose flour":   "flour",
	"all-purpose flour":   "flour",
	"ap flour":            "flour",
	"plain flour":         "flour",
	"white flour":         "flour",
	"granulated sugar":    "sugar",
	"white sugar":         "sugar",
	"caster sugar":        "sugar",
	"confectioners sugar": "powdered sugar",
	"icing sugar":         "powdered sugar",
	"cornflour":           "cornstarch",
	"corn starch":         "cornstarch",
	"bicarbonate of soda": "baking soda",
	"bicarb":              "baking soda",

	// Dairy and fats.
	"double cream":           "heavy cream",
	"heavy whipping cream":   "heavy cream",
	"whipping cream":         "heavy cream",
	"single cream":           "light cream",
	"whole milk":             "milk",
	"extra virgin olive oil": "olive oil",
	"evoo":                   "olive oil",
	"unsalted butter":        "butter",
	"salted butter":          "butter",
	"large egg":              "egg",

	"kosher salt":     "salt",
	"sea salt":        "salt",
	"table salt":      "salt",
	"minced beef":     "ground beef",
	"beef mince":      "ground beef",
	"spaghetti pasta": "spaghetti",

	"boneless skinless chicken breast": "chicken breast",
}

// irregularPlurals covers words the suffix rules get wrong. Every value is
// left unchanged by singularize.
var irregularPlurals = map[string]string{
	"leaves":   "leaf",
	"loaves":   "loaf",
	"halves":   "half",
	"cloves":   "clove",
	"olives":   "olive",
	"chives":   "chive",
	"cheeses":  "cheese",
	"cookies":  "cookie",
	"brownies": "brownie",
	"molasses": "molasses",
	"lettuces": "lettuce",
}

// LoadAliases reads a YAML alias file and returns a Normalizer with the
// built-in aliases plus the file's entries. The file is a flat mapping:
//
//	aliases:
//	  spring onions: green onion
//	  swede: rutabaga
//
// A missing file is not an error; it yields the default normalizer.
func LoadAliases(path string) (*Normalizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading alias file: %w", err)
	}

	var file struct {
		Aliases map[string]string `yaml:"aliases"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing alias file: %w", err)
	}

	n, err := newNormalizer(file.Aliases)
	if err != nil {
		return nil, fmt.Errorf("alias file %s: %w", path, err)
	}
	return n, nil
}

// resolveAliases canonicalizes both sides of every alias, registers keys in
// cleaned and singular form, and follows chains so that no target is itself
// a key. Cycles are reported as errors.
// Later layers override earlier ones.
func resolveAliases(layers ...map[string]string) (map[string]string, error) {
	canon := make(map[string]string)
	for _, raw := range layers {
		for k, v := range raw {
			to := singularizePhrase(clean(v))
			if to == "" {
				continue
			}
			for _, key := range []string{clean(k), singularizePhrase(clean(k))} {
				if key != "" && key != to {
					canon[key] = to
				}
			}
		}
	}

	out := make(map[string]string, len(canon))
	for k := range canon {
		to, err := follow(canon, k)
		if err != nil {
			return nil, err
		}
		if to != k {
			out[k] = to
		}
	}
	return out, nil
}

func follow(m map[string]string, start string) (string, error) {
	seen := map[string]bool{start: true}
	cur := m[start]
	for {
		next, ok := m[cur]
		if !ok || next == cur {
			return cur, nil
		}
		if seen[cur] {
			return "", fmt.Errorf("alias cycle through %q", start)
		}
		seen[cur] = true
		cur = next
	}
}

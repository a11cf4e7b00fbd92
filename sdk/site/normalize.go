package site

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

var wordSplitter = regexp.MustCompile(`[-_\s]+`)

// NormalizeMenu turns the raw server item array into UI-friendly categories:
// unavailable and malformed entries are dropped, items are grouped by
// category, and both item and category order is made stable by sorting
// alphabetically. The input is parsed tolerantly because older server
// versions send ingredients as comma-separated strings and dietary flags as
// 0/1 instead of booleans.
func NormalizeMenu(raw []byte) []MenuCategory {
	parsed := gjson.ParseBytes(raw)
	if !parsed.IsArray() {
		return []MenuCategory{}
	}

	grouped := make(map[string][]MenuEntry)
	parsed.ForEach(func(_, it gjson.Result) bool {
		if !it.IsObject() {
			return true
		}
		// Only an absent flag or a literal true keeps the item; truthy
		// non-boolean values such as 1 or "yes" drop it.
		if avail := it.Get("is_available"); avail.Exists() && avail.Type != gjson.True {
			return true
		}
		cat := strings.TrimSpace(it.Get("category").String())
		if cat == "" {
			cat = "uncategorized"
		}
		entry := MenuEntry{
			ID:                 it.Get("id").Int(),
			Name:               stringOr(it.Get("name"), "Untitled"),
			Description:        it.Get("description").String(),
			Price:              it.Get("price").Float(),
			BasePrice:          it.Get("base_price").Float(),
			Ingredients:        normalizeIngredients(it.Get("ingredients")),
			Vegan:              flagSet(it.Get("vegan")),
			GlutenFree:         flagSet(it.Get("gluten_free")),
			PiecesPerOrder:     positiveInt(it.Get("pieces_per_order")),
			BasePiecesPerOrder: positiveInt(it.Get("base_pieces_per_order")),
			ActiveOverride:     rawOrNil(it.Get("active_override")),
			Reviews:            rawOrNil(it.Get("reviews")),
		}
		grouped[cat] = append(grouped[cat], entry)
		return true
	})

	categories := make([]MenuCategory, 0, len(grouped))
	for name, items := range grouped {
		sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
		categories = append(categories, MenuCategory{Name: titleCase(name), Items: items})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories
}

func titleCase(s string) string {
	words := wordSplitter.Split(s, -1)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// normalizeIngredients accepts either a JSON array or a comma-separated
// string and returns a trimmed, empty-free slice.
func normalizeIngredients(v gjson.Result) []string {
	out := []string{}
	switch {
	case v.IsArray():
		v.ForEach(func(_, item gjson.Result) bool {
			if s := strings.TrimSpace(item.String()); s != "" {
				out = append(out, s)
			}
			return true
		})
	case v.Type == gjson.String:
		for _, part := range strings.Split(v.String(), ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// flagSet treats true and 1 as set, anything else as unset.
func flagSet(v gjson.Result) bool {
	return v.Type == gjson.True || (v.Type == gjson.Number && v.Int() == 1)
}

func positiveInt(v gjson.Result) int {
	if v.Type != gjson.Number {
		return 0
	}
	if n := int(v.Int()); n > 0 {
		return n
	}
	return 0
}

func stringOr(v gjson.Result, fallback string) string {
	if s := v.String(); s != "" {
		return s
	}
	return fallback
}

func rawOrNil(v gjson.Result) json.RawMessage {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	return json.RawMessage(v.Raw)
}

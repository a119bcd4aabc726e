package model

// Built-in category keys. Users can add custom categories and hide or rename
// the built-ins through the CategoryRegistry; the keys themselves are stable
// and are what transactions store.
const (
	CategorySupermercado  = "supermercado"
	CategoryAlimentacao   = "alimentacao"
	CategoryTransporte    = "transporte"
	CategoryAjudaMae      = "ajuda_mae"
	CategorySaude         = "saude"
	CategoryLazer         = "lazer"
	CategoryInvestimentos = "investimentos"
	CategoryFixas         = "fixas"
	CategoryCompras       = "compras"
	CategoryOutros        = "outros"
)

// BuiltinCategories lists the built-in category keys in display order.
func BuiltinCategories() []string {
	return []string{
		CategorySupermercado,
		CategoryAlimentacao,
		CategoryTransporte,
		CategoryAjudaMae,
		CategorySaude,
		CategoryLazer,
		CategoryInvestimentos,
		CategoryFixas,
		CategoryCompras,
		CategoryOutros,
	}
}

// Category describes one entry of the category registry: a built-in or a
// user-defined category, possibly hidden or renamed.
type Category struct {
	Key     string
	Label   string // Display name; defaults to the key
	Builtin bool
	Hidden  bool
}

// CategoryRegistry resolves category keys to display state, layering user
// customizations (custom categories, hides, renames) over the built-ins.
type CategoryRegistry struct {
	entries map[string]Category
	order   []string
}

// NewCategoryRegistry builds a registry seeded with the built-in categories.
func NewCategoryRegistry() *CategoryRegistry {
	r := &CategoryRegistry{entries: make(map[string]Category)}
	for _, key := range BuiltinCategories() {
		r.entries[key] = Category{Key: key, Label: key, Builtin: true}
		r.order = append(r.order, key)
	}
	return r
}

// Add registers a user-defined category. Adding an existing key is a no-op so
// re-applying stored customizations stays idempotent.
func (r *CategoryRegistry) Add(key string) {
	if _, ok := r.entries[key]; ok {
		return
	}
	r.entries[key] = Category{Key: key, Label: key}
	r.order = append(r.order, key)
}

// Rename changes the display label of a category. The key is unchanged, so
// existing transactions keep resolving.
func (r *CategoryRegistry) Rename(key, label string) bool {
	c, ok := r.entries[key]
	if !ok {
		return false
	}
	c.Label = label
	r.entries[key] = c
	return true
}

// Hide removes a category from listings without touching transactions that
// reference it.
func (r *CategoryRegistry) Hide(key string) bool {
	c, ok := r.entries[key]
	if !ok {
		return false
	}
	c.Hidden = true
	r.entries[key] = c
	return true
}

// Label resolves a category key to its display label, falling back to the key
// itself for unknown (e.g. deleted custom) categories.
func (r *CategoryRegistry) Label(key string) string {
	if c, ok := r.entries[key]; ok {
		return c.Label
	}
	return key
}

// Visible returns the non-hidden categories in registration order.
func (r *CategoryRegistry) Visible() []Category {
	var out []Category
	for _, key := range r.order {
		if c := r.entries[key]; !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

// All returns every registered category, hidden ones included.
func (r *CategoryRegistry) All() []Category {
	out := make([]Category, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.entries[key])
	}
	return out
}

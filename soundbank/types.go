package soundbank

import "slices"

// Theme names a keyboard sound set
type Theme string

// Category names a semantic key class within a theme (enter, backspace, space, ...)
type Category string

// CategorySet is a read-only membership set of categories
type CategorySet map[Category]struct{}

// NewCategorySet builds a set from the given categories
func NewCategorySet(cats ...Category) CategorySet {
	set := make(CategorySet, len(cats))
	for _, c := range cats {
		set[c] = struct{}{}
	}
	return set
}

// Has reports membership; nil set contains nothing
func (s CategorySet) Has(c Category) bool {
	_, ok := s[c]
	return ok
}

// Sorted returns the members in lexical order
func (s CategorySet) Sorted() []Category {
	out := make([]Category, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// CategoryAssets lists the asset files for one category
type CategoryAssets struct {
	Name   Category
	Assets []string
}

// ThemeAssets lists the categories of one theme in document order
type ThemeAssets struct {
	Name       Theme
	Categories []CategoryAssets
}

// Config is a validated sound bank
// Treated as immutable once handed to an Engine, which keeps its own copy
type Config struct {
	BasePath          string
	DefaultTheme      Theme
	PreferredCategory Category
	Themes            []ThemeAssets
}

// Validate applies the document rules to a typed config, fail-fast in the same order
func (c *Config) Validate() error {
	if c.BasePath == "" {
		return newError(KindInvalidPath, "")
	}
	def := c.theme(c.DefaultTheme)
	if def == nil {
		return newError(KindInvalidDefaultTheme, string(c.DefaultTheme))
	}
	if def.category(c.PreferredCategory) == nil {
		return newError(KindInvalidPreferredCategory, string(c.PreferredCategory))
	}
	for _, t := range c.Themes {
		for _, cat := range t.Categories {
			if len(cat.Assets) == 0 {
				return newError(KindInvalidAssetList, string(t.Name)+"/"+string(cat.Name))
			}
			for _, file := range cat.Assets {
				if file == "" {
					return newError(KindInvalidAssetList, string(t.Name)+"/"+string(cat.Name))
				}
			}
		}
	}
	return nil
}

// ThemeNames returns theme names in document order
func (c *Config) ThemeNames() []Theme {
	names := make([]Theme, len(c.Themes))
	for i, t := range c.Themes {
		names[i] = t.Name
	}
	return names
}

// Clone returns a deep copy
func (c *Config) Clone() *Config {
	out := &Config{
		BasePath:          c.BasePath,
		DefaultTheme:      c.DefaultTheme,
		PreferredCategory: c.PreferredCategory,
		Themes:            make([]ThemeAssets, len(c.Themes)),
	}
	for i, t := range c.Themes {
		cats := make([]CategoryAssets, len(t.Categories))
		for j, cat := range t.Categories {
			cats[j] = CategoryAssets{Name: cat.Name, Assets: slices.Clone(cat.Assets)}
		}
		out.Themes[i] = ThemeAssets{Name: t.Name, Categories: cats}
	}
	return out
}

// theme returns the last entry named n, matching object semantics for duplicate keys
func (c *Config) theme(n Theme) *ThemeAssets {
	for i := len(c.Themes) - 1; i >= 0; i-- {
		if c.Themes[i].Name == n {
			return &c.Themes[i]
		}
	}
	return nil
}

func (t *ThemeAssets) category(n Category) *CategoryAssets {
	for i := len(t.Categories) - 1; i >= 0; i-- {
		if t.Categories[i].Name == n {
			return &t.Categories[i]
		}
	}
	return nil
}

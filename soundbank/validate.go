package soundbank

// Validate checks a parsed document and builds a Config
// Checks run in order and stop at the first failure:
//  1. path is a non-empty string
//  2. typeKeyboardSoundDefault names a theme in files
//  3. typeKeyPref names a category of the default theme
//  4. every category of every theme is a non-empty list of non-empty strings
//
// The preferred category is not checked against non-default themes
func Validate(doc *Document) (*Config, error) {
	if doc == nil {
		return nil, newError(KindInvalidPath, "empty document")
	}

	basePath, ok := doc.Path.(string)
	if !ok || basePath == "" {
		return nil, newError(KindInvalidPath, "")
	}

	defName, ok := doc.DefaultTheme.(string)
	def := doc.theme(Theme(defName))
	if !ok || def == nil {
		return nil, newError(KindInvalidDefaultTheme, defName)
	}

	prefName, ok := doc.PreferredCategory.(string)
	if !ok || !def.hasCategory(Category(prefName)) {
		return nil, newError(KindInvalidPreferredCategory, prefName)
	}

	cfg := &Config{
		BasePath:          basePath,
		DefaultTheme:      Theme(defName),
		PreferredCategory: Category(prefName),
		Themes:            make([]ThemeAssets, 0, len(doc.Files)),
	}
	for _, rt := range doc.Files {
		t := ThemeAssets{Name: rt.Name, Categories: make([]CategoryAssets, 0, len(rt.Categories))}
		for _, rc := range rt.Categories {
			files, ok := assetList(rc.Assets)
			if !ok {
				return nil, newError(KindInvalidAssetList, string(rt.Name)+"/"+string(rc.Name))
			}
			t.Categories = append(t.Categories, CategoryAssets{Name: rc.Name, Assets: files})
		}
		cfg.Themes = append(cfg.Themes, t)
	}
	return cfg, nil
}

// assetList accepts only a non-empty list whose entries are all non-empty strings
func assetList(v any) ([]string, bool) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	files := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok || s == "" {
			return nil, false
		}
		files[i] = s
	}
	return files, true
}

func (d *Document) theme(n Theme) *RawTheme {
	for i := range d.Files {
		if d.Files[i].Name == n {
			return &d.Files[i]
		}
	}
	return nil
}

func (t *RawTheme) hasCategory(n Category) bool {
	for _, c := range t.Categories {
		if c.Name == n {
			return true
		}
	}
	return false
}

package soundbank

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, data string) *Document {
	t.Helper()
	doc, err := Parse([]byte(data), FormatJSON)
	require.NoError(t, err)
	return doc
}

func TestValidateAcceptsWellFormedDocument(t *testing.T) {
	cfg, err := Validate(mustParse(t, sampleJSON))
	require.NoError(t, err)

	require.Equal(t, "sounds", cfg.BasePath)
	require.Equal(t, Theme("mechanical"), cfg.DefaultTheme)
	require.Equal(t, Category("key"), cfg.PreferredCategory)
	require.Equal(t, []Theme{"mechanical", "typewriter", "bubble"}, cfg.ThemeNames())
	require.Equal(t, []string{"k1.mp3", "k2.mp3"}, cfg.Themes[0].Categories[0].Assets)
	require.NoError(t, cfg.Validate())
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want *Error
	}{
		{"path missing", `{"typeKeyboardSoundDefault":"t","typeKeyPref":"k","files":{"t":{"k":["a"]}}}`, ErrInvalidPath},
		{"path empty", `{"path":"","typeKeyboardSoundDefault":"t","typeKeyPref":"k","files":{"t":{"k":["a"]}}}`, ErrInvalidPath},
		{"path number", `{"path":7,"typeKeyboardSoundDefault":"t","typeKeyPref":"k","files":{"t":{"k":["a"]}}}`, ErrInvalidPath},
		{"default unknown", `{"path":"p","typeKeyboardSoundDefault":"x","typeKeyPref":"k","files":{"t":{"k":["a"]}}}`, ErrInvalidDefaultTheme},
		{"default missing", `{"path":"p","typeKeyPref":"k","files":{"":{"k":["a"]}}}`, ErrInvalidDefaultTheme},
		{"no themes", `{"path":"p","typeKeyboardSoundDefault":"t","typeKeyPref":"k","files":{}}`, ErrInvalidDefaultTheme},
		{"pref unknown", `{"path":"p","typeKeyboardSoundDefault":"t","typeKeyPref":"z","files":{"t":{"k":["a"]}}}`, ErrInvalidPreferredCategory},
		{"pref not string", `{"path":"p","typeKeyboardSoundDefault":"t","typeKeyPref":1,"files":{"t":{"k":["a"]}}}`, ErrInvalidPreferredCategory},
		{"empty list", `{"path":"p","typeKeyboardSoundDefault":"t","typeKeyPref":"k","files":{"t":{"k":[]}}}`, ErrInvalidAssetList},
		{"list not array", `{"path":"p","typeKeyboardSoundDefault":"t","typeKeyPref":"k","files":{"t":{"k":"a.mp3"}}}`, ErrInvalidAssetList},
		{"empty file name", `{"path":"p","typeKeyboardSoundDefault":"t","typeKeyPref":"k","files":{"t":{"k":["a",""]}}}`, ErrInvalidAssetList},
		{"non-string file", `{"path":"p","typeKeyboardSoundDefault":"t","typeKeyPref":"k","files":{"t":{"k":["a",3]}}}`, ErrInvalidAssetList},
		{"bad list in other theme", `{"path":"p","typeKeyboardSoundDefault":"t","typeKeyPref":"k","files":{"t":{"k":["a"]},"u":{"k":[]}}}`, ErrInvalidAssetList},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Validate(mustParse(t, tc.doc))
			require.Nil(t, cfg)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestValidateReportsFirstFailureOnly(t *testing.T) {
	// default theme, preferred category and asset list are all broken
	doc := mustParse(t, `{"path":"p","typeKeyboardSoundDefault":"x","typeKeyPref":"z","files":{"t":{"k":[]}}}`)
	_, err := Validate(doc)
	require.Equal(t, KindInvalidDefaultTheme, KindOf(err))

	// preferred category and asset list broken
	doc = mustParse(t, `{"path":"p","typeKeyboardSoundDefault":"t","typeKeyPref":"z","files":{"t":{"k":[]}}}`)
	_, err = Validate(doc)
	require.Equal(t, KindInvalidPreferredCategory, KindOf(err))
}

func TestValidatePreferredOnlyCheckedOnDefaultTheme(t *testing.T) {
	doc := mustParse(t, `{"path":"p","typeKeyboardSoundDefault":"t","typeKeyPref":"space","files":{"t":{"space":["a"]},"u":{"enter":["b"]}}}`)
	_, err := Validate(doc)
	require.NoError(t, err)
}

func TestValidateNilDocument(t *testing.T) {
	_, err := Validate(nil)
	require.ErrorIs(t, err, ErrInvalidPath)
}

func TestConfigValidateTyped(t *testing.T) {
	cfg := &Config{
		BasePath:          "snd",
		DefaultTheme:      "t1",
		PreferredCategory: "space",
		Themes: []ThemeAssets{
			{Name: "t1", Categories: []CategoryAssets{{Name: "space", Assets: []string{"a.mp3"}}}},
		},
	}
	require.NoError(t, cfg.Validate())

	broken := cfg.Clone()
	broken.BasePath = ""
	require.ErrorIs(t, broken.Validate(), ErrInvalidPath)

	broken = cfg.Clone()
	broken.DefaultTheme = "t2"
	require.ErrorIs(t, broken.Validate(), ErrInvalidDefaultTheme)

	broken = cfg.Clone()
	broken.PreferredCategory = "enter"
	require.ErrorIs(t, broken.Validate(), ErrInvalidPreferredCategory)

	broken = cfg.Clone()
	broken.Themes[0].Categories[0].Assets = []string{""}
	require.ErrorIs(t, broken.Validate(), ErrInvalidAssetList)

	// clone is deep
	require.Equal(t, []string{"a.mp3"}, cfg.Themes[0].Categories[0].Assets)
}

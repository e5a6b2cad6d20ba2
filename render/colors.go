package render

// languageColors follows the colours GitHub uses for its language swatches
var languageColors = map[string]string{
	"C":                "#555555",
	"C#":               "#178600",
	"C++":              "#f34b7d",
	"CSS":              "#563d7c",
	"Clojure":          "#db5855",
	"CoffeeScript":     "#244776",
	"Dart":             "#00B4AB",
	"Dockerfile":       "#384d54",
	"Elixir":           "#6e4a7e",
	"Elm":              "#60B5CC",
	"Erlang":           "#B83998",
	"F#":               "#b845fc",
	"Go":               "#00ADD8",
	"Groovy":           "#4298b8",
	"HCL":              "#844FBA",
	"HTML":             "#e34c26",
	"Haskell":          "#5e5086",
	"Java":             "#b07219",
	"JavaScript":       "#f1e05a",
	"Julia":            "#a270ba",
	"Jupyter Notebook": "#DA5B0B",
	"Kotlin":           "#A97BFF",
	"Lua":              "#000080",
	"MATLAB":           "#e16737",
	"Makefile":         "#427819",
	"Nix":              "#7e7eff",
	"OCaml":            "#3be133",
	"Objective-C":      "#438eff",
	"PHP":              "#4F5D95",
	"Perl":             "#0298c3",
	"PowerShell":       "#012456",
	"Python":           "#3572A5",
	"R":                "#198CE7",
	"Ruby":             "#701516",
	"Rust":             "#dea584",
	"SCSS":             "#c6538c",
	"Scala":            "#c22d40",
	"Shell":            "#89e051",
	"Svelte":           "#ff3e00",
	"Swift":            "#F05138",
	"TeX":              "#3D6117",
	"TypeScript":       "#3178c6",
	"Vim Script":       "#199f4b",
	"Vue":              "#41b883",
	"Zig":              "#ec915c",
}

const defaultLanguageColor = "#cccccc"

// LanguageColor returns the swatch colour for a language
func LanguageColor(language string) string {
	if c, ok := languageColors[language]; ok {
		return c
	}

	return defaultLanguageColor
}

package grammar

import (
	"path/filepath"
	"strings"
)

// extensionLanguages maps common file extensions onto language ids.
var extensionLanguages = map[string]string{
	".bash":     "shellscript",
	".c":        "c",
	".cc":       "cpp",
	".cpp":      "cpp",
	".cs":       "csharp",
	".dart":     "dart",
	".elm":      "elm",
	".go":       "go",
	".h":        "c",
	".hpp":      "cpp",
	".hs":       "haskell",
	".htm":      "html",
	".html":     "html",
	".java":     "java",
	".js":       "javascript",
	".jsx":      "javascriptreact",
	".kt":       "kotlin",
	".kts":      "kotlin",
	".lua":      "lua",
	".markdown": "markdown",
	".md":       "markdown",
	".mjs":      "javascript",
	".php":      "php",
	".pl":       "perl",
	".py":       "python",
	".r":        "r",
	".rb":       "ruby",
	".rs":       "rust",
	".scala":    "scala",
	".sh":       "shellscript",
	".sql":      "sql",
	".swift":    "swift",
	".toml":     "toml",
	".ts":       "typescript",
	".tsx":      "typescriptreact",
	".xml":      "xml",
	".yaml":     "yaml",
	".yml":      "yaml",
}

// LanguageForPath derives a language id from a file path's extension.
// Unknown extensions are returned bare (".zig" becomes "zig") so they can
// still match a grammar contributed for that id.
func LanguageForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	return strings.TrimPrefix(ext, ".")
}

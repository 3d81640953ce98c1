package comment

import (
	"path/filepath"
	"strings"
)

// Delim is a block comment delimiter pair.
type Delim struct {
	Open  string
	Close string
	// Leading restricts the opener to the start of a line (after
	// indentation). Used for delimiters that double as string syntax, such
	// as Python triple quotes.
	Leading bool
}

// Syntax describes the comment markers of one language.
type Syntax struct {
	Language string
	Line     []string
	Block    []Delim
	// Quotes lists the string literal delimiters skipped while scanning for
	// trailing comments.
	Quotes []byte
}

var (
	cStyle = Syntax{
		Line:   []string{"//"},
		Block:  []Delim{{Open: "/*", Close: "*/"}},
		Quotes: []byte{'"', '\''},
	}
	hashStyle = Syntax{
		Line:   []string{"#"},
		Quotes: []byte{'"', '\''},
	}
	markupStyle = Syntax{
		Block: []Delim{{Open: "<!--", Close: "-->"}},
	}
)

func with(base Syntax, lang string, edit func(*Syntax)) Syntax {
	s := base
	s.Language = lang
	s.Line = append([]string(nil), base.Line...)
	s.Block = append([]Delim(nil), base.Block...)
	s.Quotes = append([]byte(nil), base.Quotes...)
	if edit != nil {
		edit(&s)
	}
	return s
}

// syntaxes maps a language tag to its comment syntax.
var syntaxes = map[string]Syntax{
	"c":          with(cStyle, "c", nil),
	"cpp":        with(cStyle, "cpp", nil),
	"csharp":     with(cStyle, "csharp", nil),
	"java":       with(cStyle, "java", nil),
	"kotlin":     with(cStyle, "kotlin", nil),
	"scala":      with(cStyle, "scala", nil),
	"swift":      with(cStyle, "swift", nil),
	"rust":       with(cStyle, "rust", nil),
	"dart":       with(cStyle, "dart", nil),
	"css":        with(cStyle, "css", func(s *Syntax) { s.Line = nil }),
	"scss":       with(cStyle, "scss", nil),
	"less":       with(cStyle, "less", nil),
	"go":         with(cStyle, "go", func(s *Syntax) { s.Quotes = append(s.Quotes, '`') }),
	"javascript": with(cStyle, "javascript", func(s *Syntax) { s.Quotes = append(s.Quotes, '`') }),
	"typescript": with(cStyle, "typescript", func(s *Syntax) { s.Quotes = append(s.Quotes, '`') }),
	"php": with(cStyle, "php", func(s *Syntax) {
		s.Line = append(s.Line, "#")
	}),
	"python": with(hashStyle, "python", func(s *Syntax) {
		s.Block = []Delim{
			{Open: `"""`, Close: `"""`, Leading: true},
			{Open: `'''`, Close: `'''`, Leading: true},
		}
	}),
	"ruby": with(hashStyle, "ruby", func(s *Syntax) {
		s.Block = []Delim{{Open: "=begin", Close: "=end", Leading: true}}
	}),
	"shell": with(hashStyle, "shell", nil),
	"perl":  with(hashStyle, "perl", nil),
	"r":     with(hashStyle, "r", nil),
	"yaml":  with(hashStyle, "yaml", nil),
	"toml":  with(hashStyle, "toml", nil),
	"sql": with(cStyle, "sql", func(s *Syntax) {
		s.Line = []string{"--"}
	}),
	"lua": {
		Language: "lua",
		Line:     []string{"--"},
		Block:    []Delim{{Open: "--[[", Close: "]]"}},
		Quotes:   []byte{'"', '\''},
	},
	"haskell": {
		Language: "haskell",
		Line:     []string{"--"},
		Block:    []Delim{{Open: "{-", Close: "-}"}},
		Quotes:   []byte{'"'},
	},
	"lisp": {
		Language: "lisp",
		Line:     []string{";"},
		Block:    []Delim{{Open: "#|", Close: "|#"}},
		Quotes:   []byte{'"'},
	},
	"asm": {
		Language: "asm",
		Line:     []string{";"},
		Quotes:   []byte{'"', '\''},
	},
	"ini": {
		Language: "ini",
		Line:     []string{";", "#"},
	},
	"matlab": {
		Language: "matlab",
		Line:     []string{"%"},
		Block:    []Delim{{Open: "%{", Close: "%}", Leading: true}},
		Quotes:   []byte{'\''},
	},
	"vb": {
		Language: "vb",
		Line:     []string{"'"},
		Quotes:   []byte{'"'},
	},
	"html":   with(markupStyle, "html", nil),
	"xml":    with(markupStyle, "xml", nil),
	"markup": with(markupStyle, "markup", nil),
	"vue": with(markupStyle, "vue", func(s *Syntax) {
		s.Line = []string{"//"}
		s.Block = append(s.Block, Delim{Open: "/*", Close: "*/"})
		s.Quotes = []byte{'"', '\'', '`'}
	}),
}

// Fallback is used for any language without an entry in the table. It
// recognises "#" and "//" line comments and no block syntax.
var Fallback = Syntax{
	Language: "unknown",
	Line:     []string{"#", "//"},
	Quotes:   []byte{'"', '\''},
}

var extensions = map[string]string{
	".c": "c", ".h": "c",
	".cc": "cpp", ".cpp": "cpp", ".cxx": "cpp", ".hpp": "cpp", ".hh": "cpp",
	".cs":    "csharp",
	".java":  "java",
	".kt":    "kotlin", ".kts": "kotlin",
	".scala": "scala",
	".swift": "swift",
	".rs":    "rust",
	".dart":  "dart",
	".go":    "go",
	".js":    "javascript", ".jsx": "javascript", ".mjs": "javascript", ".cjs": "javascript",
	".ts":  "typescript", ".tsx": "typescript",
	".php": "php",
	".css": "css", ".scss": "scss", ".less": "less",
	".py": "python", ".pyw": "python",
	".rb": "ruby",
	".sh": "shell", ".bash": "shell", ".zsh": "shell",
	".pl": "perl", ".pm": "perl",
	".r":   "r",
	".yml": "yaml", ".yaml": "yaml",
	".toml": "toml",
	".sql":  "sql",
	".lua":  "lua",
	".hs":   "haskell",
	".lisp": "lisp", ".el": "lisp", ".clj": "lisp",
	".asm": "asm", ".s": "asm",
	".ini": "ini", ".cfg": "ini",
	".m":   "matlab",
	".vb":  "vb", ".bas": "vb",
	".html": "html", ".htm": "html",
	".xml": "xml", ".xaml": "xml",
	".svg":  "markup",
	".vue":  "vue",
}

// LanguageFor infers a language tag from a file path's extension. Unknown
// extensions yield "unknown".
func LanguageFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extensions[ext]; ok {
		return lang
	}
	switch strings.ToLower(filepath.Base(path)) {
	case "makefile", "dockerfile":
		return "shell"
	}
	return Fallback.Language
}

// Lookup returns the comment syntax for a language tag, or Fallback.
func Lookup(lang string) Syntax {
	if s, ok := syntaxes[lang]; ok {
		return s
	}
	return Fallback
}


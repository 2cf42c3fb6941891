package kinds

import (
	"regexp"

	"github.com/JonMunkholm/doctranslate/internal/core"
	"github.com/JonMunkholm/doctranslate/internal/xmltree"
)

// WordMediaType is the content type of a .docx package.
const WordMediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// WordLocator finds WordprocessingML text runs (w:t) in the body, headers,
// footers, comments and notes. Runs carrying xml:space="preserve" are
// translated and keep the attribute.
var WordLocator = core.RunLocator{
	Run:          xmltree.Name{Space: "w", Local: "t"},
	AllowWrapped: true,
}

func init() {
	registerWord()
}

func registerWord() {
	core.Register(core.KindDefinition{
		Key:        "docx",
		Label:      "Word document",
		Extensions: []string{".docx"},
		EntryPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^word/(document|header\d+|footer\d+|comments|footnotes|endnotes)\.xml$`),
		},
		Locator:         WordLocator,
		OutputExtension: ".docx",
		MediaType:       WordMediaType,
	})
}

package kinds

import (
	"regexp"

	"github.com/JonMunkholm/doctranslate/internal/core"
	"github.com/JonMunkholm/doctranslate/internal/xmltree"
)

// PresentationMediaType is the content type of a .pptx package.
const PresentationMediaType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// PresentationLocator finds DrawingML text runs (a:t) in slides, masters,
// layouts and notes. Only runs without attributes are translated.
var PresentationLocator = core.RunLocator{
	Run: xmltree.Name{Space: "a", Local: "t"},
}

func init() {
	registerPresentation()
}

func registerPresentation() {
	core.Register(core.KindDefinition{
		Key:        "pptx",
		Label:      "PowerPoint presentation",
		Extensions: []string{".pptx"},
		EntryPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^ppt/(slides|slideMasters|slideLayouts|notesSlides)/[^/]+\.xml$`),
		},
		Locator:         PresentationLocator,
		OutputExtension: ".pptx",
		MediaType:       PresentationMediaType,
	})
}

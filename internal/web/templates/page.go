package templates

import (
	"github.com/JonMunkholm/doctranslate/internal/core"
	"github.com/JonMunkholm/doctranslate/internal/translate"
)

// IndexPage is the data rendered by Index.
type IndexPage struct {
	Languages       []translate.Language
	DefaultLanguage string
	Kinds           []core.KindInfo
	MaxFileSizeMB   int64
}

// Accept returns the file input's accept attribute, e.g. ".docx,.pptx".
func (p IndexPage) Accept() string {
	var accept string
	for _, k := range p.Kinds {
		for _, ext := range k.Extensions {
			if accept != "" {
				accept += ","
			}
			accept += ext
		}
	}
	return accept
}

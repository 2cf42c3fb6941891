package core

import (
	"regexp"
	"time"
)

// KindDefinition describes one document kind: which files it accepts, which
// package entries hold translatable text, and how to find that text.
type KindDefinition struct {
	Key             string           // Unique identifier: "pptx"
	Label           string           // Display name: "PowerPoint presentation"
	Extensions      []string         // Accepted file extensions, lowercase with dot
	EntryPatterns   []*regexp.Regexp // Entry names holding translatable text
	Locator         TextLocator      // Finds text runs inside matching entries
	OutputExtension string           // Extension used for the translated file
	MediaType       string           // Content type of the translated file
}

func (k KindDefinition) handles(ext string) bool {
	for _, e := range k.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Matches reports whether a package entry holds translatable text.
func (k KindDefinition) Matches(entryName string) bool {
	for _, p := range k.EntryPatterns {
		if p.MatchString(entryName) {
			return true
		}
	}
	return false
}

// KindInfo is the serializable view of a KindDefinition.
type KindInfo struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Extensions []string `json:"extensions"`
	Parts      []string `json:"parts"`
	MediaType  string   `json:"mediaType"`
}

// Info returns the serializable view of k.
func (k KindDefinition) Info() KindInfo {
	parts := make([]string, len(k.EntryPatterns))
	for i, p := range k.EntryPatterns {
		parts[i] = p.String()
	}
	return KindInfo{
		Key:        k.Key,
		Label:      k.Label,
		Extensions: k.Extensions,
		Parts:      parts,
		MediaType:  k.MediaType,
	}
}

// Stats counts what one transform did.
type Stats struct {
	Entries             int `json:"entries"`             // Archive entries scanned
	PartsMatched        int `json:"partsMatched"`        // Entries matching the kind's patterns
	PartsProcessed      int `json:"filesProcessed"`      // Matching entries rewritten
	PartsFailed         int `json:"partsFailed"`         // Matching entries left unchanged after an error
	FragmentsTranslated int `json:"fragmentsTranslated"` // Fragments sent to the translator
	CacheSize           int `json:"cachedTranslations,omitempty"`
}

// TranslateRequest is the input to Service.Translate.
type TranslateRequest struct {
	FileName string
	Data     []byte
	Language string
}

// TranslateResult is the output of Service.Translate.
type TranslateResult struct {
	JobID     string        `json:"jobId"`
	FileName  string        `json:"fileName"`
	Kind      string        `json:"kind"`
	MediaType string        `json:"mediaType"`
	Language  string        `json:"language"`
	Stats     Stats         `json:"stats"`
	Duration  time.Duration `json:"duration"`
	Data      []byte        `json:"-"`
}

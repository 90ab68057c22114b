// Package model contains domain models passed between layers.
package model

import (
	"path/filepath"
	"strings"
)

// AcceptedExtensions lists the resume formats the file picker suggests.
// The list is a hint for the user; the analysis service makes the final call.
var AcceptedExtensions = []string{".pdf", ".docx"}

// AnalysisRequest is one resume plus job description, built when the user
// confirms the form and consumed by a single analysis call.
type AnalysisRequest struct {
	ResumeName     string // original file name, sent as the multipart filename
	Resume         []byte // raw file contents; treated as opaque
	JobDescription string // pasted job description text
}

// HasResume reports whether a file was selected.
func (r AnalysisRequest) HasResume() bool {
	return r.ResumeName != ""
}

// Validate checks that both inputs are present. The resume is checked first,
// so a request missing both reports ErrMissingResume.
func (r AnalysisRequest) Validate() error {
	if !r.HasResume() {
		return ErrMissingResume
	}
	if r.JobDescription == "" {
		return ErrMissingJobDescription
	}
	return nil
}

// HasAcceptedExtension reports whether name ends in one of AcceptedExtensions.
func HasAcceptedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range AcceptedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// AcceptAttr renders AcceptedExtensions for an HTML file input accept attribute.
func AcceptAttr() string {
	return strings.Join(AcceptedExtensions, ",")
}

// AnalysisResult mirrors the JSON body returned by the analysis service.
type AnalysisResult struct {
	MatchScore      float64  `json:"match_score"`
	MatchedKeywords []string `json:"matched_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
}

package httpapi

import (
	"github.com/yourorg/sdtm-studio/internal/mapping"
)

// domainSourceRequest names one domain's source CSV to ingest when a study
// is created.
type domainSourceRequest struct {
	Domain     string `json:"domain" binding:"required"`
	SourcePath string `json:"source_path" binding:"required"`
	HeaderRows int    `json:"header_rows"`
}

// createStudyRequest is the POST /studies body.
type createStudyRequest struct {
	StudyID    string                `json:"study_id" binding:"required"`
	FolderPath string                `json:"folder_path" binding:"required"`
	Domains    []domainSourceRequest `json:"domains"`
}

// suggestionsResponse reports, per target variable, the deterministic
// suggestion (if any clears the configured floor) plus an advisory AI
// suggestion: always below the deterministic floor, shown only when the
// deterministic scorer found nothing.
type suggestionsResponse struct {
	Variable     string             `json:"variable"`
	Suggested    *mapping.Suggestion `json:"suggested,omitempty"`
	AIAssist     *aiassistSuggestion `json:"ai_assist,omitempty"`
}

type aiassistSuggestion struct {
	SourceColumn string  `json:"source_column"`
	Confidence   float64 `json:"confidence"`
	Reasoning    string  `json:"reasoning"`
}

// setMappingRequest is the POST .../mapping body: a full replacement of
// the domain's assignment map. This always invalidates cached
// Preview/Validation.
type setMappingRequest struct {
	Assignments map[string]mapping.Assignment `json:"assignments" binding:"required"`
}

// exportRequest is the POST .../export body.
type exportRequest struct {
	Domains []string `json:"domains" binding:"required"`
	Format  string   `json:"format"`
}

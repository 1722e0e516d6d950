package domain

import "strings"

// Names of the files a generation archive must contain.
const (
	ResumePDF  = "resume.pdf"
	ResumeTeX  = "resume.tex"
	ResumeJSON = "resume.json"
)

// PreviewFileName is the file name suggested to clients for an inline preview.
const PreviewFileName = "resume_preview.pdf"

// DownloadRoute is the URL prefix under which session files are served.
const DownloadRoute = "/api/v1/download"

// Content types inferred from file extensions.
const (
	ContentTypePDF    = "application/pdf"
	ContentTypeTeX    = "application/x-tex"
	ContentTypeJSON   = "application/json"
	ContentTypeBinary = "application/octet-stream"
)

// RequiredArtifacts lists the files every generation archive must provide.
func RequiredArtifacts() []string {
	return []string{ResumePDF, ResumeTeX, ResumeJSON}
}

// ContentTypeFor infers a content type from a file name's extension.
func ContentTypeFor(name string) string {
	switch {
	case strings.HasSuffix(name, ".pdf"):
		return ContentTypePDF
	case strings.HasSuffix(name, ".tex"):
		return ContentTypeTeX
	case strings.HasSuffix(name, ".json"):
		return ContentTypeJSON
	default:
		return ContentTypeBinary
	}
}

// DownloadURL returns the retrieval path for a file in a session.
func DownloadURL(sessionID, name string) string {
	return DownloadRoute + "/" + sessionID + "/" + name
}

// ArtifactSet points at the retrievable files of a generated resume.
type ArtifactSet struct {
	SessionID string `json:"-"`
	PDFURL    string `json:"pdfUrl"`
	LaTeXURL  string `json:"latexUrl"`
	JSONURL   string `json:"jsonUrl"`
}

// NewArtifactSet builds the download links for a session.
func NewArtifactSet(sessionID string) ArtifactSet {
	return ArtifactSet{
		SessionID: sessionID,
		PDFURL:    DownloadURL(sessionID, ResumePDF),
		LaTeXURL:  DownloadURL(sessionID, ResumeTeX),
		JSONURL:   DownloadURL(sessionID, ResumeJSON),
	}
}

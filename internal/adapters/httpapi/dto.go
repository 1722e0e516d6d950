package httpapi

// tailorRequest is the body of POST /tailor.
type tailorRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

type tailorResponse struct {
	TailoredContent string `json:"tailoredContent"`
}

// resumeRequest is the body of POST /evaluate-resume and POST /generate-cover-letter.
type resumeRequest struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
}

type evaluationResponse struct {
	EvaluationResult string `json:"evaluationResult"`
}

type coverLetterResponse struct {
	GeneratedCoverLetter string `json:"generatedCoverLetter"`
}

type interviewResponse struct {
	Content string `json:"content"`
}

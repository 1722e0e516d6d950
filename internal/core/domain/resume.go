package domain

// GenerateRequest is the structured request forwarded to the remote generation service.
type GenerateRequest struct {
	TemplateName string     `json:"template_name"`
	ResumeData   ResumeData `json:"resume_data"`
}

// ResumeData is the content of a resume.
type ResumeData struct {
	PersonalInfo   PersonalInfo     `json:"personal_info"`
	Education      []Education      `json:"education"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Projects       []Project        `json:"projects"`
	Skills         []Skill          `json:"skills"`
	Achievements   []Achievement    `json:"achievements"`
	Certifications []Certification  `json:"certifications"`
}

// PersonalInfo holds contact details.
type PersonalInfo struct {
	FullName       string `json:"full_name"`
	Address        string `json:"address"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	GithubHandle   string `json:"github_handle"`
	LinkedinHandle string `json:"linkedin_handle"`
	PortfolioURL   string `json:"portfolio_url"`
	ExtraInfo      string `json:"extra_info"`
}

// Education is one degree entry.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	StartYear   string `json:"start_year"`
	EndYear     string `json:"end_year"`
	GPA         string `json:"gpa"`
}

// WorkExperience is one position entry.
type WorkExperience struct {
	JobTitle          string   `json:"job_title"`
	CompanyName       string   `json:"company_name"`
	Location          string   `json:"location"`
	StartDate         string   `json:"start_date"`
	EndDate           string   `json:"end_date"`
	DescriptionPoints []string `json:"description_points"`
}

// Project is one project entry.
type Project struct {
	ProjectName       string   `json:"project_name"`
	StartDate         string   `json:"start_date"`
	EndDate           string   `json:"end_date"`
	TechStack         string   `json:"tech_stack"`
	DescriptionPoints []string `json:"description_points"`
}

// Skill is a named skill group.
type Skill struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Achievement is a free-form accomplishment.
type Achievement struct {
	Description string `json:"description"`
}

// Certification is a named credential.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
}

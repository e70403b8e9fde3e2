package dtos

// FindEmailsRequest needs at least one of Domain or CompanyName.
type FindEmailsRequest struct {
	Domain      string `json:"domain"`
	CompanyName string `json:"companyName"`
}

type DecisionMaker struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Title      string `json:"title"`
	Confidence int    `json:"confidence"`
	Department string `json:"department"`
	Seniority  string `json:"seniority"`
	LinkedIn   string `json:"linkedin"`
	Sources    int    `json:"sources"`
}

type ContactMeta struct {
	Pattern string `json:"pattern"`
	Country string `json:"country"`
	Results int    `json:"results"`
}

type FindEmailsResponse struct {
	Success        bool            `json:"success"`
	Company        string          `json:"company"`
	Domain         string          `json:"domain"`
	TotalEmails    int             `json:"totalEmails"`
	DecisionMakers []DecisionMaker `json:"decisionMakers"`
	Meta           ContactMeta     `json:"meta"`
}

package extractor

// Company is one prospect pulled out of free text. Only Name is guaranteed;
// every other field is left empty when the text does not carry it.
type Company struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Domain         string `json:"domain,omitempty"`
	Website        string `json:"website,omitempty"`
	Location       string `json:"location,omitempty"`
	Classification string `json:"classification,omitempty"`
	FoundingYear   string `json:"foundingYear,omitempty"`
}

// Field identifies one of the optional Company attributes a rule can fill.
type Field int

const (
	FieldClassification Field = iota
	FieldLocation
	FieldDomain
	FieldFoundingYear
)

// fieldOrder is the precedence among fields when one span could fill more
// than one of them.
var fieldOrder = []Field{FieldClassification, FieldLocation, FieldDomain, FieldFoundingYear}

func (f Field) String() string {
	switch f {
	case FieldClassification:
		return "classification"
	case FieldLocation:
		return "location"
	case FieldDomain:
		return "domain"
	case FieldFoundingYear:
		return "founding-year"
	}
	return "unknown"
}

func (c *Company) get(f Field) string {
	switch f {
	case FieldClassification:
		return c.Classification
	case FieldLocation:
		return c.Location
	case FieldDomain:
		return c.Domain
	case FieldFoundingYear:
		return c.FoundingYear
	}
	return ""
}

func (c *Company) set(f Field, v string) {
	switch f {
	case FieldClassification:
		c.Classification = v
	case FieldLocation:
		c.Location = v
	case FieldDomain:
		c.Domain = v
		c.Website = "https://" + v
	case FieldFoundingYear:
		c.FoundingYear = v
	}
}

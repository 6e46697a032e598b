package catalog

// Metadata is the canonical module record fetched from the catalog API,
// normalized into the shape the store persists.
type Metadata struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Units       int      `json:"units"`
	Semesters   []string `json:"semesters"`
	URL         string   `json:"url"`
}

// moduleResponse mirrors the catalog API's per-module JSON document. Only the
// fields we persist are decoded.
type moduleResponse struct {
	ModuleCode   string `json:"moduleCode"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ModuleCredit string `json:"moduleCredit"`
	SemesterData []struct {
		Semester int `json:"semester"`
	} `json:"semesterData"`
}

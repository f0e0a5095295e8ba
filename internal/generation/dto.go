package generation

type createDocumentRequest struct {
	Title             string            `json:"title"`
	Content           string            `json:"content"`
	DocumentType      string            `json:"documentType"`
	TemplateName      string            `json:"templateName"`
	Sections          []string          `json:"sections"`
	AdditionalOptions map[string]string `json:"additionalOptions"`
}

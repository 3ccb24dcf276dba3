package models

// CollectionInfo summarizes a collection for prompt building and the dashboard.
// SampleKeys is only present when the collection holds at least one record.
type CollectionInfo struct {
	Name          string   `json:"name,omitempty"`
	Exists        bool     `json:"exists"`
	DocumentCount int64    `json:"document_count"`
	SampleKeys    []string `json:"sample_keys,omitempty"`
	Error         string   `json:"error,omitempty"`
}

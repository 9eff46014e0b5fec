package knowledge

// Item is one knowledge-base entry: one or more question phrasings (FAQ,
// newline-separated), space-separated keywords, an answer, and optional
// screenshots. The JSON field names match the canonical file on disk, which
// is regenerated wholesale on full sync and merged in place on incremental
// sync.
type Item struct {
	ID          string `json:"id"`
	FAQ         string `json:"FAQ"`
	Keywords    string `json:"Keywords"`
	Response    string `json:"Response"`
	AppImageURL string `json:"Response_Pic_App_URL,omitempty"`
	PCImageURL  string `json:"Response_Pic_Pc_URL,omitempty"`
}

// Phrasings returns the individual question phrasings of the item, trimmed,
// with empty lines dropped.
func (it Item) Phrasings() []string {
	return SplitPhrasings(it.FAQ)
}

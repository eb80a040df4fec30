package analysis

// Analysis is the descriptive part of an outfit analysis.
type Analysis struct {
	Description string `json:"description"`
	ColorTones  string `json:"colorTones"`
	CoreApparel string `json:"coreApparel"`
	Accessories string `json:"accessories"`
}

// Item is one suggested product.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	ProductURL  string `json:"productUrl"`
}

// Result is the payload returned by POST /api/analyze.
type Result struct {
	Analysis       Analysis `json:"analysis"`
	FashionTips    string   `json:"fashionTips"`
	SuggestedItems []Item   `json:"suggestedItems"`
}

// Upload is the single image sent for analysis.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

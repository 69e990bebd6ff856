package models

// Modality classifies the origin of a piece of extracted content.
type Modality string

const (
	ModalityText    Modality = "text"
	ModalityTable   Modality = "table"
	ModalityFormula Modality = "formula"
	ModalityImage   Modality = "image"
)

// ContentItem is one embeddable unit of document content. It is created by
// the normalizer and never mutated afterwards; the embedder and vector store
// only read from it.
type ContentItem struct {
	Text      string   `json:"text"`
	Modality  Modality `json:"modality"`
	SourceID  string   `json:"source_id"`
	ImagePath string   `json:"image_path,omitempty"`
}

// ExtractionBundle collects the raw output of the four extractors before
// normalization. Slices may be empty when an extractor found nothing or
// failed (the pipeline degrades per modality, it does not abort).
//
// Captions and ImagePaths are positionally aligned: Captions[i] describes the
// image stored at ImagePaths[i].
type ExtractionBundle struct {
	TextChunks []string
	Tables     []string
	Formulas   []string
	Captions   []string
	ImagePaths []string
}

// Match is a single vector-store hit with its stored metadata.
type Match struct {
	ID        string   `json:"id"`
	Content   string   `json:"content"`
	Modality  Modality `json:"modality"`
	SourceID  string   `json:"source_id"`
	ImagePath string   `json:"image_path,omitempty"`
	Distance  float64  `json:"distance"`
}

// ConversationTurn is one completed question/answer exchange.
type ConversationTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Answer is the chat service's reply: the generated text plus the raw
// retrieved context strings, in retrieval order.
type Answer struct {
	Text    string   `json:"answer"`
	Sources []string `json:"sources"`
}

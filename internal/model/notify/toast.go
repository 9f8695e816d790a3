package notify

// Toast variants understood by the frontend.
const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
	VariantSuccess     = "success"
)

// Toast is an ephemeral user-facing notification.
type Toast struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Variant     string `json:"variant"`
}

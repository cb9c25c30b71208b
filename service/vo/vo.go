package vo

import (
	"github.com/foomo/recorddescription-mcp/description"
	descriptionvo "github.com/foomo/recorddescription-mcp/description/vo"
)

type RecordDescription struct {
	ID          string                     `json:"id"`                   // Record id in the index
	Level       description.Level          `json:"level"`                // full or short
	OpenAccess  bool                       `json:"openAccess,omitempty"` // 506 declares open access
	Description *descriptionvo.Description `json:"description"`          // Ordered categories
}

type BatchDescription struct {
	Level        description.Level   `json:"level"`
	Descriptions []RecordDescription `json:"descriptions"` // In request order
}

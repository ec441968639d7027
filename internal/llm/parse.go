package llm

import (
	"encoding/json"
	"fmt"

	"riskprotocol/internal/protocol"
	"riskprotocol/internal/util/jsonutil"
)

// ParseDraft decodes the model's JSON and validates it against the
// declared schema: all seven fields present, category and level inside
// their enumerations, lists non-null. A response that fails any of these
// is a generation failure, never a partially valid draft.
func ParseDraft(raw json.RawMessage) (*protocol.Draft, error) {
	var d protocol.Draft
	if err := jsonutil.UnmarshalRaw(raw, &d); err != nil {
		return nil, generationError(fmt.Errorf("%w: %v", ErrInvalidJSON, err))
	}
	if err := d.Validate(); err != nil {
		return nil, generationError(err)
	}
	return &d, nil
}

package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"invexa/internal/domain"
)

// fenceMarker matches Markdown code-fence delimiters, with or without a
// language tag. Models emit these anywhere in a reply, not just at the
// boundaries.
var fenceMarker = regexp.MustCompile("```[a-zA-Z0-9]*")

// RecoverJSON strips formatting artifacts from a model's free-text reply and
// parses the embedded JSON object. The fence-stripped text is tried with a
// strict parse first; only if that fails does it fall back to the permissive
// first-'{' / last-'}' scan, which survives surrounding prose but can be
// confused by unrelated braces inside it.
func RecoverJSON(reply string) (map[string]interface{}, error) {
	clean := strings.TrimSpace(reply)
	clean = fenceMarker.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(clean)

	// A bare "null" unmarshals successfully into a nil map; that is not a
	// recovered object.
	var candidate map[string]interface{}
	if err := json.Unmarshal([]byte(clean), &candidate); err == nil && candidate != nil {
		return candidate, nil
	}

	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start == -1 || end == -1 || end < start {
		return nil, domain.ErrResponseFormat
	}

	if err := json.Unmarshal([]byte(clean[start:end+1]), &candidate); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResponseFormat, err)
	}
	return candidate, nil
}

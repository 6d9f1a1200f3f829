package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// fencePattern strips Markdown code-fence wrapping that models sometimes
// add around their JSON output despite instructions not to.
var fencePattern = regexp.MustCompile("(?s)```json\\s*|\\s*```")

// ParseResult converts the model's raw text into a structured Result. Text
// that is not valid JSON is not an error: the whole trimmed response
// becomes the solution and the other fields stay empty.
func ParseResult(raw string) (Result, bool) {
	trimmed := strings.TrimSpace(raw)
	clean := fencePattern.ReplaceAllString(trimmed, "")

	var res Result
	if err := json.Unmarshal([]byte(clean), &res); err != nil {
		log.Warn().Msg("model response was not valid JSON, using fallback")
		return Result{Solucao: trimmed}, false
	}
	return res, true
}

package llm

import "errors"

// Result is the structured answer the model is instructed to return.
type Result struct {
	Solucao       string `json:"solucao"`
	Codigo        string `json:"codigo"`
	Verificacao   string `json:"verificacao"`
	FonteContexto string `json:"fonte_contexto"`
}

// ErrQuota marks provider errors caused by rate limiting or exhausted
// quota. These are the only errors worth retrying.
var ErrQuota = errors.New("api quota exceeded")

// IsQuota reports whether err is a quota/rate-limit error.
func IsQuota(err error) bool {
	return errors.Is(err, ErrQuota)
}

package openai

import "regexp"

var (
	unquotedKeyPattern   = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_ ]*)(":)`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// repairJSON attempts to fix common JSON formatting issues from LLM responses:
// keys missing their opening quote (`, type":` becomes `, "type":`) and
// trailing commas before a closing brace or bracket.
func repairJSON(s string) string {
	s = unquotedKeyPattern.ReplaceAllString(s, `$1"$2$3`)
	s = trailingCommaPattern.ReplaceAllString(s, `$1`)
	return s
}

package functions

import (
	"log"
	"strings"
	template "text/template"

	sprig "github.com/Masterminds/sprig"
	yaml "sigs.k8s.io/yaml"

	preprocess "github.com/jurooravec/dedent/pkg/preprocess"
)

var indentFn func(spaces int, v string) string

func init() {
	if fn, ok := sprig.TxtFuncMap()["indent"].(func(spaces int, v string) string); ok {
		indentFn = fn
	} else {
		log.Panicf("failed to prepare the 'indent' function from Sprig: Not a function")
	}
}

// FuncMap returns Sprig's text functions together with our own. Our functions
// take precedence on name clashes.
//
// See https://masterminds.github.io/sprig/
func FuncMap() template.FuncMap {
	funcMap := sprig.TxtFuncMap()
	for key, val := range customFuncMap() {
		funcMap[key] = val
	}
	return funcMap
}

func customFuncMap() template.FuncMap {
	return template.FuncMap{
		"dedent":     Dedent,
		"indentRest": IndentRest,
		"yamlToJson": YamlToJson,
		"jsonToYaml": JsonToYaml,
		"toYaml":     ToYaml,
	}
}

// Dedent removes the common indentation from v the way templates are
// unindented. Unlike dedent.Dedent, leading blank lines and the whitespace-only
// closing line are dropped, which is what templates want when piping the
// result into `indent`.
func Dedent(v string) (string, error) {
	return preprocess.Unindent(v)
}

// Same as Sprig's `Indent`, except the first line is NOT indented
func IndentRest(spaces int, v string) string {
	headAndRest := strings.SplitN(v, "\n", 2)

	// Skip if there are no newlines in the text
	if len(headAndRest) <= 1 {
		return v
	}

	return strings.Join([]string{
		headAndRest[0],
		indentFn(spaces, headAndRest[1]),
	}, "\n")
}

func YamlToJson(v string) (string, error) {
	jsondata, err := yaml.YAMLToJSON([]byte(v))
	return string(jsondata), err
}

func JsonToYaml(v string) (string, error) {
	yamldata, err := yaml.JSONToYAML([]byte(v))
	return string(yamldata), err
}

// ToYaml marshals v to YAML without the trailing newline, the same way
// Helm's `toYaml` does.
func ToYaml(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

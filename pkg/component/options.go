package component

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	eris "github.com/rotisserie/eris"
	yaml "sigs.k8s.io/yaml"

	preprocess "github.com/jurooravec/dedent/pkg/preprocess"
)

const DefaultMultiDocSeparator = "---"

// Component options
type Options[TInput any] struct {
	// By default, any errors are returned as result tuple. If you want to panic
	// on errors and don't want to handle errors every time, set this to `true`.
	PanicOnError bool
	// By default, the templates have leading/trailing empty lines shaven, and
	// indentation is removed. See the `preprocess` package.
	//
	// Use this option to define custom preprocessing, or disable the default one.
	PreprocessTemplate func(tmpl string, options Options[TInput]) (string, error)
	// By default, templates are assumed to be YAML, converted to JSON and
	// decoded with unknown fields rejected.
	//
	// Use this option if you want to modify the rendered template before unmarshalling it,
	// or if you want to use different data types like TOML.
	Unmarshal func(rendered string, container any, options Options[TInput]) error
	// Lines that contain this separator and nothing else split the rendered
	// template into several documents.
	//
	// Default: `---`
	//
	// See https://yaml.org/spec/1.2.2/#22-structures
	MultiDocSeparator string
	// Optionally replace tabs with spaces before dedenting.
	//
	// NOTE: This is required if you're indenting templates with tabs, since
	// only spaces are removed as indentation. YAML cannot process tabs either.
	TabSize *int
	// If frontloading is enabled, the component is rendered once with
	// `FrontloadInput` at creation, so that broken templates fail early.
	//
	// Frontloading should be OFF in production, and ON for development and testing.
	FrontloadEnabled bool
	FrontloadInput   TInput
}

func withDefaults[TInput any](opts Options[TInput]) Options[TInput] {
	if opts.PreprocessTemplate == nil {
		opts.PreprocessTemplate = defaultPreprocessor[TInput]
	}
	if opts.Unmarshal == nil {
		opts.Unmarshal = defaultUnmarshaller[TInput]
	}
	if opts.MultiDocSeparator == "" {
		opts.MultiDocSeparator = DefaultMultiDocSeparator
	}
	return opts
}

func (opts Options[TInput]) fail(err error) error {
	if opts.PanicOnError {
		panic(err)
	}
	return err
}

func defaultPreprocessor[TInput any](tmpl string, opts Options[TInput]) (string, error) {
	return preprocess.Normalize(tmpl, preprocess.Options{TabSize: opts.TabSize})
}

func defaultUnmarshaller[TInput any](rendered string, container any, opts Options[TInput]) error {
	jsondata, err := yaml.YAMLToJSON([]byte(rendered))
	if err != nil {
		return eris.Wrap(err, "failed to convert rendered template from YAML to JSON")
	}
	dec := json.NewDecoder(bytes.NewReader(jsondata))
	dec.DisallowUnknownFields()
	return dec.Decode(container)
}

func unmarshalInto[TInput any](name string, content string, container any, opts Options[TInput]) error {
	if err := opts.Unmarshal(content, container, opts); err != nil {
		return eris.Wrapf(err, "failed to unmarshal rendered template in %q", name)
	}
	return nil
}

// Matches lines consisting of the separator only.
func separatorRegexp(separator string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(separator) + `[ \t]*$`)
}

// Splits content on separator lines. Blank documents, e.g. before a leading
// separator, are skipped.
func splitDocuments(content string, separator *regexp.Regexp) []string {
	docs := []string{}
	for _, part := range separator.Split(content, -1) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		docs = append(docs, strings.Trim(part, "\n"))
	}
	return docs
}

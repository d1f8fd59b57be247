package component

import (
	"bytes"
	"os"
	"reflect"
	"regexp"
	"strings"
	template "text/template"

	reflections "github.com/oleiade/reflections"
	dynamicstruct "github.com/ompluscator/dynamic-struct"
	eris "github.com/rotisserie/eris"

	functions "github.com/jurooravec/dedent/pkg/functions"
)

// A template that was loaded and preprocessed, ready to be rendered.
type prepared struct {
	name      string
	text      string
	verbatim  map[string]string
	separator *regexp.Regexp
}

func prepareTemplate[TInput any](name string, text string, isFile bool, opts Options[TInput]) (prepared, error) {
	if isFile {
		dat, err := os.ReadFile(text)
		if err != nil {
			return prepared{}, eris.Wrapf(err, "error reading file in %q", name)
		}
		text = string(dat)
	}

	text, err := opts.PreprocessTemplate(text, opts)
	if err != nil {
		return prepared{}, eris.Wrapf(err, "failed to preprocess template in %q", name)
	}

	text, verbatim := escapeVerbatimActions(text)
	return prepared{
		name:      name,
		text:      text,
		verbatim:  verbatim,
		separator: separatorRegexp(opts.MultiDocSeparator),
	}, nil
}

func (p prepared) render(context any) (string, error) {
	content, err := Render(p.name, p.text, context)
	if err != nil {
		return content, err
	}
	return unescapeVerbatimActions(content, p.verbatim), nil
}

// Render executes templateStr with the given context.
//
// Func fields of the context are callable from the template as
// `{{ MyFunc arg1 arg2 }}`, other fields are accessible as `{{ .MyValue }}`.
// A map context is passed to the template as is.
func Render(
	templateName string,
	templateStr string,
	context any,
) (content string, err error) {
	funcMap, data, err := parseContext(templateName, context)
	if err != nil {
		return content, err
	}

	tmpl := template.New(templateName).
		Funcs(functions.FuncMap()).
		Funcs(funcMap).
		// Missing keys render as "<no value>", which is removed below.
		Option("missingkey=zero")

	if _, err = tmpl.Parse(templateStr); err != nil {
		return content, eris.Wrapf(err, "parse error in %q", templateName)
	}

	var buf bytes.Buffer
	if err = tmpl.Execute(&buf, data); err != nil {
		return content, eris.Wrapf(err, "render error in %q", templateName)
	}

	return strings.ReplaceAll(buf.String(), "<no value>", ""), nil
}

// Process the fields in Context.
//
// If a field is a function, it will be made available as template function.
// If it's a non-func, we will expose it as a template variable.
//
// To do the latter, though, we need to create a new Struct with only non-func
// fields. So we build it dynamically.
func parseContext(
	templateName string,
	context any,
) (template.FuncMap, any, error) {
	funcMap := template.FuncMap{}

	if context == nil {
		return funcMap, nil, nil
	}
	if reflect.ValueOf(context).Kind() == reflect.Map {
		return funcMap, context, nil
	}

	structItems, err := reflections.Items(context)
	if err != nil {
		return funcMap, nil, eris.Wrapf(err, "failed to process context in %q", templateName)
	}

	structBuilder := dynamicstruct.NewStruct()
	varMap := map[string]any{}
	for key, val := range structItems {
		// NOTE: nil values carry no type to build a field from.
		if val == nil {
			continue
		}
		if reflect.TypeOf(val).Kind() == reflect.Func {
			funcMap[key] = val
			continue
		}

		// NOTE: AddField infers correct type from the variable that's given.
		structBuilder = structBuilder.AddField(key, val, "")
		varMap[key] = val
	}

	// See https://github.com/Ompluscator/dynamic-struct#add-new-struct
	data := structBuilder.Build().New()

	// The above only created an empty struct, but we still need to populate it
	for key, val := range varMap {
		if err = reflections.SetField(data, key, val); err != nil {
			return funcMap, data, eris.Wrapf(err, "failed to create data struct in %q", templateName)
		}
	}

	return funcMap, data, nil
}

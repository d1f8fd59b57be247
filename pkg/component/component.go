// Package component embeds templates written inline in Go code, indented to
// match the code around them. Each template is dedented once when the
// component is created, then rendered with text/template and unmarshalled
// into a typed value on every call to Render.
package component

import (
	"fmt"

	eris "github.com/rotisserie/eris"
)

var (
	ErrRenderResultMismatch = eris.New("number of documents in the rendered template does not match the number of instances from `GetInstances`")
)

// Component definition
type Def[TType any, TInput any, TContext any] struct {
	Name     string
	Template string
	// If true, the `Template` is evaluated as a path to a template file.
	//
	// If false, `Template` is assumed to be the template itself.
	TemplateIsFile bool
	// Function that transforms input to context. Functions defined on the context
	// will be made available as template functions. Other context fields will be
	// available as template variables.
	Setup func(TInput) (TContext, error)
	// Optional. Replaces the default unmarshalling of the rendered template.
	Render  func(input TInput, context TContext, content string) (TType, error)
	Options Options[TInput]
}

// Same as Def, but the rendered template holds several documents, separated
// by `Options.MultiDocSeparator`.
type DefMulti[TType any, TInput any, TContext any] struct {
	Name           string
	Template       string
	TemplateIsFile bool
	Setup          func(TInput) (TContext, error)
	// The component cannot know which concrete type each document should be
	// unmarshalled into, so the caller provides the instances. Their number
	// must match the number of rendered documents.
	GetInstances func(input TInput, context TContext) ([]TType, error)
	Render       func(input TInput, context TContext, contentParts []string) ([]TType, error)
	Options      Options[TInput]
}

type Component[TType any, TInput any] struct {
	Render func(input TInput) (instance TType, content string, err error)
}

type ComponentMulti[TType any, TInput any] struct {
	Render func(input TInput) (instances []TType, contents []string, err error)
}

func CreateComponent[
	TType any,
	TInput any,
	TContext any,
](def Def[TType, TInput, TContext]) (comp Component[TType, TInput], err error) {
	opts := withDefaults(def.Options)
	setup := def.Setup
	if setup == nil {
		setup = func(TInput) (context TContext, err error) { return context, nil }
	}

	tmpl, err := prepareTemplate(def.Name, def.Template, def.TemplateIsFile, opts)
	if err != nil {
		return comp, opts.fail(err)
	}

	comp.Render = func(input TInput) (instance TType, content string, err error) {
		defer recoverInto(&err, def.Name, opts.PanicOnError)

		context, err := setup(input)
		if err != nil {
			return instance, content, opts.fail(eris.Wrapf(err, "setup failed in %q", def.Name))
		}

		content, err = tmpl.render(context)
		if err != nil {
			return instance, content, opts.fail(err)
		}

		if def.Render != nil {
			instance, err = def.Render(input, context, content)
		} else {
			err = unmarshalInto(def.Name, content, &instance, opts)
		}
		if err != nil {
			return instance, content, opts.fail(err)
		}
		return instance, content, nil
	}

	if opts.FrontloadEnabled {
		if _, _, err = comp.Render(opts.FrontloadInput); err != nil {
			return comp, err
		}
	}
	return comp, nil
}

func CreateComponentMulti[
	TType any,
	TInput any,
	TContext any,
](def DefMulti[TType, TInput, TContext]) (comp ComponentMulti[TType, TInput], err error) {
	opts := withDefaults(def.Options)
	setup := def.Setup
	if setup == nil {
		setup = func(TInput) (context TContext, err error) { return context, nil }
	}
	if def.GetInstances == nil && def.Render == nil {
		return comp, opts.fail(eris.Errorf("component %q needs either `GetInstances` or `Render`", def.Name))
	}

	tmpl, err := prepareTemplate(def.Name, def.Template, def.TemplateIsFile, opts)
	if err != nil {
		return comp, opts.fail(err)
	}

	comp.Render = func(input TInput) (instances []TType, contents []string, err error) {
		defer recoverInto(&err, def.Name, opts.PanicOnError)

		context, err := setup(input)
		if err != nil {
			return instances, contents, opts.fail(eris.Wrapf(err, "setup failed in %q", def.Name))
		}

		content, err := tmpl.render(context)
		if err != nil {
			return instances, contents, opts.fail(err)
		}
		contents = splitDocuments(content, tmpl.separator)

		if def.Render != nil {
			instances, err = def.Render(input, context, contents)
			if err != nil {
				return instances, contents, opts.fail(err)
			}
			return instances, contents, nil
		}

		// NOTE: The instances serve as blueprints, so each one is copied before
		// the document is unmarshalled into it.
		blueprints, err := def.GetInstances(input, context)
		if err != nil {
			return instances, contents, opts.fail(err)
		}
		if len(blueprints) != len(contents) {
			err = eris.Wrapf(ErrRenderResultMismatch, "found %v documents in %q, but %v instances", len(contents), def.Name, len(blueprints))
			return instances, contents, opts.fail(err)
		}

		for index, doc := range contents {
			instance := blueprints[index]
			if err = unmarshalInto(def.Name, doc, &instance, opts); err != nil {
				return instances, contents, opts.fail(err)
			}
			instances = append(instances, instance)
		}
		return instances, contents, nil
	}

	if opts.FrontloadEnabled {
		if _, _, err = comp.Render(opts.FrontloadInput); err != nil {
			return comp, err
		}
	}
	return comp, nil
}

// Turns a panic raised while rendering into an error, unless the component
// was asked to panic.
func recoverInto(err *error, name string, panicOnError bool) {
	if panicOnError {
		return
	}
	if r := recover(); r != nil {
		*err = fmt.Errorf("failed rendering component %q: %v", name, r)
	}
}

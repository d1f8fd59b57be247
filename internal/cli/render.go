package cli

import (
	"io"
	"os"
	"strings"

	eris "github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	yaml "sigs.k8s.io/yaml"

	component "github.com/jurooravec/dedent/pkg/component"
	utils "github.com/jurooravec/dedent/pkg/utils"
)

// renderConfig can be given as flags or as a YAML file. Flags win over the
// file, and the file wins over defaults.
type renderConfig struct {
	ValuesFile string `json:"values"`
	Separator  string `json:"separator"`
	// Zero keeps tabs as they are.
	TabSize    *int   `json:"tabSize"`
}

var defaultRenderConfig = renderConfig{
	Separator: component.DefaultMultiDocSeparator,
	TabSize:   utils.PointerOf(2),
}

type renderInput struct {
	Values map[string]any
}

type renderContext struct {
	Values map[string]any
}

func newRenderCmd(opts Options, verbose *bool) *cobra.Command {
	flagsCfg := renderConfig{}
	configPath := ""
	tabSize := 0
	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render an indented YAML template",
		Long: mustDedent(`
			Dedents a template file, renders it with Go templates and Sprig functions,
			and checks that every document in the result is valid YAML.

			Values from --values are available in the template as {{ .Values.key }}.
			Actions written as {{! ... }} are printed as {{ ... }} without being run.
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(opts, *verbose)

			if cmd.Flags().Changed("tab-size") {
				flagsCfg.TabSize = &tabSize
			}
			cfg, err := resolveRenderConfig(flagsCfg, configPath)
			if err != nil {
				return err
			}
			logger.Printf("render config: separator=%q tabSize=%d values=%q", cfg.Separator, *cfg.TabSize, cfg.ValuesFile)

			values, err := readValues(cfg.ValuesFile)
			if err != nil {
				return err
			}

			docs, err := renderTemplate(args[0], cfg, values)
			if err != nil {
				return err
			}
			logger.Printf("rendered %d documents from %s", len(docs), args[0])

			sep := "\n" + cfg.Separator + "\n"
			_, err = io.WriteString(opts.Stdout, strings.Join(docs, sep)+"\n")
			return err
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&configPath, "config", "", "YAML file with render settings")
	fs.StringVar(&flagsCfg.ValuesFile, "values", "", "YAML file with template values")
	fs.StringVar(&flagsCfg.Separator, "separator", "", "line separating documents (default \"---\")")
	fs.IntVar(&tabSize, "tab-size", 0, "spaces per tab in the template, 0 keeps tabs (default 2)")
	return cmd
}

func resolveRenderConfig(flagsCfg renderConfig, configPath string) (renderConfig, error) {
	cfg := flagsCfg
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return cfg, eris.Wrapf(err, "read config %q", configPath)
		}
		fileCfg := renderConfig{}
		if err := yaml.UnmarshalStrict(data, &fileCfg); err != nil {
			return cfg, eris.Wrapf(err, "parse config %q", configPath)
		}
		if err := utils.ApplyDefaults(&cfg, fileCfg); err != nil {
			return cfg, eris.Wrap(err, "apply config file")
		}
	}
	if err := utils.ApplyDefaults(&cfg, defaultRenderConfig); err != nil {
		return cfg, eris.Wrap(err, "apply default config")
	}
	return cfg, nil
}

func readValues(path string) (map[string]any, error) {
	values := map[string]any{}
	if path == "" {
		return values, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read values %q", path)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, eris.Wrapf(err, "parse values %q", path)
	}
	return values, nil
}

func renderTemplate(path string, cfg renderConfig, values map[string]any) ([]string, error) {
	comp, err := component.CreateComponentMulti(component.DefMulti[any, renderInput, renderContext]{
		Name:           path,
		Template:       path,
		TemplateIsFile: true,
		Setup: func(input renderInput) (renderContext, error) {
			return renderContext{Values: input.Values}, nil
		},
		// The documents have no schema; only check that they parse.
		Render: func(input renderInput, context renderContext, contentParts []string) ([]any, error) {
			docs := make([]any, 0, len(contentParts))
			for index, part := range contentParts {
				var doc any
				if err := yaml.Unmarshal([]byte(part), &doc); err != nil {
					return nil, eris.Wrapf(err, "document %d of %q is not valid YAML", index+1, path)
				}
				docs = append(docs, doc)
			}
			return docs, nil
		},
		Options: component.Options[renderInput]{
			MultiDocSeparator: cfg.Separator,
			TabSize:           tabSizeOption(cfg.TabSize),
		},
	})
	if err != nil {
		return nil, err
	}

	_, contents, err := comp.Render(renderInput{Values: values})
	return contents, err
}

func tabSizeOption(tabSize *int) *int {
	if tabSize == nil || *tabSize == 0 {
		return nil
	}
	return tabSize
}

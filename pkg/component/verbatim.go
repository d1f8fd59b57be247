package component

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	verbatimActionRe = regexp.MustCompile(`{{![^}]*}}`)
	verbatimSlotRe   = regexp.MustCompile(`__dedent__slot_\d+`)
)

// Templates may need to emit template actions themselves, e.g. when the
// output is a Helm chart. Actions written as `{{! ... }}` are swapped out for
// placeholders before rendering, and put back as `{{ ... }}` afterwards.
func escapeVerbatimActions(tmpl string) (string, map[string]string) {
	replacementMap := map[string]string{}

	tmpl = verbatimActionRe.ReplaceAllStringFunc(tmpl, func(match string) string {
		// E.g. `__dedent__slot_1`
		key := fmt.Sprintf("__dedent__slot_%v", len(replacementMap))
		replacementMap[key] = strings.Replace(match, "{{!", "{{", 1)
		return key
	})

	return tmpl, replacementMap
}

func unescapeVerbatimActions(content string, replacementMap map[string]string) string {
	if len(replacementMap) == 0 {
		return content
	}
	return verbatimSlotRe.ReplaceAllStringFunc(content, func(match string) string {
		if action, ok := replacementMap[match]; ok {
			return action
		}
		return match
	})
}

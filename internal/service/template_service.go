package service

import (
	"strings"
)

// RenderTemplate substitutes every {key} placeholder in data, replacing
// all occurrences of each.
func RenderTemplate(template string, data map[string]string) string {
	result := template
	for k, v := range data {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}

// RenderMessage personalizes a campaign template for one recipient.
func RenderMessage(template, name string) string {
	return RenderTemplate(template, map[string]string{"name": name})
}

package narrative

import (
	"strings"
	"text/template"
)

const storySystem = "You are a creative storyteller who inspires students."

var storyTemplate = template.Must(template.New("story").Parse(
	`Write a short, engaging, first-person story (about 150-200 words) from the perspective of a student having a great day using their new laptop.

The student's main goal is {{.Purpose}}.

The laptop is the {{.Name}}, and it has a {{.CPU}} processor, {{.RAM}}GB of RAM, and a {{.GPU}} graphics card.

Weave in 1-2 subtle details about how the laptop's features make their day easier or more enjoyable for their specific purpose. For coding mention how quickly the code compiles, for design smooth rendering, for gaming high frame rates, for study seamless multitasking with lots of tabs open.

The tone should be positive, aspirational and relatable. Start the story in the morning and end it in the evening. Don't use markdown.`))

const compatibilitySystem = "You are a helpful assistant for a student laptop recommendation app."

var compatibilityTemplate = template.Must(template.New("compatibility").Parse(
	`Analyze if a given laptop can run a list of software smoothly.

Laptop Specifications:
- Name: {{.Name}}
- CPU: {{.CPU}}
- GPU: {{.GPU}}
- RAM: {{.RAM}}GB

Software to check:
{{range .Software}}- {{.}}
{{end}}
Based on the laptop's specifications, provide a brief, helpful analysis (2-3 sentences) on how well it can run the listed software. Mention if the experience will be smooth for professional work, adequate for most tasks, or potentially sluggish for very demanding operations. Do not give a simple "yes" or "no". Frame the analysis from the perspective of a student's needs.`))

type promptData struct {
	Name     string
	CPU      string
	GPU      string
	RAM      int
	Purpose  string
	Software []string
}

func render(t *template.Template, data promptData) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

package structured

import (
	"strconv"
	"strings"
)

// ProjectContent renders the answers as flat text in template order. Only sections whose payload
// is complete produce a block, so the output is a pure function of (template, data).
func ProjectContent(tpl Template, data Data) string {
	blocks := make([]string, 0, len(tpl.Sections))
	for _, sec := range tpl.Sections {
		p, ok := data[sec.ID]
		if !ok || p == nil || p.Kind() != sec.Type || !p.Complete() {
			continue
		}
		blocks = append(blocks, heading(sec)+"\n"+renderBody(p))
	}
	return strings.Join(blocks, "\n\n")
}

func heading(sec Section) string {
	emoji := strings.TrimSpace(sec.Emoji)
	if emoji == "" {
		return "## " + sec.Title
	}
	return "## " + emoji + " " + sec.Title
}

func renderBody(p Payload) string {
	switch v := p.(type) {
	case TextareaPayload:
		return string(v)

	case QuotePayload:
		var b strings.Builder
		b.WriteString("> ")
		b.WriteString(strings.TrimSpace(v.Quote))
		if page := strings.TrimSpace(v.Page); page != "" {
			b.WriteString(" (p.")
			b.WriteString(page)
			b.WriteString(")")
		}
		if reason := strings.TrimSpace(v.Reason); reason != "" {
			b.WriteString("\n선택 이유: ")
			b.WriteString(reason)
		}
		return b.String()

	case ListPayload:
		return numbered(nonBlank(v.Items), "", ". ")

	case EmotionPayload:
		lines := make([]string, 0, 2)
		if len(v.Emotions) > 0 {
			lines = append(lines, "감정: "+strings.Join(v.Emotions, ", "))
		}
		if d := strings.TrimSpace(v.Description); d != "" {
			lines = append(lines, d)
		}
		return strings.Join(lines, "\n")

	case QuestionsPayload:
		// numbering follows the filtered list, so blanks never leave gaps
		return numbered(nonBlank(v.Questions), "Q", ". ")
	}
	return ""
}

func numbered(items []string, prefix, sep string) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = prefix + strconv.Itoa(i+1) + sep + it
	}
	return strings.Join(lines, "\n")
}

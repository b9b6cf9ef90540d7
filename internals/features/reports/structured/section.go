// Package structured models template-driven book reports: typed sections, their payloads,
// completeness rules and the flat-text projection used by legacy display and search.
package structured

import (
	"encoding/json"
	"strings"
)

type SectionType string

const (
	SectionTextarea  SectionType = "textarea"
	SectionQuote     SectionType = "quote"
	SectionList      SectionType = "list"
	SectionEmotion   SectionType = "emotion"
	SectionQuestions SectionType = "questions"
)

func (t SectionType) Valid() bool {
	switch t {
	case SectionTextarea, SectionQuote, SectionList, SectionEmotion, SectionQuestions:
		return true
	}
	return false
}

type Section struct {
	ID          string      `json:"id" validate:"required,max=64"`
	Title       string      `json:"title" validate:"required,max=120"`
	Emoji       string      `json:"emoji,omitempty" validate:"omitempty,max=16"`
	Type        SectionType `json:"type" validate:"required,oneof=textarea quote list emotion questions"`
	Required    bool        `json:"required"`
	Placeholder string      `json:"placeholder,omitempty" validate:"omitempty,max=500"`
}

// Template is the read-only shape the pipeline needs from the registry.
type Template struct {
	Code     string    `json:"code"`
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Sections []Section `json:"sections"`
}

/* =========================
   Payloads (one per type)
========================= */

// Payload is the tagged union of section answers.
type Payload interface {
	Kind() SectionType
	// Complete reports whether the payload satisfies the type's completeness rule.
	Complete() bool
}

type TextareaPayload string

type QuotePayload struct {
	Quote  string `json:"quote"`
	Page   string `json:"page,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type ListPayload struct {
	Items []string `json:"items"`
}

type EmotionPayload struct {
	Emotions    []string `json:"emotions"`
	Description string   `json:"description,omitempty"`
}

type QuestionsPayload struct {
	Questions []string `json:"questions"`
}

func (TextareaPayload) Kind() SectionType  { return SectionTextarea }
func (QuotePayload) Kind() SectionType     { return SectionQuote }
func (ListPayload) Kind() SectionType      { return SectionList }
func (EmotionPayload) Kind() SectionType   { return SectionEmotion }
func (QuestionsPayload) Kind() SectionType { return SectionQuestions }

func (p TextareaPayload) Complete() bool  { return !blank(string(p)) }
func (p QuotePayload) Complete() bool     { return !blank(p.Quote) }
func (p ListPayload) Complete() bool      { return len(nonBlank(p.Items)) > 0 }
func (p EmotionPayload) Complete() bool   { return len(p.Emotions) >= 1 }
func (p QuestionsPayload) Complete() bool { return len(nonBlank(p.Questions)) > 0 }

// UnmarshalJSON accepts page as either a string or a number.
func (p *QuotePayload) UnmarshalJSON(b []byte) error {
	var raw struct {
		Quote  string          `json:"quote"`
		Page   json.RawMessage `json:"page"`
		Reason string          `json:"reason"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	p.Quote = raw.Quote
	p.Reason = raw.Reason
	p.Page = ""

	page := strings.TrimSpace(string(raw.Page))
	if page == "" || page == "null" {
		return nil
	}
	if strings.HasPrefix(page, `"`) {
		var s string
		if err := json.Unmarshal(raw.Page, &s); err != nil {
			return err
		}
		p.Page = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw.Page, &n); err != nil {
		return err
	}
	p.Page = n.String()
	return nil
}

// Data maps section id to its payload.
type Data map[string]Payload

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !blank(s) {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

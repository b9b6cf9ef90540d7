package structured

import (
	"bytes"
	"encoding/json"
	"fmt"

	"bookclub_backend/internals/helpers/apperr"
)

// DecodeData turns the loose client mapping into typed payloads using the template's section
// types. Ids not declared by the template are dropped; a JSON null counts as absent. The first
// malformed payload in template order is returned as the error.
func DecodeData(tpl Template, raw map[string]json.RawMessage) (Data, error) {
	out, bad := decodeAll(tpl, raw)
	for _, sec := range tpl.Sections {
		if bad[sec.ID] {
			return nil, malformed(sec)
		}
	}
	return out, nil
}

// decodeAll decodes every declared section and records the ids whose payload did not decode.
func decodeAll(tpl Template, raw map[string]json.RawMessage) (Data, map[string]bool) {
	out := make(Data, len(raw))
	var bad map[string]bool
	for _, sec := range tpl.Sections {
		msg, ok := raw[sec.ID]
		if !ok || isNull(msg) {
			continue
		}
		p, err := decodePayload(sec.Type, msg)
		if err != nil {
			if bad == nil {
				bad = make(map[string]bool)
			}
			bad[sec.ID] = true
			continue
		}
		out[sec.ID] = p
	}
	return out, bad
}

func malformed(sec Section) error {
	return apperr.ValidationError{
		SectionID:    sec.ID,
		SectionTitle: sec.Title,
		Reason:       apperr.ReasonMalformed,
	}
}

// DecodeStored reads a mapping previously produced by EncodeData.
func DecodeStored(tpl Template, stored []byte) (Data, error) {
	if len(bytes.TrimSpace(stored)) == 0 {
		return Data{}, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(stored, &raw); err != nil {
		return nil, fmt.Errorf("decode stored sections: %w", err)
	}
	return DecodeData(tpl, raw)
}

// EncodeData serializes the mapping; map keys are emitted sorted so the bytes are stable.
func EncodeData(d Data) ([]byte, error) {
	if d == nil {
		d = Data{}
	}
	return json.Marshal(d)
}

func decodePayload(t SectionType, msg json.RawMessage) (Payload, error) {
	switch t {
	case SectionTextarea:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, err
		}
		return TextareaPayload(s), nil
	case SectionQuote:
		var p QuotePayload
		if err := json.Unmarshal(msg, &p); err != nil {
			return nil, err
		}
		return p, nil
	case SectionList:
		var p ListPayload
		if err := json.Unmarshal(msg, &p); err != nil {
			return nil, err
		}
		return p, nil
	case SectionEmotion:
		var p EmotionPayload
		if err := json.Unmarshal(msg, &p); err != nil {
			return nil, err
		}
		return p, nil
	case SectionQuestions:
		var p QuestionsPayload
		if err := json.Unmarshal(msg, &p); err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, fmt.Errorf("unknown section type %q", t)
}

func isNull(msg json.RawMessage) bool {
	b := bytes.TrimSpace(msg)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}

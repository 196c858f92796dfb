package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"insightlens/internal/models"
)

// DecodeError reports a model reply that does not match the summary schema.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid summary response: %v", e.Err)
	}
	return fmt.Sprintf("invalid summary response field %q: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

var errMissingField = errors.New("required field is missing")

// decodeVideoSummary parses the reply once and checks presence and shape of
// every required field. No repair is attempted.
func decodeVideoSummary(text string) (*models.VideoSummary, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if raw == nil {
		return nil, &DecodeError{Err: fmt.Errorf("response is not a JSON object")}
	}

	for _, field := range summaryFields {
		if isMissing(raw[field]) {
			return nil, &DecodeError{Field: field, Err: errMissingField}
		}
	}

	summary := &models.VideoSummary{}
	if err := decodeField(raw, fieldVideoTitle, &summary.VideoTitle); err != nil {
		return nil, err
	}
	if err := decodeField(raw, fieldCoreConcept, &summary.CoreConcept); err != nil {
		return nil, err
	}
	var err error
	if summary.SummaryPoints, err = decodeStrings(raw, fieldSummaryPoints); err != nil {
		return nil, err
	}
	if summary.Analogies, err = decodeStrings(raw, fieldAnalogies); err != nil {
		return nil, err
	}

	var principles []map[string]json.RawMessage
	if err := decodeField(raw, fieldFirstPrinciples, &principles); err != nil {
		return nil, err
	}
	summary.FirstPrinciples = make([]models.FirstPrinciple, 0, len(principles))
	for i, item := range principles {
		path := fmt.Sprintf("%s[%d]", fieldFirstPrinciples, i)
		if item == nil {
			return nil, &DecodeError{Field: path, Err: errMissingField}
		}
		var fp models.FirstPrinciple
		for _, f := range []struct {
			name string
			dst  *string
		}{
			{fieldPrinciple, &fp.Principle},
			{fieldExplanation, &fp.Explanation},
		} {
			if isMissing(item[f.name]) {
				return nil, &DecodeError{Field: path + "." + f.name, Err: errMissingField}
			}
			if err := json.Unmarshal(item[f.name], f.dst); err != nil {
				return nil, &DecodeError{Field: path + "." + f.name, Err: err}
			}
		}
		summary.FirstPrinciples = append(summary.FirstPrinciples, fp)
	}

	return summary, nil
}

func decodeField(raw map[string]json.RawMessage, field string, dst any) error {
	if err := json.Unmarshal(raw[field], dst); err != nil {
		return &DecodeError{Field: field, Err: err}
	}
	return nil
}

// decodeStrings rejects null elements, which json.Unmarshal would turn into "".
func decodeStrings(raw map[string]json.RawMessage, field string) ([]string, error) {
	var items []json.RawMessage
	if err := decodeField(raw, field, &items); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("%s[%d]", field, i)
		if isMissing(item) {
			return nil, &DecodeError{Field: path, Err: errMissingField}
		}
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, &DecodeError{Field: path, Err: err}
		}
		out = append(out, s)
	}
	return out, nil
}

func isMissing(v json.RawMessage) bool {
	return len(v) == 0 || bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

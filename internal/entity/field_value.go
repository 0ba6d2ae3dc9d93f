package entity

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of date field values.
const DateLayout = "2006-01-02"

// FieldValue is the typed payload of an asset field. Exactly one of Text,
// Number or Date is meaningful, selected by Type.
type FieldValue struct {
	Type   FieldType
	Text   string
	Number float64
	Date   time.Time
}

func TextValue(s string) FieldValue {
	return FieldValue{Type: FieldTypeText, Text: s}
}

func NumberValue(n float64) FieldValue {
	return FieldValue{Type: FieldTypeNumber, Number: n}
}

func DateValue(t time.Time) FieldValue {
	y, m, d := t.Date()
	return FieldValue{Type: FieldTypeDate, Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseFieldValue converts raw client input into the variant declared by t.
func ParseFieldValue(t FieldType, raw string) (FieldValue, error) {
	switch t {
	case FieldTypeText:
		return TextValue(raw), nil
	case FieldTypeNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return FieldValue{}, fmt.Errorf("%q is not a valid number", raw)
		}
		return NumberValue(n), nil
	case FieldTypeDate:
		d, err := time.Parse(DateLayout, strings.TrimSpace(raw))
		if err != nil {
			return FieldValue{}, fmt.Errorf("%q is not a valid date, expected YYYY-MM-DD", raw)
		}
		return DateValue(d), nil
	}
	return FieldValue{}, fmt.Errorf("unknown field type %q", t)
}

// Interface returns the value as a plain JSON-friendly Go value.
func (v FieldValue) Interface() interface{} {
	switch v.Type {
	case FieldTypeNumber:
		return v.Number
	case FieldTypeDate:
		return v.Date.Format(DateLayout)
	default:
		return v.Text
	}
}

func (v FieldValue) String() string {
	switch v.Type {
	case FieldTypeNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case FieldTypeDate:
		return v.Date.Format(DateLayout)
	default:
		return v.Text
	}
}

type fieldValueJSON struct {
	Type   FieldType `json:"type"`
	Text   *string   `json:"text,omitempty"`
	Number *float64  `json:"number,omitempty"`
	Date   *string   `json:"date,omitempty"`
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	out := fieldValueJSON{Type: v.Type}
	switch v.Type {
	case FieldTypeText:
		out.Text = &v.Text
	case FieldTypeNumber:
		out.Number = &v.Number
	case FieldTypeDate:
		s := v.Date.Format(DateLayout)
		out.Date = &s
	default:
		return nil, fmt.Errorf("cannot encode field value of type %q", v.Type)
	}
	return json.Marshal(out)
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var in fieldValueJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Type {
	case FieldTypeText:
		if in.Text == nil {
			return fmt.Errorf("text value missing")
		}
		*v = TextValue(*in.Text)
	case FieldTypeNumber:
		if in.Number == nil {
			return fmt.Errorf("number value missing")
		}
		*v = NumberValue(*in.Number)
	case FieldTypeDate:
		if in.Date == nil {
			return fmt.Errorf("date value missing")
		}
		d, err := time.Parse(DateLayout, *in.Date)
		if err != nil {
			return err
		}
		*v = DateValue(d)
	default:
		return fmt.Errorf("unknown field value type %q", in.Type)
	}
	return nil
}

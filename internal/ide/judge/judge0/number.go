package judge0

import (
	"bytes"
	"strconv"
)

// flexNumber accepts a JSON number, a numeric string or null. Judge0 reports
// time as a string and memory as a number. Text is the value as sent.
type flexNumber struct {
	Value float64
	Text  string
	Valid bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	raw := bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(raw) == 0 || string(raw) == "null" {
		n.Value, n.Text, n.Valid = 0, "", false
		return nil
	}
	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return err
	}
	n.Value, n.Text, n.Valid = v, string(raw), true
	return nil
}

package backend

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// number decodes a JSON number or a numeric string. Anything else leaves
// it unset.
type number struct {
	value  float64
	set    bool
	quoted bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	s := string(b)
	quoted := len(b) > 0 && b[0] == '"'

	if quoted {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil //nolint:nilerr
		}
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil //nolint:nilerr
	}

	n.value, n.set, n.quoted = v, true, quoted

	return nil
}

// truthy mirrors the remote API's loose "x || fallback" reading: zero and
// unset both fall through.
func (n number) truthy() bool {
	return n.set && n.value != 0
}

func (n number) int() int {
	return int(math.Round(n.value))
}

func (n number) money() int64 {
	return int64(math.Round(n.value))
}

func firstNumber(ns ...number) number {
	for _, n := range ns {
		if n.truthy() {
			return n
		}
	}

	return number{}
}

// firstGiven is firstNumber where a numeric string counts even when it
// reads as zero, so "0" is a value and 0 is not.
func firstGiven(ns ...number) number {
	for _, n := range ns {
		if n.set && (n.quoted || n.value != 0) {
			return n
		}
	}

	return number{}
}

// flag decodes true/false, 0/1 and their string forms.
type flag struct {
	value bool
	set   bool
}

func (f *flag) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)

	switch strings.ToLower(s) {
	case "true", "1":
		f.value, f.set = true, true
	case "false", "0", "":
		f.value, f.set = false, true
	}

	return nil
}

// list decodes a JSON array of strings, a string holding a JSON array, or
// a comma separated string.
type list []string

func (l *list) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}

	var arr []string

	if b[0] == '[' {
		if err := json.Unmarshal(b, &arr); err == nil {
			*l = arr
		}

		return nil
	}

	var s string

	if err := json.Unmarshal(b, &s); err != nil {
		return nil //nolint:nilerr
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if strings.HasPrefix(s, "[") {
		if err := json.Unmarshal([]byte(s), &arr); err == nil {
			*l = arr

			return nil
		}
	}

	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			arr = append(arr, part)
		}
	}

	*l = arr

	return nil
}

// id decodes a numeric or string identifier into its string form.
type id string

func (i *id) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return nil
	}

	var s string

	if err := json.Unmarshal(b, &s); err == nil {
		*i = id(strings.TrimSpace(s))

		return nil
	}

	var n json.Number

	if err := json.Unmarshal(b, &n); err == nil {
		*i = id(n.String())
	}

	return nil
}

func firstString(ss ...string) string {
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}

	return ""
}

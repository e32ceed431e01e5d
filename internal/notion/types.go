package notion

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Property type tags as reported by the API
const (
	TypeTitle       = "title"
	TypeRichText    = "rich_text"
	TypeSelect      = "select"
	TypeStatus      = "status"
	TypeMultiSelect = "multi_select"
	TypeNumber      = "number"
	TypeCheckbox    = "checkbox"
	TypeFiles       = "files"
	TypeURL         = "url"
	TypeFormula     = "formula"
)

// QueryResponse is one page of a database query.
// Results is a pointer so a response without the list can be told apart from an empty one.
type QueryResponse struct {
	Object     string  `json:"object"`
	Results    *[]Page `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// Page is one source record
type Page struct {
	Object         string              `json:"object"`
	ID             string              `json:"id"`
	CreatedTime    *time.Time          `json:"created_time"`
	LastEditedTime *time.Time          `json:"last_edited_time"`
	Archived       bool                `json:"archived"`
	InTrash        bool                `json:"in_trash"`
	URL            string              `json:"url"`
	Properties     map[string]Property `json:"properties"`
}

// RichText is one run of formatted text
type RichText struct {
	Type      string       `json:"type"`
	PlainText string       `json:"plain_text"`
	Href      *string      `json:"href"`
	Text      *TextContent `json:"text"`
}

// TextContent is the raw content of a text run
type TextContent struct {
	Content string `json:"content"`
}

// Plain returns the text of the run, preferring the rendered plain text
func (r RichText) Plain() string {
	if r.PlainText != "" {
		return r.PlainText
	}
	if r.Text != nil {
		return r.Text.Content
	}
	return ""
}

// SelectOption is a label from a controlled set
type SelectOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// File is a file reference. Hosted files carry a signed URL that expires.
type File struct {
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	File     *FileLocation `json:"file"`
	External *FileLocation `json:"external"`
}

// FileLocation holds the URL of a file
type FileLocation struct {
	URL        string     `json:"url"`
	ExpiryTime *time.Time `json:"expiry_time"`
}

// Location returns the download URL of the file, hosted first then external
func (f File) Location() string {
	if f.File != nil && f.File.URL != "" {
		return f.File.URL
	}
	if f.External != nil && f.External.URL != "" {
		return f.External.URL
	}
	return ""
}

// FormulaValue is the computed result of a formula property
type FormulaValue struct {
	Type    string   `json:"type"`
	String  *string  `json:"string"`
	Number  *float64 `json:"number"`
	Boolean *bool    `json:"boolean"`
}

// Property is one type-tagged field of a page.
// Decoding never fails: a value whose shape does not match its type tag is left empty,
// which readers treat the same as an absent field.
type Property struct {
	ID          string
	Type        string
	Title       []RichText
	RichText    []RichText
	Select      *SelectOption
	Status      *SelectOption
	MultiSelect []SelectOption
	Number      *float64
	Checkbox    *bool
	Files       []File
	URL         *string
	Formula     *FormulaValue
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Property) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	var head struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil
	}
	*p = Property{ID: head.ID, Type: head.Type}

	value, ok := raw[head.Type]
	if !ok {
		return nil
	}

	var err error
	switch head.Type {
	case TypeTitle:
		err = json.Unmarshal(value, &p.Title)
	case TypeRichText:
		err = json.Unmarshal(value, &p.RichText)
	case TypeSelect:
		err = json.Unmarshal(value, &p.Select)
	case TypeStatus:
		err = json.Unmarshal(value, &p.Status)
	case TypeMultiSelect:
		err = json.Unmarshal(value, &p.MultiSelect)
	case TypeNumber:
		err = json.Unmarshal(value, &p.Number)
	case TypeCheckbox:
		err = json.Unmarshal(value, &p.Checkbox)
	case TypeFiles:
		err = json.Unmarshal(value, &p.Files)
	case TypeURL:
		err = json.Unmarshal(value, &p.URL)
	case TypeFormula:
		err = json.Unmarshal(value, &p.Formula)
	}

	if err != nil {
		*p = Property{ID: head.ID, Type: head.Type}
	}
	return nil
}

// MarshalJSON implements json.Marshaler, producing the API shape
func (p Property) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"id":   p.ID,
		"type": p.Type,
	}

	switch p.Type {
	case TypeTitle:
		out[p.Type] = p.Title
	case TypeRichText:
		out[p.Type] = p.RichText
	case TypeSelect:
		out[p.Type] = p.Select
	case TypeStatus:
		out[p.Type] = p.Status
	case TypeMultiSelect:
		out[p.Type] = p.MultiSelect
	case TypeNumber:
		out[p.Type] = p.Number
	case TypeCheckbox:
		out[p.Type] = p.Checkbox
	case TypeFiles:
		out[p.Type] = p.Files
	case TypeURL:
		out[p.Type] = p.URL
	case TypeFormula:
		out[p.Type] = p.Formula
	}

	return json.Marshal(out)
}

// Text returns the plain text of a title, rich text, url, select or string formula property.
// Runs are concatenated.
func (p Property) Text() string {
	switch p.Type {
	case TypeTitle:
		return joinRuns(p.Title)
	case TypeRichText:
		return joinRuns(p.RichText)
	case TypeURL:
		if p.URL != nil {
			return *p.URL
		}
	case TypeSelect, TypeStatus:
		return p.Label()
	case TypeNumber:
		if p.Number != nil {
			return strconv.FormatFloat(*p.Number, 'f', -1, 64)
		}
	case TypeFormula:
		if p.Formula != nil && p.Formula.String != nil {
			return *p.Formula.String
		}
	}
	return ""
}

// FirstRun returns the plain text of the first run of a title or rich text property
func (p Property) FirstRun() string {
	var runs []RichText
	switch p.Type {
	case TypeTitle:
		runs = p.Title
	case TypeRichText:
		runs = p.RichText
	}
	if len(runs) == 0 {
		return ""
	}
	return runs[0].Plain()
}

// Label returns the selected option name of a select or status property
func (p Property) Label() string {
	switch {
	case p.Type == TypeSelect && p.Select != nil:
		return p.Select.Name
	case p.Type == TypeStatus && p.Status != nil:
		return p.Status.Name
	}
	return ""
}

// Labels returns the option names of a multi-select property
func (p Property) Labels() []string {
	if p.Type != TypeMultiSelect {
		return nil
	}
	labels := make([]string, 0, len(p.MultiSelect))
	for _, opt := range p.MultiSelect {
		if name := strings.TrimSpace(opt.Name); name != "" {
			labels = append(labels, name)
		}
	}
	return labels
}

// Float returns the numeric value of a number or number formula property.
// Text properties holding a number are parsed as well; a decimal comma is accepted.
func (p Property) Float() (float64, bool) {
	switch p.Type {
	case TypeNumber:
		if p.Number != nil {
			return *p.Number, true
		}
	case TypeFormula:
		if p.Formula != nil && p.Formula.Number != nil {
			return *p.Formula.Number, true
		}
	case TypeTitle, TypeRichText:
		text := strings.TrimSpace(p.Text())
		if text == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Bool returns the value of a checkbox or boolean formula property
func (p Property) Bool() bool {
	switch p.Type {
	case TypeCheckbox:
		return p.Checkbox != nil && *p.Checkbox
	case TypeFormula:
		return p.Formula != nil && p.Formula.Boolean != nil && *p.Formula.Boolean
	}
	return false
}

// FirstFile returns the first file of a files property
func (p Property) FirstFile() (File, bool) {
	if p.Type != TypeFiles || len(p.Files) == 0 {
		return File{}, false
	}
	return p.Files[0], true
}

func joinRuns(runs []RichText) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Plain())
	}
	return b.String()
}

package notion

// Page is a record-store row: an id plus named, typed properties.
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

// Property is one typed value. Only the variants this tool reads are
// decoded; Type identifies which one is populated.
type Property struct {
	Type     string     `json:"type"`
	Title    []RichText `json:"title,omitempty"`
	RichText []RichText `json:"rich_text,omitempty"`
	Number   *float64   `json:"number,omitempty"`
	Select   *Select    `json:"select,omitempty"`
	Relation []Relation `json:"relation,omitempty"`
}

type RichText struct {
	Text struct {
		Content string `json:"content"`
	} `json:"text"`
	PlainText string `json:"plain_text"`
}

type Select struct {
	Name string `json:"name"`
}

type Relation struct {
	ID string `json:"id"`
}

// TitleText returns the concatenated plain content of a title property.
func (p Property) TitleText() string {
	return richTextContent(p.Title)
}

// Text returns the concatenated plain content of a rich-text property.
func (p Property) Text() string {
	return richTextContent(p.RichText)
}

func richTextContent(parts []RichText) string {
	var out string
	for _, part := range parts {
		if part.Text.Content != "" {
			out += part.Text.Content
		} else {
			out += part.PlainText
		}
	}
	return out
}

// NumberValue returns the number and whether it is set.
func (p Property) NumberValue() (float64, bool) {
	if p.Number == nil {
		return 0, false
	}
	return *p.Number, true
}

// SelectName returns the select option name, or "" when unset.
func (p Property) SelectName() string {
	if p.Select == nil {
		return ""
	}
	return p.Select.Name
}

// RelationIDs returns the linked page ids of a relation property.
func (p Property) RelationIDs() []string {
	ids := make([]string, 0, len(p.Relation))
	for _, rel := range p.Relation {
		ids = append(ids, rel.ID)
	}
	return ids
}

// NumberProp composes a number property value; nil clears the field so
// stale numbers never linger in the store.
func NumberProp(v *float64) map[string]interface{} {
	if v == nil {
		return map[string]interface{}{"number": nil}
	}
	return map[string]interface{}{"number": *v}
}

// SelectProp composes a single-select property value.
func SelectProp(name string) map[string]interface{} {
	return map[string]interface{}{"select": map[string]interface{}{"name": name}}
}

// RichTextProp composes a rich-text property value.
func RichTextProp(content string) map[string]interface{} {
	return map[string]interface{}{
		"rich_text": []map[string]interface{}{
			{"text": map[string]interface{}{"content": content}},
		},
	}
}

// RelationProp composes a relation property value from page ids.
func RelationProp(ids []string) map[string]interface{} {
	rels := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		rels = append(rels, map[string]interface{}{"id": id})
	}
	return map[string]interface{}{"relation": rels}
}

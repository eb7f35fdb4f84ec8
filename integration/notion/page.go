package notion

import "strings"

// page is a directory store record as returned by the API.
type page struct {
	ID         string                  `json:"id"`
	Properties map[string]pageProperty `json:"properties"`
}

type pageProperty struct {
	Type        string        `json:"type,omitempty"`
	Title       []richText    `json:"title,omitempty"`
	RichText    []richText    `json:"rich_text,omitempty"`
	Number      *float64      `json:"number,omitempty"`
	Select      *selectOption `json:"select,omitempty"`
	Status      *selectOption `json:"status,omitempty"`
	Email       *string       `json:"email,omitempty"`
	PhoneNumber *string       `json:"phone_number,omitempty"`
	URL         *string       `json:"url,omitempty"`
	Date        *dateValue    `json:"date,omitempty"`
	Relation    []relationRef `json:"relation,omitempty"`
}

type richText struct {
	PlainText string       `json:"plain_text,omitempty"`
	Text      *textContent `json:"text,omitempty"`
}

type textContent struct {
	Content string `json:"content"`
}

type selectOption struct {
	Name string `json:"name"`
}

type dateValue struct {
	Start string `json:"start"`
}

type relationRef struct {
	ID string `json:"id"`
}

func buildProperty(kind, value string) pageProperty {
	switch kind {
	case KindTitle:
		return pageProperty{Title: []richText{{Text: &textContent{Content: value}}}}
	case KindRichText:
		return pageProperty{RichText: []richText{{Text: &textContent{Content: value}}}}
	case KindSelect:
		return pageProperty{Select: &selectOption{Name: value}}
	case KindStatus:
		return pageProperty{Status: &selectOption{Name: value}}
	case KindEmail:
		return pageProperty{Email: &value}
	case KindPhone:
		return pageProperty{PhoneNumber: &value}
	case KindURL:
		return pageProperty{URL: &value}
	case KindDate:
		return pageProperty{Date: &dateValue{Start: value}}
	}
	// Unknown kinds degrade to rich text rather than dropping the value.
	return pageProperty{RichText: []richText{{Text: &textContent{Content: value}}}}
}

func buildNumberProperty(value float64) pageProperty {
	return pageProperty{Number: &value}
}

func buildRelationProperty(recordID string) pageProperty {
	return pageProperty{Relation: []relationRef{{ID: recordID}}}
}

func plainText(fragments []richText) string {
	var sb strings.Builder
	for i := range fragments {
		if fragments[i].PlainText != "" {
			sb.WriteString(fragments[i].PlainText)
		} else if fragments[i].Text != nil {
			sb.WriteString(fragments[i].Text.Content)
		}
	}
	return sb.String()
}

// stringValue extracts the property value as string regardless of the
// underlying property kind.
func (p *pageProperty) stringValue() string {
	switch {
	case len(p.Title) > 0:
		return plainText(p.Title)
	case len(p.RichText) > 0:
		return plainText(p.RichText)
	case p.Select != nil:
		return p.Select.Name
	case p.Status != nil:
		return p.Status.Name
	case p.Email != nil:
		return *p.Email
	case p.PhoneNumber != nil:
		return *p.PhoneNumber
	case p.URL != nil:
		return *p.URL
	case p.Date != nil:
		return p.Date.Start
	}
	return ""
}

func (pg *page) stringProperty(native string) string {
	property, exists := pg.Properties[native]
	if !exists {
		return ""
	}
	return property.stringValue()
}

func (pg *page) numberProperty(native string) float64 {
	property, exists := pg.Properties[native]
	if !exists || property.Number == nil {
		return 0
	}
	return *property.Number
}

func (pg *page) relationProperty(native string) string {
	property, exists := pg.Properties[native]
	if !exists || len(property.Relation) == 0 {
		return ""
	}
	return property.Relation[0].ID
}

package wikidata

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Data types. Fields are optional on the wire depending on the entity;
// absent ones simply unmarshal to their zero value.

// SearchHit is one wbsearchentities result.
type SearchHit struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type searchResponse struct {
	Search []SearchHit `json:"search"`
}

// LabelValue is a language-tagged label or description.
type LabelValue struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

// Entity is a Wikidata entity with labels, descriptions and claims.
type Entity struct {
	ID           string                `json:"id"`
	Missing      *string               `json:"missing,omitempty"`
	Labels       map[string]LabelValue `json:"labels"`
	Descriptions map[string]LabelValue `json:"descriptions"`
	Claims       map[string][]Claim    `json:"claims"`
}

type entitiesResponse struct {
	Entities map[string]*Entity `json:"entities"`
}

// Claim is one statement under a property.
type Claim struct {
	Mainsnak Snak   `json:"mainsnak"`
	Rank     string `json:"rank"`
}

// Snak carries the typed value of a claim.
type Snak struct {
	SnakType  string    `json:"snaktype"`
	Property  string    `json:"property"`
	DataValue DataValue `json:"datavalue"`
}

// DataValue keeps the raw value payload; accessor methods below decode
// the shapes the engine cares about.
type DataValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type entityIDValue struct {
	ID string `json:"id"`
}

type timeValue struct {
	Time string `json:"time"`
}

// Label returns the entity label for lang, or "" when absent.
func (e *Entity) Label(lang string) string {
	if e == nil {
		return ""
	}
	return e.Labels[lang].Value
}

// Description returns the entity description for lang, or "".
func (e *Entity) Description(lang string) string {
	if e == nil {
		return ""
	}
	return e.Descriptions[lang].Value
}

// EntityIDs returns all entity-id values claimed under prop, in claim order.
func (e *Entity) EntityIDs(prop string) []string {
	if e == nil {
		return nil
	}
	var ids []string
	for _, claim := range e.Claims[prop] {
		if id := claim.Mainsnak.DataValue.EntityID(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// FirstEntityID returns the first entity-id value under prop, or "".
func (e *Entity) FirstEntityID(prop string) string {
	ids := e.EntityIDs(prop)
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// FirstString returns the first plain-string value under prop, or "".
func (e *Entity) FirstString(prop string) string {
	if e == nil {
		return ""
	}
	for _, claim := range e.Claims[prop] {
		if s := claim.Mainsnak.DataValue.String(); s != "" {
			return s
		}
	}
	return ""
}

// EarliestYear returns the smallest 4-digit year claimed under prop, or 0.
func (e *Entity) EarliestYear(prop string) int {
	if e == nil {
		return 0
	}
	earliest := 0
	for _, claim := range e.Claims[prop] {
		y := claim.Mainsnak.DataValue.Year()
		if y == 0 {
			continue
		}
		if earliest == 0 || y < earliest {
			earliest = y
		}
	}
	return earliest
}

// EntityID decodes a wikibase-entityid value, or "" for other types.
func (v DataValue) EntityID() string {
	if v.Type != "wikibase-entityid" || len(v.Value) == 0 {
		return ""
	}
	var ev entityIDValue
	if err := json.Unmarshal(v.Value, &ev); err != nil {
		return ""
	}
	return ev.ID
}

// String decodes a plain string value, or "" for other types.
func (v DataValue) String() string {
	if v.Type != "string" || len(v.Value) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v.Value, &s); err != nil {
		return ""
	}
	return s
}

// Year decodes the year out of a time value like "+1994-03-08T00:00:00Z",
// or 0 when absent or unparseable.
func (v DataValue) Year() int {
	if v.Type != "time" || len(v.Value) == 0 {
		return 0
	}
	var tv timeValue
	if err := json.Unmarshal(v.Value, &tv); err != nil {
		return 0
	}
	t := strings.TrimPrefix(tv.Time, "+")
	if len(t) < 4 {
		return 0
	}
	year, err := strconv.Atoi(t[:4])
	if err != nil || year < 1000 || year > 9999 {
		return 0
	}
	return year
}

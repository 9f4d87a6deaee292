// Package gtr converts GEDCOM records into databases for the LaTeX
// genealogytree package.
//
// The package builds a bidirectional family graph from parsed GEDCOM
// records ([Build]) and serializes a depth-bounded "sandclock" view of one
// focal person into genealogytree's bracketed database notation
// ([Sandclock]): the person's descendants growing downward and their
// ancestors, with sibling context, growing upward.
//
// # Usage
//
//	doc, err := gedcom.ParseFile("family.ged")
//	graph, err := gtr.Build(doc)
//	person, ok := graph.Person("I0006")
//	out, err := gtr.Sandclock(person, gtr.DefaultOptions())
package gtr

import (
	"strings"

	"github.com/gedtree/gedtree/pkg/gedcom"
)

// Field is one key/value pair of a rendered genealogytree node. Values are
// fully formatted (brace-wrapped) at adaptation time; the serializer never
// re-escapes them. Field order within a Person is render order.
type Field struct {
	Key   string
	Value string
}

// Person is an individual in the family graph.
type Person struct {
	ID     string  // xref id without "@" delimiters
	Name   string  // plain "Given Surname" for non-LaTeX output
	Fields []Field // rendered genealogytree fields in fixed order

	// ParentFamilies lists the families in which this person is a parent
	// (spouse), in source order. ChildFamily is the single family in which
	// the person appears as a child, or nil when the parents are unknown.
	ParentFamilies []*Family
	ChildFamily    *Family
}

// Family is a family unit linking up to two parents with their children.
type Family struct {
	ID       string
	Parents  []*Person // up to two, HUSB role before WIFE role
	Children []*Person // source order
	Marriage Event
}

// Event is a life event with an optional date and place.
type Event struct {
	Date  *gedcom.DateValue
	Place string
}

// IsZero reports whether neither date nor place is recorded.
func (e Event) IsZero() bool {
	return e.Date == nil && e.Place == ""
}

// Field renders the event as a genealogytree field. The key carries a "-"
// modifier when no place is recorded; the value is "{date}" or
// "{date}{place}".
func (e Event) Field(key string) Field {
	if e.Place == "" {
		return Field{Key: key + "-", Value: "{" + FormatDate(e.Date) + "}"}
	}
	return Field{Key: key, Value: "{" + FormatDate(e.Date) + "}{" + e.Place + "}"}
}

// nameRoles is the priority order in which name records are considered for
// the single rendered name. An empty string is the unlabeled default name.
var nameRoles = []string{"maiden", "birth", "", "married"}

// NewPerson converts a GEDCOM INDI record into a Person with rendered
// fields and empty relationship links. Field order is fixed: name, birth,
// death, sex, profession.
func NewPerson(rec *gedcom.Record) (*Person, error) {
	p := &Person{ID: rec.XrefID()}

	given, surname := selectName(rec)
	p.Name = strings.TrimSpace(given + " " + surname)
	p.Fields = append(p.Fields, Field{
		Key:   "name",
		Value: `{\pref{` + given + `} \surn{` + surname + `}}`,
	})

	for _, tag := range []struct{ gedcom, gtr string }{
		{"BIRT", "birth"},
		{"DEAT", "death"},
	} {
		event, err := eventFromRecord(rec.Sub(tag.gedcom))
		if err != nil {
			return nil, err
		}
		if !event.IsZero() {
			p.Fields = append(p.Fields, event.Field(tag.gtr))
		}
	}

	if sex := rec.SubValue("SEX"); sex != "" {
		value := "{male}"
		if sex == "F" {
			value = "{female}"
		}
		p.Fields = append(p.Fields, Field{Key: "sex", Value: value})
	}

	if occupation := rec.SubValue("OCCU"); occupation != "" {
		p.Fields = append(p.Fields, Field{Key: "profession", Value: "{" + occupation + "}"})
	}

	return p, nil
}

// selectName picks the person's rendered name by role priority. Missing
// name parts come back as a literal "?" so the name field is never empty.
func selectName(rec *gedcom.Record) (given, surname string) {
	names := make(map[string][2]string)
	for _, name := range rec.SubAll("NAME") {
		g, s := splitName(name.Value)
		names[name.SubValue("TYPE")] = [2]string{g, s}
	}

	given, surname = "?", "?"
	for _, role := range nameRoles {
		name, ok := names[role]
		if !ok {
			continue
		}
		if name[0] != "" {
			given = name[0]
		}
		if name[1] != "" {
			surname = name[1]
		}
		break
	}
	return given, surname
}

// splitName splits a GEDCOM name value like "John /Doe/" into its given
// and surname parts. Either part may be empty.
func splitName(value string) (given, surname string) {
	first := strings.IndexByte(value, '/')
	if first < 0 {
		return strings.TrimSpace(value), ""
	}
	given = strings.TrimSpace(value[:first])
	rest := value[first+1:]
	if second := strings.IndexByte(rest, '/'); second >= 0 {
		surname = strings.TrimSpace(rest[:second])
	} else {
		surname = strings.TrimSpace(rest)
	}
	return given, surname
}

// eventFromRecord reads the DATE and PLAC sub-records of an event record
// such as BIRT, DEAT or MARR. A nil record yields a zero Event.
func eventFromRecord(rec *gedcom.Record) (Event, error) {
	if rec == nil {
		return Event{}, nil
	}
	event := Event{Place: rec.SubValue("PLAC")}
	if value := rec.SubValue("DATE"); value != "" {
		date, err := gedcom.ParseDate(value)
		if err != nil {
			return Event{}, err
		}
		event.Date = date
	}
	return event, nil
}

// Sex returns "male", "female" or "" when no sex is recorded.
func (p *Person) Sex() string {
	for _, f := range p.Fields {
		if f.Key == "sex" {
			return strings.Trim(f.Value, "{}")
		}
	}
	return ""
}

// GTR renders the person as a genealogytree node fragment, e.g.
//
//	g[id=I0006]{name={\pref{D} \surn{1}},sex={male},}
//
// nodeType is one of "g" (the family's own member), "p" (parent) or "c"
// (child). The id clause is omitted when includeID is false.
func (p *Person) GTR(nodeType string, includeID bool) string {
	var b strings.Builder
	b.WriteString(nodeType)
	if includeID {
		b.WriteString("[id=")
		b.WriteString(p.ID)
		b.WriteByte(']')
	}
	b.WriteByte('{')
	for _, f := range p.Fields {
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(f.Value)
		b.WriteByte(',')
	}
	b.WriteByte('}')
	return b.String()
}

// Options renders the family's bracketed option clause, e.g.
//
//	id=F0001,family database={marriage-={(AD)1892}}
//
// The marriage clause is omitted when no marriage event is recorded.
func (f *Family) Options() string {
	var b strings.Builder
	b.WriteString("id=")
	b.WriteString(f.ID)
	if !f.Marriage.IsZero() {
		field := f.Marriage.Field("marriage")
		b.WriteString(",family database={")
		b.WriteString(field.Key)
		b.WriteByte('=')
		b.WriteString(field.Value)
		b.WriteByte('}')
	}
	return b.String()
}

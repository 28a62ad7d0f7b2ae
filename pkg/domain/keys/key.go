// Package keys builds the composite keys records are stored under.
//
// Every record has a primary key (PK, SK) and one secondary index entry
// (GSI1PK, GSI1SK). Keys are built from typed segments and only rendered to
// their "#"-joined string form at the storage boundary.
package keys

import (
	"strings"
	"time"

	"github.com/dickravison/health-fitness-tracker/pkg/domain/activity"
)

// Separator joins composite key segments.
const Separator = "#"

// IndexGSI1 is the secondary index that orders records by timestamp.
const IndexGSI1 = "GSI1"

// Kind is the record family encoded in sort keys and index partitions.
type Kind string

const (
	KindUser     Kind = "USER"
	KindActivity Kind = "ACTIVITY"
	KindRace     Kind = "RACE"
	KindPR       Kind = "PR"
	KindHealth   Kind = "HEALTH"
)

// Composite is an ordered list of key segments.
type Composite []string

// String renders the composite in its stored form.
func (c Composite) String() string {
	return strings.Join(c, Separator)
}

// Segment returns the i-th segment or "" when out of range.
func (c Composite) Segment(i int) string {
	if i < 0 || i >= len(c) {
		return ""
	}
	return c[i]
}

// Last returns the final segment.
func (c Composite) Last() string {
	return c.Segment(len(c) - 1)
}

// ParseComposite splits a stored key back into its segments.
func ParseComposite(s string) Composite {
	if s == "" {
		return nil
	}
	return Composite(strings.Split(s, Separator))
}

// Key is the full set of keys for a stored record.
type Key struct {
	Partition      Composite
	Sort           Composite
	IndexPartition Composite
	// IndexSort is the record timestamp; it is used verbatim so range queries
	// compare lexicographically on ISO-8601 strings.
	IndexSort string
}

// Attribute names used at the storage boundary.
const (
	AttrPK     = "PK"
	AttrSK     = "SK"
	AttrGSI1PK = "GSI1PK"
	AttrGSI1SK = "GSI1SK"
)

// Attributes is the single conversion from a Key to its stored attributes.
func (k Key) Attributes() map[string]string {
	return map[string]string{
		AttrPK:     k.Partition.String(),
		AttrSK:     k.Sort.String(),
		AttrGSI1PK: k.IndexPartition.String(),
		AttrGSI1SK: k.IndexSort,
	}
}

// ID returns a document identifier unique across all records.
func (k Key) ID() string {
	return k.Partition.String() + Separator + k.Sort.String()
}

// UserPartition is the primary partition shared by all of an athlete's records.
func UserPartition(athleteID string) Composite {
	return Composite{string(KindUser), athleteID}
}

// IndexPartition is the GSI1 partition for one record family of an athlete.
func IndexPartition(athleteID string, kind Kind) Composite {
	return Composite{athleteID, string(kind)}
}

func dateSegments(t time.Time) []string {
	return strings.Split(t.Format("2006-01-02"), "-")
}

// ActivitySort is ACTIVITY#<category>#YYYY#MM#DD#<activity id>.
func ActivitySort(cat activity.Category, start time.Time, activityID string) Composite {
	c := Composite{string(KindActivity), string(cat)}
	c = append(c, dateSegments(start)...)
	return append(c, activityID)
}

// RaceSort is RACE#<category>#YYYY#MM#DD#<name>#<activity id>.
func RaceSort(cat activity.Category, start time.Time, name, activityID string) Composite {
	c := Composite{string(KindRace), string(cat)}
	c = append(c, dateSegments(start)...)
	return append(c, name, activityID)
}

// PRSort is PR#<category>#<pr type>#<identity suffix>#<activity id>.
func PRSort(cat activity.Category, prType, suffix, activityID string) Composite {
	return Composite{string(KindPR), string(cat), prType, suffix, activityID}
}

// HealthSort is HEALTH#YYYY#MM#DD for a wellness day id ("YYYY-MM-DD").
func HealthSort(day string) Composite {
	c := Composite{string(KindHealth)}
	return append(c, strings.Split(day, "-")...)
}

// FromAttributes rebuilds a Key from its stored attributes.
func FromAttributes(attrs map[string]string) Key {
	return Key{
		Partition:      ParseComposite(attrs[AttrPK]),
		Sort:           ParseComposite(attrs[AttrSK]),
		IndexPartition: ParseComposite(attrs[AttrGSI1PK]),
		IndexSort:      attrs[AttrGSI1SK],
	}
}

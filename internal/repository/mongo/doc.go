// Package mongo implements the document-store adapters for jobs, candidate
// profiles and applications, including the Atlas vector search primitive.
//
// Profile and job documents come from several generations of writers, so the
// decode layer tolerates field aliases, explicit nulls and polymorphic shapes
// (string-or-document skills, datetime-or-string dates) instead of assuming a
// single schema.
package mongo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/Danish-Adnaan/candidate-recommendation/internal/domain"
)

// nullString decodes a BSON string, treating explicit null/undefined as "".
type nullString string

func (s *nullString) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*s = ""
		return nil
	case bson.TypeString:
		rv := bson.RawValue{Type: t, Value: data}
		*s = nullString(rv.StringValue())
		return nil
	}
	return fmt.Errorf("cannot decode %v into a string field", t)
}

// textValue decodes a field that may be a string or a number into a string.
// Some legacy experience entries store years of experience numerically.
type textValue string

func (s *textValue) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*s = ""
	case bson.TypeString:
		*s = textValue(rv.StringValue())
	case bson.TypeInt32:
		*s = textValue(strconv.Itoa(int(rv.Int32())))
	case bson.TypeInt64:
		*s = textValue(strconv.FormatInt(rv.Int64(), 10))
	case bson.TypeDouble:
		*s = textValue(strconv.FormatFloat(rv.Double(), 'f', -1, 64))
	default:
		return fmt.Errorf("cannot decode %v into a text field", t)
	}
	return nil
}

// dateValue decodes a date stored either as a BSON datetime or as a raw
// string such as "Present" or "Jun 2022".
type dateValue struct {
	domain.DateValue
}

func (d *dateValue) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		return nil
	case bson.TypeDateTime:
		tm := rv.Time().UTC()
		d.Time = &tm
		return nil
	case bson.TypeString:
		d.Raw = rv.StringValue()
		return nil
	}
	return fmt.Errorf("cannot decode %v into a date field", t)
}

// skillEntry decodes a skill stored either as a plain string or as a
// document with one of several proficiency field names.
type skillEntry struct {
	Name        string
	Proficiency string
}

func (s *skillEntry) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		return nil
	case bson.TypeString:
		s.Name = rv.StringValue()
		return nil
	case bson.TypeEmbeddedDocument:
		var doc struct {
			SkillName        nullString `bson:"skill_name"`
			Name             nullString `bson:"name"`
			SkillProficiency textValue  `bson:"skill_proficiency"`
			ProficiencyLevel textValue  `bson:"proficiency_level"`
			Proficiency      textValue  `bson:"proficiency"`
			Level            textValue  `bson:"level"`
		}
		if err := rv.Unmarshal(&doc); err != nil {
			return err
		}
		s.Name = firstNonEmpty(string(doc.SkillName), string(doc.Name))
		s.Proficiency = firstNonEmpty(
			string(doc.SkillProficiency),
			string(doc.ProficiencyLevel),
			string(doc.Proficiency),
			string(doc.Level),
		)
		return nil
	}
	return fmt.Errorf("cannot decode %v into a skill", t)
}

// locationList decodes a location field that may be a single string, an
// array of strings, or an array of {city,state,country} documents.
type locationList []domain.Location

func (l *locationList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		return nil
	case bson.TypeString:
		*l = locationList{{Raw: rv.StringValue()}}
		return nil
	case bson.TypeArray:
		values, err := rv.Array().Values()
		if err != nil {
			return err
		}
		out := make(locationList, 0, len(values))
		for _, v := range values {
			switch v.Type {
			case bson.TypeString:
				out = append(out, domain.Location{Raw: v.StringValue()})
			case bson.TypeEmbeddedDocument:
				var doc struct {
					City    nullString `bson:"city"`
					State   nullString `bson:"state"`
					Country nullString `bson:"country"`
				}
				if err := v.Unmarshal(&doc); err != nil {
					return err
				}
				out = append(out, domain.Location{
					City:    string(doc.City),
					State:   string(doc.State),
					Country: string(doc.Country),
				})
			case bson.TypeNull, bson.TypeUndefined:
			default:
				return fmt.Errorf("cannot decode %v into a location entry", v.Type)
			}
		}
		*l = out
		return nil
	}
	return fmt.Errorf("cannot decode %v into locations", t)
}

// locString decodes a location that may be a plain string or a structured
// document, flattening the latter to "city, state, country".
type locString string

func (l *locString) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		return nil
	case bson.TypeString:
		*l = locString(rv.StringValue())
		return nil
	case bson.TypeEmbeddedDocument:
		var doc struct {
			City    nullString `bson:"city"`
			State   nullString `bson:"state"`
			Country nullString `bson:"country"`
		}
		if err := rv.Unmarshal(&doc); err != nil {
			return err
		}
		parts := make([]string, 0, 3)
		for _, p := range []string{string(doc.City), string(doc.State), string(doc.Country)} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		*l = locString(strings.Join(parts, ", "))
		return nil
	}
	return fmt.Errorf("cannot decode %v into a location", t)
}

// stringList decodes a field that may be a single string or an array of
// strings (job industries appear both ways).
type stringList []string

func (l *stringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		return nil
	case bson.TypeString:
		*l = stringList{rv.StringValue()}
		return nil
	case bson.TypeArray:
		values, err := rv.Array().Values()
		if err != nil {
			return err
		}
		out := make(stringList, 0, len(values))
		for _, v := range values {
			switch v.Type {
			case bson.TypeString:
				out = append(out, v.StringValue())
			case bson.TypeNull, bson.TypeUndefined:
			default:
				return fmt.Errorf("cannot decode %v into a string list entry", v.Type)
			}
		}
		*l = out
		return nil
	}
	return fmt.Errorf("cannot decode %v into a string list", t)
}

// nullTime decodes a BSON datetime, tolerating explicit null.
type nullTime struct {
	Value *time.Time
}

func (n *nullTime) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		return nil
	case bson.TypeDateTime:
		rv := bson.RawValue{Type: t, Value: data}
		tm := rv.Time().UTC()
		n.Value = &tm
		return nil
	}
	return fmt.Errorf("cannot decode %v into a timestamp", t)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

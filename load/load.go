// Package load reads governed schema documents written in YAML and builds
// the tables, views and script they describe.
//
//	name: publ
//	dialect: sqlite
//	housekeeping: typical
//	enums:
//	  - name: host_type
//	    values: [linux, windows]
//	tables:
//	  - name: publ_host
//	    columns:
//	      - {name: publ_host_id, type: text, primary_key: true}
//	      - {name: host, type: text, unique: true}
//	      - {name: host_type_code, references: host_type}
//	views:
//	  - name: publ_host_vw
//	    columns: [publ_host_id, host]
//	    body: SELECT publ_host_id, host FROM publ_host
package load

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	sqla "github.com/secret-point/sql-aide"
)

// Housekeeping modes.
const (
	HousekeepingTypical   = "typical"
	HousekeepingAuditable = "auditable"
)

// Spec is a schema document.
type Spec struct {
	Name         string       `yaml:"name"`
	Dialect      string       `yaml:"dialect,omitempty"`
	Housekeeping string       `yaml:"housekeeping,omitempty"`
	Domains      []DomainSpec `yaml:"domains,omitempty"`
	Enums        []EnumSpec   `yaml:"enums,omitempty"`
	Tables       []TableSpec  `yaml:"tables"`
	Views        []ViewSpec   `yaml:"views,omitempty"`
}

// DomainSpec is a named server-side domain. Only PostgreSQL supports them.
type DomainSpec struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Size       int    `yaml:"size,omitempty"`
	Idempotent bool   `yaml:"idempotent,omitempty"`
}

// EnumSpec is an enumeration table. Values make an ordinal enumeration,
// entries a text one.
type EnumSpec struct {
	Name    string      `yaml:"name"`
	Values  []string    `yaml:"values,omitempty"`
	Entries []EntrySpec `yaml:"entries,omitempty"`
}

// EntrySpec is a row of a text enumeration.
type EntrySpec struct {
	Code  string `yaml:"code"`
	Value string `yaml:"value"`
}

// TableSpec is a governed table. Housekeeping columns are appended.
type TableSpec struct {
	Name      string           `yaml:"name"`
	Mutable   bool             `yaml:"mutable,omitempty"`
	Deletable bool             `yaml:"deletable,omitempty"`
	Persist   string           `yaml:"persist,omitempty"` // tag of a persistence request
	Columns   []ColumnSpec     `yaml:"columns"`
	Rows      []map[string]any `yaml:"rows,omitempty"`
}

// ColumnSpec is a table column. References names a table or enumeration,
// optionally followed by ".column"; SelfRef names a column of the same table.
type ColumnSpec struct {
	Name          string `yaml:"name"`
	Type          string `yaml:"type,omitempty"`
	Size          int    `yaml:"size,omitempty"`
	PrimaryKey    bool   `yaml:"primary_key,omitempty"`
	AutoIncrement bool   `yaml:"auto_increment,omitempty"`
	Optional      bool   `yaml:"optional,omitempty"`
	Unique        bool   `yaml:"unique,omitempty"`
	Default       any    `yaml:"default,omitempty"`
	DefaultExpr   string `yaml:"default_expr,omitempty"`
	Check         string `yaml:"check,omitempty"`
	Comment       string `yaml:"comment,omitempty"`
	References    string `yaml:"references,omitempty"`
	SelfRef       string `yaml:"self_ref,omitempty"`
	OnDelete      string `yaml:"on_delete,omitempty"`
	OnUpdate      string `yaml:"on_update,omitempty"`
}

// ViewSpec is a view with an explicit column list.
type ViewSpec struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
	Body    string   `yaml:"body"`
}

// Parse decodes and checks a schema document. Unknown keys are errors.
func Parse(data []byte) (*Spec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	spec := &Spec{}
	if err := dec.Decode(spec); err != nil {
		return nil, fmt.Errorf("load: parse schema: %w", err)
	}
	spec.applyDefaults()
	if err := spec.check(); err != nil {
		return nil, err
	}
	return spec, nil
}

// File reads and parses the schema document at path.
func File(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read schema: %w", err)
	}
	return Parse(data)
}

func (s *Spec) applyDefaults() {
	if s.Housekeeping == "" {
		s.Housekeeping = HousekeepingTypical
	}
	for i := range s.Tables {
		for j := range s.Tables[i].Columns {
			c := &s.Tables[i].Columns[j]
			if c.Type == "" && c.References == "" && c.SelfRef == "" {
				c.Type = "text"
			}
		}
	}
}

func (s *Spec) check() error {
	if s.Name == "" {
		return sqla.NewConfigError("name", nil, "schema name is required")
	}
	switch s.Housekeeping {
	case HousekeepingTypical, HousekeepingAuditable:
	default:
		return sqla.NewConfigError("housekeeping", s.Housekeeping, "use typical or auditable")
	}
	seen := make(map[string]bool)
	unique := func(kind, name string) error {
		if name == "" {
			return sqla.NewConfigError(kind, nil, kind+" name is required")
		}
		if seen[name] {
			return sqla.NewConfigError(kind, name, "name is declared twice")
		}
		seen[name] = true
		return nil
	}
	for _, e := range s.Enums {
		if err := unique("enum", e.Name); err != nil {
			return err
		}
		if (len(e.Values) == 0) == (len(e.Entries) == 0) {
			return sqla.NewConfigError("enum", e.Name, "declare either values or entries")
		}
	}
	for _, t := range s.Tables {
		if err := unique("table", t.Name); err != nil {
			return err
		}
		if len(t.Columns) == 0 {
			return sqla.NewConfigError("table", t.Name, "table has no columns")
		}
		for _, c := range t.Columns {
			if c.Name == "" {
				return sqla.NewConfigError("column", t.Name, "column name is required")
			}
			if c.References != "" && c.SelfRef != "" {
				return sqla.NewConfigError("column", t.Name+"."+c.Name, "references and self_ref are exclusive")
			}
		}
	}
	for _, v := range s.Views {
		if err := unique("view", v.Name); err != nil {
			return err
		}
		if strings.TrimSpace(v.Body) == "" {
			return sqla.NewConfigError("view", v.Name, "view body is required")
		}
	}
	for _, d := range s.Domains {
		if d.Name == "" || d.Type == "" {
			return sqla.NewConfigError("domain", d.Name, "domain name and type are required")
		}
	}
	return nil
}

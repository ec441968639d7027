// Package protocol defines the risk protocol record produced from an
// informal incident report, together with its fixed classification
// enumerations and validation rules.
package protocol

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Category classifies the kind of incident. Values are fixed; anything
// else coming back from the model is rejected.
type Category string

const (
	CategoryPhysical    Category = "Físico/Patrimonial"
	CategoryBehavioral  Category = "Comportamental"
	CategoryOperational Category = "Operacional"
	CategoryViolence    Category = "Violência/Ameaça Pessoal"
	CategoryEmergency   Category = "Emergência/Evasão"
)

// Categories returns the enumeration in its canonical order.
func Categories() []Category {
	return []Category{
		CategoryPhysical,
		CategoryBehavioral,
		CategoryOperational,
		CategoryViolence,
		CategoryEmergency,
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryPhysical, CategoryBehavioral, CategoryOperational, CategoryViolence, CategoryEmergency:
		return true
	}
	return false
}

// Level is the ordered severity enumeration.
type Level string

const (
	LevelLow    Level = "Baixo"
	LevelMedium Level = "Médio"
	LevelHigh   Level = "Alto"
)

// Levels returns severities in ascending order. Dashboard aggregation
// iterates this order.
func Levels() []Level {
	return []Level{LevelLow, LevelMedium, LevelHigh}
}

func (l Level) Valid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return true
	}
	return false
}

// Draft holds the seven model-generated fields of a protocol, before the
// record identity (id, original report, timestamp) is attached.
type Draft struct {
	TechnicalDescription string   `json:"technicalDescription"`
	Category             Category `json:"category"`
	Level                Level    `json:"level"`
	ImmediateActions     []string `json:"immediateActions"`
	ResponsibleSector    string   `json:"responsibleSector"`
	CommunicationPlan    string   `json:"communicationPlan"`
	PreventiveMeasures   []string `json:"preventiveMeasures"`
}

// Validate rejects drafts that violate the schema the model was asked to
// follow: enum membership and non-null lists. A draft that fails here must
// never become a Record.
func (d *Draft) Validate() error {
	if d == nil {
		return fmt.Errorf("draft is nil")
	}
	if strings.TrimSpace(d.TechnicalDescription) == "" {
		return fmt.Errorf("technicalDescription is required")
	}
	if !d.Category.Valid() {
		return fmt.Errorf("category %q is not in the allowed enumeration", string(d.Category))
	}
	if !d.Level.Valid() {
		return fmt.Errorf("level %q is not in the allowed enumeration", string(d.Level))
	}
	if d.ImmediateActions == nil {
		return fmt.Errorf("immediateActions must not be null")
	}
	if d.PreventiveMeasures == nil {
		return fmt.Errorf("preventiveMeasures must not be null")
	}
	if strings.TrimSpace(d.ResponsibleSector) == "" {
		return fmt.Errorf("responsibleSector is required")
	}
	if strings.TrimSpace(d.CommunicationPlan) == "" {
		return fmt.Errorf("communicationPlan is required")
	}
	return nil
}

// Record is one generated risk protocol. Immutable after creation; the
// only lifecycle operation besides creation is removal from the list.
type Record struct {
	ID             string `json:"id"`
	InformalReport string `json:"informalReport"`
	Draft
	CreatedAt time.Time `json:"createdAt"`
}

// NewRecord stamps a validated draft with identity. The id is a ULID
// whose time component comes from the same instant as CreatedAt, so the
// two never disagree under an injected clock.
func NewRecord(report string, d Draft, now time.Time) Record {
	return Record{
		ID:             ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		InformalReport: report,
		Draft:          d,
		CreatedAt:      now,
	}
}

// CreatedAtShort formats the record's own timestamp the way the UI and
// the text renderings display it (dd/mm/yyyy hh:mm). Renderings must
// never consult the wall clock for this.
func (r *Record) CreatedAtShort() string {
	return r.CreatedAt.Format("02/01/2006 15:04")
}

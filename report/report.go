// Package report writes a session result to stdout in one of several formats.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brokenrelease/samilstatus/samil"
)

const (
	FormatLines = "lines"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Emitter writes one report for one session.
type Emitter interface {
	Emit(w io.Writer, name string, r *samil.Result) error
}

// New returns the Emitter for format. An empty format means FormatLines.
func New(format string) (Emitter, error) {
	switch format {
	case "", FormatLines:
		return Lines{}, nil
	case FormatJSON:
		return JSON{}, nil
	case FormatYAML:
		return YAML{}, nil
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

// Lines writes name=value lines:
//
//	Samil1_DateStamp=20150131
//	Samil1_TimeStamp=11:10
//	Samil1_InverterOnline=1
//	Samil1_Inverter_Temperature_C=50.40
//	...
//
// An offline inverter gets only Samil1_InverterOnline=0.
type Lines struct{}

func (Lines) Emit(w io.Writer, name string, r *samil.Result) error {
	if !r.Online {
		_, err := fmt.Fprintf(w, "%s_InverterOnline=0\n", name)
		return err
	}

	t := r.Time.Local()
	if _, err := fmt.Fprintf(w, "%s_DateStamp=%s\n%s_TimeStamp=%s\n%s_InverterOnline=1\n",
		name, t.Format("20060102"), name, t.Format("15:04"), name); err != nil {
		return err
	}
	for _, v := range r.Values {
		if _, err := fmt.Fprintf(w, "%s_%s\n", name, v); err != nil {
			return err
		}
	}
	return nil
}

type value struct {
	Label string  `json:"label" yaml:"label"`
	Unit  string  `json:"unit" yaml:"unit"`
	Value float64 `json:"value" yaml:"value"`
}

type record struct {
	Name   string     `json:"name" yaml:"name"`
	Time   *time.Time `json:"time,omitempty" yaml:"time,omitempty"`
	Online bool       `json:"online" yaml:"online"`
	Values []value    `json:"values,omitempty" yaml:"values,omitempty"`
}

func newRecord(name string, r *samil.Result) record {
	rec := record{Name: name, Online: r.Online}
	if !r.Online {
		return rec
	}
	t := r.Time
	rec.Time = &t
	for _, v := range r.Values {
		rec.Values = append(rec.Values, value{Label: v.Label, Unit: v.Unit, Value: round2(v.Value)})
	}
	return rec
}

// round2 keeps the two decimals the line format prints.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// JSON writes one JSON object per line.
type JSON struct{}

func (JSON) Emit(w io.Writer, name string, r *samil.Result) error {
	jb, err := json.Marshal(newRecord(name, r))
	if err != nil {
		return err
	}
	_, err = w.Write(append(jb, '\n'))
	return err
}

// YAML writes one YAML document.
type YAML struct{}

func (YAML) Emit(w io.Writer, name string, r *samil.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newRecord(name, r)); err != nil {
		return err
	}
	return enc.Close()
}

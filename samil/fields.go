package samil

import (
	"fmt"
)

// ResponseLen is the length of a valid QUERY response.
const ResponseLen = 51

// Field labels as reported.
const (
	LabelTemperature = "Inverter_Temperature"
	LabelPanel1Volts = "Panel1_Volts"
	LabelPanel1Amps  = "Panel1_Current"
	LabelTodayEnergy = "Todays_Energy"
	LabelGridAmps    = "Grid_Current"
	LabelGridVolts   = "Grid_Volts"
	LabelGridFreq    = "Grid_Frequency"
	LabelPower       = "Instantaneous_Power"
	LabelTotalEnergy = "Total_Energy"
)

// FieldSpec locates one telemetry value inside the QUERY response.
type FieldSpec struct {
	// Offset of the first byte, 0 based
	Offset int
	// Number of bytes, 1 to 4, big-endian unsigned
	Width int
	Label string
	Unit  string
	// Multiplier applied to the raw integer
	Scale float64
}

// Response layout. Bytes not listed here are not decoded.
var fields = [...]FieldSpec{
	{Offset: 9, Width: 2, Label: LabelTemperature, Unit: "C", Scale: 0.1},
	{Offset: 11, Width: 2, Label: LabelPanel1Volts, Unit: "V", Scale: 0.1},
	{Offset: 13, Width: 2, Label: LabelPanel1Amps, Unit: "A", Scale: 0.1},
	{Offset: 21, Width: 2, Label: LabelTodayEnergy, Unit: "Wh", Scale: 10},
	{Offset: 33, Width: 2, Label: LabelGridAmps, Unit: "A", Scale: 0.1},
	{Offset: 35, Width: 2, Label: LabelGridVolts, Unit: "V", Scale: 0.1},
	{Offset: 37, Width: 2, Label: LabelGridFreq, Unit: "Hz", Scale: 0.01},
	{Offset: 39, Width: 2, Label: LabelPower, Unit: "W", Scale: 1},
	{Offset: 41, Width: 4, Label: LabelTotalEnergy, Unit: "kWh", Scale: 0.1},
}

// Fields returns a copy of the response layout in report order.
func Fields() []FieldSpec {
	return append([]FieldSpec(nil), fields[:]...)
}

// Value is one decoded telemetry value.
type Value struct {
	Label string
	Unit  string
	Value float64
}

func (v Value) String() string {
	return fmt.Sprintf("%s_%s=%.2f", v.Label, v.Unit, v.Value)
}

// beUint assembles b as a big-endian unsigned integer. len(b) must be <= 4.
func beUint(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}

// Decode converts a QUERY response into one Value per field, in layout
// order. Any buffer that is not exactly ResponseLen bytes long is rejected
// with ErrUnexpectedLength.
func Decode(buf []byte) ([]Value, error) {
	if len(buf) != ResponseLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrUnexpectedLength, ResponseLen, len(buf))
	}

	values := make([]Value, 0, len(fields))
	for _, f := range fields {
		raw := beUint(buf[f.Offset : f.Offset+f.Width])
		values = append(values, Value{
			Label: f.Label,
			Unit:  f.Unit,
			Value: float64(raw) * f.Scale,
		})
	}

	return values, nil
}

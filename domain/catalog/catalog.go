// Package catalog is the static registry of component kinds and their
// default electrical properties. It is a pure lookup layer: it owns no
// state and never touches a circuit.
package catalog

import "encoding/json"

// ComponentType identifies a kind of circuit component
type ComponentType string

const (
	TypeResistor   ComponentType = "resistor"
	TypeCapacitor  ComponentType = "capacitor"
	TypeInductor   ComponentType = "inductor"
	TypeLED        ComponentType = "led"
	TypeBattery    ComponentType = "battery"
	TypeSwitch     ComponentType = "switch"
	TypeGround     ComponentType = "ground"
	TypeWire       ComponentType = "wire"
	TypeBreadboard ComponentType = "breadboard"
	TypeArduino    ComponentType = "arduino"
	TypeSensor     ComponentType = "sensor"
)

// PropertySet is the tagged union of per-type property records. Each
// variant is a strongly typed struct; component kinds the catalog does
// not know (forward-compatible circuits loaded from storage) carry a
// GenericProperties bag instead of failing.
type PropertySet interface {
	Kind() ComponentType
	Clone() PropertySet
}

// ResistorProperties are the properties of a resistor
type ResistorProperties struct {
	Resistance float64 `json:"resistance"`
	Tolerance  float64 `json:"tolerance"`
}

func (ResistorProperties) Kind() ComponentType { return TypeResistor }

// Clone returns a copy of the property set
func (p ResistorProperties) Clone() PropertySet { return p }

// CapacitorProperties are the properties of a capacitor
type CapacitorProperties struct {
	Capacitance   float64 `json:"capacitance"`
	VoltageRating float64 `json:"voltage_rating"`
}

func (CapacitorProperties) Kind() ComponentType { return TypeCapacitor }

// Clone returns a copy of the property set
func (p CapacitorProperties) Clone() PropertySet { return p }

// LEDProperties are the properties of an LED
type LEDProperties struct {
	ForwardVoltage float64 `json:"forward_voltage"`
	ForwardCurrent float64 `json:"forward_current"`
	Color          string  `json:"color"`
}

func (LEDProperties) Kind() ComponentType { return TypeLED }

// Clone returns a copy of the property set
func (p LEDProperties) Clone() PropertySet { return p }

// BatteryProperties are the properties of a battery
type BatteryProperties struct {
	Voltage  float64 `json:"voltage"`
	Capacity float64 `json:"capacity"`
}

func (BatteryProperties) Kind() ComponentType { return TypeBattery }

// Clone returns a copy of the property set
func (p BatteryProperties) Clone() PropertySet { return p }

// SwitchProperties are the properties of a switch
type SwitchProperties struct {
	State string `json:"state"`
}

func (SwitchProperties) Kind() ComponentType { return TypeSwitch }

// Clone returns a copy of the property set
func (p SwitchProperties) Clone() PropertySet { return p }

// ArduinoProperties are the properties of an Arduino board
type ArduinoProperties struct {
	Model string `json:"model"`
}

func (ArduinoProperties) Kind() ComponentType { return TypeArduino }

// Clone returns a copy of the property set
func (p ArduinoProperties) Clone() PropertySet { return p }

// GenericProperties is the loose property bag for component kinds without
// a typed record, including kinds this build does not know about.
type GenericProperties map[string]interface{}

func (p GenericProperties) Kind() ComponentType { return "" }

// Clone returns a copy of the property bag
func (p GenericProperties) Clone() PropertySet {
	out := make(GenericProperties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// DefaultsFor returns the default property set for a component type.
// Unknown types yield an empty generic bag rather than an error.
func DefaultsFor(componentType ComponentType) PropertySet {
	switch componentType {
	case TypeResistor:
		return ResistorProperties{Resistance: 1000, Tolerance: 5}
	case TypeCapacitor:
		return CapacitorProperties{Capacitance: 0.000001, VoltageRating: 25}
	case TypeLED:
		return LEDProperties{ForwardVoltage: 2.0, ForwardCurrent: 0.02, Color: "red"}
	case TypeBattery:
		return BatteryProperties{Voltage: 9.0, Capacity: 1000}
	case TypeSwitch:
		return SwitchProperties{State: "open"}
	case TypeArduino:
		return ArduinoProperties{Model: "uno"}
	default:
		return GenericProperties{}
	}
}

// UnmarshalProperties decodes a JSON property object into the typed
// variant for the given component type. Types without a typed record,
// and unknown types, decode into GenericProperties.
func UnmarshalProperties(componentType ComponentType, data []byte) (PropertySet, error) {
	if len(data) == 0 || string(data) == "null" {
		return DefaultsFor(componentType), nil
	}

	switch componentType {
	case TypeResistor:
		var p ResistorProperties
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case TypeCapacitor:
		var p CapacitorProperties
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case TypeLED:
		var p LEDProperties
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case TypeBattery:
		var p BatteryProperties
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case TypeSwitch:
		var p SwitchProperties
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case TypeArduino:
		var p ArduinoProperties
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		p := GenericProperties{}
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	}
}

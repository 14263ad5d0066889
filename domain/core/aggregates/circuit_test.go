package aggregates

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/catalog"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/valueobjects"
	pkgerrors "github.com/Gaushik-Adhiban/Circuit-Simulation/pkg/errors"
)

func TestNewCircuit(t *testing.T) {
	t.Run("empty name gets a default", func(t *testing.T) {
		circuit := NewCircuit("")
		assert.Equal(t, "Untitled Circuit", circuit.Name())
		assert.Equal(t, 0, circuit.ComponentCount())
	})

	t.Run("creation carries no events until the circuit has an identity", func(t *testing.T) {
		circuit := NewCircuit("Blinker")
		assert.Empty(t, circuit.GetUncommittedEvents())
		assert.True(t, circuit.ID().IsZero())
	})
}

func TestAddComponent(t *testing.T) {
	t.Run("fresh component has defaults and unique id", func(t *testing.T) {
		circuit := NewCircuit("test")

		r1, err := circuit.AddComponent(catalog.TypeResistor, valueobjects.NewPosition(10, 20))
		require.NoError(t, err)
		r2, err := circuit.AddComponent(catalog.TypeResistor, valueobjects.NewPosition(30, 40))
		require.NoError(t, err)

		assert.NotEqual(t, r1.ID(), r2.ID())
		assert.Equal(t, 0.0, r1.Rotation())
		assert.Equal(t, "resistor_1", r1.Name())
		assert.Equal(t, "resistor_2", r2.Name())

		props, ok := r1.Properties().(catalog.ResistorProperties)
		require.True(t, ok)
		assert.Equal(t, 1000.0, props.Resistance)
		assert.Equal(t, 5.0, props.Tolerance)
	})

	t.Run("adding never disturbs existing components", func(t *testing.T) {
		circuit := NewCircuit("test")
		battery, err := circuit.AddComponent(catalog.TypeBattery, valueobjects.NewPosition(0, 0))
		require.NoError(t, err)
		batteryPos := battery.Position()

		_, err = circuit.AddComponent(catalog.TypeLED, valueobjects.NewPosition(5, 5))
		require.NoError(t, err)

		existing, err := circuit.Component(battery.ID())
		require.NoError(t, err)
		assert.Equal(t, batteryPos, existing.Position())
	})

	t.Run("empty type rejected", func(t *testing.T) {
		circuit := NewCircuit("test")
		_, err := circuit.AddComponent("", valueobjects.NewPosition(0, 0))
		assert.True(t, pkgerrors.IsValidation(err))
	})
}

func TestUpdateComponent(t *testing.T) {
	circuit := NewCircuit("test")
	led, err := circuit.AddComponent(catalog.TypeLED, valueobjects.NewPosition(1, 1))
	require.NoError(t, err)

	t.Run("patch merges only provided fields", func(t *testing.T) {
		name := "status_led"
		require.NoError(t, circuit.UpdateComponent(led.ID(), ComponentPatch{Name: &name}))

		updated, err := circuit.Component(led.ID())
		require.NoError(t, err)
		assert.Equal(t, "status_led", updated.Name())
		assert.Equal(t, valueobjects.NewPosition(1, 1), updated.Position())
	})

	t.Run("properties replace wholesale", func(t *testing.T) {
		require.NoError(t, circuit.UpdateComponent(led.ID(), ComponentPatch{
			Properties: catalog.LEDProperties{ForwardVoltage: 3.3, ForwardCurrent: 0.01, Color: "blue"},
		}))

		updated, err := circuit.Component(led.ID())
		require.NoError(t, err)
		props := updated.Properties().(catalog.LEDProperties)
		assert.Equal(t, "blue", props.Color)
	})

	t.Run("absent component is NotFound", func(t *testing.T) {
		err := circuit.UpdateComponent("missing", ComponentPatch{})
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestDeleteComponentCascades(t *testing.T) {
	circuit := NewCircuit("test")
	battery, _ := circuit.AddComponent(catalog.TypeBattery, valueobjects.NewPosition(0, 0))
	resistor, _ := circuit.AddComponent(catalog.TypeResistor, valueobjects.NewPosition(10, 0))
	led, _ := circuit.AddComponent(catalog.TypeLED, valueobjects.NewPosition(20, 0))

	_, err := circuit.Connect(battery.ID(), "positive", resistor.ID(), "1")
	require.NoError(t, err)
	_, err = circuit.Connect(resistor.ID(), "2", led.ID(), "anode")
	require.NoError(t, err)
	survivor, err := circuit.Connect(battery.ID(), "negative", led.ID(), "cathode")
	require.NoError(t, err)

	t.Run("wires touching the component go with it", func(t *testing.T) {
		assert.True(t, circuit.DeleteComponent(resistor.ID()))

		assert.Equal(t, 2, circuit.ComponentCount())
		assert.Equal(t, 1, circuit.ConnectionCount())
		_, err := circuit.Connection(survivor.ID)
		assert.NoError(t, err)
		assert.NoError(t, circuit.Validate())
	})

	t.Run("deleting again is a no-op", func(t *testing.T) {
		assert.False(t, circuit.DeleteComponent(resistor.ID()))
		assert.Equal(t, 2, circuit.ComponentCount())
	})
}

func TestConnect(t *testing.T) {
	circuit := NewCircuit("test")
	battery, _ := circuit.AddComponent(catalog.TypeBattery, valueobjects.NewPosition(0, 0))
	led, _ := circuit.AddComponent(catalog.TypeLED, valueobjects.NewPosition(10, 0))

	t.Run("missing endpoint leaves circuit unchanged", func(t *testing.T) {
		before := circuit.ConnectionCount()
		_, err := circuit.Connect(battery.ID(), "positive", "ghost", "anode")
		assert.True(t, pkgerrors.IsInvalidReference(err))
		assert.Equal(t, before, circuit.ConnectionCount())
	})

	t.Run("self-loop rejected", func(t *testing.T) {
		_, err := circuit.Connect(battery.ID(), "positive", battery.ID(), "negative")
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("parallel wires between the same pins allowed", func(t *testing.T) {
		first, err := circuit.Connect(battery.ID(), "positive", led.ID(), "anode")
		require.NoError(t, err)
		second, err := circuit.Connect(battery.ID(), "positive", led.ID(), "anode")
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, 2, circuit.ConnectionCount())
	})
}

func TestRemoveConnection(t *testing.T) {
	circuit := NewCircuit("test")
	battery, _ := circuit.AddComponent(catalog.TypeBattery, valueobjects.NewPosition(0, 0))
	led, _ := circuit.AddComponent(catalog.TypeLED, valueobjects.NewPosition(10, 0))
	conn, _ := circuit.Connect(battery.ID(), "positive", led.ID(), "anode")

	assert.True(t, circuit.RemoveConnection(conn.ID))
	assert.False(t, circuit.RemoveConnection(conn.ID))
	assert.Equal(t, 2, circuit.ComponentCount())
}

func TestSnapshotIsolation(t *testing.T) {
	circuit := NewCircuit("test")
	resistor, _ := circuit.AddComponent(catalog.TypeResistor, valueobjects.NewPosition(0, 0))

	snapshot := circuit.Snapshot()
	require.Len(t, snapshot.Components, 1)

	name := "renamed"
	require.NoError(t, circuit.UpdateComponent(resistor.ID(), ComponentPatch{Name: &name}))
	circuit.DeleteComponent(resistor.ID())

	assert.Equal(t, "resistor_1", snapshot.Components[0].Name)
	assert.Len(t, snapshot.Components, 1)
}

func TestMetadataIsolation(t *testing.T) {
	circuit := NewCircuit("test")
	circuit.SetMetadata(map[string]interface{}{
		"grid": map[string]interface{}{"spacing": 10.0},
		"tags": []interface{}{"demo"},
	})

	t.Run("snapshot mutations do not reach the circuit", func(t *testing.T) {
		snapshot := circuit.Snapshot()
		snapshot.Metadata["grid"].(map[string]interface{})["spacing"] = 99.0
		snapshot.Metadata["tags"].([]interface{})[0] = "hacked"

		metadata := circuit.Metadata()
		assert.Equal(t, 10.0, metadata["grid"].(map[string]interface{})["spacing"])
		assert.Equal(t, "demo", metadata["tags"].([]interface{})[0])
	})

	t.Run("clone mutations do not reach the source document", func(t *testing.T) {
		doc := circuit.Snapshot()
		clone := doc.Clone()
		clone.Metadata["grid"].(map[string]interface{})["spacing"] = 42.0

		assert.Equal(t, 10.0, doc.Metadata["grid"].(map[string]interface{})["spacing"])
	})

	t.Run("caller keeps no handle into the circuit after SetMetadata", func(t *testing.T) {
		input := map[string]interface{}{"layers": []interface{}{"top"}}
		circuit.SetMetadata(input)
		input["layers"].([]interface{})[0] = "bottom"

		assert.Equal(t, "top", circuit.Metadata()["layers"].([]interface{})[0])
	})
}

func TestReconstructCircuit(t *testing.T) {
	valid := CircuitDocument{
		ID:   "c-1",
		Name: "loaded",
		Components: []ComponentDocument{
			{ID: "a", Type: "battery", Name: "battery_1", Properties: catalog.BatteryProperties{Voltage: 9}},
			{ID: "b", Type: "led", Name: "led_1", Properties: catalog.LEDProperties{ForwardVoltage: 2}},
		},
		Connections: []ConnectionDocument{
			{ID: "w1", FromComponent: "a", FromPin: "positive", ToComponent: "b", ToPin: "anode"},
		},
	}

	t.Run("valid document round-trips", func(t *testing.T) {
		circuit, err := ReconstructCircuit(valid)
		require.NoError(t, err)
		assert.Equal(t, 2, circuit.ComponentCount())
		assert.Equal(t, 1, circuit.ConnectionCount())
		assert.Empty(t, circuit.GetUncommittedEvents())
	})

	t.Run("duplicate component id rejected", func(t *testing.T) {
		doc := valid.Clone()
		doc.Components[1].ID = "a"
		_, err := ReconstructCircuit(doc)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("dangling endpoint rejected", func(t *testing.T) {
		doc := valid.Clone()
		doc.Connections[0].ToComponent = "ghost"
		_, err := ReconstructCircuit(doc)
		assert.True(t, pkgerrors.IsInvalidReference(err))
	})
}

func TestReplaceAll(t *testing.T) {
	circuit := NewCircuit("local")
	circuit.AddComponent(catalog.TypeResistor, valueobjects.NewPosition(0, 0))

	t.Run("swaps state for a valid document", func(t *testing.T) {
		err := circuit.ReplaceAll(CircuitDocument{
			ID:   "c-9",
			Name: "canonical",
			Components: []ComponentDocument{
				{ID: "x", Type: "battery", Name: "battery_1", Properties: catalog.BatteryProperties{Voltage: 9}},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "canonical", circuit.Name())
		assert.Equal(t, "c-9", circuit.ID().String())
		assert.Equal(t, 1, circuit.ComponentCount())
	})

	t.Run("invalid document leaves circuit untouched", func(t *testing.T) {
		err := circuit.ReplaceAll(CircuitDocument{
			Name: "broken",
			Connections: []ConnectionDocument{
				{ID: "w", FromComponent: "nope", ToComponent: "also-nope"},
			},
		})
		require.Error(t, err)
		assert.Equal(t, "canonical", circuit.Name())
		assert.Equal(t, 1, circuit.ComponentCount())
	})
}

func TestComponentDocumentJSON(t *testing.T) {
	raw := []byte(`{
		"id": "r1",
		"type": "resistor",
		"name": "resistor_1",
		"position": {"x": 10, "y": 20},
		"rotation": 90,
		"properties": {"resistance": 220, "tolerance": 1}
	}`)

	var doc ComponentDocument
	require.NoError(t, json.Unmarshal(raw, &doc))

	props, ok := doc.Properties.(catalog.ResistorProperties)
	require.True(t, ok)
	assert.Equal(t, 220.0, props.Resistance)
	assert.Equal(t, 90.0, doc.Rotation)
}

package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/application/ports"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/catalog"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/aggregates"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/valueobjects"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/simulation"
	pkgerrors "github.com/Gaushik-Adhiban/Circuit-Simulation/pkg/errors"
)

type fakePersistence struct {
	loadFn func(ctx context.Context, circuitID string) (aggregates.CircuitDocument, error)
	saveFn func(ctx context.Context, doc aggregates.CircuitDocument) (aggregates.CircuitDocument, error)
}

func (f *fakePersistence) Load(ctx context.Context, circuitID string) (aggregates.CircuitDocument, error) {
	return f.loadFn(ctx, circuitID)
}

func (f *fakePersistence) Save(ctx context.Context, doc aggregates.CircuitDocument) (aggregates.CircuitDocument, error) {
	return f.saveFn(ctx, doc)
}

func (f *fakePersistence) List(ctx context.Context, filter ports.ListFilter) ([]ports.CircuitSummary, error) {
	return nil, nil
}

func (f *fakePersistence) Delete(ctx context.Context, circuitID string) error { return nil }

func (f *fakePersistence) Duplicate(ctx context.Context, circuitID, name string) (aggregates.CircuitDocument, error) {
	return aggregates.CircuitDocument{}, nil
}

func (f *fakePersistence) Export(ctx context.Context, circuitID string) (ports.CircuitExport, error) {
	return ports.CircuitExport{}, nil
}

type fakeSimulator struct {
	runFn func(ctx context.Context, req simulation.Request) (*simulation.Result, error)
}

func (f *fakeSimulator) Run(ctx context.Context, req simulation.Request) (*simulation.Result, error) {
	return f.runFn(ctx, req)
}

func (f *fakeSimulator) Validate(ctx context.Context, req simulation.Request) (*simulation.ValidationReport, error) {
	return &simulation.ValidationReport{Valid: true}, nil
}

func (f *fakeSimulator) Status(ctx context.Context, simulationID string) (*simulation.JobStatus, error) {
	return nil, pkgerrors.NewNotFoundError("simulation " + simulationID)
}

func newTestSession(persistence ports.PersistenceGateway, simulator ports.SimulationGateway) *Session {
	return NewSession(persistence, simulator, zap.NewNop())
}

func storedDocument(id, name string) aggregates.CircuitDocument {
	return aggregates.CircuitDocument{
		ID:   id,
		Name: name,
		Components: []aggregates.ComponentDocument{
			{ID: "b1", Type: "battery", Name: "battery_1", Properties: catalog.BatteryProperties{Voltage: 9}},
		},
	}
}

func TestSelection(t *testing.T) {
	s := newTestSession(&fakePersistence{}, &fakeSimulator{})
	s.NewCircuit("test")

	component, err := s.AddComponent(catalog.TypeResistor, valueobjects.NewPosition(0, 0))
	require.NoError(t, err)
	id := valueobjects.ComponentID(component.ID)

	t.Run("selecting a live component sticks", func(t *testing.T) {
		s.Select(id)
		selected, ok := s.SelectedComponent()
		require.True(t, ok)
		assert.Equal(t, id, selected)
	})

	t.Run("selecting an absent component clears instead", func(t *testing.T) {
		s.Select("ghost")
		_, ok := s.SelectedComponent()
		assert.False(t, ok)
	})

	t.Run("deleting the selected component clears the selection", func(t *testing.T) {
		s.Select(id)
		s.DeleteComponent(id)
		_, ok := s.SelectedComponent()
		assert.False(t, ok)
	})
}

func TestLoad(t *testing.T) {
	t.Run("success replaces the circuit and resets transient state", func(t *testing.T) {
		persistence := &fakePersistence{
			loadFn: func(ctx context.Context, circuitID string) (aggregates.CircuitDocument, error) {
				return storedDocument(circuitID, "loaded"), nil
			},
		}
		s := newTestSession(persistence, &fakeSimulator{})
		s.NewCircuit("scratch")
		component, _ := s.AddComponent(catalog.TypeLED, valueobjects.NewPosition(0, 0))
		s.Select(valueobjects.ComponentID(component.ID))

		require.NoError(t, s.Load(context.Background(), "c-1"))

		doc, ok := s.Snapshot()
		require.True(t, ok)
		assert.Equal(t, "loaded", doc.Name)
		_, selected := s.SelectedComponent()
		assert.False(t, selected)
		assert.Nil(t, s.Result())
	})

	t.Run("failure leaves an explicit no-circuit state", func(t *testing.T) {
		persistence := &fakePersistence{
			loadFn: func(ctx context.Context, circuitID string) (aggregates.CircuitDocument, error) {
				return aggregates.CircuitDocument{}, pkgerrors.NewTransportError("load", errors.New("connection refused"))
			},
		}
		s := newTestSession(persistence, &fakeSimulator{})
		s.NewCircuit("scratch")

		require.Error(t, s.Load(context.Background(), "c-1"))
		assert.False(t, s.HasCircuit())
	})

	t.Run("corrupt document leaves an explicit no-circuit state", func(t *testing.T) {
		persistence := &fakePersistence{
			loadFn: func(ctx context.Context, circuitID string) (aggregates.CircuitDocument, error) {
				return aggregates.CircuitDocument{
					Name: "broken",
					Connections: []aggregates.ConnectionDocument{
						{ID: "w", FromComponent: "nope", ToComponent: "gone"},
					},
				}, nil
			},
		}
		s := newTestSession(persistence, &fakeSimulator{})
		s.NewCircuit("scratch")

		require.Error(t, s.Load(context.Background(), "c-1"))
		assert.False(t, s.HasCircuit())
	})
}

func TestSave(t *testing.T) {
	t.Run("success adopts the canonical document", func(t *testing.T) {
		persistence := &fakePersistence{
			saveFn: func(ctx context.Context, doc aggregates.CircuitDocument) (aggregates.CircuitDocument, error) {
				doc.ID = "assigned-id"
				return doc, nil
			},
		}
		s := newTestSession(persistence, &fakeSimulator{})
		s.NewCircuit("mine")
		_, err := s.AddComponent(catalog.TypeBattery, valueobjects.NewPosition(0, 0))
		require.NoError(t, err)

		require.NoError(t, s.Save(context.Background()))

		doc, ok := s.Snapshot()
		require.True(t, ok)
		assert.Equal(t, "assigned-id", doc.ID)
		assert.Len(t, doc.Components, 1)
	})

	t.Run("failure leaves local state untouched", func(t *testing.T) {
		persistence := &fakePersistence{
			saveFn: func(ctx context.Context, doc aggregates.CircuitDocument) (aggregates.CircuitDocument, error) {
				return aggregates.CircuitDocument{}, pkgerrors.NewTransportError("save", errors.New("timeout"))
			},
		}
		s := newTestSession(persistence, &fakeSimulator{})
		s.NewCircuit("mine")
		component, _ := s.AddComponent(catalog.TypeResistor, valueobjects.NewPosition(3, 4))

		require.Error(t, s.Save(context.Background()))

		doc, ok := s.Snapshot()
		require.True(t, ok)
		assert.Empty(t, doc.ID)
		require.Len(t, doc.Components, 1)
		assert.Equal(t, component.ID, doc.Components[0].ID)
	})

	t.Run("response overtaken by a newer save is discarded", func(t *testing.T) {
		var s *Session
		firstCall := true
		persistence := &fakePersistence{
			saveFn: func(ctx context.Context, doc aggregates.CircuitDocument) (aggregates.CircuitDocument, error) {
				if firstCall {
					firstCall = false
					// A second save is issued and completes while the
					// first response is still in flight.
					require.NoError(t, s.Save(ctx))
					doc.ID = "stale-id"
					return doc, nil
				}
				doc.ID = "newer-id"
				return doc, nil
			},
		}
		s = newTestSession(persistence, &fakeSimulator{})
		s.NewCircuit("mine")
		_, err := s.AddComponent(catalog.TypeBattery, valueobjects.NewPosition(0, 0))
		require.NoError(t, err)

		err = s.Save(context.Background())
		require.Error(t, err)
		assert.True(t, pkgerrors.IsStale(err))

		doc, ok := s.Snapshot()
		require.True(t, ok)
		assert.Equal(t, "newer-id", doc.ID)
	})

	t.Run("response for a replaced circuit is discarded", func(t *testing.T) {
		var s *Session
		persistence := &fakePersistence{
			loadFn: func(ctx context.Context, circuitID string) (aggregates.CircuitDocument, error) {
				return aggregates.CircuitDocument{ID: circuitID, Name: "loaded"}, nil
			},
			saveFn: func(ctx context.Context, doc aggregates.CircuitDocument) (aggregates.CircuitDocument, error) {
				// The user loads a different circuit while the save
				// response is still in flight.
				require.NoError(t, s.Load(ctx, "c-2"))
				doc.ID = "save-id"
				return doc, nil
			},
		}
		s = newTestSession(persistence, &fakeSimulator{})
		s.NewCircuit("mine")
		_, err := s.AddComponent(catalog.TypeBattery, valueobjects.NewPosition(0, 0))
		require.NoError(t, err)

		err = s.Save(context.Background())
		require.Error(t, err)
		assert.True(t, pkgerrors.IsStale(err))

		doc, ok := s.Snapshot()
		require.True(t, ok)
		assert.Equal(t, "c-2", doc.ID)
		assert.Equal(t, "loaded", doc.Name)
		assert.Empty(t, doc.Components)
	})

	t.Run("no circuit is NotFound", func(t *testing.T) {
		s := newTestSession(&fakePersistence{}, &fakeSimulator{})
		assert.True(t, pkgerrors.IsNotFound(s.Save(context.Background())))
	})
}

func TestSimulate(t *testing.T) {
	t.Run("result becomes the display overlay without touching the circuit", func(t *testing.T) {
		simulator := &fakeSimulator{
			runFn: func(ctx context.Context, req simulation.Request) (*simulation.Result, error) {
				require.Len(t, req.Components, 1)
				return &simulation.Result{
					Success: true,
					Data: &simulation.Data{
						Voltages: map[string]float64{req.Components[0].ID: 9.0},
					},
				}, nil
			},
		}
		s := newTestSession(&fakePersistence{}, simulator)
		s.NewCircuit("test")
		component, _ := s.AddComponent(catalog.TypeBattery, valueobjects.NewPosition(0, 0))

		before, _ := s.Snapshot()
		result, err := s.Simulate(context.Background(), 1.0, 0.01)
		require.NoError(t, err)

		reading, ok := result.Reading(component.ID)
		require.True(t, ok)
		require.NotNil(t, reading.Voltage)
		assert.Equal(t, 9.0, *reading.Voltage)

		after, _ := s.Snapshot()
		assert.Equal(t, before.Components, after.Components)
		assert.Same(t, result, s.Result())
	})

	t.Run("failed run leaves the previous overlay in place", func(t *testing.T) {
		calls := 0
		simulator := &fakeSimulator{
			runFn: func(ctx context.Context, req simulation.Request) (*simulation.Result, error) {
				calls++
				if calls == 1 {
					return &simulation.Result{Success: true, Data: &simulation.Data{}}, nil
				}
				return nil, pkgerrors.NewExternalError("simulate", errors.New("solver crashed"))
			},
		}
		s := newTestSession(&fakePersistence{}, simulator)
		s.NewCircuit("test")
		s.AddComponent(catalog.TypeBattery, valueobjects.NewPosition(0, 0))

		first, err := s.Simulate(context.Background(), 1.0, 0.01)
		require.NoError(t, err)

		_, err = s.Simulate(context.Background(), 1.0, 0.01)
		require.Error(t, err)
		assert.Same(t, first, s.Result())
	})

	t.Run("result overtaken by a newer run is discarded", func(t *testing.T) {
		var s *Session
		firstCall := true
		simulator := &fakeSimulator{
			runFn: func(ctx context.Context, req simulation.Request) (*simulation.Result, error) {
				if firstCall {
					firstCall = false
					_, err := s.Simulate(ctx, 1.0, 0.01)
					require.NoError(t, err)
					return &simulation.Result{Message: "stale"}, nil
				}
				return &simulation.Result{Message: "newest"}, nil
			},
		}
		s = newTestSession(&fakePersistence{}, simulator)
		s.NewCircuit("test")
		s.AddComponent(catalog.TypeBattery, valueobjects.NewPosition(0, 0))

		_, err := s.Simulate(context.Background(), 1.0, 0.01)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsStale(err))
		assert.Equal(t, "newest", s.Result().Message)
	})
}

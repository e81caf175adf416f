package ecs

import (
	"testing"

	"github.com/phanxgames/luna"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	require.NotNil(t, sink)
}

func TestDonburiSink_ImplementsEventSink(t *testing.T) {
	world := donburi.NewWorld()
	var sink luna.EventSink = NewDonburiSink(world)
	_ = sink // compile-time interface check
}

func TestDonburiSink_SceneLifecycle(t *testing.T) {
	world := donburi.NewWorld()

	var received []luna.SceneEvent
	SceneEventType.Subscribe(world, func(w donburi.World, e luna.SceneEvent) {
		received = append(received, e)
	})

	scene := luna.NewScene(luna.Config{Width: 100, Height: 100})
	scene.SetEventSink(NewDonburiSink(world))

	parent := scene.CreateEntity()
	child := scene.CreateEntity()
	require.NoError(t, scene.SetParent(child, parent))
	require.NoError(t, scene.SetTransform(parent, luna.LocalTransform{Position: luna.Vec2{X: 10, Y: 10}, Scale: luna.Vec2{X: 1, Y: 1}}))
	require.NoError(t, scene.UpdateEntity(parent))

	// Events are queued until processed.
	assert.Empty(t, received)
	SceneEventType.ProcessEvents(world)

	require.Len(t, received, 4)
	assert.Equal(t, luna.EventEntityCreated, received[0].Type)
	assert.Equal(t, parent, received[0].Entity)
	assert.Equal(t, luna.EventEntityCreated, received[1].Type)
	assert.Equal(t, luna.EventParentChanged, received[2].Type)
	assert.Equal(t, child, received[2].Entity)
	assert.Equal(t, parent, received[2].Parent)
	assert.Equal(t, luna.EventEntityIndexed, received[3].Type)
	assert.Equal(t, luna.NewBoundingBox(10, 10, 1, 1), received[3].Box)
}

func TestDonburiSink_Filter(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world, luna.EventEntityDestroyed)

	var count int
	SceneEventType.Subscribe(world, func(w donburi.World, e luna.SceneEvent) {
		count++
		assert.Equal(t, luna.EventEntityDestroyed, e.Type)
	})

	sink.EmitEvent(luna.SceneEvent{Type: luna.EventEntityCreated})
	sink.EmitEvent(luna.SceneEvent{Type: luna.EventEntityDestroyed})
	events.ProcessAllEvents(world)

	assert.Equal(t, 1, count)
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	SceneEventType.Subscribe(world, func(w donburi.World, e luna.SceneEvent) {
		count1++
	})
	SceneEventType.Subscribe(world, func(w donburi.World, e luna.SceneEvent) {
		count2++
	})

	sink.EmitEvent(luna.SceneEvent{Type: luna.EventEntityIndexed})
	events.ProcessAllEvents(world)

	assert.Equal(t, 1, count1)
	assert.Equal(t, 1, count2)
}

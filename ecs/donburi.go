package ecs

import (
	"github.com/phanxgames/luna"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for luna scene events.
var SceneEventType = events.NewEventType[luna.SceneEvent]()

type donburiSink struct {
	world donburi.World
	only  map[luna.EventType]bool
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Scene
// events are published to SceneEventType and can be consumed with
// events.Subscribe and ProcessEvents. When types are given, only those
// event types are forwarded.
func NewDonburiSink(world donburi.World, types ...luna.EventType) luna.EventSink {
	s := &donburiSink{world: world}
	if len(types) > 0 {
		s.only = make(map[luna.EventType]bool, len(types))
		for _, t := range types {
			s.only[t] = true
		}
	}
	return s
}

func (s *donburiSink) EmitEvent(event luna.SceneEvent) {
	if s.only != nil && !s.only[event.Type] {
		return
	}
	SceneEventType.Publish(s.world, event)
}

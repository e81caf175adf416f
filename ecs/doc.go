// Package ecs provides ECS adapters for luna's scene events.
//
// The primary adapter is [NewDonburiSink], which forwards luna scene events
// (entity creation and destruction, reparenting, index changes) into a
// [Donburi] world as typed events. Subscribe to [SceneEventType] in your ECS
// systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

// Package luna is the entity hierarchy, transform composition, and spatial
// indexing engine behind a 2D design canvas. It answers "what is under this
// point, or inside this region, in front-to-back order?"
//
// # Quick start
//
//	scene := luna.NewScene(luna.Config{Width: 1920, Height: 1080})
//	frame := scene.CreateEntity()
//	button := scene.CreateEntity()
//	scene.SetParent(button, frame)
//
//	scene.SetTransform(frame, luna.LocalTransform{Position: luna.Vec2{X: 100, Y: 100}, Scale: luna.Vec2{X: 1, Y: 1}})
//	scene.SetTransform(button, luna.LocalTransform{Position: luna.Vec2{X: 20, Y: 20}, Scale: luna.Vec2{X: 1, Y: 1}})
//	scene.SetExtentSource(luna.ExtentMap{frame: {X: 400, Y: 300}, button: {X: 80, Y: 24}})
//	scene.UpdateSubtree(frame)
//
//	hit, ok := scene.HitTestPoint(130, 130) // button: it is nested deeper
//
// # Components
//
// Entities are generation-checked handles issued by an [EntityStore].
// The [Hierarchy] keeps parent/child edges as a forest and rejects cycles.
// [Transforms] stores local transforms and composes world transforms from
// the parent chain with full affine math, so a parent's rotation and scale
// move its children. The [QuadTree] indexes world-space boxes, and the
// [HitTestSystem] ties them together: [HitTestSystem.UpdateEntity] pulls a
// fresh world transform into the index, and queries order candidates by
// nesting depth, deepest first.
//
// # Two-phase updates
//
// Nothing propagates automatically. After moving, resizing, or reparenting
// an entity, call [Scene.UpdateEntity] (or [Scene.UpdateSubtree] when its
// descendants moved with it) before the next query.
//
// # Extras
//
// [Camera] converts between screen and canvas space for pan/zoom views,
// with animated scrolling via [gween]. [TweenGroup] animates transforms and
// keeps the index current. [Pointer] turns raw press/move/release samples
// into clicks and drags and tracks the hovered entity. Dragging moves the
// pressed entity, or every root of its [Selection], in the parent's space.
// The luna/ecs module forwards scene events into a [Donburi] world, and
// luna/debugdraw renders the index with [Ebitengine].
//
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
// [Ebitengine]: https://ebitengine.org
package luna

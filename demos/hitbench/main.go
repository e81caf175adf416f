// Hitbench drives a large scene through the drag-and-query loop of a canvas
// editor and writes a CPU profile to the working directory.
//
//	go run ./demos/hitbench -entities 50000 -frames 2000
//	go tool pprof -http=":8000" cpu.pprof
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/phanxgames/luna"
	"github.com/pkg/profile"
)

func main() {
	entities := flag.Int("entities", 20000, "number of entities")
	frames := flag.Int("frames", 1000, "number of simulated frames")
	mem := flag.Bool("mem", false, "profile allocations instead of CPU")
	flag.Parse()

	mode := profile.CPUProfile
	if *mem {
		mode = profile.MemProfileAllocs
	}
	p := profile.Start(mode, profile.ProfilePath("."), profile.NoShutdownHook)
	stats, err := run(*entities, *frames)
	p.Stop()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(stats)
}

type result struct {
	build, frames time.Duration
	hits, misses  int
	regionHits    int
}

func (r result) String() string {
	return fmt.Sprintf("build %v, frames %v, point hits %d, misses %d, region hits %d",
		r.build, r.frames, r.hits, r.misses, r.regionHits)
}

func run(n, frames int) (result, error) {
	var res result
	rng := rand.New(rand.NewPCG(1, 1))
	cfg := luna.DefaultConfig()
	cfg.Width, cfg.Height = 16384, 16384
	s := luna.NewScene(cfg)
	sizes := luna.ExtentMap{}
	s.SetExtentSource(sizes)

	start := time.Now()
	var roots []luna.EntityID
	all := make([]luna.EntityID, 0, n)
	for i := range n {
		e := s.CreateEntity()
		sizes[e] = luna.Vec2{X: 16 + rng.Float32()*64, Y: 16 + rng.Float32()*64}
		lt := luna.LocalTransform{Scale: luna.Vec2{X: 1, Y: 1}}
		if i%16 == 0 {
			lt.Position = luna.Vec2{X: rng.Float32() * 15000, Y: rng.Float32() * 15000}
			roots = append(roots, e)
		} else {
			lt.Position = luna.Vec2{X: rng.Float32() * 200, Y: rng.Float32() * 200}
			if err := s.SetParent(e, all[rng.IntN(len(all))]); err != nil {
				return res, err
			}
		}
		if err := s.SetTransform(e, lt); err != nil {
			return res, err
		}
		all = append(all, e)
	}
	// Deep chains can push boxes past the region; those stay unindexed.
	_ = s.Rebuild()
	res.build = time.Since(start)

	start = time.Now()
	for f := range frames {
		// One drag step per frame on a rotating set of roots.
		root := roots[f%len(roots)]
		if err := s.Translate(root, rng.Float32()*4-2, rng.Float32()*4-2); err != nil {
			return res, err
		}
		_ = s.UpdateSubtree(root)

		for range 32 {
			if _, ok := s.HitTestPoint(rng.Float32()*16384, rng.Float32()*16384); ok {
				res.hits++
			} else {
				res.misses++
			}
		}
		res.regionHits += len(s.HitTestRegion(rng.Float32()*15000, rng.Float32()*15000, 1280, 720))
	}
	res.frames = time.Since(start)
	return res, nil
}

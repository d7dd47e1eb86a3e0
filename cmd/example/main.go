package main

import (
	"log"
	"time"

	"ecscore/ecs"
)

type position struct{ x, y float64 }
type velocity struct{ dx, dy float64 }

type movementSystem struct {
	engine  *ecs.Engine
	family  *ecs.Family
	posType ecs.ComponentType
	velType ecs.ComponentType
}

func newMovementSystem(engine *ecs.Engine) *movementSystem {
	posType := engine.ComponentTypeOf(position{})
	velType := engine.ComponentTypeOf(velocity{})
	return &movementSystem{
		engine:  engine,
		family:  ecs.All(posType, velType).Get(),
		posType: posType,
		velType: velType,
	}
}

func (s *movementSystem) CheckProcessing() bool { return true }

func (s *movementSystem) Update(deltaTime float64) {
	s.engine.GetEntitiesFor(s.family).ForEach(func(e *ecs.Entity) {
		pos, _ := e.Get(s.posType)
		vel, _ := e.Get(s.velType)
		p := pos.(position)
		v := vel.(velocity)
		p.x += v.dx * deltaTime
		p.y += v.dy * deltaTime
		e.Add(s.posType, p)
	})
}

func main() {
	engine := ecs.NewEngine()
	system := newMovementSystem(engine)
	engine.AddSystem(system, 0)

	entity := engine.CreateEntity()
	if err := engine.AddEntity(entity); err != nil {
		log.Fatal(err)
	}
	engine.AddComponent(entity, position{})
	engine.AddComponent(entity, velocity{dx: 1, dy: 0.5})

	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; i < 5; i++ {
		<-ticker.C
		if err := engine.Update(0.016); err != nil {
			log.Fatal(err)
		}
	}

	pos, _ := entity.Get(system.posType)
	log.Printf("final position: %+v", pos)
}

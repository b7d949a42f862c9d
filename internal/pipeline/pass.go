package pipeline

import (
	"sort"

	"GopherRT/internal/gpu"
	"GopherRT/internal/logger"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Pass is a unit of GPU work scheduled by the host once per camera.
// Prepare allocates per-frame resources, Record issues the work and Release
// returns per-frame resources to the host pool.
type Pass interface {
	Name() string
	Event() Event
	Input() Input
	Prepare(cmd gpu.CommandBuffer, frame *FrameContext) error
	Record(cmd gpu.CommandBuffer, frame *FrameContext)
	Release(cmd gpu.CommandBuffer)
}

// PassQueue accepts passes for the current camera.
type PassQueue interface {
	EnqueuePass(p Pass)
}

// Feature contributes passes to each camera render.
type Feature interface {
	AddPasses(q PassQueue, frame *FrameContext) bool
	Dispose() error
}

// Queue is the per-camera pass list of a host renderer.
type Queue struct {
	passes []Pass
}

func (q *Queue) EnqueuePass(p Pass) {
	q.passes = append(q.passes, p)
}

// Passes returns the queued passes in execution order.
func (q *Queue) Passes() []Pass {
	out := append([]Pass(nil), q.passes...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Event() < out[j].Event()
	})
	return out
}

// Inputs returns the union of the scene inputs requested by queued passes.
func (q *Queue) Inputs() Input {
	var in Input
	for _, p := range q.passes {
		in |= p.Input()
	}
	return in
}

func (q *Queue) Len() int {
	return len(q.passes)
}

func (q *Queue) Reset() {
	q.passes = q.passes[:0]
}

// Execute prepares every pass, records them in order and releases them.
// A pass whose Prepare fails is not recorded but is still released.
func (q *Queue) Execute(cmd gpu.CommandBuffer, frame *FrameContext) {
	passes := q.Passes()
	ready := make([]bool, len(passes))
	for i, p := range passes {
		if err := p.Prepare(cmd, frame); err != nil {
			logger.Log.Warn("Pass setup failed, skipping",
				zap.String("pass", p.Name()),
				zap.Error(err))
			continue
		}
		ready[i] = true
	}
	for i, p := range passes {
		if ready[i] {
			p.Record(cmd, frame)
		}
	}
	for _, p := range passes {
		p.Release(cmd)
	}
}

// Renderer drives the registered features for each camera.
type Renderer struct {
	features []Feature
	queue    Queue
}

func NewRenderer(features ...Feature) *Renderer {
	return &Renderer{features: features}
}

func (r *Renderer) AddFeature(f Feature) {
	r.features = append(r.features, f)
}

// RenderCamera collects passes from all features and executes them on cmd.
// It returns the number of passes executed.
func (r *Renderer) RenderCamera(cmd gpu.CommandBuffer, frame *FrameContext) int {
	r.queue.Reset()
	for _, f := range r.features {
		f.AddPasses(&r.queue, frame)
	}
	n := r.queue.Len()
	r.queue.Execute(cmd, frame)
	r.queue.Reset()
	return n
}

// Dispose tears down all features.
func (r *Renderer) Dispose() error {
	var err error
	for _, f := range r.features {
		err = multierr.Append(err, f.Dispose())
	}
	r.features = nil
	return err
}

package pipeline

import (
	"errors"
	"testing"

	"GopherRT/internal/gpu"
	"GopherRT/internal/gpu/gputest"
)

type mockPass struct {
	name       string
	event      Event
	input      Input
	prepareErr error
	log        *[]string
}

func (m *mockPass) Name() string { return m.name }
func (m *mockPass) Event() Event { return m.event }
func (m *mockPass) Input() Input { return m.input }

func (m *mockPass) Prepare(gpu.CommandBuffer, *FrameContext) error {
	*m.log = append(*m.log, "prepare:"+m.name)
	return m.prepareErr
}

func (m *mockPass) Record(gpu.CommandBuffer, *FrameContext) {
	*m.log = append(*m.log, "record:"+m.name)
}

func (m *mockPass) Release(gpu.CommandBuffer) {
	*m.log = append(*m.log, "release:"+m.name)
}

func TestQueueOrdersByEvent(t *testing.T) {
	var log []string
	q := &Queue{}
	q.EnqueuePass(&mockPass{name: "late", event: AfterRenderingTransparents, log: &log})
	q.EnqueuePass(&mockPass{name: "early", event: AfterRenderingSkybox, log: &log})
	q.EnqueuePass(&mockPass{name: "late2", event: AfterRenderingTransparents, log: &log})

	passes := q.Passes()
	want := []string{"early", "late", "late2"}
	for i, p := range passes {
		if p.Name() != want[i] {
			t.Errorf("Expected pass %d to be %s, got %s", i, want[i], p.Name())
		}
	}
}

func TestQueueExecuteLifecycle(t *testing.T) {
	var log []string
	q := &Queue{}
	q.EnqueuePass(&mockPass{name: "b", event: AfterRenderingTransparents, log: &log})
	q.EnqueuePass(&mockPass{name: "a", event: AfterRenderingSkybox, log: &log})

	q.Execute(gputest.NewRecorder(), &FrameContext{})

	want := []string{"prepare:a", "prepare:b", "record:a", "record:b", "release:a", "release:b"}
	if len(log) != len(want) {
		t.Fatalf("Expected %d lifecycle calls, got %d: %v", len(want), len(log), log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("Call %d: expected %s, got %s", i, want[i], log[i])
		}
	}
}

func TestQueueSkipsRecordOnPrepareFailure(t *testing.T) {
	var log []string
	q := &Queue{}
	q.EnqueuePass(&mockPass{name: "broken", prepareErr: errors.New("boom"), log: &log})

	q.Execute(gputest.NewRecorder(), &FrameContext{})

	for _, entry := range log {
		if entry == "record:broken" {
			t.Error("Record should not run after a failed Prepare")
		}
	}
	if log[len(log)-1] != "release:broken" {
		t.Error("Release should still run after a failed Prepare")
	}
}

func TestQueueInputs(t *testing.T) {
	var log []string
	q := &Queue{}
	q.EnqueuePass(&mockPass{name: "a", input: InputDepth, log: &log})
	q.EnqueuePass(&mockPass{name: "b", input: InputNormal, log: &log})

	in := q.Inputs()
	if in&InputDepth == 0 || in&InputNormal == 0 {
		t.Errorf("Expected depth and normal inputs, got %b", in)
	}
}

func TestXREyeCount(t *testing.T) {
	tests := []struct {
		xr   XRState
		want int
	}{
		{XRState{}, 1},
		{XRState{Enabled: true, Mode: StereoMultiPass}, 1},
		{XRState{Enabled: true, Mode: StereoSinglePassInstanced}, 2},
		{XRState{Enabled: false, Mode: StereoSinglePassInstanced}, 1},
	}
	for _, tt := range tests {
		if got := tt.xr.EyeCount(); got != tt.want {
			t.Errorf("EyeCount(%+v) = %d, want %d", tt.xr, got, tt.want)
		}
	}
}

func TestFrameContextPerObjectData(t *testing.T) {
	f := &FrameContext{}
	f.RequirePerObjectData(PerObjectReflectionProbes)
	f.RequirePerObjectData(PerObjectReflectionProbeData)

	if f.PerObjectData() != PerObjectReflectionProbes|PerObjectReflectionProbeData {
		t.Errorf("Unexpected per-object data %b", f.PerObjectData())
	}
}

func TestEventString(t *testing.T) {
	if AfterRenderingSkybox.String() != "AfterRenderingSkybox" {
		t.Errorf("Unexpected name %s", AfterRenderingSkybox)
	}
	if Event(7).String() != "Event(7)" {
		t.Errorf("Unexpected name for unknown event: %s", Event(7))
	}
}

package events

import "testing"

func TestBus_DeliversInRegistrationOrderSynchronously(t *testing.T) {
	b := NewBus()
	var order []string
	b.Subscribe(func(e Event) { order = append(order, "first:"+string(e.Type)) })
	b.Subscribe(func(e Event) { order = append(order, "second:"+string(e.Type)) })

	b.Publish(New(TaskClaimed, WithTask("TASK-1")))

	want := []string{"first:TaskClaimed", "second:TaskClaimed"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestNew_AppliesOptions(t *testing.T) {
	e := New(TaskFailed, WithTask("TASK-1"), WithAgent("go"), WithMessage("boom"))
	if e.TaskID != "TASK-1" || e.AgentName != "go" || e.Message != "boom" {
		t.Errorf("options not applied: %+v", e)
	}
	if e.ID == "" {
		t.Error("expected a generated ID")
	}
}

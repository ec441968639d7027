package handler

import (
	"context"
	"testing"

	"riskprotocol/internal/gateway/service/form"
	"riskprotocol/internal/llm"
)

func TestBroadcast_DeliversInChangeOrder(t *testing.T) {
	svc := form.New(llm.NewFakeClient(), &stubDrive{}, "111")
	h := NewEventsHandler(svc)
	svc.SetNotify(h.Broadcast)

	sub := h.subscribe()
	defer h.unsubscribe(sub)

	rec, err := svc.Submit(context.Background(), "relato")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := svc.Delete(rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var counts []int
drain:
	for {
		select {
		case p := <-sub:
			counts = append(counts, len(p.Snapshot.Records))
		default:
			break drain
		}
	}
	// submit broadcasts twice (submitting, then the new record), delete once.
	want := []int{0, 1, 0}
	if len(counts) != len(want) {
		t.Fatalf("expected %d payloads, got %v", len(want), counts)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("payloads out of change order: got %v, want %v", counts, want)
		}
	}
	if last := counts[len(counts)-1]; last != 0 {
		t.Fatalf("client left on a stale snapshot with %d records", last)
	}
}

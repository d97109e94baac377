package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestNullableUUIDUnmarshal(t *testing.T) {
	type payload struct {
		ID NullableUUID `json:"id"`
	}

	var got payload
	if err := json.Unmarshal([]byte(`{"id": "00000000-0000-0000-0000-000000000001"}`), &got); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if !got.ID.Set || got.ID.Value == nil {
		t.Fatalf("expected set uuid, got %v", got.ID)
	}
	if got.ID.Value.String() != "00000000-0000-0000-0000-000000000001" {
		t.Fatalf("unexpected uuid %s", got.ID.Value)
	}

	got = payload{}
	if err := json.Unmarshal([]byte(`{"id": null}`), &got); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !got.ID.Set || got.ID.Value != nil {
		t.Fatalf("expected null to be set but nil, got %v", got.ID)
	}

	got = payload{}
	if err := json.Unmarshal([]byte(`{}`), &got); err != nil {
		t.Fatalf("unmarshal missing: %v", err)
	}
	if got.ID.Set {
		t.Fatalf("expected unset flag for missing field, got %+v", got.ID)
	}

	if err := json.Unmarshal([]byte(`{"id": "nope"}`), &got); err == nil {
		t.Fatalf("expected malformed uuid to fail")
	}
}

func TestNullableApply(t *testing.T) {
	current := uuid.New()
	dst := &current

	Nullable[uuid.UUID]{}.Apply(&dst)
	if dst == nil || *dst != current {
		t.Fatalf("unset value must leave destination untouched")
	}

	next := uuid.New()
	Of(next).Apply(&dst)
	if dst == nil || *dst != next {
		t.Fatalf("expected destination %s, got %v", next, dst)
	}

	Null[uuid.UUID]().Apply(&dst)
	if dst != nil {
		t.Fatalf("expected null to clear destination")
	}
}

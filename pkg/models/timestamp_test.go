package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want time.Time
	}{
		{"naive with micros", `"2025-10-01T12:00:00.123456"`, time.Date(2025, 10, 1, 12, 0, 0, 123456000, time.UTC)},
		{"naive seconds", `"2025-10-01T12:00:00"`, time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)},
		{"naive space separated", `"2025-10-01 12:00:00.5"`, time.Date(2025, 10, 1, 12, 0, 0, 500000000, time.UTC)},
		{"utc", `"2025-10-01T12:00:00Z"`, time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)},
		{"offset", `"2025-10-01T14:00:00+02:00"`, time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)},
		{"empty", `""`, time.Time{}},
		{"null", `null`, time.Time{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tc.in), &ts); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.in, err)
			}
			if !ts.Equal(tc.want) {
				t.Fatalf("expected %s got %s", tc.want, ts.Time)
			}
		})
	}
}

func TestTimestampRejectsGarbage(t *testing.T) {
	for _, in := range []string{`"yesterday"`, `1696161600`, `"2025-13-01T00:00:00"`} {
		var ts Timestamp
		if err := json.Unmarshal([]byte(in), &ts); err == nil {
			t.Fatalf("expected error for %s", in)
		}
	}
}

func TestTimestampMarshalsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	out, err := json.Marshal(struct {
		At    Timestamp  `json:"at"`
		Zero  Timestamp  `json:"zero"`
		Unset *Timestamp `json:"unset"`
	}{At: At(time.Date(2025, 10, 1, 14, 0, 0, 0, loc))})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"at":"2025-10-01T12:00:00Z","zero":null,"unset":null}`
	if string(out) != want {
		t.Fatalf("expected %s got %s", want, out)
	}
}

func TestCustomerOrderDecodesNaiveTimestamps(t *testing.T) {
	raw := `{"id":3,"customer_id":1,"customer_name":"Ana Diaz","employee_id":null,"employee_username":null,
		"status":"pending","total_amount":22.97,"notes":null,"items":[],
		"created_at":"2025-10-01T12:00:00.123456","updated_at":null,"completed_at":null}`
	var order CustomerOrder
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if order.CreatedAt.Location() != time.UTC || order.CreatedAt.Nanosecond() != 123456000 {
		t.Fatalf("unexpected created_at %s", order.CreatedAt.Time)
	}
	if order.UpdatedAt != nil || order.CompletedAt != nil {
		t.Fatalf("expected nil optional timestamps, got %+v %+v", order.UpdatedAt, order.CompletedAt)
	}
}

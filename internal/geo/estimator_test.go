package geo

import (
	"context"
	"encoding/json"
	"math"
	"testing"
)

func TestEstimateKmWithCoordinates(t *testing.T) {
	// Seoul city hall to Busan city hall, roughly 325 km great-circle.
	origin := json.RawMessage(`{"address":"서울 중구 세종대로 110","lat":37.5663,"lng":126.9779}`)
	dest := json.RawMessage(`{"address":"부산 연제구 중앙대로 1001","lat":35.1798,"lng":129.0750}`)

	est := NewStaticEstimator(10)
	km, err := est.EstimateKm(context.Background(), origin, dest)
	if err != nil {
		t.Fatalf("EstimateKm: %v", err)
	}
	if math.Abs(km-325) > 10 {
		t.Errorf("got %.1f km, want about 325 km", km)
	}
}

func TestEstimateKmFallsBackWithoutCoordinates(t *testing.T) {
	tests := []struct {
		name   string
		origin json.RawMessage
		dest   json.RawMessage
	}{
		{"no coordinates", json.RawMessage(`{"address":"서울 강남구"}`), json.RawMessage(`{"address":"서울 송파구"}`)},
		{"one side only", json.RawMessage(`{"address":"a","lat":37.5,"lng":127.0}`), json.RawMessage(`{"address":"b"}`)},
		{"empty payloads", nil, nil},
		{"malformed json", json.RawMessage(`{`), json.RawMessage(`{}`)},
	}

	est := NewStaticEstimator(12.5)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			km, err := est.EstimateKm(context.Background(), tt.origin, tt.dest)
			if err != nil {
				t.Fatalf("EstimateKm: %v", err)
			}
			if km != 12.5 {
				t.Errorf("got %v, want fallback 12.5", km)
			}
		})
	}
}

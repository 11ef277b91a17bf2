package exam

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		wantDays []string
		wantErr  bool
	}{
		{
			name:     "single day",
			start:    "20251206",
			end:      "20251206",
			wantDays: []string{"20251206"},
		},
		{
			name:     "crosses month and year",
			start:    "20251230",
			end:      "20260102",
			wantDays: []string{"20251230", "20251231", "20260101", "20260102"},
		},
		{
			name:    "end before start",
			start:   "20251212",
			end:     "20251206",
			wantErr: true,
		},
		{
			name:    "malformed start",
			start:   "2025-12-06",
			end:     "20251206",
			wantErr: true,
		},
		{
			name:    "malformed end",
			start:   "20251206",
			end:     "Dec 12",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateRange(tt.start, tt.end)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseDateRange() expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidDateRange) {
					t.Errorf("ParseDateRange() error = %v, want ErrInvalidDateRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateRange() unexpected error: %v", err)
			}

			if days := got.Days(); !reflect.DeepEqual(days, tt.wantDays) {
				t.Errorf("Days() = %v, want %v", days, tt.wantDays)
			}
			if got.Len() != len(tt.wantDays) {
				t.Errorf("Len() = %d, want %d", got.Len(), len(tt.wantDays))
			}
		})
	}
}

func TestDateRange_String(t *testing.T) {
	r, err := ParseDateRange("20251206", "20251212")
	if err != nil {
		t.Fatal(err)
	}
	if got := r.String(); got != "20251206-20251212" {
		t.Errorf("String() = %q", got)
	}
}

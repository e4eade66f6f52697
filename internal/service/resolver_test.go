package service

import (
	"testing"

	"github.com/bigkaa/profilestore/internal/domain/model"
)

// TestResolveCurrent проверяет выбор текущей ревизии по level.
func TestResolveCurrent(t *testing.T) {
	tests := []struct {
		name      string
		revisions []model.Detail
		wantRFIDs map[string]string // rfid → ожидаемый bio
	}{
		{
			name:      "пустой вход",
			revisions: nil,
			wantRFIDs: map[string]string{},
		},
		{
			name: "непубличные исключаются",
			revisions: []model.Detail{
				{RFID: "A1", Level: model.NumberValue(9), Bio: "hidden"},
				{RFID: "B2", Level: model.NumberValue(1), Bio: "b", Public: true},
			},
			wantRFIDs: map[string]string{"B2": "b"},
		},
		{
			name: "больший level заменяет",
			revisions: []model.Detail{
				{RFID: "A1", Level: model.NumberValue(1), Bio: "first", Public: true},
				{RFID: "A1", Level: model.NumberValue(2), Bio: "second", Public: true},
			},
			wantRFIDs: map[string]string{"A1": "second"},
		},
		{
			name: "при равенстве остаётся первая",
			revisions: []model.Detail{
				{RFID: "A1", Level: model.StringValue("3"), Bio: "first", Public: true},
				{RFID: "A1", Level: model.NumberValue(3), Bio: "second", Public: true},
			},
			wantRFIDs: map[string]string{"A1": "first"},
		},
		{
			name: "числовое сравнение строк",
			revisions: []model.Detail{
				{RFID: "A1", Level: model.StringValue("9"), Bio: "nine", Public: true},
				{RFID: "A1", Level: model.StringValue("10"), Bio: "ten", Public: true},
			},
			wantRFIDs: map[string]string{"A1": "ten"},
		},
		{
			name: "первая принимается без level",
			revisions: []model.Detail{
				{RFID: "A1", Bio: "no level", Public: true},
				{RFID: "A1", Level: model.StringValue("x"), Bio: "text level", Public: true},
			},
			wantRFIDs: map[string]string{"A1": "no level"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveCurrent(tt.revisions)

			if len(got) != len(tt.wantRFIDs) {
				t.Fatalf("ожидалось %d RFID, получено %d: %+v", len(tt.wantRFIDs), len(got), got)
			}
			for rfid, bio := range tt.wantRFIDs {
				d, ok := got[rfid]
				if !ok {
					t.Fatalf("RFID %s отсутствует в результате", rfid)
				}
				if d.Bio != bio {
					t.Errorf("RFID %s: bio = %q, ожидался %q", rfid, d.Bio, bio)
				}
				if !d.Public {
					t.Errorf("RFID %s: выбрана непубличная ревизия", rfid)
				}
			}
		})
	}
}

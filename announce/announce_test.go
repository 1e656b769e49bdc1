package announce

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/angas/spotslots-go/slots"
	"github.com/angas/spotslots-go/types"
)

func TestNewAnnouncementRoundsCosts(t *testing.T) {
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	found := []slots.Slot{
		{
			Rank:         1,
			Start:        start,
			End:          start.Add(time.Hour),
			TotalCost:    1.23456789,
			AveragePrice: 0.308641972,
		},
		{
			Rank:         2,
			Start:        start.Add(2 * time.Hour),
			End:          start.Add(3 * time.Hour),
			TotalCost:    2.0061,
			AveragePrice: 0.5015,
		},
	}

	msg := newAnnouncement(types.ZoneSE3, found, start)

	if msg.Zone != types.ZoneSE3 || !msg.GeneratedAt.Equal(start) {
		t.Errorf("got zone=%s generatedAt=%v", msg.Zone, msg.GeneratedAt)
	}
	if len(msg.Slots) != 2 {
		t.Fatalf("got %d slots, wanted 2", len(msg.Slots))
	}
	if msg.Slots[0].TotalCost != 1.23 || msg.Slots[0].AveragePrice != 0.31 {
		t.Errorf("slot 1 not rounded to two decimals: %+v", msg.Slots[0])
	}
	if msg.Slots[1].TotalCost != 2.01 {
		t.Errorf("slot 2 total not rounded to two decimals: %+v", msg.Slots[1])
	}
	if msg.Slots[0].Rank != 1 || msg.Slots[1].Rank != 2 {
		t.Errorf("ranks not preserved: %+v", msg.Slots)
	}
}

func TestAnnouncementPayloadShape(t *testing.T) {
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	msg := newAnnouncement(types.ZoneSE1, []slots.Slot{
		{Rank: 1, Start: start, End: start.Add(15 * time.Minute), TotalCost: 0.5, AveragePrice: 0.5},
	}, start)

	payload, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshalling announcement: %v", err)
	}
	for _, key := range []string{`"zone":"SE1"`, `"generatedAt"`, `"rank":1`, `"totalCost"`, `"averagePrice"`} {
		if !strings.Contains(string(payload), key) {
			t.Errorf("payload missing %s: %s", key, payload)
		}
	}
}

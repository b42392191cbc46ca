package rescore

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/motorlist/eventbrite-harvester/internal/core/domain"
)

type providerFunc func(ctx context.Context, ev domain.RawEvent) (string, error)

func (f providerFunc) FetchDescription(ctx context.Context, ev domain.RawEvent) (string, error) {
	return f(ctx, ev)
}

func TestRescorer_Rescore(t *testing.T) {
	white := []string{"car"}
	black := []string{"boat"}

	tests := []struct {
		name        string
		description string
		promoted    bool
	}{
		{
			name:        "promotes above threshold",
			description: "car car car car",
			promoted:    true,
		},
		{
			name:        "promotes at threshold",
			description: "car car car",
			promoted:    true,
		},
		{
			name:        "one below threshold stays grey",
			description: "car car",
			promoted:    false,
		},
		{
			name:        "tie with black stays grey",
			description: "car car car boat boat boat",
			promoted:    false,
		},
		{
			name:        "black dominates stays grey",
			description: "car car car car boat boat boat boat boat",
			promoted:    false,
		},
		{
			name:        "uppercase description is folded",
			description: "CAR CAR CAR",
			promoted:    true,
		},
		{
			name:        "empty description stays grey",
			description: "",
			promoted:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := providerFunc(func(_ context.Context, _ domain.RawEvent) (string, error) {
				return tt.description, nil
			})

			logger := zerolog.Nop()
			r := New(provider, white, black, 3, 2, &logger)

			res := r.Rescore(context.Background(), []domain.RawEvent{{ID: "e1", Name: "Undecided"}})

			if got := len(res.Promoted) == 1; got != tt.promoted {
				t.Errorf("promoted = %v, want %v", got, tt.promoted)
			}

			if len(res.Promoted)+len(res.Grey) != 1 {
				t.Errorf("partition lost events: promoted %d, grey %d", len(res.Promoted), len(res.Grey))
			}

			if len(res.FetchErrors) != 0 {
				t.Errorf("FetchErrors = %v, want none", res.FetchErrors)
			}
		})
	}
}

func TestRescorer_Rescore_PartitionOrder(t *testing.T) {
	descriptions := map[string]string{
		"e1": "car car car",
		"e2": "quiet morning meetup",
		"e3": "car car car car",
	}

	provider := providerFunc(func(_ context.Context, ev domain.RawEvent) (string, error) {
		desc, ok := descriptions[ev.ID]
		if !ok {
			return "", errors.New("fetch failed")
		}

		return desc, nil
	})

	logger := zerolog.Nop()
	r := New(provider, []string{"car"}, []string{"boat"}, 3, 2, &logger)

	events := []domain.RawEvent{{ID: "e1"}, {ID: "e2"}, {ID: "e3"}, {ID: "e4"}}
	res := r.Rescore(context.Background(), events)

	assertIDs(t, "Promoted", res.Promoted, []string{"e1", "e3"})
	assertIDs(t, "Grey", res.Grey, []string{"e2", "e4"})

	if len(res.FetchErrors) != 1 {
		t.Fatalf("FetchErrors = %v, want one entry", res.FetchErrors)
	}

	if _, ok := res.FetchErrors["e4"]; !ok {
		t.Errorf("FetchErrors missing entry for e4: %v", res.FetchErrors)
	}
}

func TestRescorer_Rescore_CancelledContext(t *testing.T) {
	provider := providerFunc(func(_ context.Context, _ domain.RawEvent) (string, error) {
		return "car car car", nil
	})

	logger := zerolog.Nop()
	r := New(provider, []string{"car"}, []string{"boat"}, 3, 2, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := []domain.RawEvent{{ID: "e1"}, {ID: "e2"}}
	res := r.Rescore(ctx, events)

	if len(res.Promoted) != 0 {
		t.Errorf("Promoted = %v, want none after cancellation", res.Promoted)
	}

	assertIDs(t, "Grey", res.Grey, []string{"e1", "e2"})

	for _, id := range []string{"e1", "e2"} {
		if !errors.Is(res.FetchErrors[id], context.Canceled) {
			t.Errorf("FetchErrors[%s] = %v, want context.Canceled", id, res.FetchErrors[id])
		}
	}
}

func TestRescorer_Rescore_Empty(t *testing.T) {
	provider := providerFunc(func(_ context.Context, _ domain.RawEvent) (string, error) {
		t.Error("provider must not be called for empty input")
		return "", nil
	})

	logger := zerolog.Nop()
	r := New(provider, []string{"car"}, []string{"boat"}, 3, 2, &logger)

	res := r.Rescore(context.Background(), nil)

	if len(res.Promoted) != 0 || len(res.Grey) != 0 || len(res.FetchErrors) != 0 {
		t.Errorf("Rescore() = %+v, want empty result", res)
	}
}

func assertIDs(t *testing.T, label string, events []domain.RawEvent, want []string) {
	t.Helper()

	if len(events) != len(want) {
		t.Fatalf("%s has %d events, want %d", label, len(events), len(want))
	}

	for i, ev := range events {
		if ev.ID != want[i] {
			t.Errorf("%s[%d] = %s, want %s", label, i, ev.ID, want[i])
		}
	}
}

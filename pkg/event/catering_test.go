package event

import "testing"

func TestTopicFor(t *testing.T) {
	tests := []struct {
		aggregate string
		want      string
	}{
		{aggregate: "menu", want: MenusTopic},
		{aggregate: "recipe", want: RecipesTopic},
		{aggregate: "event", want: EventsTopic},
		{aggregate: "client", want: ClientsTopic},
		{aggregate: "invoice", want: "catering.invoices"},
	}

	for _, tt := range tests {
		t.Run(tt.aggregate, func(t *testing.T) {
			if got := TopicFor(tt.aggregate); got != tt.want {
				t.Errorf("TopicFor(%q) = %q, want %q", tt.aggregate, got, tt.want)
			}
		})
	}
}

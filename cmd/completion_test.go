package cmd

import (
	"slices"
	"testing"
)

func TestCompletion(t *testing.T) {
	c := Completion()

	for _, name := range []string{"buy", "sell", "import", "log", "summary", "history", "watch", "live"} {
		if _, ok := c.Sub[name]; !ok {
			t.Errorf("no completion for %q", name)
		}
	}
	for _, name := range []string{"ledger-file", "store", "cost-basis", "coingecko-api-key"} {
		if _, ok := c.Flags[name]; !ok {
			t.Errorf("no completion for global flag -%s", name)
		}
	}
	if _, ok := c.Sub["buy"].Flags["a"]; !ok {
		t.Errorf("no completion for buy -a")
	}

	got := c.Flags["cost-basis"].Predict("")
	slices.Sort(got)
	if want := []string{"buys", "gross", "net"}; !slices.Equal(got, want) {
		t.Errorf("cost-basis predicts %v, want %v", got, want)
	}
	if got := c.Sub["live"].Flags["closed"].Predict(""); len(got) != 0 {
		t.Errorf("bool flag -closed expects a value")
	}
}

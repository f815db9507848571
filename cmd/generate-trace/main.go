package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/pstuifzand/renderwatch/internal/model"
	"github.com/pstuifzand/renderwatch/internal/storage"
)

func main() {
	instances := flag.Int("instances", 3, "Number of tracked instances")
	renders := flag.Int("renders", 20, "Invocations per instance")
	output := flag.String("output", "trace-%Y%m%d-%H%M%S.jsonl", "Output file path (strftime patterns allowed)")
	bundleURL := flag.String("bundle", "", "Bundle URL to put in stack frames, e.g. http://localhost:3000/static/js/bundle.js")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	if *instances < 1 || *renders < 1 {
		fmt.Fprintf(os.Stderr, "instances and renders must be at least 1\n")
		os.Exit(1)
	}

	path := strftime.Format(*output, time.Now())
	invocations := generateTrace(*instances, *renders, *bundleURL, rand.New(rand.NewSource(*seed)))

	if err := storage.NewTraceFile(path).Save(invocations); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write trace: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %d invocations\n", len(invocations))
	fmt.Printf("Saved to: %s\n", path)
}

var components = []string{"App", "TodoList", "TodoItem", "Header", "Footer", "FilterBar"}

// generateTrace interleaves renders of several instances. Each render
// either repeats the previous data, changes a value, adds a key or drops
// one, so a replay shows every change kind a trace can produce.
func generateTrace(instances, renders int, bundleURL string, rng *rand.Rand) []model.Invocation {
	type instance struct {
		id        string
		component string
		props     *model.Block
		state     *model.Block
	}

	live := make([]*instance, instances)
	for i := range live {
		component := components[i%len(components)]
		live[i] = &instance{
			id:        fmt.Sprintf("%s-%d", component, i+1),
			component: component,
			props:     model.BlockOf("id", i+1, "title", component),
			state:     model.BlockOf("open", false),
		}
	}

	var out []model.Invocation
	for r := 0; r < renders; r++ {
		for _, inst := range live {
			if r > 0 {
				mutate(inst.props, inst.state, r, rng)
			}

			inv := model.Invocation{
				Instance:  inst.id,
				Component: inst.component,
				Observed:  model.NewRecord(inst.props.Clone(), inst.state.Clone()),
			}
			if r%5 == 4 {
				inv.Details = "effect"
			}
			if bundleURL != "" {
				inv.Frame = fmt.Sprintf("%s@%s:%d:%d", inst.component, bundleURL, 10+rng.Intn(200), 1+rng.Intn(40))
			}
			out = append(out, inv)
		}
	}
	return out
}

func mutate(props, state *model.Block, render int, rng *rand.Rand) {
	switch rng.Intn(5) {
	case 0:
		// unchanged
	case 1:
		props.Set("title", fmt.Sprintf("title %d", render))
	case 2:
		open, _ := state.Get("open")
		state.Set("open", open != true)
	case 3:
		props.Set(fmt.Sprintf("extra%d", render), render)
	case 4:
		for _, key := range props.Keys() {
			if key != "id" && key != "title" {
				props.Delete(key)
				return
			}
		}
		props.Set("selected", rng.Intn(2) == 0)
	}
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"resume-builder/internal/domain"
	"resume-builder/internal/render"
	infra "resume-builder/pkg/infrastructure"
)

// Renders a profile JSON file through one or all layouts, including
// layouts that are defined but not offered by the server.
func main() {
	in := flag.String("profile", "profile.json", "profile JSON file")
	layout := flag.Int("layout", 0, "layout id; 0 renders every defined layout")
	out := flag.String("out", "preview", "output directory")
	chrome := flag.String("chrome", "", "chrome executable path")
	assets := flag.String("assets", "assets", "assets directory")
	flag.Parse()

	b, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read profile: %v\n", err)
		os.Exit(2)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal: %v\n", err)
		os.Exit(2)
	}
	profile := domain.Normalize(m)

	ids := []int{*layout}
	if *layout == 0 {
		ids = ids[:0]
		for id := 1; ; id++ {
			if _, ok := render.Definition(id); !ok {
				break
			}
			ids = append(ids, id)
		}
	}

	r, err := render.NewRenderer(infra.NewChromedpRenderer(*chrome, 0), render.NewRegistry(ids...), *out,
		render.Assets{Dir: *assets, Logo: "logo.png", Bullet: "BP.jpeg"}, render.WithRetry(1, 0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "renderer: %v\n", err)
		os.Exit(2)
	}

	ctx := context.Background()
	for _, id := range ids {
		res, err := r.RenderResume(ctx, profile, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "layout %d: %v\n", id, err)
			continue
		}
		// every layout writes the same file name, so keep each one
		dst := fmt.Sprintf("%s.layout%d.pdf", res.Path, id)
		if err := os.Rename(res.Path, dst); err != nil {
			fmt.Fprintf(os.Stderr, "layout %d: %v\n", id, err)
			continue
		}
		fmt.Printf("layout %d (fell back: %v): wrote %s\n", res.TemplateUsed, res.FellBack, dst)
	}
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resume-builder/internal/adapter/repository"
	"resume-builder/internal/render"
	"resume-builder/internal/usecase"
	"resume-builder/pkg/ai"
	"resume-builder/pkg/infrastructure"
)

// startMockAI serves canned answers on the ai-service chat endpoint,
// picked by what the system instruction asks for.
func startMockAI(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]interface{}
		_ = json.Unmarshal(body, &req)
		system, _ := req["system"].(string)

		var output string
		switch {
		case strings.Contains(system, "extracting structured information"):
			output = mustMarshal(map[string]interface{}{
				"name": "", "designation": "", "objective": "",
				"education": []string{}, "skills": []string{}, "project_details": map[string]interface{}{},
			})
		case strings.Contains(system, "reformats resumes"):
			// fenced on purpose so the repair path runs
			output = "```json\n" + mustMarshal(map[string]interface{}{
				"name":        "Test User",
				"designation": "Backend Engineer",
				"objective":   "Engineer focused on reliable data pipelines.",
				"education":   []string{"BSc Computer Science, State University, 2015"},
				"skills":      map[string]interface{}{"Languages": []string{"Go", "SQL"}, "Infra": []string{"Postgres", "Kafka"}},
				"project_details": map[string]interface{}{
					"project1": map[string]interface{}{
						"name": "Ingest", "role": "Lead", "description": "Real-time ingestion pipeline.",
						"technology": "Go, Kafka", "role_played": "Designed the consumer groups.",
					},
				},
			}) + "\n```"
		default:
			output = "Dear Hiring Manager,\n\nI am writing to apply for the Backend Engineer role.\n\nSincerely,\nTest User"
		}

		b, _ := json.Marshal(map[string]interface{}{"agent": "mock", "output": output})
		w.Header().Set("Content-Type", "application/json")
		w.Write(b)
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("mock ai server failed: %v", err)
		}
	}()
	return srv
}

func mustMarshal(v interface{}) string { b, _ := json.Marshal(v); return string(b) }

func main() {
	addr := flag.String("ai", "127.0.0.1:8000", "mock ai-service listen address")
	out := flag.String("out", "output", "output directory")
	chrome := flag.String("chrome", "", "chrome executable path")
	flag.Parse()

	srv := startMockAI(*addr)
	defer srv.Shutdown(context.Background())

	work, err := os.MkdirTemp("", "smoke-")
	if err != nil {
		log.Fatalf("temp dir: %v", err)
	}
	defer os.RemoveAll(work)
	templatePath := filepath.Join(work, "template.txt")
	resumePath := filepath.Join(work, "old_resume.txt")
	_ = os.WriteFile(templatePath, []byte("Name\nDesignation\nObjective\nEducation\nSkills\nProjects"), 0o644)
	_ = os.WriteFile(resumePath, []byte("Test User\nBackend Engineer at Acme"), 0o644)

	gen := ai.NewServiceClient("http://"+*addr, 30*time.Second)
	renderer, err := render.NewRenderer(infrastructure.NewChromedpRenderer(*chrome, 0), render.DefaultRegistry(), *out, render.Assets{})
	if err != nil {
		log.Fatalf("renderer: %v", err)
	}

	processor := usecase.NewProcessor(usecase.Deps{
		Extractor:   infrastructure.NewDocumentExtractor(),
		Loader:      infrastructure.NewSkillMatrixLoader(),
		Skills:      usecase.NewSkillMatrixStore(nil),
		Schema:      usecase.NewSchemaExtractor(gen, "", 30*time.Second),
		Composer:    usecase.NewProfileComposer(gen, "", 30*time.Second),
		CoverLetter: usecase.NewCoverLetterComposer(gen, "", 30*time.Second),
		Documents:   renderer,
		Runs:        repository.NewRunsRepo(nil),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tpl := 3
	res, err := processor.Generate(ctx, usecase.GenerateRequest{
		TemplatePath:  templatePath,
		OldResumePath: resumePath,
		TemplateID:    &tpl,
	})
	if err != nil {
		fmt.Printf("Generate failed: %v\n", err)
		return
	}

	b, _ := json.MarshalIndent(res, "", "  ")
	fmt.Printf("Generate completed:\n%s\n", b)
}

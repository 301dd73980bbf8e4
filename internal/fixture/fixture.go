// Package fixture serves a stand-in for the fridge app's /test-fridge-list
// page: mock storage locations, the add modal, and the duplicate-name alert.
package fixture

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// DuplicateMessage is the alert text shown when a name already exists.
const DuplicateMessage = "이미 존재하는 이름입니다. 다른 이름을 입력해주세요."

// Fridge is one storage location on the list page.
type Fridge struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// DefaultFridges mirrors the mock data of the app's test page.
func DefaultFridges() []Fridge {
	return []Fridge{
		{ID: "1", Name: "Main Fridge", Type: "fridge"},
		{ID: "2", Name: "Kimchi Fridge", Type: "kimchi"},
		{ID: "3", Name: "Freezer", Type: "freezer"},
		{ID: "4", Name: "Pantry", Type: "pantry"},
	}
}

// Options controls fixture behavior.
type Options struct {
	Fridges []Fridge

	// AlertOnAdd makes a successful add raise an alert, like the app's mock context does.
	AlertOnAdd bool
	// SkipDuplicateCheck simulates a regression where duplicates are silently accepted.
	SkipDuplicateCheck bool
	// HangingRequest keeps one fetch open so the page never reaches network idle.
	HangingRequest bool

	// HangLimit caps how long the hanging request is held. Zero means 30s.
	HangLimit time.Duration
	Logger    *slog.Logger
}

type pageData struct {
	Fridges            []Fridge
	AlertOnAdd         bool
	SkipDuplicateCheck bool
	HangingRequest     bool
	DuplicateMessage   string
}

var pageTmpl = template.Must(template.New("fridges").Parse(pageHTML))

// Handler returns the fixture routes.
func Handler(opts Options) http.Handler {
	if opts.Fridges == nil {
		opts.Fridges = DefaultFridges()
	}
	if opts.HangLimit <= 0 {
		opts.HangLimit = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/test-fridge-list", func(w http.ResponseWriter, req *http.Request) {
		data := pageData{
			Fridges:            opts.Fridges,
			AlertOnAdd:         opts.AlertOnAdd,
			SkipDuplicateCheck: opts.SkipDuplicateCheck,
			HangingRequest:     opts.HangingRequest,
			DuplicateMessage:   DuplicateMessage,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTmpl.Execute(w, data); err != nil {
			logger.Error("[fixture] Failed to render page", "error", err)
		}
	})

	r.Get("/hang", func(w http.ResponseWriter, req *http.Request) {
		select {
		case <-req.Context().Done():
		case <-time.After(opts.HangLimit):
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

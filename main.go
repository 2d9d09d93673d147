package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// noCacheMiddleware adds cache-busting headers for JS/CSS files
func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Apply no-cache headers to JS and CSS files to prevent stale code
		if strings.HasSuffix(r.URL.Path, ".js") || strings.HasSuffix(r.URL.Path, ".css") {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	var archive *MatchArchive
	if cfg.DBPath != "" {
		var err error
		archive, err = OpenArchive(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open match archive: %v", err)
		}
		defer archive.Close()
	}

	hub := newHub(newChatHistory(cfg.ChatHistoryLimit, cfg.ChatHistoryMaxAge), archive)
	go hub.run()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r)
	})

	// Determine static files directory
	// In Docker: files are in /app
	// In development: files are in the parent directory
	staticDir := cfg.StaticDir
	if _, err := os.Stat("/app/index.html"); err == nil {
		staticDir = "/app"
	}

	// Serve static files with no-cache headers to prevent browser caching issues
	fs := http.FileServer(http.Dir(staticDir))
	http.Handle("/", noCacheMiddleware(fs))

	log.Printf("Server starting on %s", cfg.Addr)
	log.Printf("Serving static files from: %s", staticDir)
	if err := http.ListenAndServe(cfg.Addr, nil); err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}

// cmd/mcp-server/main.go: HTTP tool server for symcalc
//
// Exposes the symcalc operations as JSON tool calls for agent frameworks.
// Expressions travel as text in the same grammar as the CLI.
//
// Usage:
//
//	go run ./cmd/mcp-server -port 8080
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/njchilds90/symcalc"
	"github.com/njchilds90/symcalc/internal/logger"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func newMux(log *logger.ConsoleLogger) *http.ServeMux {
	mux := http.NewServeMux()

	// POST /tool: handle a tool call
	mux.HandleFunc("/tool", func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.LogError(fmt.Sprintf("panic in /tool: %v\n%s", rec, string(debug.Stack())))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		defer r.Body.Close()

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req symcalc.ToolRequest
		if err := dec.Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		// Ensure there's no trailing junk.
		if dec.More() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
			return
		}

		start := time.Now()
		resp := symcalc.HandleToolCall(req)
		log.Debugf("tool %s in %s", req.Tool, time.Since(start))
		if resp.Error != "" {
			log.LogWarn(fmt.Sprintf("tool %s failed: %s", req.Tool, resp.Error))
		}
		writeJSON(w, http.StatusOK, resp)
	})

	// GET /schema: return tool schema for agent registration
	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, symcalc.MCPToolSpec())
	})

	// GET /health: liveness check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	level := flag.String("log-level", "info", "log level: trace, debug, info, warn, error")
	flag.Parse()

	log := logger.NewConsoleLogger(os.Stderr, *level)

	addr := fmt.Sprintf(":%d", *port)
	log.LogInfo(fmt.Sprintf("symcalc MCP server listening on %s", addr))
	log.LogInfo("  POST /tool  : execute a tool call")
	log.LogInfo("  GET  /schema: tool schema for agent registration")
	log.LogInfo("  GET  /health: health check")

	srv := &http.Server{
		Addr:              addr,
		Handler:           newMux(log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.LogError(err.Error())
		os.Exit(1)
	}
}

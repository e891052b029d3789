package main

import (
	"errors"
	"flag"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/highscore"
)

var page = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Swarm Invaders</title>
<style>
body { background: #0a0a0a; color: #fff; font-family: monospace; text-align: center; padding-top: 10vh; }
h1 { color: #a855f7; letter-spacing: .4em; }
code { background: #1f1f1f; color: #ffd700; padding: .6em 1em; border-radius: 4px; font-size: 1.2em; }
.muted { color: #9ca3af; }
</style>
</head>
<body>
<h1>SWARM INVADERS</h1>
<p>Play in your terminal:</p>
<p><code>ssh -t -p {{.Port}} {{.Host}}</code></p>
<p>High score: {{.HighScore}}</p>
<p class="muted">Arrows or WASD to move. Your ship fires on its own.</p>
</body>
</html>
`))

type pageData struct {
	Host      string
	Port      string
	HighScore int
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}
	settingsPath := flag.String("config", config.GetEnv("INVADERS_CONFIG", "invaders.yaml"), "path to the YAML settings file")
	flag.Parse()

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		os.Exit(1)
	}
	logger, closeLog, err := config.NewLogger(settings.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store := highscore.Open(settings.Storage.AppName, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		high, err := store.HighScore()
		if err != nil {
			logger.Warn("failed to read high score", "err", err)
		}
		data := pageData{Host: settings.Web.DisplayHost, Port: settings.SSH.Port, HighScore: high}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := page.Execute(w, data); err != nil {
			logger.Error("render page", "err", err)
		}
	})

	addr := net.JoinHostPort(settings.Web.Host, settings.Web.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("starting web server", "addr", "http://"+addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", "err", err)
	}
}

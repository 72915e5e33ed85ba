package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"rigd/internal/auth"
	"rigd/internal/backend"
	"rigd/internal/common/fsutil"
	"rigd/internal/config"
	"rigd/internal/httpapi"
	"rigd/internal/log"
	"rigd/internal/photos"
	"rigd/internal/stream"
)

func main() {
	// Flags with environment variable defaults
	defaultAddr := ":8080"
	if v := os.Getenv("RIGD_ADDR"); v != "" {
		defaultAddr = v
	}
	addr := flag.String("addr", defaultAddr, "HTTP listen address, e.g. :8080")
	configPath := flag.String("config", "", "Optional config file (.yaml/.json/.toml)")
	photoDir := flag.String("photo-dir", "~/photos", "Directory for captured stills")
	staticDir := flag.String("static-dir", "", "Directory with the operator web UI (optional)")
	logLevel := flag.String("log-level", "", "Log level: debug|info|warn|error")
	flag.Parse()

	var cfg config.Config
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			base := log.Base()
			base.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
		}
		cfg = loaded
	}
	// Explicit flags win over file values; unset fields fall back to flag
	// defaults.
	if cfg.Addr == "" {
		cfg.Addr = *addr
	}
	if cfg.PhotoDir == "" {
		cfg.PhotoDir = *photoDir
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = *staticDir
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "photo-dir":
			cfg.PhotoDir = *photoDir
		case "static-dir":
			cfg.StaticDir = *staticDir
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	log.Configure(log.Config{Level: cfg.LogLevel})
	logger := log.WithComponent("main")

	probeTimeout := 2 * time.Second
	if cfg.ProbeTimeoutMs > 0 {
		probeTimeout = time.Duration(cfg.ProbeTimeoutMs) * time.Millisecond
	}

	hub := stream.NewHub()

	if sdr, err := backend.DetectSDR(cfg.SDRBin); err != nil {
		logger.Warn().Msg("no SDR capture tool detected, radio source disabled")
		hub.Register(stream.SourceSDR, nil, "")
	} else {
		sup := stream.NewSupervisor(stream.SourceSDR, sdr)
		if !sup.CheckAvailable(context.Background(), probeTimeout) {
			logger.Warn().Str("binary", sdr.Binary()).Msg("SDR startup probe failed, tool may be unusable")
		}
		hub.Register(stream.SourceSDR, stream.NewController(stream.SourceSDR, sup), filepath.Base(sdr.Binary()))
		logger.Info().Str("binary", sdr.Binary()).Msg("SDR backend selected")
	}

	pdir, err := fsutil.ExpandHome(cfg.PhotoDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot resolve photo dir")
	}
	store, err := photos.NewStore(pdir)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create photo store")
	}

	var capturer *photos.Capturer
	if cam, err := backend.DetectCamera(cfg.CameraBin); err != nil {
		logger.Warn().Msg("no camera tool detected, camera source disabled")
		hub.Register(stream.SourceCamera, nil, "")
	} else {
		sup := stream.NewSupervisor(stream.SourceCamera, cam)
		if !sup.CheckAvailable(context.Background(), probeTimeout) {
			logger.Warn().Str("binary", cam.Binary()).Msg("camera startup probe failed, tool may be unusable")
		}
		hub.Register(stream.SourceCamera, stream.NewController(stream.SourceCamera, sup), filepath.Base(cam.Binary()))
		capturer = photos.NewCapturer(cam, store)
		logger.Info().Str("binary", cam.Binary()).Msg("camera backend selected")
	}

	authStore := auth.NewStore(cfg.PasswordHash, time.Duration(cfg.SessionTTLMin)*time.Minute)
	if !authStore.Enabled() {
		logger.Warn().Msg("no password_hash configured, authentication is DISABLED")
	}

	var corsOrigins []string
	if cfg.CORSEnabled {
		corsOrigins = cfg.CORSOrigins
	}
	mux := httpapi.NewMux(httpapi.Deps{
		Hub:         hub,
		Auth:        authStore,
		Photos:      store,
		Capturer:    capturer,
		StaticDir:   cfg.StaticDir,
		StartedAt:   time.Now(),
		CORSOrigins: corsOrigins,
	})
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("photo_dir", pdir).Msg("rigd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	hub.StopAll()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown error")
	}
}

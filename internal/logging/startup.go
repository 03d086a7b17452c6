package logging

import (
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// StartupLogger collects service identity, configuration, storage locations,
// and collaborator toggles, then emits a single structured zerolog event
// summarising the startup state. This makes it easy to understand exactly
// how the server was configured when troubleshooting from logs.
type StartupLogger struct {
	name         string
	initDuration time.Duration

	buckets       map[string]string
	dataFiles     map[string]string
	collaborators map[string]bool
	config        map[string]string
}

// NewStartupLogger creates a StartupLogger for the given service name
// (e.g. "storefront-server").
func NewStartupLogger(name string) *StartupLogger {
	return &StartupLogger{
		name:          name,
		buckets:       make(map[string]string),
		dataFiles:     make(map[string]string),
		collaborators: make(map[string]bool),
		config:        make(map[string]string),
	}
}

// Bucket registers an object storage bucket used by the server.
func (s *StartupLogger) Bucket(label, name string) *StartupLogger {
	s.buckets[label] = name
	return s
}

// DataFile registers a catalog document path owned by the server.
func (s *StartupLogger) DataFile(label, path string) *StartupLogger {
	s.dataFiles[label] = path
	return s
}

// Collaborator registers the availability of an external collaborator
// (e.g. "model", "storage", "deploy", "notification").
func (s *StartupLogger) Collaborator(name string, available bool) *StartupLogger {
	s.collaborators[name] = available
	return s
}

// Config registers a non-sensitive configuration key-value pair.
func (s *StartupLogger) Config(key, value string) *StartupLogger {
	s.config[key] = value
	return s
}

// InitDuration records how long startup wiring took to complete.
func (s *StartupLogger) InitDuration(d time.Duration) *StartupLogger {
	s.initDuration = d
	return s
}

// Log emits a single structured INFO log event with all collected information.
func (s *StartupLogger) Log() {
	evt := log.Info()

	serviceDict := zerolog.Dict().
		Str("name", s.name).
		Str("goVersion", runtime.Version()).
		Str("arch", runtime.GOARCH).
		Str("logLevel", os.Getenv("CRAFTLINK_LOG_LEVEL"))

	evt = evt.Dict("service", serviceDict)

	if len(s.buckets) > 0 {
		evt = evt.Dict("buckets", dictFromMap(s.buckets))
	}
	if len(s.dataFiles) > 0 {
		evt = evt.Dict("dataFiles", dictFromMap(s.dataFiles))
	}
	if len(s.collaborators) > 0 {
		d := zerolog.Dict()
		for k, v := range s.collaborators {
			d = d.Bool(k, v)
		}
		evt = evt.Dict("collaborators", d)
	}
	if len(s.config) > 0 {
		evt = evt.Dict("config", dictFromMap(s.config))
	}
	if s.initDuration > 0 {
		evt = evt.Dur("initDuration", s.initDuration)
	}

	evt.Msg("Server startup complete")
}

// dictFromMap converts a map[string]string into a zerolog.Event (Dict).
func dictFromMap(m map[string]string) *zerolog.Event {
	d := zerolog.Dict()
	for k, v := range m {
		d = d.Str(k, v)
	}
	return d
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/atuleu/meval/internal/prog"
	"github.com/atuleu/meval/internal/telemetry"
)

const (
	title       = "responder"
	defaultName = "Kimi no na wa?"
)

type request struct {
	Params map[string]json.RawMessage `json:"params"`
}

type response struct {
	Title string          `json:"title"`
	Name  json.RawMessage `json:"name"`
}

type program struct {
	logLevel string
}

func (p *program) Name() string  { return "responder" }
func (p *program) Usage() string { return "REQUEST_JSON [CONFIG_JSON]" }

func (p *program) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&p.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
}

func (p *program) Run(fds [3]*os.File, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return prog.BadUsage("want REQUEST_JSON and an optional CONFIG_JSON")
	}
	logger, _ := telemetry.WithRunID(telemetry.NewLogger(fds[2], p.logLevel, "text"))

	var req request
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return prog.BadUsage(fmt.Sprintf("invalid request: %v", err))
	}
	// The configuration is not used, but it must be valid.
	if len(args) == 2 {
		var config interface{}
		if err := json.Unmarshal([]byte(args[1]), &config); err != nil {
			return prog.BadUsage(fmt.Sprintf("invalid config: %v", err))
		}
	}

	resp := respond(req)
	logger.Debug("responding", slog.String("name", string(resp.Name)))
	return json.NewEncoder(fds[1]).Encode(resp)
}

func respond(req request) response {
	resp := response{Title: title}
	if name, ok := req.Params["name"]; ok {
		resp.Name = name
	} else {
		resp.Name, _ = json.Marshal(defaultName)
	}
	return resp
}

// Package mcptools exposes the enclosure calculators and the classifier as
// Model Context Protocol tools.
package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/caraudioevents/subdesigner/internal/logger"
	"github.com/caraudioevents/subdesigner/internal/telemetry"
	"github.com/caraudioevents/subdesigner/pkg/classify"
)

const (
	serverName    = "subdesigner"
	serverVersion = "0.1.0"
)

// NewServer builds an MCP server with every tool registered against engine.
func NewServer(engine *classify.Engine, log *logger.Log) *mcp.Server {
	if engine == nil {
		engine = classify.Default()
	}
	if log == nil {
		log = logger.Get()
	}
	entry := log.WithComponent("mcp")

	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	addTool(server, entry, ConeAreaTool(), ConeAreaHandler())
	addTool(server, entry, PortTuningTool(), PortTuningHandler())
	addTool(server, entry, SealedTool(), SealedHandler())
	addTool(server, entry, WiringTool(), WiringHandler())
	addTool(server, entry, ClassifyTool(), ClassifyHandler(engine))
	addTool(server, entry, ListOrganizationsTool(), ListOrganizationsHandler(engine))

	return server
}

// Run serves the tools over stdio until ctx is cancelled or the client
// disconnects.
func Run(ctx context.Context, engine *classify.Engine, log *logger.Log) error {
	return NewServer(engine, log).Run(ctx, &mcp.StdioTransport{})
}

// addTool registers h behind a span and a debug log line per call.
func addTool[In, Out any](server *mcp.Server, log *logger.Entry, tool *mcp.Tool, h mcp.ToolHandlerFor[In, Out]) {
	name := tool.Name
	mcp.AddTool(server, tool, func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		ctx, span := telemetry.Tracer().Start(ctx, "mcp."+name)
		defer span.End()

		res, out, err := h(ctx, req, in)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.WithError(err).WithFields(logger.Fields{"tool": name}).Debug("tool call rejected")
			return res, out, err
		}
		span.SetAttributes(attribute.String("mcp.tool", name))
		log.WithFields(logger.Fields{"tool": name}).Debug("tool call")
		return res, out, nil
	})
}

// Package main provides the CLI entry point for the chgis-mcp server that connects to the CHGIS Temporal Gazetteer.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/janisz/chgis-mcp/internal/server"
)

const (
	version = "1.0.0"
	appName = "chgis-mcp"
)

// validateAndSetMode validates that only one mode is specified and sets default mode if none is specified.
// fileMode comes from the config file and is used only when no mode flag was given.
func validateAndSetMode(sseMode, httpMode, stdioMode *bool, fileMode string) error {
	modeCount := 0
	if *sseMode {
		modeCount++
	}
	if *httpMode {
		modeCount++
	}
	if *stdioMode {
		modeCount++
	}

	if modeCount > 1 {
		return errors.New("cannot specify multiple modes (-sse, -http, and -stdio are mutually exclusive)")
	}

	if modeCount == 0 {
		switch fileMode {
		case "sse":
			*sseMode = true
		case "http":
			*httpMode = true
		default:
			*stdioMode = true
		}
	}
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", appName)
	fmt.Fprintf(os.Stderr, "%s - CHGIS Historical Gazetteer MCP Server\n\n", appName)
	fmt.Fprintf(os.Stderr, "This server provides access to the China Historical Geographic Information System (CHGIS)\n")
	fmt.Fprintf(os.Stderr, "Temporal Gazetteer through the Model Context Protocol (MCP) interface.\n\n")
	fmt.Fprintf(os.Stderr, "OPTIONS:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nMODES:\n")
	fmt.Fprintf(os.Stderr, "  Default mode is stdio for use with MCP clients\n")
	fmt.Fprintf(os.Stderr, "  SSE mode provides real-time streaming with heartbeat (best for development/testing)\n")
	fmt.Fprintf(os.Stderr, "  HTTP mode is stateless and easier for production hosting with load balancers\n\n")
	fmt.Fprintf(os.Stderr, "CONFIGURATION:\n")
	fmt.Fprintf(os.Stderr, "  -config points to a YAML file with keys base_url, debug, addr and mode\n")
	fmt.Fprintf(os.Stderr, "  %s overrides the file's base_url; -base-url overrides both\n\n", envBaseURL)
	fmt.Fprintf(os.Stderr, "EXAMPLES:\n")
	fmt.Fprintf(os.Stderr, "  %s                    # Start in stdio mode (default)\n", appName)
	fmt.Fprintf(os.Stderr, "  %s -sse               # Start SSE server on :8080\n", appName)
	fmt.Fprintf(os.Stderr, "  %s -http -addr :9000  # Start HTTP server on :9000\n", appName)
	fmt.Fprintf(os.Stderr, "  %s -config chgis.yaml # Load settings from a file\n", appName)
	fmt.Fprintf(os.Stderr, "  %s -debug             # Enable debug logging\n", appName)
	fmt.Fprintf(os.Stderr, "\nLOGGING:\n")
	fmt.Fprintf(os.Stderr, "  Logs are written to stderr in stdio, SSE, and HTTP modes\n")
	fmt.Fprintf(os.Stderr, "  Use -debug for detailed request/response logging\n\n")
}

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		sseMode     = flag.Bool("sse", false, "Start SSE stream server mode (real-time with heartbeat)")
		httpMode    = flag.Bool("http", false, "Start HTTP server mode (stateless, easier for hosting)")
		serverAddr  = flag.String("addr", "", "Server address (used with -sse or -http, default :8080)")
		stdioMode   = flag.Bool("stdio", false, "Use stdio mode (default)")
		debugMode   = flag.Bool("debug", false, "Enable debug logging")
		baseURL     = flag.String("base-url", "", "TGAZ base URL (default http://tgaz.fudan.edu.cn/tgaz)")
		configPath  = flag.String("config", "", "Path to a YAML configuration file")
	)

	flag.Usage = usage
	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("%s version %s\n", appName, version)
		os.Exit(0)
	}

	fileCfg, err := loadFileConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := validateAndSetMode(sseMode, httpMode, stdioMode, fileCfg.Mode); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	addr := *serverAddr
	if addr == "" {
		addr = fileCfg.Addr
	}
	if addr == "" {
		addr = ":8080"
	}

	config := server.Config{
		DebugMode: *debugMode || fileCfg.Debug,
		BaseURL:   resolveBaseURL(*baseURL, fileCfg, os.Getenv),
	}

	chgisServer, err := server.NewChgisServerWithConfig(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *sseMode {
		fmt.Fprintf(os.Stderr, "Starting %s SSE server on %s (debug=%v)\n", appName, addr, config.DebugMode)
		err = chgisServer.RunSSE(addr)
	} else if *httpMode {
		fmt.Fprintf(os.Stderr, "Starting %s HTTP server on %s (debug=%v)\n", appName, addr, config.DebugMode)
		err = chgisServer.RunHTTP(addr)
	} else {
		// stdio mode - don't print startup messages to stderr as it interferes with MCP protocol
		err = chgisServer.RunStdio()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

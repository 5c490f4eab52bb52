package internal

import "io"

// Frontends selectable with WithFrontend.
const (
	FrontendTUI    = "tui"
	FrontendServe  = "serve"
	FrontendMCP    = "mcp"
	FrontendList   = "list"
	FrontendNew    = "new"
	FrontendShow   = "show"
	FrontendSearch = "search"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	frontend string
	args     []string
	output   io.Writer
	version  string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithFrontend selects how the session is presented.
func WithFrontend(name string) Option {
	return func(a *application) {
		a.frontend = name
	}
}

// WithArgs passes positional arguments to one-shot frontends.
func WithArgs(args []string) Option {
	return func(a *application) {
		a.args = args
	}
}

// WithOutput sets where one-shot frontends print their result.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.output = w
	}
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

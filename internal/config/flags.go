package config

import "github.com/spf13/pflag"

// RegisterFlags adds the backend and logging flags shared by every binary.
// Defaults stay empty so unset flags never mask the file or environment.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("google-credentials", "", "path to the service account JSON file")
	fs.String("project", "", "project id (detected from the credentials when empty)")
	fs.String("database", "", "document database id (default database when empty)")
	fs.String("backend", "", "query backend: firebase, snapshot or memory")
	fs.String("storage", "", "object storage driver: gcs or s3")
	fs.String("snapshot", "", "SQLite snapshot file for the snapshot backend")
	fs.String("fixtures", "", "YAML or JSON fixtures file for the memory backend")
	fs.Bool("debug", false, "enable debug logging")
	fs.String("log-format", "", "log format: console or json")
	fs.String("log-level", "", "log level: debug, info, warn or error")
}

// RegisterTransportFlags adds the flags of the MCP server transport
func RegisterTransportFlags(fs *pflag.FlagSet) {
	fs.String("transport", TransportStdio, "transport: stdio or http")
	fs.String("host", "localhost", "HTTP listen host")
	fs.Int("port", 8000, "HTTP listen port")
	fs.Float64("rate-limit", 0, "HTTP requests per second per client, 0 disables")
}

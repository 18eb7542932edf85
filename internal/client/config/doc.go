// Package config loads runtime configuration for the eclinic CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     address:port of the backend gRPC endpoint
//	-n duration   notification lifetime
//	-t duration   per-request timeout
//	-l string     log level
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "notification_ttl": "7s",
//	  "request_timeout": "10s",
//	  "log_level": "info"
//	}
package config

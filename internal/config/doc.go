// Package config loads dropdown.yaml.
//
// Values come from, in increasing precedence: built-in defaults, the config
// file, DROPDOWN_* environment variables (dots become underscores, so
// server.addr is DROPDOWN_SERVER_ADDR) and command-line flags.
//
// Example dropdown.yaml:
//
//	server:
//	  addr: ":8080"
//	  read_timeout: 60s
//	  allowed_origins:
//	    - https://app.example.com
//	dropdown:
//	  hoverable: true
//	log:
//	  level: debug
//	  format: json
package config

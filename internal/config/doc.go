// Package config handles configuration loading for fashiond.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// When no file is present, the same settings are read directly from the
// environment so containerized deployments need nothing but env vars.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from FASHION_CONFIG environment variable
//  2. ./fashiond.yaml (current directory)
//  3. ~/.config/fashiond/config.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${ACCESS_TOKEN_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  addr: ":5000"
//
// Database:
//
//	database:
//	  uri: "${MONGODB_URI}"
//	  name: "sarkerDB"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${ACCESS_TOKEN_SECRET}"
//
// Payments:
//
//	payments:
//	  stripe_secret_key: "${PAYMENT_SECRET_KEY}"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Env-only Fallback
//
// FromEnv() maps PORT, MONGODB_URI, DB_NAME, ACCESS_TOKEN_SECRET and
// PAYMENT_SECRET_KEY onto the same structure.
//
// # Validation
//
// Load() and FromEnv() validate:
//
//   - Mongo URI presence
//   - JWT secret minimum length (32 bytes)
//
// The Stripe secret key is optional; payment-intent creation is disabled
// without it.
package config

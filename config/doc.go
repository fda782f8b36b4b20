// Package config provides configuration loading for permkit services.
//
// It uses Viper to load configuration from YAML files and environment
// variables (with .env support via godotenv), validates the result, and
// bridges the declared permission matrix, overrides, and TTLs into a ready
// permission engine.
//
// # Configuration
//
//	base:
//	  name: "my-service"
//	logging:
//	  level: "info"
//	auth:
//	  secret: "change-me"
//	permissions:
//	  anonymous_class: "GUEST"
//	  matrix:
//	    resourceA:
//	      ADMIN: ADMIN
//	      AUTHENTICATED: VIEW
package config
